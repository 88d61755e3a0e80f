// Package period normalizes the dataset's MMM-YYYY transaction_date
// values into the YYYY-MM / YYYY buckets that all chronological
// operations require, since lexicographic ordering of MMM-YYYY does
// not match chronological order.
package period

import "strings"

// Sentinel is the value meaning "date absent" in the source data.
const Sentinel = "-"

// Granularity selects the bucket width for time-series aggregation.
type Granularity string

const (
	Month Granularity = "month"
	Year  Granularity = "year"
)

var monthNumbers = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

// Normalize converts a raw MMM-YYYY transaction_date into a bucket at
// the given granularity. It returns ok=false for the sentinel, empty
// string, or any value that doesn't parse as MMM-YYYY.
func Normalize(raw string, g Granularity) (bucket string, ok bool) {
	if raw == "" || raw == Sentinel {
		return "", false
	}

	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return "", false
	}

	month, ok := monthNumbers[strings.ToUpper(parts[0])]
	if !ok {
		return "", false
	}
	year := parts[1]
	if len(year) != 4 {
		return "", false
	}
	for _, c := range year {
		if c < '0' || c > '9' {
			return "", false
		}
	}

	switch g {
	case Year:
		return year, true
	default:
		return year + "-" + month, true
	}
}

// ToMonth converts MMM-YYYY to YYYY-MM; a convenience wrapper over
// Normalize(raw, Month).
func ToMonth(raw string) (string, bool) { return Normalize(raw, Month) }

// ToYear converts MMM-YYYY to YYYY; a convenience wrapper over
// Normalize(raw, Year).
func ToYear(raw string) (string, bool) { return Normalize(raw, Year) }
