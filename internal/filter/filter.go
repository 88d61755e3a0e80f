// Package filter parses the opaque `filters` query parameter into a
// typed sum value instead of passing a raw JSON string down to the
// aggregation layer.
package filter

import (
	"encoding/json"

	"github.com/luarss/cea-live/internal/apperr"
)

// AllowedFields is the closed set of filterable columns.
var AllowedFields = map[string]bool{
	"property_type":    true,
	"transaction_type": true,
	"represented":      true,
	"town":             true,
	"district":         true,
}

// Filter is the parsed form of the `filters` query parameter: each key
// maps to either a single required value (Scalar) or a set of
// alternatives joined by OR (Set). A key never appears in both maps.
type Filter struct {
	Scalar map[string]string
	Set    map[string][]string
}

// Empty reports whether the filter carries no constraints at all —
// the signal PLAN uses to decide fast-path eligibility.
func (f Filter) Empty() bool {
	return len(f.Scalar) == 0 && len(f.Set) == 0
}

// Fields returns every field name referenced in the filter, for
// callers that only need to know which columns are constrained.
func (f Filter) Fields() []string {
	out := make([]string, 0, len(f.Scalar)+len(f.Set))
	for k := range f.Scalar {
		out = append(out, k)
	}
	for k := range f.Set {
		out = append(out, k)
	}
	return out
}

// Parse decodes the raw `filters` parameter. An empty string is a
// valid "no filter" and returns a zero Filter. A non-empty string that
// fails to decode as a JSON object of string or []string values, or
// that references a field outside AllowedFields, is an invalid-argument
// error distinct from "no filter".
func Parse(raw string) (Filter, error) {
	if raw == "" {
		return Filter{}, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Filter{}, apperr.ErrMalformedFilter.WithDetail("raw", raw)
	}

	f := Filter{Scalar: make(map[string]string), Set: make(map[string][]string)}
	for key, value := range decoded {
		if !AllowedFields[key] {
			return Filter{}, apperr.ErrUnknownField.WithDetail("field", key)
		}

		var scalar string
		if err := json.Unmarshal(value, &scalar); err == nil {
			f.Scalar[key] = scalar
			continue
		}

		var set []string
		if err := json.Unmarshal(value, &set); err == nil {
			f.Set[key] = set
			continue
		}

		return Filter{}, apperr.ErrMalformedFilter.WithDetail("field", key)
	}

	if len(f.Scalar) == 0 {
		f.Scalar = nil
	}
	if len(f.Set) == 0 {
		f.Set = nil
	}
	return f, nil
}
