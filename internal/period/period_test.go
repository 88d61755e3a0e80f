package period

import "testing"

func TestNormalize_Month(t *testing.T) {
	bucket, ok := Normalize("OCT-2017", Month)
	if !ok || bucket != "2017-10" {
		t.Fatalf("got %q, %v; want 2017-10, true", bucket, ok)
	}
}

func TestNormalize_Year(t *testing.T) {
	bucket, ok := Normalize("OCT-2017", Year)
	if !ok || bucket != "2017" {
		t.Fatalf("got %q, %v; want 2017, true", bucket, ok)
	}
}

func TestNormalize_Sentinel(t *testing.T) {
	if _, ok := Normalize("-", Month); ok {
		t.Fatal("expected sentinel to be rejected")
	}
	if _, ok := Normalize("", Month); ok {
		t.Fatal("expected empty string to be rejected")
	}
}

func TestNormalize_Malformed(t *testing.T) {
	cases := []string{"2017-OCT", "OCTOBER-2017", "OCT2017", "XYZ-2017"}
	for _, c := range cases {
		if _, ok := Normalize(c, Month); ok {
			t.Fatalf("expected %q to be rejected", c)
		}
	}
}

func TestNormalize_CaseInsensitiveMonth(t *testing.T) {
	bucket, ok := Normalize("oct-2017", Month)
	if !ok || bucket != "2017-10" {
		t.Fatalf("got %q, %v; want 2017-10, true", bucket, ok)
	}
}

func TestLexicographicOrderingIsSafeAfterNormalization(t *testing.T) {
	a, _ := ToMonth("JAN-2018")
	b, _ := ToMonth("DEC-2017")
	if !(b < a) {
		t.Fatalf("expected %q < %q after normalization", b, a)
	}
}
