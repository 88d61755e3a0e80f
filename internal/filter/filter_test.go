package filter

import (
	"testing"

	"github.com/luarss/cea-live/internal/apperr"
)

func TestParse_Empty(t *testing.T) {
	f, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Empty() {
		t.Fatalf("expected empty filter, got %+v", f)
	}
}

func TestParse_ScalarAndSet(t *testing.T) {
	f, err := Parse(`{"property_type":"HDB","town":["ANG MO KIO","BEDOK"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Scalar["property_type"] != "HDB" {
		t.Fatalf("expected scalar property_type=HDB, got %+v", f.Scalar)
	}
	if len(f.Set["town"]) != 2 {
		t.Fatalf("expected 2 towns, got %+v", f.Set["town"])
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse("{not json")
	if !apperr.Is(err, apperr.ErrMalformedFilter) {
		t.Fatalf("expected ErrMalformedFilter, got %v", err)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(`{"price":"100"}`)
	if !apperr.Is(err, apperr.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestBuilder_WhereClause(t *testing.T) {
	f, _ := Parse(`{"property_type":"HDB","town":["ANG MO KIO","BEDOK"]}`)
	b := NewBuilder(f)
	sql, args := b.WhereClause()

	if sql == "" {
		t.Fatal("expected non-empty WHERE clause")
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 bound args, got %d: %+v", len(args), args)
	}
}

func TestBuilder_EmptyFilterYieldsNoClause(t *testing.T) {
	b := NewBuilder(Filter{})
	sql, args := b.WhereClause()
	if sql != "" || args != nil {
		t.Fatalf("expected empty clause and nil args, got %q %+v", sql, args)
	}
}
