package filter

import "strings"

// Builder assembles a parameterized SQL WHERE clause from a Filter,
// conjunction across fields and disjunction within a Set field, so
// no filter value is ever concatenated into SQL text.
type Builder struct {
	clauses []string
	args    []any
}

// NewBuilder starts a Builder for the given filter.
func NewBuilder(f Filter) *Builder {
	b := &Builder{}
	b.apply(f)
	return b
}

func (b *Builder) apply(f Filter) {
	for field, value := range f.Scalar {
		b.clauses = append(b.clauses, field+" = ?")
		b.args = append(b.args, value)
	}
	for field, values := range f.Set {
		if len(values) == 0 {
			continue
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			b.args = append(b.args, v)
		}
		b.clauses = append(b.clauses, field+" IN ("+strings.Join(placeholders, ", ")+")")
	}
}

// WhereSQL returns the clause to append after "WHERE " (or "AND "),
// and the positional argument slice to pass alongside it. An empty
// filter yields an empty string and nil args.
func (b *Builder) WhereSQL() (string, []any) {
	if len(b.clauses) == 0 {
		return "", nil
	}
	return strings.Join(b.clauses, " AND "), b.args
}

// WhereClause prefixes the clause with "WHERE " for direct
// interpolation into a query template, or returns "" when there are
// no constraints.
func (b *Builder) WhereClause() (string, []any) {
	sql, args := b.WhereSQL()
	if sql == "" {
		return "", nil
	}
	return "WHERE " + sql, args
}
