package database

import (
	"strings"
)

// QueryBuilder lets the layout queries be written once with ? placeholders.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build rewrites ? placeholders for the dialect. Quoted literals are not
// special-cased, so queries must not contain a literal '?'.
//
//	input:    "SELECT seed FROM layouts WHERE id = ? AND name = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT seed FROM layouts WHERE id = $1 AND name = $2"
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	for _, part := range strings.SplitAfter(query, "?") {
		if !strings.HasSuffix(part, "?") {
			result.WriteString(part)
			continue
		}
		result.WriteString(part[:len(part)-1])
		result.WriteString(qb.dialect.Placeholder(position))
		position++
	}

	return result.String()
}

// BuildWithReturning is Build plus a RETURNING clause for dialects without
// LastInsertId, so INSERTs can hand back the new layout id.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
