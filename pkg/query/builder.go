// Package query builds parameterized SQL SELECT statements for the domain
// stores. Conditions use deferred placeholder numbering so filters can be
// chained in any order.
package query

import (
	"fmt"
	"strings"
)

type condition struct {
	// clause contains %d verbs, one per arg, replaced with $n at build time
	clause string
	args   []any
}

// Builder accumulates WHERE conditions against a single table.
type Builder struct {
	table   string
	columns string
	wheres  []condition
	orderBy string
}

// NewBuilder creates a Builder selecting the given columns from table.
func NewBuilder(table string, columns ...string) *Builder {
	return &Builder{
		table:   table,
		columns: strings.Join(columns, ", "),
	}
}

// WhereEquals adds an equality condition. No-op when value is nil.
func (b *Builder) WhereEquals(column string, value any) *Builder {
	if value == nil {
		return b
	}
	b.wheres = append(b.wheres, condition{
		clause: column + " = $%d",
		args:   []any{value},
	})
	return b
}

// WhereBetween adds an inclusive range condition.
func (b *Builder) WhereBetween(column string, low, high any) *Builder {
	b.wheres = append(b.wheres, condition{
		clause: column + " BETWEEN $%d AND $%d",
		args:   []any{low, high},
	})
	return b
}

// WhereSince adds a lower-bound condition (column >= value).
func (b *Builder) WhereSince(column string, value any) *Builder {
	b.wheres = append(b.wheres, condition{
		clause: column + " >= $%d",
		args:   []any{value},
	})
	return b
}

// OrderBy sets the ORDER BY clause (column list with directions).
func (b *Builder) OrderBy(clause string) *Builder {
	b.orderBy = clause
	return b
}

// Build returns the SELECT statement with its ordered arguments.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.columns, b.table, where, b.buildOrderBy(),
	), args
}

// BuildCount returns a COUNT(*) statement with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.table, where), args
}

// BuildPage returns the SELECT statement with LIMIT/OFFSET applied.
// Page is 1-indexed.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.buildWhere()
	offset := (page - 1) * pageSize
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.columns, b.table, where, b.buildOrderBy(), pageSize, offset,
	), args
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.wheres) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.wheres))
	args := make([]any, 0, len(b.wheres))
	n := 1

	for _, c := range b.wheres {
		placeholders := make([]any, len(c.args))
		for i := range c.args {
			placeholders[i] = n
			n++
		}
		clauses = append(clauses, fmt.Sprintf(c.clause, placeholders...))
		args = append(args, c.args...)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) buildOrderBy() string {
	if b.orderBy == "" {
		return ""
	}
	return " ORDER BY " + b.orderBy
}
