// Package query builds Cloud Spanner statements for the analytics outbox.
package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Builder constructs SELECT and DELETE statements. Every method returns a
// new Builder, so a base builder can be shared between a page query and its
// count query. Parameter names are generated (@p0, @p1, ...).
type Builder struct {
	table   string
	columns []string
	where   []Condition
	orderBy string
	dir     Direction
	limit   int64
	offset  int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.columns = append(nb.columns, columns...)
	return nb
}

// Where adds a condition. Multiple calls are combined with AND.
func (b *Builder) Where(condition Condition) *Builder {
	nb := b.clone()
	nb.where = append(nb.where, condition)
	return nb
}

// OrderBy specifies the column and direction for sorting.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.orderBy, nb.dir = column, direction
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limit = limit
	return nb
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int64) *Builder {
	nb := b.clone()
	nb.offset = offset
	return nb
}

// Count returns a builder for COUNT(*) over the same table and conditions,
// without ordering or pagination.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.columns = []string{"COUNT(*)"}
	nb.orderBy, nb.limit, nb.offset = "", 0, 0
	return nb
}

// Build constructs the SELECT statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)
	b.writeWhere(&sql, params)

	if b.orderBy != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderBy)
		if b.dir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}
	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}
	if b.offset > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offset
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}

// BuildDelete constructs a DML DELETE with the builder's conditions.
// Spanner rejects DELETE without WHERE, so "WHERE true" is emitted when no
// condition is set.
func (b *Builder) BuildDelete() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("DELETE FROM ")
	sql.WriteString(b.table)
	if len(b.where) == 0 {
		sql.WriteString(" WHERE true")
	}
	b.writeWhere(&sql, params)

	return spanner.Statement{SQL: sql.String(), Params: params}
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}

func (b *Builder) writeWhere(sql *strings.Builder, params map[string]interface{}) {
	if len(b.where) == 0 {
		return
	}
	fragment, whereParams := And(b.where...).SQL(0)
	sql.WriteString(" WHERE ")
	// A single top-level group needs no parentheses.
	sql.WriteString(strings.TrimSuffix(strings.TrimPrefix(fragment, "("), ")"))
	for k, v := range whereParams {
		params[k] = v
	}
}

func (b *Builder) clone() *Builder {
	nb := *b
	nb.columns = append([]string(nil), b.columns...)
	nb.where = append([]Condition(nil), b.where...)
	return &nb
}
