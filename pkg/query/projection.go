// Package query builds SQL statements from projection maps with automatic
// positional parameter numbering.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap resolves logical field names to qualified column references
// (alias.column) for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap creates an empty ProjectionMap for schema.table with the
// given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byField: make(map[string]string),
		ordered: make([]string, 0),
	}
}

// Project maps a database column to a logical field name. Projection order
// determines column order in SELECT lists.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// From returns the aliased table reference (schema.table alias).
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a logical field name to its qualified column, returning
// the input unchanged when no mapping exists.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Columns returns every projected column, comma-separated, in projection
// order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
