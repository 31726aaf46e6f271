// Package store defines what the replication engine needs from a source and
// a target database.
package store

import "db-mirror/internal/schema"

// Row is one source row keyed by column name.
type Row map[string]any

// Record is an insertion record. Columns and Values are parallel and keep the
// table's column order.
type Record struct {
	Columns []string
	Values  []any
}

// Set appends a column value, or replaces it if the column is already present.
func (r *Record) Set(col string, v any) {
	for i, c := range r.Columns {
		if c == col {
			r.Values[i] = v
			return
		}
	}
	r.Columns = append(r.Columns, col)
	r.Values = append(r.Values, v)
}

// Get returns the value for col and whether it is present.
func (r Record) Get(col string) (any, bool) {
	for i, c := range r.Columns {
		if c == col {
			return r.Values[i], true
		}
	}
	return nil, false
}

// TableDef describes a table to create in the target.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

type ColumnDef struct {
	Name       string
	DataType   string
	Length     int
	Nullable   bool
	PrimaryKey bool

	// AutoIncrement asks the target to assign the column's values itself.
	AutoIncrement bool

	// NativeType is the declared source type, used as-is by a target of the
	// same NativeDialect.
	NativeType    string
	NativeDialect string

	// References points at an already created target table.
	References *Reference
}

type Reference struct {
	Table  string
	Column string
}

// PrimaryKey returns the primary-key column names.
func (d *TableDef) PrimaryKey() []string {
	var pk []string
	for _, c := range d.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// Handle identifies a table created in a target.
type Handle interface {
	// TableName is the name the target knows the table by.
	TableName() string
}

// Source produces rows of source tables.
type Source interface {
	// Rows calls fn for every row of t, in the table's natural order, and stops
	// at the first error.
	Rows(t *schema.Table, fn func(Row) error) error
	Count(t *schema.Table) (int, error)
}

// Target creates tables and accepts rows. Every call blocks until the target
// has finished.
type Target interface {
	CreateTable(def *TableDef) (Handle, error)

	// InsertRow inserts rec and returns the key the target assigned to the
	// row, or nil when the table has no generated key.
	InsertRow(h Handle, rec Record) (any, error)

	// RowCount reports how many rows the named table holds and whether it
	// exists at all.
	RowCount(table string) (int, bool, error)

	DropTable(table string) error
}
