package schema

import "strings"

type Table struct {
	Name    string
	Columns []*Column

	// Anonymize maps a column name to the name of the transform applied to
	// its values during the copy.
	Anonymize AnonymizationMap
}

type Column struct {
	Name       string
	DataType   string
	Length     int
	IsNullable bool
	IsPK       bool
	IsAutoInc  bool
	Comment    string // DB 스키마 코멘트 (MS_Description 등)

	// NativeType is the type as declared in the source, with length,
	// precision and modifiers (e.g. "decimal(10,2)", "timestamp with time
	// zone"). NativeDialect names the dialect it was read from.
	NativeType    string
	NativeDialect string

	// ForeignKeys holds every reference declared on this column. Only zero or
	// one entry is supported; the resolver rejects anything more.
	ForeignKeys []*ForeignKey
}

type ForeignKey struct {
	Constraint string
	RefTable   string
	RefColumn  string
}

// AnonymizationMap maps column name to transform name.
type AnonymizationMap map[string]string

// Column returns the column with the given name or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the primary-key columns in declaration order.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.IsPK {
			pk = append(pk, c)
		}
	}
	return pk
}

// KeyColumn returns the name of the single-column primary key, or "" when the
// table has no primary key or a composite one.
func (t *Table) KeyColumn() string {
	pk := t.PrimaryKey()
	if len(pk) != 1 {
		return ""
	}
	return pk[0].Name
}

// Dependencies lists the distinct tables this table references, in column order.
func (t *Table) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		for _, fk := range c.ForeignKeys {
			if !seen[fk.RefTable] {
				seen[fk.RefTable] = true
				deps = append(deps, fk.RefTable)
			}
		}
	}
	return deps
}

// ForeignKey returns the column's single reference, or nil.
func (c *Column) ForeignKey() *ForeignKey {
	if len(c.ForeignKeys) == 0 {
		return nil
	}
	return c.ForeignKeys[0]
}

// IsText reports whether the column holds character data.
func (c *Column) IsText() bool {
	t := strings.ToLower(c.DataType)
	return strings.Contains(t, "char") || strings.Contains(t, "text") ||
		strings.Contains(t, "string") || strings.Contains(t, "clob")
}

var integerTypes = map[string]bool{
	"int": true, "integer": true, "int2": true, "int4": true, "int8": true,
	"tinyint": true, "smallint": true, "mediumint": true, "bigint": true,
	"serial": true, "smallserial": true, "bigserial": true,
}

// IsInteger reports whether the column holds integral numbers.
func (c *Column) IsInteger() bool {
	t := strings.ToLower(strings.TrimSpace(c.DataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")
	return integerTypes[t]
}

// Plan is a creation/copy order in which every table follows the tables it
// references.
type Plan []*Table

// Names returns the table names in plan order.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, t := range p {
		names[i] = t.Name
	}
	return names
}

// Index returns the position of the named table, or -1.
func (p Plan) Index(name string) int {
	for i, t := range p {
		if t.Name == name {
			return i
		}
	}
	return -1
}
