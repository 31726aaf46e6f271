package dialect

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"db-mirror/internal/store"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// Qualify prefixes table with schema when one is given.
func Qualify(schema, table string) string {
	if schema == "" || strings.Contains(table, ".") {
		return table
	}
	return schema + "." + table
}

// Kind is the portable category of a column type, used to translate a type
// read from one database into DDL for another.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindInt
	KindBigInt
	KindSmallInt
	KindBool
	KindDecimal
	KindFloat
	KindDate
	KindDateTime
	KindDateTimeTZ
	KindTime
	KindBinary
	KindUUID
	KindJSON
)

var kinds = map[string]Kind{
	"bool": KindBool, "boolean": KindBool, "bit": KindBool,

	"bigint": KindBigInt, "int8": KindBigInt, "bigserial": KindBigInt, "serial8": KindBigInt,
	"smallint": KindSmallInt, "tinyint": KindSmallInt, "int2": KindSmallInt,
	"smallserial": KindSmallInt, "serial2": KindSmallInt,
	"int": KindInt, "integer": KindInt, "int4": KindInt, "mediumint": KindInt,
	"serial": KindInt, "serial4": KindInt,

	"decimal": KindDecimal, "dec": KindDecimal, "numeric": KindDecimal, "number": KindDecimal,
	"fixed": KindDecimal, "money": KindDecimal, "smallmoney": KindDecimal,
	"float": KindFloat, "float4": KindFloat, "float8": KindFloat, "real": KindFloat,
	"double": KindFloat, "double precision": KindFloat,
	"binary_float": KindFloat, "binary_double": KindFloat,

	"date":                           KindDate,
	"datetime":                       KindDateTime,
	"datetime2":                      KindDateTime,
	"smalldatetime":                  KindDateTime,
	"timestamp":                      KindDateTime,
	"timestamp without time zone":    KindDateTime,
	"timestamptz":                    KindDateTimeTZ,
	"timestamp with time zone":       KindDateTimeTZ,
	"timestamp with local time zone": KindDateTimeTZ,
	"datetimeoffset":                 KindDateTimeTZ,
	"time":                           KindTime,
	"time without time zone":         KindTime,

	"char": KindText, "character": KindText, "nchar": KindText, "bpchar": KindText,
	"varchar": KindText, "character varying": KindText, "nvarchar": KindText,
	"varchar2": KindText, "nvarchar2": KindText, "string": KindText, "citext": KindText,
	"text": KindText, "tinytext": KindText, "mediumtext": KindText, "longtext": KindText,
	"ntext": KindText, "clob": KindText, "nclob": KindText, "enum": KindText, "set": KindText,

	"blob": KindBinary, "tinyblob": KindBinary, "mediumblob": KindBinary, "longblob": KindBinary,
	"binary": KindBinary, "varbinary": KindBinary, "bytea": KindBinary,
	"raw": KindBinary, "long raw": KindBinary, "image": KindBinary,

	"uuid": KindUUID, "uniqueidentifier": KindUUID,
	"json": KindJSON, "jsonb": KindJSON,
}

// Classify maps a type name to its Kind. Only whole names match, once length
// or precision arguments and an unsigned/zerofill suffix are dropped, so
// "interval" or "int4range" stay KindOther.
func Classify(dataType string) Kind {
	return kinds[baseType(dataType)]
}

// baseType lower-cases a declared type and strips its arguments:
// "TIMESTAMP(6) WITH TIME ZONE" becomes "timestamp with time zone".
func baseType(dataType string) string {
	t := strings.ToLower(dataType)
	var b strings.Builder
	depth := 0
	for _, r := range t {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	fields := strings.Fields(b.String())
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if last != "unsigned" && last != "signed" && last != "zerofill" {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// nativeType returns the column's declared source type when it was read from
// the same kind of database as d. Declared types are kept as they are in that
// case; Kind translation is only for copies across databases.
func nativeType(d Dialect, col store.ColumnDef) (string, bool) {
	if col.NativeType == "" || col.NativeDialect != d.Name() {
		return "", false
	}
	return col.NativeType, true
}

// decimalType renders name with the precision and scale declared in the
// column's source type, or returns fallback when none was declared.
func decimalType(name string, col store.ColumnDef, fallback string) string {
	open := strings.IndexByte(col.NativeType, '(')
	end := strings.IndexByte(col.NativeType, ')')
	if open < 0 || end < open {
		return fallback
	}
	parts := strings.Split(col.NativeType[open+1:end], ",")
	p, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || p <= 0 {
		return fallback
	}
	scale := 0
	if len(parts) > 1 {
		if scale, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return fallback
		}
	}
	return fmt.Sprintf("%s(%d,%d)", name, p, scale)
}

// varcharLength returns the declared length of a bounded character column, or
// 0 when the column should become an unbounded text type.
func varcharLength(col store.ColumnDef, max int) int {
	t := strings.ToLower(col.DataType)
	if col.Length <= 0 || col.Length > max {
		return 0
	}
	if strings.Contains(t, "char") || strings.Contains(t, "string") {
		return col.Length
	}
	return 0
}

// buildCreateTable renders CREATE TABLE with inline PRIMARY KEY and FOREIGN
// KEY clauses. References are expected to already name target tables.
func buildCreateTable(d Dialect, table string, def *store.TableDef) string {
	var lines []string
	for _, c := range def.Columns {
		line := c.Name + " " + d.ColumnType(c)
		if !c.Nullable && !c.AutoIncrement {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	if pk := def.PrimaryKey(); len(pk) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}
	for _, c := range def.Columns {
		if c.References != nil {
			lines = append(lines, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
				c.Name, c.References.Table, c.References.Column))
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table, strings.Join(lines, ",\n    "))
}

// insertReturningRow runs an INSERT whose result set is the generated key.
func insertReturningRow(db *sql.DB, query string, args []any, keyCol string) (any, error) {
	if keyCol == "" {
		_, err := db.Exec(query, args...)
		return nil, err
	}
	var id int64
	if err := db.QueryRow(query, args...).Scan(&id); err != nil {
		return nil, err
	}
	return id, nil
}

func selectQuery(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
}
