package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/store"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return `SELECT current_schema()`
}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name (int4, varchar, ...) is more precise than data_type; NormalizeType
	// folds it back into common names. column_default stands in for MySQL's
	// EXTRA so nextval()/identity defaults mark auto-increment columns.
	// format_type gives the declared type with its modifiers.
	return `SELECT
    c.table_name,
    c.column_name,
    c.udt_name,
    c.character_maximum_length,
    c.is_nullable,
    CASE WHEN pk.column_name IS NOT NULL THEN 'PRI' ELSE '' END AS column_key,
    CASE WHEN c.is_identity = 'YES' THEN 'identity' ELSE COALESCE(c.column_default, '') END AS extra,
    COALESCE(col_description((quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass, c.ordinal_position), '') AS comment,
    format_type(a.atttypid, a.atttypmod) AS column_type
FROM information_schema.columns c
JOIN pg_catalog.pg_attribute a
    ON a.attrelid = (quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass
    AND a.attname = c.column_name
LEFT JOIN (
    SELECT kcu.table_schema, kcu.table_name, kcu.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
        ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
    WHERE tc.constraint_type = 'PRIMARY KEY'
) pk ON pk.table_schema = c.table_schema AND pk.table_name = c.table_name AND pk.column_name = c.column_name
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetForeignKeysQuery(schema string) string {
	// Pair referencing and referenced columns by position so multi-column
	// constraints come back one row per column.
	return `SELECT
    kcu.table_name,
    kcu.constraint_name,
    kcu.column_name,
    rk.table_name AS referenced_table_name,
    rk.column_name AS referenced_column_name
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
    ON kcu.constraint_schema = rc.constraint_schema AND kcu.constraint_name = rc.constraint_name
JOIN information_schema.key_column_usage rk
    ON rk.constraint_schema = rc.unique_constraint_schema
    AND rk.constraint_name = rc.unique_constraint_name
    AND rk.ordinal_position = kcu.position_in_unique_constraint
WHERE kcu.table_schema = $1
ORDER BY kcu.table_name, kcu.constraint_name, kcu.ordinal_position`
}

func (d *PostgresDialect) CreateTableQuery(table string, def *store.TableDef) string {
	return buildCreateTable(d, table, def)
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *PostgresDialect) ColumnType(col store.ColumnDef) string {
	t, ok := nativeType(d, col)
	if !ok {
		t = d.portableType(col)
	}
	if col.AutoIncrement {
		t += " GENERATED BY DEFAULT AS IDENTITY"
	}
	return t
}

func (d *PostgresDialect) portableType(col store.ColumnDef) string {
	var t string
	switch Classify(col.DataType) {
	case KindInt:
		t = "INTEGER"
	case KindBigInt:
		t = "BIGINT"
	case KindSmallInt:
		t = "SMALLINT"
	case KindBool:
		t = "BOOLEAN"
	case KindDecimal:
		t = decimalType("NUMERIC", col, "NUMERIC")
	case KindFloat:
		t = "DOUBLE PRECISION"
	case KindDate:
		t = "DATE"
	case KindDateTime:
		t = "TIMESTAMP"
	case KindDateTimeTZ:
		t = "TIMESTAMPTZ"
	case KindTime:
		t = "TIME"
	case KindText:
		if n := varcharLength(col, 10485760); n > 0 {
			t = fmt.Sprintf("VARCHAR(%d)", n)
		} else {
			t = "TEXT"
		}
	case KindBinary:
		t = "BYTEA"
	case KindUUID:
		t = "UUID"
	case KindJSON:
		t = "JSONB"
	default:
		t = strings.ToUpper(col.DataType)
	}
	return t
}

func (d *PostgresDialect) InsertQuery(table string, cols []string, keyCol string) string {
	var q string
	if len(cols) == 0 {
		q = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table)
	} else {
		// Generate placeholders ($1, $2, ...)
		vals := GeneratePlaceholders(len(cols), d.Placeholder)
		q = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
	}
	if keyCol != "" {
		q += " RETURNING " + keyCol
	}
	return q
}

func (d *PostgresDialect) Insert(db *sql.DB, query string, args []any, keyCol string) (any, error) {
	return insertReturningRow(db, query, args, keyCol)
}

func (d *PostgresDialect) SelectQuery(table string, cols []string) string {
	return selectQuery(table, cols)
}

func (d *PostgresDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4":
		return "int"
	case "int2":
		return "smallint"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "bool":
		return "boolean"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
