package dialect

import (
	"database/sql"

	"db-mirror/internal/store"
)

// Dialect abstracts database-specific SQL.
type Dialect interface {
	// Name identifies the database kind ("mysql", "postgres", "sqlserver",
	// "oracle"). Columns read through a dialect carry its name.
	Name() string

	// Metadata Queries (Schema Introspection). Each takes the schema name as
	// its single bind argument. The columns query returns, in order: table,
	// column, type name, character length, nullable, key, extra, comment and
	// the full declared type.
	CurrentSchemaQuery() string
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetForeignKeysQuery(schema string) string

	// DDL
	CreateTableQuery(table string, def *store.TableDef) string
	DropTableQuery(table string) string
	ColumnType(col store.ColumnDef) string

	// DML. keyCol names the generated key to hand back, or is empty.
	InsertQuery(table string, cols []string, keyCol string) string
	Insert(db *sql.DB, query string, args []any, keyCol string) (any, error)
	SelectQuery(table string, cols []string) string
	CountQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
