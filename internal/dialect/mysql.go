package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/store"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) CurrentSchemaQuery() string {
	return `SELECT DATABASE()`
}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE, COLUMN_KEY, EXTRA, COLUMN_COMMENT, COLUMN_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL ORDER BY TABLE_NAME, CONSTRAINT_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) CreateTableQuery(table string, def *store.TableDef) string {
	return buildCreateTable(d, table, def)
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *MysqlDialect) ColumnType(col store.ColumnDef) string {
	t, ok := nativeType(d, col)
	if !ok {
		t = d.portableType(col)
	}
	if col.AutoIncrement {
		t += " AUTO_INCREMENT"
	}
	return t
}

func (d *MysqlDialect) portableType(col store.ColumnDef) string {
	var t string
	switch Classify(col.DataType) {
	case KindInt:
		t = "INT"
	case KindBigInt:
		t = "BIGINT"
	case KindSmallInt:
		t = "SMALLINT"
	case KindBool:
		t = "BOOLEAN"
	case KindDecimal:
		t = decimalType("DECIMAL", col, "DECIMAL(30,10)")
	case KindFloat:
		t = "DOUBLE"
	case KindDate:
		t = "DATE"
	case KindDateTime, KindDateTimeTZ:
		t = "DATETIME"
	case KindTime:
		t = "TIME"
	case KindText:
		if n := varcharLength(col, 16383); n > 0 {
			t = fmt.Sprintf("VARCHAR(%d)", n)
		} else {
			t = "LONGTEXT"
		}
	case KindBinary:
		t = "LONGBLOB"
	case KindUUID:
		t = "CHAR(36)"
	case KindJSON:
		t = "JSON"
	default:
		t = strings.ToUpper(col.DataType)
	}
	return t
}

func (d *MysqlDialect) InsertQuery(table string, cols []string, keyCol string) string {
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s () VALUES ()", table)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *MysqlDialect) Insert(db *sql.DB, query string, args []any, keyCol string) (any, error) {
	res, err := db.Exec(query, args...)
	if err != nil || keyCol == "" {
		return nil, err
	}
	return res.LastInsertId()
}

func (d *MysqlDialect) SelectQuery(table string, cols []string) string {
	return selectQuery(table, cols)
}

func (d *MysqlDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return input
}
