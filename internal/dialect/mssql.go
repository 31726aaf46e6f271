package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/store"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return "sqlserver" }

// go-mssqldb binds @p1, @p2, ... positionally.

func (d *MSSQLDialect) CurrentSchemaQuery() string {
	return `SELECT SCHEMA_NAME()`
}

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	// PK membership, identity flag and MS_Description (Comment) per column.
	// INFORMATION_SCHEMA has no declared type, so it is rebuilt from the
	// length, precision and scale.
	return `
		SELECT
			c.TABLE_NAME,
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.IS_NULLABLE,
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRIMARY' ELSE '' END AS COLUMN_KEY,
			CASE WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1
				THEN 'identity' ELSE '' END AS EXTRA,
			CAST(ep.value AS NVARCHAR(4000)) AS COMMENT,
			CASE
				WHEN c.DATA_TYPE IN ('varchar', 'nvarchar', 'char', 'nchar', 'varbinary', 'binary')
					THEN c.DATA_TYPE + '(' + CASE WHEN c.CHARACTER_MAXIMUM_LENGTH = -1 THEN 'max'
						ELSE CAST(c.CHARACTER_MAXIMUM_LENGTH AS VARCHAR(10)) END + ')'
				WHEN c.DATA_TYPE IN ('decimal', 'numeric')
					THEN c.DATA_TYPE + '(' + CAST(c.NUMERIC_PRECISION AS VARCHAR(10)) + ','
						+ CAST(c.NUMERIC_SCALE AS VARCHAR(10)) + ')'
				WHEN c.DATA_TYPE IN ('datetime2', 'datetimeoffset', 'time')
					THEN c.DATA_TYPE + '(' + CAST(c.DATETIME_PRECISION AS VARCHAR(10)) + ')'
				ELSE c.DATA_TYPE
			END AS COLUMN_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
		) pk ON c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME)
			AND ep.minor_id = COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'ColumnId')
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = @p1
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT KCU1.TABLE_NAME, KCU1.CONSTRAINT_NAME, KCU1.COLUMN_NAME, KCU2.TABLE_NAME AS REF_TABLE, KCU2.COLUMN_NAME AS REF_COLUMN
FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU1 ON RC.CONSTRAINT_NAME = KCU1.CONSTRAINT_NAME AND RC.CONSTRAINT_SCHEMA = KCU1.CONSTRAINT_SCHEMA
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU2 ON RC.UNIQUE_CONSTRAINT_NAME = KCU2.CONSTRAINT_NAME AND RC.UNIQUE_CONSTRAINT_SCHEMA = KCU2.CONSTRAINT_SCHEMA
	AND KCU1.ORDINAL_POSITION = KCU2.ORDINAL_POSITION
WHERE KCU1.TABLE_SCHEMA = @p1
ORDER BY KCU1.TABLE_NAME, KCU1.CONSTRAINT_NAME, KCU1.ORDINAL_POSITION`
}

func (d *MSSQLDialect) CreateTableQuery(table string, def *store.TableDef) string {
	return buildCreateTable(d, table, def)
}

func (d *MSSQLDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func (d *MSSQLDialect) ColumnType(col store.ColumnDef) string {
	t, ok := nativeType(d, col)
	if !ok {
		t = d.portableType(col)
	}
	if col.AutoIncrement {
		t += " IDENTITY(1,1)"
	}
	return t
}

func (d *MSSQLDialect) portableType(col store.ColumnDef) string {
	var t string
	switch Classify(col.DataType) {
	case KindInt:
		t = "INT"
	case KindBigInt:
		t = "BIGINT"
	case KindSmallInt:
		t = "SMALLINT"
	case KindBool:
		t = "BIT"
	case KindDecimal:
		t = decimalType("DECIMAL", col, "DECIMAL(30,10)")
	case KindFloat:
		t = "FLOAT"
	case KindDate:
		t = "DATE"
	case KindDateTime:
		t = "DATETIME2"
	case KindDateTimeTZ:
		t = "DATETIMEOFFSET"
	case KindTime:
		t = "TIME"
	case KindText:
		// NVARCHAR(MAX) is reported with length -1.
		if n := varcharLength(col, 4000); n > 0 {
			t = fmt.Sprintf("NVARCHAR(%d)", n)
		} else {
			t = "NVARCHAR(MAX)"
		}
	case KindBinary:
		t = "VARBINARY(MAX)"
	case KindUUID:
		t = "UNIQUEIDENTIFIER"
	case KindJSON:
		t = "NVARCHAR(MAX)"
	default:
		t = strings.ToUpper(col.DataType)
	}
	return t
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string, keyCol string) string {
	output := ""
	if keyCol != "" {
		output = " OUTPUT INSERTED." + keyCol
	}
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s%s DEFAULT VALUES", table, output)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s)%s VALUES (%s)", table, strings.Join(cols, ", "), output, vals)
}

func (d *MSSQLDialect) Insert(db *sql.DB, query string, args []any, keyCol string) (any, error) {
	return insertReturningRow(db, query, args, keyCol)
}

func (d *MSSQLDialect) SelectQuery(table string, cols []string) string {
	return selectQuery(table, cols)
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "nvarchar", "nchar":
		return "varchar"
	case "ntext":
		return "text"
	case "bit":
		return "boolean"
	case "money", "smallmoney":
		return "decimal"
	case "datetime2", "smalldatetime":
		return "datetime"
	case "image", "varbinary":
		return "blob"
	case "uniqueidentifier":
		return "uuid"
	default:
		return t
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
