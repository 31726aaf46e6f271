package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/store"

	go_ora "github.com/sijms/go-ora/v2"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

// Oracle introspection reads the current user's USER_* views. The queries
// still carry a ":1 IS NOT NULL" clause to consume the schema argument every
// dialect is called with.

func (d *OracleDialect) CurrentSchemaQuery() string {
	return `SELECT USER FROM DUAL`
}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    t.TABLE_NAME,
    t.COLUMN_NAME,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION IS NULL AND t.DATA_SCALE IS NULL THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION = 1 THEN 'BOOLEAN'
        WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION > 10 THEN 'BIGINT'
        WHEN t.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        ELSE t.DATA_TYPE
    END,
    t.CHAR_LENGTH,
    CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 'PRI' ELSE '' END,
    CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'auto_increment' ELSE '' END,
    c.COMMENTS,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION IS NOT NULL
            THEN 'NUMBER(' || t.DATA_PRECISION || ',' || NVL(t.DATA_SCALE, 0) || ')'
        WHEN t.DATA_TYPE IN ('VARCHAR2', 'CHAR')
            THEN t.DATA_TYPE || '(' || t.CHAR_LENGTH || CASE WHEN t.CHAR_USED = 'C' THEN ' CHAR' ELSE ' BYTE' END || ')'
        WHEN t.DATA_TYPE IN ('NVARCHAR2', 'NCHAR')
            THEN t.DATA_TYPE || '(' || t.CHAR_LENGTH || ')'
        WHEN t.DATA_TYPE = 'RAW'
            THEN 'RAW(' || t.DATA_LENGTH || ')'
        WHEN t.DATA_TYPE = 'FLOAT'
            THEN 'FLOAT(' || t.DATA_PRECISION || ')'
        ELSE t.DATA_TYPE
    END
FROM USER_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
LEFT JOIN USER_COL_COMMENTS c ON t.TABLE_NAME = c.TABLE_NAME AND t.COLUMN_NAME = c.COLUMN_NAME
WHERE :1 IS NOT NULL
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT
    c.TABLE_NAME,
    c.CONSTRAINT_NAME,
    cc.COLUMN_NAME,
    r.TABLE_NAME AS REF_TABLE,
    rcc.COLUMN_NAME AS REF_COLUMN
FROM USER_CONSTRAINTS c
JOIN USER_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN USER_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN USER_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R'
AND :1 IS NOT NULL
ORDER BY c.TABLE_NAME, c.CONSTRAINT_NAME, cc.POSITION`
}

func (d *OracleDialect) CreateTableQuery(table string, def *store.TableDef) string {
	return buildCreateTable(d, table, def)
}

func (d *OracleDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s PURGE", table)
}

func (d *OracleDialect) ColumnType(col store.ColumnDef) string {
	t, ok := nativeType(d, col)
	if !ok {
		t = d.portableType(col)
	}
	if col.AutoIncrement {
		t += " GENERATED BY DEFAULT AS IDENTITY"
	}
	return t
}

func (d *OracleDialect) portableType(col store.ColumnDef) string {
	var t string
	switch Classify(col.DataType) {
	case KindInt:
		t = "NUMBER(10)"
	case KindBigInt:
		t = "NUMBER(19)"
	case KindSmallInt:
		t = "NUMBER(5)"
	case KindBool:
		t = "NUMBER(1)"
	case KindDecimal:
		t = decimalType("NUMBER", col, "NUMBER")
	case KindFloat:
		t = "BINARY_DOUBLE"
	case KindDate:
		t = "DATE"
	case KindDateTime, KindTime:
		t = "TIMESTAMP"
	case KindDateTimeTZ:
		t = "TIMESTAMP WITH TIME ZONE"
	case KindText:
		if n := varcharLength(col, 4000); n > 0 {
			t = fmt.Sprintf("VARCHAR2(%d CHAR)", n)
		} else {
			t = "CLOB"
		}
	case KindBinary:
		t = "BLOB"
	case KindUUID:
		t = "VARCHAR2(36 CHAR)"
	case KindJSON:
		t = "CLOB"
	default:
		t = strings.ToUpper(col.DataType)
	}
	return t
}

func (d *OracleDialect) InsertQuery(table string, cols []string, keyCol string) string {
	var q string
	if len(cols) == 0 {
		// Oracle has no DEFAULT VALUES; only the identity key is left.
		q = fmt.Sprintf("INSERT INTO %s (%s) VALUES (DEFAULT)", table, keyCol)
	} else {
		vals := GeneratePlaceholders(len(cols), d.Placeholder)
		q = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
	}
	if keyCol != "" {
		q += fmt.Sprintf(" RETURNING %s INTO %s", keyCol, d.Placeholder(len(cols)))
	}
	return q
}

// Insert binds the RETURNING ... INTO target as an output parameter after the
// row values.
func (d *OracleDialect) Insert(db *sql.DB, query string, args []any, keyCol string) (any, error) {
	if keyCol == "" {
		_, err := db.Exec(query, args...)
		return nil, err
	}
	var id int64
	bound := append(append([]any(nil), args...), go_ora.Out{Dest: &id})
	if _, err := db.Exec(query, bound...); err != nil {
		return nil, err
	}
	return id, nil
}

func (d *OracleDialect) SelectQuery(table string, cols []string) string {
	return selectQuery(table, cols)
}

func (d *OracleDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	switch {
	case strings.HasPrefix(s, "timestamp"):
		// "timestamp(6) with time zone" keeps its zone.
		return baseType(s)
	case s == "varchar2" || s == "nvarchar2":
		return "varchar"
	case s == "nclob":
		return "clob"
	}
	return s
}

// GetSchemaName upper-cases the name the way Oracle stores unquoted identifiers.
func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}
