package sqlstore

import (
	"database/sql"
	"errors"
	"testing"

	"db-mirror/internal/dialect"
	"db-mirror/internal/schema"
	"db-mirror/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, &dialect.MysqlDialect{}, "shop")
	require.NoError(t, err)
	return s, mock
}

func expectTables(mock sqlmock.Sqlmock, names ...string) {
	rows := sqlmock.NewRows([]string{"TABLE_NAME"})
	for _, n := range names {
		rows.AddRow(n)
	}
	mock.ExpectQuery((&dialect.MysqlDialect{}).GetTablesQuery("shop")).WithArgs("shop").WillReturnRows(rows)
}

var columnHeader = []string{"TABLE_NAME", "COLUMN_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH",
	"IS_NULLABLE", "COLUMN_KEY", "EXTRA", "COLUMN_COMMENT", "COLUMN_TYPE"}

var fkHeader = []string{"TABLE_NAME", "CONSTRAINT_NAME", "COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}

func TestTables(t *testing.T) {
	s, mock := newMock(t)
	d := &dialect.MysqlDialect{}

	expectTables(mock, "battle", "emperor")
	mock.ExpectQuery(d.GetColumnsQuery("shop")).WithArgs("shop").WillReturnRows(
		sqlmock.NewRows(columnHeader).
			AddRow("battle", "battle_id", "INT", nil, "NO", "PRI", "auto_increment", "", "int").
			AddRow("battle", "name", "VARCHAR", "120", "NO", "", "", "전투 이름", "varchar(120)").
			AddRow("battle", "emperor_id", "INT", nil, "YES", "MUL", "", "", "int").
			AddRow("emperor", "emperor_id", "INT", nil, "NO", "PRI", "auto_increment", "", "int").
			AddRow("emperor", "name", "VARCHAR", "80", "NO", "", "", "", "varchar(80)"))
	mock.ExpectQuery(d.GetForeignKeysQuery("shop")).WithArgs("shop").WillReturnRows(
		sqlmock.NewRows(fkHeader).
			AddRow("battle", "fk_battle_emperor", "emperor_id", "emperor", "emperor_id").
			AddRow("battle", "fk_battle_region", "region_id", "region", "region_id"))

	tables, err := s.Tables()
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	want := []*schema.Table{
		{Name: "battle", Columns: []*schema.Column{
			{Name: "battle_id", DataType: "int", IsPK: true, IsAutoInc: true, NativeType: "int", NativeDialect: "mysql"},
			{Name: "name", DataType: "varchar", Length: 120, Comment: "전투 이름", NativeType: "varchar(120)", NativeDialect: "mysql"},
			{Name: "emperor_id", DataType: "int", IsNullable: true, NativeType: "int", NativeDialect: "mysql",
				ForeignKeys: []*schema.ForeignKey{
					{Constraint: "fk_battle_emperor", RefTable: "emperor", RefColumn: "emperor_id"},
				}},
		}},
		{Name: "emperor", Columns: []*schema.Column{
			{Name: "emperor_id", DataType: "int", IsPK: true, IsAutoInc: true, NativeType: "int", NativeDialect: "mysql"},
			{Name: "name", DataType: "varchar", Length: 80, NativeType: "varchar(80)", NativeDialect: "mysql"},
		}},
	}
	assert.Equal(t, want, tables)
}

func TestTables_CompositeForeignKey(t *testing.T) {
	s, mock := newMock(t)
	d := &dialect.MysqlDialect{}

	expectTables(mock, "line", "orders")
	mock.ExpectQuery(d.GetColumnsQuery("shop")).WithArgs("shop").WillReturnRows(
		sqlmock.NewRows(columnHeader).
			AddRow("line", "order_no", "INT", nil, "NO", "", "", "", "int").
			AddRow("line", "order_rev", "INT", nil, "NO", "", "", "", "int"))
	mock.ExpectQuery(d.GetForeignKeysQuery("shop")).WithArgs("shop").WillReturnRows(
		sqlmock.NewRows(fkHeader).
			AddRow("line", "fk_line_order", "order_no", "orders", "order_no").
			AddRow("line", "fk_line_order", "order_rev", "orders", "order_rev"))

	_, err := s.Tables()
	var fkErr *schema.UnsupportedForeignKeyError
	require.True(t, errors.As(err, &fkErr), "got %v", err)
	assert.Equal(t, "line", fkErr.Table)
	assert.Equal(t, "order_no,order_rev", fkErr.Column)
}

func TestTables_DeclaredTypesSurviveCreate(t *testing.T) {
	s, mock := newMock(t)
	d := &dialect.MysqlDialect{}

	expectTables(mock, "legion")
	mock.ExpectQuery(d.GetColumnsQuery("shop")).WithArgs("shop").WillReturnRows(
		sqlmock.NewRows(columnHeader).
			AddRow("legion", "legion_id", "INT", nil, "NO", "PRI", "auto_increment", "", "int unsigned").
			AddRow("legion", "rank", "ENUM", "9", "NO", "", "", "", "enum('legatus','tribunus')").
			AddRow("legion", "pay", "DECIMAL", nil, "YES", "", "", "", "decimal(10,2)").
			AddRow("legion", "camp", "POINT", nil, "YES", "", "", "", "point"))
	mock.ExpectQuery(d.GetForeignKeysQuery("shop")).WithArgs("shop").WillReturnRows(sqlmock.NewRows(fkHeader))

	tables, err := s.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)

	var cols []string
	for _, c := range tables[0].Columns {
		cols = append(cols, d.ColumnType(store.ColumnDef{
			DataType:      c.DataType,
			Length:        c.Length,
			NativeType:    c.NativeType,
			NativeDialect: c.NativeDialect,
		}))
	}
	assert.Equal(t, []string{"int unsigned", "enum('legatus','tribunus')", "decimal(10,2)", "point"}, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRows_NormalizesBytes(t *testing.T) {
	s, mock := newMock(t)

	tbl := &schema.Table{Name: "emperor", Columns: []*schema.Column{
		{Name: "emperor_id", DataType: "int", IsPK: true},
		{Name: "name", DataType: "varchar"},
		{Name: "portrait", DataType: "blob", IsNullable: true},
	}}
	mock.ExpectQuery("SELECT emperor_id, name, portrait FROM shop.emperor").WillReturnRows(
		sqlmock.NewRows([]string{"emperor_id", "name", "portrait"}).
			AddRow(int64(1), []byte("Augustus"), []byte{0x01, 0x02}).
			AddRow(int64(2), []byte("Tiberius"), nil))

	var got []store.Row
	err := s.Rows(tbl, func(r store.Row) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []store.Row{
		{"emperor_id": int64(1), "name": "Augustus", "portrait": []byte{0x01, 0x02}},
		{"emperor_id": int64(2), "name": "Tiberius", "portrait": nil},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndInsert(t *testing.T) {
	s, mock := newMock(t)
	d := &dialect.MysqlDialect{}

	def := &store.TableDef{Name: "emperor", Columns: []store.ColumnDef{
		{Name: "emperor_id", DataType: "int", PrimaryKey: true, AutoIncrement: true},
		{Name: "name", DataType: "varchar", Length: 80},
	}}
	mock.ExpectExec(d.CreateTableQuery("shop.emperor", def)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO shop.emperor (name) VALUES (?)").
		WithArgs("Augustus").
		WillReturnResult(sqlmock.NewResult(7, 1))

	h, err := s.CreateTable(def)
	require.NoError(t, err)
	assert.Equal(t, "shop.emperor", h.TableName())

	id, err := s.InsertRow(h, store.Record{Columns: []string{"name"}, Values: []any{"Augustus"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCount(t *testing.T) {
	s, mock := newMock(t)

	expectTables(mock, "emperor")
	n, exists, err := s.RowCount("battle")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, n)

	expectTables(mock, "emperor")
	mock.ExpectQuery("SELECT COUNT(*) FROM shop.emperor").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	n, exists, err = s.RowCount("shop.emperor")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 3, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_CurrentSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT DATABASE()").WillReturnRows(sqlmock.NewRows([]string{"db"}).AddRow("sakila"))
	s, err := New(db, &dialect.MysqlDialect{}, "")
	require.NoError(t, err)
	assert.Equal(t, "sakila", s.Schema())
}

func TestParseLength(t *testing.T) {
	assert.Equal(t, 0, parseLength(sql.NullString{}))
	assert.Equal(t, 255, parseLength(sql.NullString{String: "255", Valid: true}))
	assert.Equal(t, 4000, parseLength(sql.NullString{String: "4000.0", Valid: true}))
}
