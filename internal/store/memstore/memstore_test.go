package memstore_test

import (
	"testing"

	"db-mirror/internal/store"
	"db-mirror/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parentDef() *store.TableDef {
	return &store.TableDef{
		Name: "parent",
		Columns: []store.ColumnDef{
			{Name: "id", DataType: "int", PrimaryKey: true, AutoIncrement: true},
			{Name: "name", DataType: "text"},
		},
	}
}

func childDef() *store.TableDef {
	return &store.TableDef{
		Name: "child",
		Columns: []store.ColumnDef{
			{Name: "id", DataType: "int", PrimaryKey: true, AutoIncrement: true},
			{Name: "parent_id", DataType: "int", References: &store.Reference{Table: "parent", Column: "id"}},
		},
	}
}

func TestInsertAssignsKeys(t *testing.T) {
	s := memstore.New()
	h, err := s.CreateTable(parentDef())
	require.NoError(t, err)

	for i, want := range []int64{1, 2} {
		key, err := s.InsertRow(h, store.Record{Columns: []string{"name"}, Values: []any{"n"}})
		require.NoError(t, err, i)
		assert.Equal(t, want, key)
	}

	n, exists, err := s.RowCount("parent")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 2, n)
}

func TestForeignKeyEnforced(t *testing.T) {
	s := memstore.New()
	ph, err := s.CreateTable(parentDef())
	require.NoError(t, err)
	ch, err := s.CreateTable(childDef())
	require.NoError(t, err)

	_, err = s.InsertRow(ch, store.Record{Columns: []string{"parent_id"}, Values: []any{int64(1)}})
	assert.ErrorContains(t, err, "FOREIGN KEY")

	_, err = s.InsertRow(ph, store.Record{Columns: []string{"name"}, Values: []any{"p"}})
	require.NoError(t, err)
	_, err = s.InsertRow(ch, store.Record{Columns: []string{"parent_id"}, Values: []any{int64(1)}})
	assert.NoError(t, err)
}

func TestCreateTableRequiresReferencedTable(t *testing.T) {
	_, err := memstore.New().CreateTable(childDef())
	assert.ErrorContains(t, err, "missing table parent")
}

func TestNotNullAndUnknownColumn(t *testing.T) {
	s := memstore.New()
	def := parentDef()
	def.Columns[1].Nullable = false
	h, err := s.CreateTable(def)
	require.NoError(t, err)

	_, err = s.InsertRow(h, store.Record{})
	assert.ErrorContains(t, err, "NOT NULL")

	_, err = s.InsertRow(h, store.Record{Columns: []string{"name", "bogus"}, Values: []any{"a", 1}})
	assert.ErrorContains(t, err, "no column named bogus")
}

func TestDropTable(t *testing.T) {
	s := memstore.New()
	s.Put("a", store.Row{"x": 1})
	s.Put("b")

	require.NoError(t, s.DropTable("a"))
	assert.Equal(t, []string{"b"}, s.TableNames())
	assert.Error(t, s.DropTable("a"))
}
