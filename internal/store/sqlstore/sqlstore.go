// Package sqlstore is a Source and Target backed by a database/sql connection.
// All SQL text comes from a dialect.Dialect.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/dialect"
	"db-mirror/internal/schema"
	"db-mirror/internal/store"

	log "github.com/sirupsen/logrus"
)

type Store struct {
	db     *sql.DB
	d      dialect.Dialect
	schema string
}

// table is the Handle of a table created through CreateTable.
type table struct {
	name   string
	keyCol string
}

func (t *table) TableName() string { return t.name }

// New binds a store to db. An empty schemaName falls back to the dialect's
// default, then to the connection's current schema.
func New(db *sql.DB, d dialect.Dialect, schemaName string) (*Store, error) {
	s := &Store{db: db, d: d, schema: d.GetSchemaName(schemaName)}
	if s.schema == "" {
		var current sql.NullString
		if err := db.QueryRow(d.CurrentSchemaQuery()).Scan(&current); err != nil {
			return nil, fmt.Errorf("failed to query current schema: %w", err)
		}
		s.schema = d.GetSchemaName(current.String)
	}
	if s.schema == "" {
		return nil, fmt.Errorf("no schema selected; set it in the DSN or in settings")
	}
	return s, nil
}

// Schema is the schema this store reads from and writes to.
func (s *Store) Schema() string { return s.schema }

func (s *Store) qualify(name string) string {
	return dialect.Qualify(s.schema, name)
}

// unqualify strips this store's own schema prefix from name.
func (s *Store) unqualify(name string) string {
	prefix := s.schema + "."
	if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		return name[len(prefix):]
	}
	return name
}

func (s *Store) Rows(t *schema.Table, fn func(store.Row) error) error {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Name
	}
	rows, err := s.db.Query(s.d.SelectQuery(s.qualify(t.Name), cols))
	if err != nil {
		return fmt.Errorf("failed to select from %s: %w", t.Name, err)
	}
	defer rows.Close()

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to scan row of %s: %w", t.Name, err)
		}
		row := make(store.Row, len(cols))
		for i, c := range t.Columns {
			row[c.Name] = normalizeValue(c, vals[i])
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// normalizeValue turns driver byte slices into strings for every column that
// is not binary. MySQL hands back text, decimals and dates that way.
func normalizeValue(c *schema.Column, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if dialect.Classify(c.DataType) == dialect.KindBinary {
		return append([]byte(nil), b...)
	}
	return string(b)
}

func (s *Store) Count(t *schema.Table) (int, error) {
	var n int
	if err := s.db.QueryRow(s.d.CountQuery(s.qualify(t.Name))).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.Name, err)
	}
	return n, nil
}

func (s *Store) CreateTable(def *store.TableDef) (store.Handle, error) {
	h := &table{name: s.qualify(def.Name)}
	for _, c := range def.Columns {
		if c.AutoIncrement {
			h.keyCol = c.Name
		}
	}
	query := s.d.CreateTableQuery(h.name, def)
	log.Debugf("sqlstore: %s", query)
	if _, err := s.db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", h.name, err)
	}
	return h, nil
}

func (s *Store) InsertRow(h store.Handle, rec store.Record) (any, error) {
	t, ok := h.(*table)
	if !ok {
		return nil, fmt.Errorf("table %s was not created by this store", h.TableName())
	}
	query := s.d.InsertQuery(t.name, rec.Columns, t.keyCol)
	return s.d.Insert(s.db, query, rec.Values, t.keyCol)
}

// RowCount checks the table against the schema's table list before counting,
// so a missing table is reported as absent rather than as a query error.
func (s *Store) RowCount(name string) (int, bool, error) {
	names, err := s.tableNames()
	if err != nil {
		return 0, false, err
	}
	bare := s.unqualify(name)
	found := false
	for _, n := range names {
		if strings.EqualFold(n, bare) {
			found = true
			break
		}
	}
	if !found {
		return 0, false, nil
	}
	var n int
	if err := s.db.QueryRow(s.d.CountQuery(s.qualify(bare))).Scan(&n); err != nil {
		return 0, true, fmt.Errorf("failed to count %s: %w", name, err)
	}
	return n, true, nil
}

func (s *Store) DropTable(name string) error {
	if _, err := s.db.Exec(s.d.DropTableQuery(s.qualify(name))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	return nil
}

func (s *Store) tableNames() ([]string, error) {
	rows, err := s.db.Query(s.d.GetTablesQuery(s.schema), s.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}
