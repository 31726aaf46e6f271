// Package memstore is an in-memory Source and Target. It enforces NOT NULL
// and foreign-key constraints on insert, so a wrong copy order or a dangling
// reference fails the way it would on a real database.
package memstore

import (
	"fmt"

	"db-mirror/internal/schema"
	"db-mirror/internal/store"
)

type Store struct {
	tables map[string]*table
	order  []string
}

type table struct {
	name   string
	def    *store.TableDef
	rows   []store.Row
	nextID int64
}

func (t *table) TableName() string { return t.name }

func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// Put appends raw rows to the named table, creating it without a definition
// if needed. It is how source data is seeded.
func (s *Store) Put(name string, rows ...store.Row) {
	t, ok := s.tables[name]
	if !ok {
		t = &table{name: name}
		s.tables[name] = t
		s.order = append(s.order, name)
	}
	for _, r := range rows {
		t.rows = append(t.rows, copyRow(r))
	}
}

// Table returns a copy of the named table's rows, or nil.
func (s *Store) Table(name string) []store.Row {
	t, ok := s.tables[name]
	if !ok {
		return nil
	}
	out := make([]store.Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = copyRow(r)
	}
	return out
}

// Def returns the definition the named table was created with, or nil.
func (s *Store) Def(name string) *store.TableDef {
	if t, ok := s.tables[name]; ok {
		return t.def
	}
	return nil
}

// TableNames lists tables in creation order.
func (s *Store) TableNames() []string {
	return append([]string(nil), s.order...)
}

func (s *Store) Rows(t *schema.Table, fn func(store.Row) error) error {
	tbl, ok := s.tables[t.Name]
	if !ok {
		return fmt.Errorf("table %s does not exist", t.Name)
	}
	for _, r := range tbl.rows {
		if err := fn(copyRow(r)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Count(t *schema.Table) (int, error) {
	tbl, ok := s.tables[t.Name]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", t.Name)
	}
	return len(tbl.rows), nil
}

func (s *Store) CreateTable(def *store.TableDef) (store.Handle, error) {
	if _, ok := s.tables[def.Name]; ok {
		return nil, fmt.Errorf("table %s already exists", def.Name)
	}
	for _, c := range def.Columns {
		if c.References == nil {
			continue
		}
		if _, ok := s.tables[c.References.Table]; !ok {
			return nil, fmt.Errorf("table %s: column %s references missing table %s", def.Name, c.Name, c.References.Table)
		}
	}
	t := &table{name: def.Name, def: def, nextID: 1}
	s.tables[def.Name] = t
	s.order = append(s.order, def.Name)
	return t, nil
}

func (s *Store) InsertRow(h store.Handle, rec store.Record) (any, error) {
	t, ok := s.tables[h.TableName()]
	if !ok || t != h {
		return nil, fmt.Errorf("table %s does not exist", h.TableName())
	}

	row := make(store.Row, len(rec.Columns))
	for i, c := range rec.Columns {
		row[c] = rec.Values[i]
	}

	var key any
	if t.def != nil {
		for _, c := range t.def.Columns {
			if c.AutoIncrement {
				row[c.Name] = t.nextID
				key = t.nextID
				t.nextID++
			}
		}
		if err := s.check(t, row); err != nil {
			return nil, err
		}
	}

	t.rows = append(t.rows, row)
	return key, nil
}

func (s *Store) check(t *table, row store.Row) error {
	known := make(map[string]bool, len(t.def.Columns))
	for _, c := range t.def.Columns {
		known[c.Name] = true
		v := row[c.Name]
		if v == nil {
			if !c.Nullable {
				return fmt.Errorf("%s.%s: NOT NULL constraint failed", t.name, c.Name)
			}
			continue
		}
		if c.References != nil && !s.exists(c.References, v) {
			return fmt.Errorf("%s.%s: FOREIGN KEY constraint failed: no %s.%s = %v",
				t.name, c.Name, c.References.Table, c.References.Column, v)
		}
	}
	for c := range row {
		if !known[c] {
			return fmt.Errorf("%s has no column named %s", t.name, c)
		}
	}
	return nil
}

func (s *Store) exists(ref *store.Reference, v any) bool {
	t, ok := s.tables[ref.Table]
	if !ok {
		return false
	}
	want := fmt.Sprint(v)
	for _, r := range t.rows {
		if fmt.Sprint(r[ref.Column]) == want {
			return true
		}
	}
	return false
}

func (s *Store) RowCount(name string) (int, bool, error) {
	t, ok := s.tables[name]
	if !ok {
		return 0, false, nil
	}
	return len(t.rows), true, nil
}

func (s *Store) DropTable(name string) error {
	if _, ok := s.tables[name]; !ok {
		return fmt.Errorf("table %s does not exist", name)
	}
	delete(s.tables, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyRow(r store.Row) store.Row {
	out := make(store.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var (
	_ store.Source = (*Store)(nil)
	_ store.Target = (*Store)(nil)
)
