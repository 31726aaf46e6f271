package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/schema"

	log "github.com/sirupsen/logrus"
)

// Tables introspects every base table of the store's schema, with columns
// and single-column foreign keys. Tables come back in name order, unsorted by
// dependency.
func (s *Store) Tables() ([]*schema.Table, error) {
	// Keys are upper-cased so Oracle's identifiers match the others.
	tableMap := make(map[string]*schema.Table)
	var tables []*schema.Table

	// --- Step 1: Fetch Tables ---
	names, err := s.tableNames()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		t := &schema.Table{Name: name}
		tableMap[strings.ToUpper(name)] = t
		tables = append(tables, t)
	}

	// --- Step 2: Fetch Columns ---
	if err := s.readColumns(tableMap); err != nil {
		return nil, err
	}

	// --- Step 3: Fetch Foreign Keys ---
	if err := s.readForeignKeys(tableMap); err != nil {
		return nil, err
	}

	log.Debugf("sqlstore: introspected %d tables in %s", len(tables), s.schema)
	return tables, nil
}

func (s *Store) readColumns(tableMap map[string]*schema.Table) error {
	rows, err := s.db.Query(s.d.GetColumnsQuery(s.schema), s.schema)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName, dType, cLen, isNull, cKey, extra, comment, native sql.NullString
		if err := rows.Scan(&tName, &cName, &dType, &cLen, &isNull, &cKey, &extra, &comment, &native); err != nil {
			return fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}

		extraLower := strings.ToLower(extra.String)
		t.Columns = append(t.Columns, &schema.Column{
			Name:       cName.String,
			DataType:   s.d.NormalizeType(dType.String),
			Length:     parseLength(cLen),
			IsNullable: strings.EqualFold(isNull.String, "YES"),
			IsPK:       strings.Contains(cKey.String, "PRI"),
			IsAutoInc: strings.Contains(extraLower, "auto_increment") ||
				strings.Contains(extraLower, "identity") ||
				strings.Contains(extraLower, "nextval"),
			Comment:       comment.String,
			NativeType:    native.String,
			NativeDialect: s.d.Name(),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating columns: %w", err)
	}
	return nil
}

// fkColumn is one row of the foreign-key query.
type fkColumn struct {
	table, constraint, column, refTable, refColumn string
}

func (s *Store) readForeignKeys(tableMap map[string]*schema.Table) error {
	rows, err := s.db.Query(s.d.GetForeignKeysQuery(s.schema), s.schema)
	if err != nil {
		return fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	// Rows of one constraint arrive together.
	var groups [][]fkColumn
	for rows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := rows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fk := fkColumn{tName.String, cConst.String, cName.String, rTable.String, rCol.String}
		if n := len(groups); n > 0 && groups[n-1][0].table == fk.table && groups[n-1][0].constraint == fk.constraint {
			groups[n-1] = append(groups[n-1], fk)
		} else {
			groups = append(groups, []fkColumn{fk})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating foreign keys: %w", err)
	}

	for _, g := range groups {
		fk := g[0]
		t, ok := tableMap[strings.ToUpper(fk.table)]
		if !ok {
			continue
		}
		if len(g) > 1 {
			cols := make([]string, len(g))
			for i, c := range g {
				cols[i] = c.column
			}
			return &schema.UnsupportedForeignKeyError{
				Table:  t.Name,
				Column: strings.Join(cols, ","),
				Reason: fmt.Sprintf("constraint %s spans %d columns", fk.constraint, len(g)),
			}
		}
		ref, ok := tableMap[strings.ToUpper(fk.refTable)]
		if !ok {
			log.Warnf("sqlstore: %s.%s references %s outside schema %s, copying it as a plain value",
				t.Name, fk.column, fk.refTable, s.schema)
			continue
		}
		col := t.Column(fk.column)
		if col == nil {
			continue
		}
		col.ForeignKeys = append(col.ForeignKeys, &schema.ForeignKey{
			Constraint: fk.constraint,
			RefTable:   ref.Name,
			RefColumn:  fk.refColumn,
		})
	}
	return nil
}

// parseLength reads a character length that drivers report either as an
// integer or as a float string.
func parseLength(v sql.NullString) int {
	if !v.Valid || v.String == "" {
		return 0
	}
	var length int
	if _, err := fmt.Sscanf(v.String, "%d", &length); err == nil {
		return length
	}
	var fLength float64
	if _, err := fmt.Sscanf(v.String, "%f", &fLength); err == nil {
		return int(fLength)
	}
	return 0
}
