package engine

import (
	"fmt"

	"db-mirror/internal/schema"
	"db-mirror/internal/store"
	"db-mirror/internal/transform"

	log "github.com/sirupsen/logrus"
)

// TableResult reports the copy of one table.
type TableResult struct {
	TableName  string
	Copied     int
	Anonymized []string
	Source     int
	Target     int
	Status     string
}

// copiedKeys records which target key each copied source key became.
type copiedKeys struct {
	column string
	keys   map[string]any
}

// keyMap holds the copied keys of every table copied so far.
type keyMap map[string]*copiedKeys

// copyRun is the state shared by the tables of one CopyData call.
type copyRun struct {
	reg  *transform.Registry
	keys keyMap
	// cut holds the "table.column" names already warned about truncation.
	cut map[string]bool
}

// CopyData copies the rows of every table in plan order.
//
// Primary-key columns are left out of each record so the target assigns its
// own keys. Columns named in a table's anonymization map are replaced by their
// transform's output. Foreign-key columns are never anonymized; when they
// reference a single-column primary key that the target re-assigned, the value
// is rewritten to the referenced row's new key. onRow, if set, is called after
// each insert.
func CopyData(src store.Source, target store.Target, plan schema.Plan, handles Handles, reg *transform.Registry, onRow func()) ([]TableResult, error) {
	run := &copyRun{reg: reg, keys: make(keyMap), cut: make(map[string]bool)}
	var results []TableResult

	for _, t := range plan {
		h, ok := handles[t.Name]
		if !ok {
			return results, &MissingTargetTableError{Table: t.Name, Referenced: t.Name}
		}

		res, err := run.copyTable(src, target, t, h, onRow)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		log.WithFields(log.Fields{
			"table":      t.Name,
			"rows":       res.Copied,
			"anonymized": res.Anonymized,
		}).Info("copied table")
	}
	return results, nil
}

func (r *copyRun) copyTable(src store.Source, target store.Target, t *schema.Table, h store.Handle, onRow func()) (TableResult, error) {
	res := TableResult{TableName: t.Name}
	for _, c := range t.Columns {
		if _, ok := t.Anonymize[c.Name]; ok {
			res.Anonymized = append(res.Anonymized, c.Name)
		}
	}

	// Registered before any row so references into an empty table are
	// reported as unmapped.
	keyCol := generatedKey(t)
	if keyCol != "" {
		r.keys[t.Name] = &copiedKeys{column: keyCol, keys: make(map[string]any)}
	}

	err := src.Rows(t, func(row store.Row) error {
		rec, err := r.buildRecord(t, row)
		if err != nil {
			return err
		}

		newKey, err := target.InsertRow(h, rec)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", t.Name, err)
		}
		if keyCol != "" && newKey != nil {
			r.keys[t.Name].keys[keyString(row[keyCol])] = newKey
		}

		res.Copied++
		if onRow != nil {
			onRow()
		}
		return nil
	})
	return res, err
}

func (r *copyRun) buildRecord(t *schema.Table, row store.Row) (store.Record, error) {
	var rec store.Record
	for _, c := range t.Columns {
		if c.IsPK {
			continue
		}
		v := row[c.Name]

		if fk := c.ForeignKey(); fk != nil {
			mapped, err := remapReference(t, c, fk, v, r.keys)
			if err != nil {
				return rec, err
			}
			rec.Set(c.Name, mapped)
			continue
		}

		if _, ok := t.Anonymize[c.Name]; ok {
			fn, err := resolve(r.reg, t, c.Name)
			if err != nil {
				return rec, err
			}
			if v, err = fn(v); err != nil {
				return rec, fmt.Errorf("failed to anonymize %s.%s: %w", t.Name, c.Name, err)
			}
			// Generated text may be longer than the column allows.
			if s, ok := v.(string); ok && c.IsText() {
				if cut := truncate(s, c.Length); cut != s {
					r.warnTruncated(t, c)
					v = cut
				}
			}
		}
		rec.Set(c.Name, v)
	}
	return rec, nil
}

// warnTruncated logs the first truncation of each column. A cut digest no
// longer matches the digest of the original value.
func (r *copyRun) warnTruncated(t *schema.Table, c *schema.Column) {
	key := t.Name + "." + c.Name
	if r.cut[key] {
		return
	}
	r.cut[key] = true
	log.WithFields(log.Fields{
		"table":     t.Name,
		"column":    c.Name,
		"transform": t.Anonymize[c.Name],
		"length":    c.Length,
	}).Warn("transform output truncated to fit the column")
}

// remapReference translates a foreign-key value through the referenced
// table's key map. References to tables whose keys are not generated by the
// target, or to columns other than the generated key, pass through unchanged.
func remapReference(t *schema.Table, c *schema.Column, fk *schema.ForeignKey, v any, keys keyMap) (any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := keys[fk.RefTable]
	if !ok || m.column != fk.RefColumn {
		return v, nil
	}
	newKey, ok := m.keys[keyString(v)]
	if !ok {
		return nil, &UnmappedReferenceError{Table: t.Name, Column: c.Name, Referenced: fk.RefTable, Value: v}
	}
	return newKey, nil
}

func keyString(v any) string {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return fmt.Sprintf("%v", v)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}
