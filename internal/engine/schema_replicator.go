package engine

import (
	"fmt"

	"db-mirror/internal/schema"
	"db-mirror/internal/store"

	log "github.com/sirupsen/logrus"
)

// Handles maps source table names to the tables created for them.
type Handles map[string]store.Handle

// CreateSchema creates every table of plan in the target, in plan order.
//
// Before creating anything it checks, best-effort, that none of the tables
// already hold rows in the target. Foreign keys are re-pointed at the target
// tables created earlier in the run.
func CreateSchema(target store.Target, plan schema.Plan) (Handles, error) {
	for _, t := range plan {
		n, exists, err := target.RowCount(t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check target table %s: %w", t.Name, err)
		}
		if exists && n > 0 {
			return nil, &TargetNotEmptyError{Table: t.Name, Rows: n}
		}
	}

	handles := make(Handles, len(plan))
	for _, t := range plan {
		def, err := tableDef(t, handles)
		if err != nil {
			return nil, err
		}

		h, err := target.CreateTable(def)
		if err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
		handles[t.Name] = h

		log.WithFields(log.Fields{
			"table":   t.Name,
			"target":  h.TableName(),
			"columns": len(def.Columns),
		}).Info("created table")
	}
	return handles, nil
}

// generatedKey returns the column whose values the target assigns, or "".
// Primary keys are not copied, so a lone integer key must be generated.
func generatedKey(t *schema.Table) string {
	keyCol := t.KeyColumn()
	if c := t.Column(keyCol); c != nil && c.IsInteger() {
		return keyCol
	}
	return ""
}

func tableDef(t *schema.Table, handles Handles) (*store.TableDef, error) {
	keyCol := generatedKey(t)
	def := &store.TableDef{Name: t.Name}

	for _, c := range t.Columns {
		cd := store.ColumnDef{
			Name:       c.Name,
			DataType:   c.DataType,
			Length:     c.Length,
			Nullable:   c.IsNullable,
			PrimaryKey:    c.IsPK,
			AutoIncrement: keyCol != "" && c.Name == keyCol,
			NativeType:    c.NativeType,
			NativeDialect: c.NativeDialect,
		}

		if fk := c.ForeignKey(); fk != nil {
			h, ok := handles[fk.RefTable]
			if !ok {
				return nil, &MissingTargetTableError{Table: t.Name, Column: c.Name, Referenced: fk.RefTable}
			}
			cd.References = &store.Reference{Table: h.TableName(), Column: fk.RefColumn}
		}

		def.Columns = append(def.Columns, cd)
	}
	return def, nil
}
