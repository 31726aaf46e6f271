package engine

import (
	"errors"
	"sort"

	"db-mirror/internal/schema"
	"db-mirror/internal/transform"
)

// ValidateAnonymization checks every table's anonymization map against the
// table's columns and the registry, so a bad map fails before anything is
// written.
func ValidateAnonymization(tables []*schema.Table, reg *transform.Registry) error {
	for _, t := range tables {
		cols := make([]string, 0, len(t.Anonymize))
		for c := range t.Anonymize {
			cols = append(cols, c)
		}
		sort.Strings(cols)

		for _, name := range cols {
			col := t.Column(name)
			if col == nil {
				return &UnknownColumnError{Table: t.Name, Column: name}
			}
			if col.IsPK || col.ForeignKey() != nil {
				return &KeyColumnAnonymizedError{Table: t.Name, Column: name}
			}
			if _, err := resolve(reg, t, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolve looks up the transform for t.name, attaching table and column to an
// unknown-transform error.
func resolve(reg *transform.Registry, t *schema.Table, column string) (transform.Func, error) {
	fn, err := reg.Resolve(t.Anonymize[column])
	var unknown *transform.UnknownTransformError
	if errors.As(err, &unknown) {
		return nil, &transform.UnknownTransformError{Name: unknown.Name, Table: t.Name, Column: column}
	}
	return fn, err
}
