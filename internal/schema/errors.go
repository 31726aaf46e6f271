package schema

import (
	"fmt"
	"strings"
)

// UnsupportedForeignKeyError is returned for a column that declares more than
// one foreign key, or for a multi-column foreign key constraint.
type UnsupportedForeignKeyError struct {
	Table  string
	Column string
	Reason string
}

func (e *UnsupportedForeignKeyError) Error() string {
	return fmt.Sprintf("unsupported foreign key on %s.%s: %s", e.Table, e.Column, e.Reason)
}

// DependencyCycleError is returned when no valid creation order exists.
// Unresolved maps each stuck table to the references it was waiting on.
type DependencyCycleError struct {
	Tables     []string
	Unresolved map[string][]string
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, 0, len(e.Tables))
	for _, t := range e.Tables {
		parts = append(parts, fmt.Sprintf("%s -> [%s]", t, strings.Join(e.Unresolved[t], ", ")))
	}
	return "dependency cycle or unresolvable reference among tables: " + strings.Join(parts, "; ")
}

// DuplicateTableError is returned when two descriptors share a name.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("duplicate table %q in schema", e.Table)
}
