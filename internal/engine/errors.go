package engine

import "fmt"

// MissingTargetTableError means a foreign key points at a table that has not
// been created in the target. Plan ordering makes this unreachable; seeing it
// is a bug.
type MissingTargetTableError struct {
	Table      string
	Column     string
	Referenced string
}

func (e *MissingTargetTableError) Error() string {
	return fmt.Sprintf("%s.%s references %s, which has not been created in the target", e.Table, e.Column, e.Referenced)
}

// TargetNotEmptyError means the target already holds rows for a table the
// run would create.
type TargetNotEmptyError struct {
	Table string
	Rows  int
}

func (e *TargetNotEmptyError) Error() string {
	return fmt.Sprintf("target table %s already holds %d rows; the target must start empty", e.Table, e.Rows)
}

// UnmappedReferenceError means a foreign-key value has no copied counterpart
// in the referenced table.
type UnmappedReferenceError struct {
	Table      string
	Column     string
	Referenced string
	Value      any
}

func (e *UnmappedReferenceError) Error() string {
	return fmt.Sprintf("%s.%s = %v has no copied row in %s", e.Table, e.Column, e.Value, e.Referenced)
}

// UnknownColumnError means an anonymization map names a column the table
// does not have.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("anonymization map of %s names unknown column %s", e.Table, e.Column)
}

// KeyColumnAnonymizedError means an anonymization map targets a primary-key
// or foreign-key column.
type KeyColumnAnonymizedError struct {
	Table  string
	Column string
}

func (e *KeyColumnAnonymizedError) Error() string {
	return fmt.Sprintf("%s.%s is a key column and cannot be anonymized", e.Table, e.Column)
}
