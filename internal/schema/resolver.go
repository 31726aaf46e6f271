package schema

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Resolve orders tables so that each one comes after every table its foreign
// keys point at.
//
// Each pass walks the pending tables and accepts any table whose references
// are already accepted; the rest wait for the next pass. A pass that accepts
// nothing while tables are still pending means the remaining graph is cyclic
// (a self-reference counts) or references a table outside the input.
func Resolve(tables []*Table) (Plan, error) {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if seen[t.Name] {
			return nil, &DuplicateTableError{Table: t.Name}
		}
		seen[t.Name] = true

		for _, c := range t.Columns {
			if len(c.ForeignKeys) > 1 {
				return nil, &UnsupportedForeignKeyError{
					Table:  t.Name,
					Column: c.Name,
					Reason: fmt.Sprintf("%d foreign keys declared, at most one is supported", len(c.ForeignKeys)),
				}
			}
		}
	}

	plan := make(Plan, 0, len(tables))
	accepted := make(map[string]bool, len(tables))
	pending := append([]*Table(nil), tables...)

	for pass := 1; len(pending) > 0; pass++ {
		progress := 0
		var deferred []*Table

		for _, t := range pending {
			if referencesAccepted(t, accepted) {
				plan = append(plan, t)
				accepted[t.Name] = true
				progress++
				continue
			}
			deferred = append(deferred, t)
		}

		log.WithFields(log.Fields{
			"pass":     pass,
			"accepted": progress,
			"deferred": len(deferred),
		}).Debug("dependency pass")

		if progress == 0 {
			return nil, cycleError(deferred, accepted)
		}
		pending = deferred
	}

	return plan, nil
}

func referencesAccepted(t *Table, accepted map[string]bool) bool {
	for _, dep := range t.Dependencies() {
		if !accepted[dep] {
			return false
		}
	}
	return true
}

func cycleError(stuck []*Table, accepted map[string]bool) error {
	e := &DependencyCycleError{Unresolved: make(map[string][]string)}
	for _, t := range stuck {
		e.Tables = append(e.Tables, t.Name)
		for _, dep := range t.Dependencies() {
			if !accepted[dep] {
				e.Unresolved[t.Name] = append(e.Unresolved[t.Name], dep)
			}
		}
	}
	return e
}

// WithDependencies returns the tables named in names together with every table
// they reach through foreign keys, in the order they appear in all. Names are
// matched case-insensitively.
func WithDependencies(all []*Table, names []string) ([]*Table, error) {
	byName := make(map[string]*Table, len(all))
	for _, t := range all {
		byName[strings.ToLower(t.Name)] = t
	}

	keep := make(map[string]bool)
	var visit func(t *Table)
	visit = func(t *Table) {
		if keep[t.Name] {
			return
		}
		keep[t.Name] = true
		for _, dep := range t.Dependencies() {
			if d, ok := byName[strings.ToLower(dep)]; ok {
				visit(d)
			}
		}
	}

	var missing []string
	for _, n := range names {
		t, ok := byName[strings.ToLower(n)]
		if !ok {
			missing = append(missing, n)
			continue
		}
		visit(t)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", missing)
	}

	var out []*Table
	for _, t := range all {
		if keep[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}
