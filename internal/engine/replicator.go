// Package engine replicates a schema and its rows into an empty target,
// anonymizing selected columns on the way.
package engine

import (
	"fmt"

	"db-mirror/internal/schema"
	"db-mirror/internal/store"
	"db-mirror/internal/transform"

	log "github.com/sirupsen/logrus"
)

const (
	StatusOK       = "VERIFIED_OK"
	StatusMismatch = "MISMATCH"
)

// Replicator runs a replication from Source into Target. It runs
// synchronously and issues one store call at a time.
type Replicator struct {
	Source     store.Source
	Target     store.Target
	Transforms *transform.Registry

	// OnRow is called after every inserted row.
	OnRow func()
}

// Report is the outcome of a successful run.
type Report struct {
	Plan    schema.Plan
	Handles Handles
	Tables  []TableResult
}

// Run validates the anonymization maps, orders tables, creates them in the
// target and copies their rows. Any error aborts the run; nothing created
// before the error is rolled back.
func (r *Replicator) Run(tables []*schema.Table) (*Report, error) {
	if err := ValidateAnonymization(tables, r.Transforms); err != nil {
		return nil, err
	}

	plan, err := schema.Resolve(tables)
	if err != nil {
		return nil, err
	}
	log.WithField("plan", plan.Names()).Info("resolved replication order")

	handles, err := CreateSchema(r.Target, plan)
	if err != nil {
		return nil, err
	}

	results, err := CopyData(r.Source, r.Target, plan, handles, r.Transforms, r.OnRow)
	if err != nil {
		return nil, err
	}

	return &Report{Plan: plan, Handles: handles, Tables: results}, nil
}

// Verify compares source and target row counts for every copied table.
func Verify(src store.Source, target store.Target, report *Report) ([]TableResult, error) {
	verified := make([]TableResult, 0, len(report.Tables))
	for i, res := range report.Tables {
		t := report.Plan[i]

		srcCount, err := src.Count(t)
		if err != nil {
			return nil, fmt.Errorf("failed to count source table %s: %w", t.Name, err)
		}
		targetCount, _, err := target.RowCount(report.Handles[t.Name].TableName())
		if err != nil {
			return nil, fmt.Errorf("failed to count target table %s: %w", t.Name, err)
		}

		res.Source = srcCount
		res.Target = targetCount
		res.Status = StatusOK
		if srcCount != targetCount {
			res.Status = StatusMismatch
		}
		verified = append(verified, res)
	}
	return verified, nil
}
