package cmd

import (
	"fmt"
	"strings"

	"db-mirror/internal/schema"
	"db-mirror/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var force bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop replicated tables from the target so a run can be retried",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, targetDB, err := connect(RoleTarget)
		if err != nil {
			return err
		}
		defer targetDB.Close()

		log.Info("Analyzing target schema...")
		all, err := target.Tables()
		if err != nil {
			return err
		}
		plan, err := schema.Resolve(all)
		if err != nil {
			return err
		}
		if plan, err = onlyTables(plan, tables); err != nil {
			return err
		}

		if !force {
			fmt.Println("🔍 Tables that would be dropped (pass --force to drop them):")
			for i := len(plan) - 1; i >= 0; i-- {
				fmt.Printf("  - %s\n", plan[i].Name)
			}
			return nil
		}
		return dropTables(target, plan)
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to drop (comma-separated); tables referencing them must be listed too")
	cleanCmd.Flags().BoolVar(&force, "force", false, "Actually drop the tables")
}

// onlyTables keeps the named tables of plan, in plan order. No names keeps
// everything.
func onlyTables(plan schema.Plan, names []string) (schema.Plan, error) {
	if len(names) == 0 {
		return plan, nil
	}
	var out schema.Plan
	for _, n := range names {
		if findTable(plan, n) == nil {
			return nil, fmt.Errorf("no matching tables found for inputs: %v", n)
		}
	}
	for _, t := range plan {
		for _, n := range names {
			if strings.EqualFold(t.Name, n) {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

// dropTables drops tables in reverse plan order so no dropped table is still
// referenced by one that remains.
func dropTables(target store.Target, plan schema.Plan) error {
	count := 0
	total := len(plan)

	for i := len(plan) - 1; i >= 0; i-- {
		t := plan[i]
		if _, exists, err := target.RowCount(t.Name); err != nil {
			return err
		} else if !exists {
			log.WithField("table", t.Name).Debug("already absent")
			continue
		}
		if err := target.DropTable(t.Name); err != nil {
			return err
		}
		count++

		if count%5 == 0 || i == 0 {
			log.Infof("Dropped %d/%d tables...", count, total)
		}
	}

	log.Info("Target Cleaned Successfully!")
	return nil
}
