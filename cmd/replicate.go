package cmd

import (
	"fmt"
	"time"

	"db-mirror/internal/engine"
	"db-mirror/internal/schema"
	"db-mirror/internal/store"
	"db-mirror/internal/transform"

	"github.com/gosuri/uiprogress"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	tables []string
	seed   int64
)

var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Copy the source schema and rows into the empty target",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, srcDB, err := connect(RoleSource)
		if err != nil {
			return err
		}
		defer srcDB.Close()

		target, targetDB, err := connect(RoleTarget)
		if err != nil {
			return err
		}
		defer targetDB.Close()

		selected, err := loadSourceTables(src, tables)
		if err != nil {
			return err
		}

		reg := newRegistry(viper.GetInt64("settings.seed"))

		total, err := countRows(src, selected)
		if err != nil {
			return err
		}

		log.Infof("Starting replication of %d tables (%d rows)...", len(selected), total)
		start := time.Now()

		// Setup Progress Bar
		uiprogress.Start()
		bar := uiprogress.AddBar(max(total, 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Copying: "
		})

		r := &engine.Replicator{
			Source:     src,
			Target:     target,
			Transforms: reg,
			OnRow:      func() { bar.Incr() },
		}
		report, err := r.Run(selected)

		uiprogress.Stop()

		if err != nil {
			fmt.Println("⚠️  Replication aborted. Tables created so far are left in place; run `db-mirror clean --force` before retrying.")
			return err
		}

		verified, err := engine.Verify(src, target, report)
		if err != nil {
			return err
		}
		printReport(verified)
		log.Infof("Replication Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(replicateCmd)

	replicateCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to replicate (comma-separated); referenced tables are included")
	replicateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for fake-value transforms (0 = random)")

	viper.BindPFlag("settings.seed", replicateCmd.Flags().Lookup("seed"))
}

// newRegistry builds the transform registry with the CLI's extra transforms.
func newRegistry(seed int64) *transform.Registry {
	var opts []transform.Option
	if seed != 0 {
		opts = append(opts, transform.WithSeed(seed))
	}
	reg := transform.NewRegistry(opts...)
	reg.Register("phone_number", transform.PhoneNumber(reg))
	return reg
}

func countRows(src store.Source, tables []*schema.Table) (int, error) {
	total := 0
	for _, t := range tables {
		n, err := src.Count(t)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func printReport(results []engine.TableResult) {
	fmt.Println("\n📊 Summary Report (Dependency Order):")
	total := 0
	for i, r := range results {
		icon := "✓"
		status := "OK (Verified)"
		if r.Status != engine.StatusOK {
			icon = "!"
			status = r.Status
		}
		fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Source: %d, Target: %d) - %s\n",
			icon, i+1, len(results), r.TableName, r.Copied, r.Source, r.Target, status)
		if len(r.Anonymized) > 0 {
			fmt.Printf("    └ Anonymized: %v\n", r.Anonymized)
		}
		total += r.Copied
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Rows Copied: %d\n", total)
}
