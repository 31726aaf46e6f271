package cmd

import (
	"fmt"

	"db-mirror/internal/engine"
	"db-mirror/internal/schema"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var suggest bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the replication order and anonymized columns without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, srcDB, err := connect(RoleSource)
		if err != nil {
			return err
		}
		defer srcDB.Close()

		selected, err := loadSourceTables(src, tables)
		if err != nil {
			return err
		}

		log.Info("[SIMULATION] Dry-Run Mode Active: No data will be written.")
		if err := engine.ValidateAnonymization(selected, newRegistry(0)); err != nil {
			return err
		}
		plan, err := schema.Resolve(selected)
		if err != nil {
			return err
		}

		fmt.Printf("🔍 Replication Plan:\n")
		for i, t := range plan {
			fmt.Printf("[%02d] %s (Dependencies: %v)\n", i+1, t.Name, t.Dependencies())
			for _, c := range t.Columns {
				if name, ok := t.Anonymize[c.Name]; ok {
					fmt.Printf("    └ %s -> %s\n", c.Name, name)
				}
			}
		}

		if suggest {
			out, err := suggestionYAML(plan)
			if err != nil {
				return err
			}
			fmt.Printf("\n💡 Suggested anonymize config:\n%s", out)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(planCmd)

	planCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to plan (comma-separated); referenced tables are included")
	planCmd.Flags().BoolVar(&suggest, "suggest", false, "Print an anonymize config suggested from column names and comments")
}

// suggestionYAML renders suggestions for columns that are not configured yet,
// in the shape of the anonymize config section.
func suggestionYAML(plan schema.Plan) ([]byte, error) {
	suggestions := make(map[string]schema.AnonymizationMap)
	for _, t := range plan {
		s := schema.SuggestAnonymization(t)
		for col := range t.Anonymize {
			delete(s, col)
		}
		if len(s) > 0 {
			suggestions[t.Name] = s
		}
	}
	if len(suggestions) == 0 {
		return []byte("# nothing to suggest\n"), nil
	}
	out, err := yaml.Marshal(map[string]any{"anonymize": suggestions})
	if err != nil {
		return nil, fmt.Errorf("failed to render suggestions: %w", err)
	}
	return out, nil
}
