package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	"db-mirror/internal/dialect"
	"db-mirror/internal/schema"
	"db-mirror/internal/store/sqlstore"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	RoleSource = "source"
	RoleTarget = "target"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Role   string `mapstructure:"role"`
}

// GetDBConfig returns the database configured for role. The --<role>-dsn flag
// wins over the databases list.
func GetDBConfig(role string) (*DBConfig, error) {
	if dsn := viper.GetString(role + ".dsn"); dsn != "" {
		return &DBConfig{
			Name:   role + " (flags)",
			Driver: withDefaultDriver(viper.GetString(role+".driver"), dsn),
			DSN:    dsn,
			Role:   role,
		}, nil
	}

	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}
	return selectDBConfig(configs, role)
}

func selectDBConfig(configs []DBConfig, role string) (*DBConfig, error) {
	var found *DBConfig
	count := 0
	for i := range configs {
		if strings.EqualFold(configs[i].Role, role) {
			found = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no %s database found in config (set role: %s or --%s-dsn)", role, role, role)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple %s databases found (only one can have role: %s)", role, role)
	}
	if found.DSN == "" {
		return nil, fmt.Errorf("%s database %q has no dsn", role, found.Name)
	}
	found.Driver = withDefaultDriver(found.Driver, found.DSN)
	return found, nil
}

// withDefaultDriver guesses the driver from the DSN when none is configured.
func withDefaultDriver(driver, dsn string) string {
	if driver != "" {
		return driver
	}
	switch {
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(dsn, "oracle://"):
		return "oracle"
	case strings.Contains(dsn, "postgres") || strings.Contains(dsn, "sslmode"):
		return "postgres"
	default:
		return "mysql"
	}
}

// connect opens and pings the database of role and binds a store to it. The
// caller closes the returned *sql.DB.
func connect(role string) (*sqlstore.Store, *sql.DB, error) {
	config, err := GetDBConfig(role)
	if err != nil {
		return nil, nil, err
	}
	d, err := dialect.GetDialect(config.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s db: %w", role, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to %s db: %w", role, err)
	}

	s, err := sqlstore.New(db, d, viper.GetString("settings.schema_"+role))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	fmt.Printf("🪞 %s: %s via %s (schema %s)\n", role, config.Name, config.Driver, s.Schema())
	return s, db, nil
}

// loadAnonymization reads the anonymize section: table -> column -> transform.
func loadAnonymization() (map[string]map[string]string, error) {
	var m map[string]map[string]string
	if err := viper.UnmarshalKey("anonymize", &m); err != nil {
		return nil, fmt.Errorf("failed to parse anonymize config: %w", err)
	}
	return m, nil
}

// applyAnonymization attaches the configured maps to the introspected tables.
// Config keys are matched case-insensitively since viper lower-cases them. A
// column that does not exist is kept under its configured name so that
// validation reports it.
func applyAnonymization(tables []*schema.Table, config map[string]map[string]string) error {
	for tableName, cols := range config {
		t := findTable(tables, tableName)
		if t == nil {
			return fmt.Errorf("anonymize: unknown table %q", tableName)
		}
		if t.Anonymize == nil {
			t.Anonymize = make(schema.AnonymizationMap)
		}
		for colName, transformName := range cols {
			name := colName
			for _, c := range t.Columns {
				if strings.EqualFold(c.Name, colName) {
					name = c.Name
					break
				}
			}
			t.Anonymize[name] = transformName
		}
		log.WithFields(log.Fields{"table": t.Name, "columns": len(cols)}).Debug("anonymization configured")
	}
	return nil
}

func findTable(tables []*schema.Table, name string) *schema.Table {
	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// selectTables applies the table filter (flag > settings.tables > all).
// Referenced tables are pulled in so the copy keeps its foreign keys.
func selectTables(all []*schema.Table, flagTables []string) ([]*schema.Table, error) {
	names := flagTables
	if len(names) == 0 {
		names = viper.GetStringSlice("settings.tables")
	}
	if len(names) == 0 {
		return all, nil
	}

	selected, err := schema.WithDependencies(all, names)
	if err != nil {
		return nil, err
	}
	if extra := len(selected) - len(names); extra > 0 {
		log.Infof("Including %d referenced table(s) required by the selection", extra)
	}
	return selected, nil
}

// loadSourceTables introspects the source and applies the anonymize config
// and table filter.
func loadSourceTables(src *sqlstore.Store, flagTables []string) ([]*schema.Table, error) {
	log.Info("Analyzing source schema...")
	all, err := src.Tables()
	if err != nil {
		return nil, err
	}

	anon, err := loadAnonymization()
	if err != nil {
		return nil, err
	}
	if err := applyAnonymization(all, anon); err != nil {
		return nil, err
	}
	return selectTables(all, flagTables)
}
