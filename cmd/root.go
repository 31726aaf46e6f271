package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string

	sourceDSN    string
	sourceDriver string
	targetDSN    string
	targetDriver string
)

var RootCmd = &cobra.Command{
	Use:   "db-mirror",
	Short: "Replicate a database into an empty target, anonymizing selected columns",
	Long: `
  ____  ____    __  __ ___ ____  ____   ___  ____
 |  _ \| __ )  |  \/  |_ _|  _ \|  _ \ / _ \|  _ \
 | | | |  _ \  | |\/| || || |_) | |_) | | | | |_) |
 | |_| | |_) | | |  | || ||  _ <|  _ <| |_| |  _ <
 |____/|____/  |_|  |_|___|_| \_\_| \_\\___/|_| \_\

DB MIRROR 🪞 - Schema Replicator & Data Anonymizer
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(level)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./db-mirror.yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&sourceDSN, "source-dsn", "", "source Database Source Name (overrides config)")
	flags.StringVar(&sourceDriver, "source-driver", "", "source driver: mysql, postgres, sqlserver or oracle")
	flags.StringVar(&targetDSN, "target-dsn", "", "target Database Source Name (overrides config)")
	flags.StringVar(&targetDriver, "target-driver", "", "target driver: mysql, postgres, sqlserver or oracle")

	// Bind flags to viper (Flag > Env > Config > Default)
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("source.dsn", flags.Lookup("source-dsn"))
	viper.BindPFlag("source.driver", flags.Lookup("source-driver"))
	viper.BindPFlag("target.dsn", flags.Lookup("target-dsn"))
	viper.BindPFlag("target.driver", flags.Lookup("target-driver"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-mirror")
		viper.SetConfigType("yaml")
	}

	// LOG_LEVEL, SOURCE_DSN, TARGET_DRIVER, ...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
