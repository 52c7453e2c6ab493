package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/config"
	"github.com/abhisek/outlines/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "outlines",
	Short: "Course outline compliance assistant",
	Long: `Outlines checks course outlines against Common Course Numbering (CCN)
standards and walks authors through the CB compliance codes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile == "" {
			return config.LoadDotEnv()
		}
		return config.LoadDotEnv(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file or postgres:// URL (overrides OUTLINES_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a standards catalog file (overrides OUTLINES_CATALOG env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment from this file instead of .env")
	rootCmd.Flags().String("course", "", "Open the compliance wizard for this course id")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(standardCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(justificationCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
		cfg.DatabaseURL = ""
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	return cfg, cfg.Validate()
}

// resolveDSN returns the database to open: the --db flag or OUTLINES_DB,
// then OUTLINES_DATABASE_URL, then the default XDG path.
func resolveDSN(cfg config.Config) (string, error) {
	switch {
	case cfg.DBPath != "":
		if store.IsPostgres(cfg.DBPath) {
			return cfg.DBPath, nil
		}
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	case cfg.DatabaseURL != "":
		return cfg.DatabaseURL, nil
	}
	return store.DefaultDBPath()
}
