package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/config"
	"github.com/abhisek/pathways/internal/logging"
	"github.com/abhisek/pathways/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pathways",
	Short: "Explore course progression routes",
	Long:  "Pathways explores course progression routes, enriched with knowledge, skills and career pathways.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplore(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PATHWAYS_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().String("server", "", "Explore a remote pathways server instead of the local database")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves defaults, the config file, the environment and
// finally any flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]*string{
		"db":        &cfg.DBPath,
		"log-level": &cfg.LogLevel,
		"server":    &cfg.ServerURL,
		"addr":      &cfg.Addr,
		"data":      &cfg.DataDir,
		"careers":   &cfg.CareersFile,
	}
	for name, dst := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	return cfg, cfg.Validate()
}

// openStore opens the configured database.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newLogger returns the stderr logger used by the non-interactive
// commands.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel, true)
}
