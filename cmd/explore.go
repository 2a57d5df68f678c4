package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/app"
	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/client"
	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/logging"
	"github.com/abhisek/pathways/internal/prefs"
)

// runExplore builds the client state over the local store or a remote
// server and launches the TUI.
func runExplore(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	prefsPath, err := cfg.PreferencesPath()
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	pf, err := prefs.Open(prefsPath)
	if err != nil {
		return fmt.Errorf("open prefs: %w", err)
	}

	var src explorer.Source
	if cfg.Remote() {
		c, err := client.New(cfg.ServerURL,
			client.WithTimeout(cfg.RequestTimeout),
			client.WithLogger(logger))
		if err != nil {
			return err
		}
		src = c
		logger.Info("exploring remote server", zap.String("url", cfg.ServerURL))
	} else {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		mapping, err := careers.Load(cfg.CareersFile)
		if err != nil {
			return err
		}
		src = &explorer.LocalSource{Store: st, Careers: mapping}
	}

	state := explorer.New(explorer.Config{Wishlist: pf, Logger: logger})
	return app.Run(app.Options{
		State:    state,
		Source:   src,
		Prefs:    pf,
		Logger:   logger,
		Debounce: cfg.Debounce,
		Timeout:  cfg.RequestTimeout,
	})
}
