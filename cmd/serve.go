package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the course graph over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		mapping, err := careers.Load(cfg.CareersFile)
		if err != nil {
			return err
		}
		logger.Info("career mapping loaded", zap.Int("titles", mapping.Len()))

		srv := server.New(server.Options{Store: st, Careers: mapping, Logger: logger})
		return srv.ListenAndServe(cmd.Context(), cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default \":3000\")")
	serveCmd.Flags().String("careers", "", "Job title to careers profile mapping (JSON)")
}
