package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve course queries as MCP tools over stdio",
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

		srv := mcpserver.New(&mcpserver.Tools{Store: st, Careers: mapping, Logger: logger}, version)
		return mcpserver.Serve(cmd.Context(), srv)
	},
}

func init() {
	mcpCmd.Flags().String("careers", "", "Job title to careers profile mapping (JSON)")
}
