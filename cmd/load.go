package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathways/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import courses, connections and KSB mappings from CSV",
	Long: `Read courses.csv, connections.csv and ksb.csv from the data directory,
validate them and replace the database contents in one transaction.

Connections pointing at unknown courses and duplicate connections are
rejected and reported. A missing ksb.csv is allowed.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("data", "", "Directory holding the CSV files (default \"data\")")
	loadCmd.Flags().String("courses", "", "Courses CSV (overrides <data>/courses.csv)")
	loadCmd.Flags().String("connections", "", "Connections CSV (overrides <data>/connections.csv)")
	loadCmd.Flags().String("ksb", "", "KSB mappings CSV (overrides <data>/ksb.csv)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	files := ingest.FilesIn(cfg.DataDir)
	for flag, dst := range map[string]*string{
		"courses":     &files.Courses,
		"connections": &files.Connections,
		"ksb":         &files.KSB,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := ingest.NewLoader(st, logger).Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d courses, %d connections, %d KSB mappings\n",
		report.Courses, report.Connections, report.KSB)
	if len(report.Rejected) > 0 {
		fmt.Fprintf(out, "\n%d rows rejected:\n", len(report.Rejected))
		for _, r := range report.Rejected {
			line := fmt.Sprintf("  %s:%d  %s", filepath.Base(r.File), r.Line, r.Reason)
			if r.From != "" || r.To != "" {
				line += fmt.Sprintf(" (from %s to %s)", r.From, r.To)
			}
			fmt.Fprintln(out, line)
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(out, "warning:", w)
	}
	if len(report.MissingFrom) > 0 {
		fmt.Fprintf(out, "Missing source course ids: %v\n", report.MissingFrom)
	}
	if len(report.MissingTo) > 0 {
		fmt.Fprintf(out, "Missing target course ids: %v\n", report.MissingTo)
	}
	return nil
}
