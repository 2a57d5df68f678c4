package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/progression"
	"github.com/abhisek/pathways/internal/render"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/store"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Query courses from the command line",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses (optionally filtered by level, provider or subject)",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		provider, _ := cmd.Flags().GetString("provider")
		subject, _ := cmd.Flags().GetString("subject")

		st, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		courses, err := st.Courses(cmd.Context())
		if err != nil {
			return err
		}
		courses = search.Apply(courses, search.Filters{Level: level, Provider: provider, Subject: subject}, nil)

		out := cmd.OutOrStdout()
		printCourseHeader(out)
		for _, c := range courses {
			printCourseRow(out, c)
		}
		fmt.Fprintf(out, "\n%d courses\n", len(courses))
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a course and its progression routes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid course id %q", args[0])
		}
		dirFlag, _ := cmd.Flags().GetString("direction")
		dir, err := progression.ParseDirection(dirFlag)
		if err != nil {
			return err
		}

		st, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		c, err := st.Course(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("course %d not found", id)
		}
		if err != nil {
			return err
		}

		var routes []catalog.Route
		if dir == progression.Backward {
			routes, err = st.Incoming(ctx, id)
		} else {
			routes, err = st.Outgoing(ctx, id)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", c.Name)
		fmt.Fprintf(out, "  Provider:  %s\n", c.Provider)
		fmt.Fprintf(out, "  Level:     %d\n", c.Level)
		if c.SubjectArea != "" {
			fmt.Fprintf(out, "  Subject:   %s\n", c.SubjectArea)
		}
		if c.QualificationType != "" {
			fmt.Fprintf(out, "  Type:      %s\n", c.QualificationType)
		}
		if c.URL != "" {
			fmt.Fprintf(out, "  URL:       %s\n", c.URL)
		}

		fmt.Fprintf(out, "\n%s\n", dir.Label())
		if len(routes) == 0 {
			fmt.Fprintf(out, "  %s\n", render.EmptyMessage(dir))
			return nil
		}
		arrow := "→"
		if dir == progression.Backward {
			arrow = "←"
		}
		for _, r := range routes {
			notes := r.Connection.Notes
			if notes == "" {
				notes = render.FallbackEdgeLabel
			}
			fmt.Fprintf(out, "  %s [%d] %s (L%d, %s)  %s\n",
				arrow, r.Course.ID, r.Course.Name, r.Course.Level,
				render.ShortProvider(r.Course.Provider), notes)
		}
		return nil
	},
}

var courseSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search courses by name, or by skills and careers with --skills",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skills, _ := cmd.Flags().GetBool("skills")
		minConfidence, _ := cmd.Flags().GetInt("min-confidence")
		query := strings.Join(args, " ")

		st, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		courses, err := st.Courses(ctx)
		if err != nil {
			return err
		}
		records, err := st.KSB(ctx)
		if err != nil {
			return err
		}

		mode := search.ModeCourses
		if skills {
			mode = search.ModeSkills
		}
		opts := search.DefaultOptions()
		opts.MinConfidence = minConfidence
		results := search.Run(courses, query, mode, search.Index(records), opts)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%6s  ", "Score")
		printCourseHeader(out)
		for _, r := range results {
			fmt.Fprintf(out, "%6.2f  ", r.Score)
			printCourseRow(out, r.Course)
			if len(r.Reasons) > 0 {
				fmt.Fprintf(out, "%8s%s\n", "", strings.Join(r.Reasons, "; "))
			}
		}
		fmt.Fprintf(out, "\n%d matches\n", len(results))
		return nil
	},
}

func init() {
	courseListCmd.Flags().Int("level", 0, "Filter by level (3-7)")
	courseListCmd.Flags().String("provider", "", "Filter by exact provider name")
	courseListCmd.Flags().String("subject", "", "Filter by exact subject area")

	courseShowCmd.Flags().String("direction", "forward", "Route direction: forward or backward")

	courseSearchCmd.Flags().Bool("skills", false, "Match against knowledge, skills and careers")
	courseSearchCmd.Flags().Int("min-confidence", 0, "Skip courses whose KSB confidence is lower (skills mode)")

	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseSearchCmd)
}

func openCommandStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func printCourseHeader(out io.Writer) {
	fmt.Fprintf(out, "%5s  %-44s  %5s  %-28s  %s\n", "ID", "Name", "Level", "Provider", "Subject")
	fmt.Fprintln(out, strings.Repeat("─", 110))
}

func printCourseRow(out io.Writer, c catalog.Course) {
	name := c.Name
	if len([]rune(name)) > 44 {
		name = string([]rune(name)[:41]) + "..."
	}
	provider := c.Provider
	if len([]rune(provider)) > 28 {
		provider = string([]rune(provider)[:25]) + "..."
	}
	fmt.Fprintf(out, "%5d  %-44s  %5d  %-28s  %s\n", c.ID, name, c.Level, provider, c.SubjectArea)
}
