package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/model"
	"github.com/Tiliavir/toggl-tally/internal/tally"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
)

var (
	entriesFormat string
	entriesFlags  windowFlags
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List the filtered time entries of the current billing period",
	Args:  cobra.NoArgs,
	RunE:  runEntries,
}

func init() {
	entriesCmd.Flags().StringVar(&entriesFormat, "format", "md", "Output format: md, csv, json")
	entriesFlags.register(entriesCmd, true)
}

func runEntries(cmd *cobra.Command, args []string) error {
	switch entriesFormat {
	case "md", "csv", "json":
	default:
		return model.NewConfigError("format", "unknown format %q (want md, csv or json)", entriesFormat)
	}

	cfg, logger, err := loadConfig(cmd, &entriesFlags)
	if err != nil {
		return err
	}
	if err := cfg.ValidateCalendar(); err != nil {
		return err
	}
	mode, err := filter.ParseMode(cfg.FilterMode)
	if err != nil {
		return err
	}
	cal, err := newCalendar(cfg, logger)
	if err != nil {
		return err
	}
	client, err := newTogglClient(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	t := tally.New(cal, client, logger)
	catalog, err := t.Catalog(cmd.Context())
	if err != nil {
		return err
	}
	_, entries, err := t.Entries(cmd.Context(), cfg.FilterNames(), mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	projects := projectNames(catalog)
	switch entriesFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		printCSV(out, entries, projects)
	default:
		printList(out, entries, projects)
	}
	return nil
}

func projectNames(c model.Catalog) map[int64]string {
	names := make(map[int64]string, len(c.Projects))
	for _, p := range c.Projects {
		names[p.ID] = p.Name
	}
	return names
}

func projectName(e model.TimeEntry, names map[int64]string) string {
	if e.ProjectID == nil {
		return "(no project)"
	}
	if n, ok := names[*e.ProjectID]; ok {
		return n
	}
	return fmt.Sprintf("#%d", *e.ProjectID)
}

// printList groups entries by date and prints them.
func printList(w io.Writer, entries []model.TimeEntry, projects map[int64]string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	var currentDay string
	var total int64
	for _, e := range entries {
		day := e.Start.Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}

		endStr := "ongoing"
		if e.Stop != nil {
			endStr = e.Stop.Format("15:04")
		}
		desc := ""
		if e.Description != "" {
			desc = "  " + e.Description
		}
		fmt.Fprintf(w, "%s–%s  %s%s (%s)\n",
			e.Start.Format("15:04"), endStr, projectName(e, projects), desc, timecalc.FormatDuration(e.Duration))
		total += e.Duration
	}
	fmt.Fprintf(w, "Total: %s\n", timecalc.FormatDurationHHMMSS(total))
}

func printCSV(w io.Writer, entries []model.TimeEntry, projects map[int64]string) {
	fmt.Fprintln(w, "date,project,description,start,stop,duration_seconds,billable")
	for _, e := range entries {
		stopStr := ""
		if e.Stop != nil {
			stopStr = e.Stop.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%t\n",
			csvEscape(e.Start.Format("2006-01-02")),
			csvEscape(projectName(e, projects)),
			csvEscape(e.Description),
			csvEscape(e.Start.Format(time.RFC3339)),
			csvEscape(stopStr),
			e.Duration,
			e.Billable,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
