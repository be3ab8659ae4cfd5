package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/report"
	"github.com/Tiliavir/toggl-tally/internal/tally"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
)

var statusFlags windowFlags

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and time tracked this billing period",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusFlags.register(statusCmd, true)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd, &statusFlags)
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

	active, err := client.CurrentTimeEntry(cmd.Context())
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
	if active != nil {
		fmt.Fprintln(out, "Running:")
		fmt.Fprintf(out, "  Project: %s\n", projectName(*active, projectNames(catalog)))
		if active.Description != "" {
			fmt.Fprintf(out, "  Description: %s\n", active.Description)
		}
		fmt.Fprintf(out, "  Since: %s\n", active.Start.In(cal.Now().Location()).Format("15:04"))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(active.Elapsed(cal.Now())))
	} else {
		fmt.Fprintln(out, "No active timer.")
	}

	fmt.Fprintf(out, "Since %s: %s tracked, next invoice on %s.\n",
		cal.FirstBillableDate().Format(report.DateFormat),
		timecalc.FormatDurationHHMMSS(tally.SumDurations(entries).IntPart()),
		cal.NextInvoiceDate().Format(report.DateFormat),
	)
	return nil
}
