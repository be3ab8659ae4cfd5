package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/report"
)

var holidaysFlags windowFlags

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List public holidays left before the next invoice",
	Long: `List the public holidays between the next working day and the last
billable day of the current billing period. No Toggl API call is made.`,
	Args: cobra.NoArgs,
	RunE: runHolidays,
}

func init() {
	holidaysFlags.register(holidaysCmd, false)
}

func runHolidays(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd, &holidaysFlags)
	if err != nil {
		return err
	}
	if err := cfg.ValidateCalendar(); err != nil {
		return err
	}
	cal, err := newCalendar(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := cal.Period()
	if len(p.RemainingPublicHolidays) == 0 {
		fmt.Fprintf(out, "No public holidays before the next invoice on %s.\n", p.NextInvoiceDate.Format(report.DateFormat))
		return nil
	}
	report.New(out).HolidaysTable(p.RemainingPublicHolidays)
	return nil
}
