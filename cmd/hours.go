package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/report"
	"github.com/Tiliavir/toggl-tally/internal/tally"
)

var (
	hoursPerMonth int
	hoursFlags    windowFlags
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show hours per day needed to hit the monthly target",
	Args:  cobra.NoArgs,
	RunE:  runHours,
}

func init() {
	hoursCmd.Flags().IntVar(&hoursPerMonth, "hours-per-month", 0, "Target working hours per month")
	hoursFlags.register(hoursCmd, true)
}

func runHours(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd, &hoursFlags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hours-per-month") {
		cfg.HoursPerMonth = hoursPerMonth
	}
	if err := cfg.Validate(); err != nil {
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

	summary, err := tally.New(cal, client, logger).Summarize(cmd.Context(), tally.Request{
		HoursPerMonth: cfg.HoursPerMonth,
		Names:         cfg.FilterNames(),
		Mode:          mode,
	})
	if err != nil {
		return err
	}

	report.New(cmd.OutOrStdout()).Summary(summary, verbose)
	return nil
}
