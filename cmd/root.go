package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/config"
	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/model"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "toggl-tally",
	Short: "Toggl Tally – how many hours a day until the next invoice",
	Long: `toggl-tally reads your Toggl Track time entries for the current billing
period and works out how much you still need to work per remaining working
day to reach your monthly target.

Defaults for every flag can be kept in a YAML config file (see "config init").
The Toggl API token is read from the TOGGL_API_TOKEN environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for problems the user fixes in their configuration or
// filters and 1 for everything else.
func exitCode(err error) int {
	var ce *model.ConfigError
	var nf *filter.NotFoundError
	switch {
	case errors.As(err, &ce), errors.As(err, &nf), errors.Is(err, holiday.ErrUnsupportedCountry):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath,
		"YAML config file (env "+config.PathEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show filters and upcoming holidays, and log debug output")

	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}
