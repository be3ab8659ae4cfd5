package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/config"
)

var (
	initForce         bool
	initHoursPerMonth int
	initInvoiceDay    int
	initCountry       string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an annotated default config file",
	Long: `Write an annotated config file to the path given by --config, else
$TOGGL_TALLY_CONFIG, else ./config.yml. An existing file is kept unless
--force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	configInitCmd.Flags().IntVar(&initHoursPerMonth, "hours-per-month", 160, "Target working hours per month")
	configInitCmd.Flags().IntVar(&initInvoiceDay, "invoice-day", 25, "Invoicing day of month (1-31)")
	configInitCmd.Flags().StringVar(&initCountry, "country", "NL", "Country code for public holidays")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{HoursPerMonth: initHoursPerMonth, InvoiceDay: initInvoiceDay, Country: initCountry}
	if err := cfg.Validate(); err != nil {
		return err
	}
	path := ""
	if cmd.Flags().Changed("config") {
		path = configPath
	}
	path, _ = config.ResolvePath(path)
	if err := config.WriteDefault(path, initForce, initHoursPerMonth, initInvoiceDay, initCountry); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
