package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-tally/internal/billing"
	"github.com/Tiliavir/toggl-tally/internal/config"
	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/logging"
	"github.com/Tiliavir/toggl-tally/internal/model"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
	"github.com/Tiliavir/toggl-tally/internal/toggl"
)

// newClock is replaced in tests.
var newClock = timecalc.SystemClock

// windowFlags are the flags that shape the billing window and the entry
// filters. Each command owns its own set.
type windowFlags struct {
	invoiceDay      int
	country         string
	timezone        string
	workingDays     string
	excludeHolidays bool
	skipToday       bool
	holidaysFile    string

	workspaces string
	clients    string
	projects   string
	filterMode string
}

func (f *windowFlags) register(cmd *cobra.Command, withFilters bool) {
	fs := cmd.Flags()
	fs.IntVar(&f.invoiceDay, "invoice-day", 0, "Invoicing day of month (1-31)")
	fs.StringVar(&f.country, "country", "", "Country code for public holidays: "+strings.Join(holiday.Countries(), ", "))
	fs.StringVar(&f.timezone, "timezone", "", "IANA timezone, e.g. Europe/Amsterdam (default: local zone)")
	fs.StringVar(&f.workingDays, "working-days", strings.Join(billing.DefaultWorkingDays, ","),
		"Comma-separated working days using MO, TU, WE, TH, FR, SA, SU")
	fs.BoolVar(&f.excludeHolidays, "exclude-public-holidays", true,
		"Exclude public holidays from working days (--exclude-public-holidays=false to count them)")
	fs.BoolVar(&f.skipToday, "skip-today", false, "Exclude today from the remaining working days")
	fs.StringVar(&f.holidaysFile, "holidays-file", "", "TOML file with extra holidays")
	if !withFilters {
		return
	}
	fs.StringVar(&f.workspaces, "workspaces", "", "Comma-separated list of workspaces")
	fs.StringVar(&f.clients, "clients", "", "Comma-separated list of clients")
	fs.StringVar(&f.projects, "projects", "", "Comma-separated list of projects")
	fs.StringVar(&f.filterMode, "filter-mode", "union",
		"How filters combine: union (any matches) or intersection (all match)")
}

// apply copies every flag the user set onto cfg. Unset flags keep the
// config file's value.
func (f *windowFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("invoice-day") {
		cfg.InvoiceDay = f.invoiceDay
	}
	if fs.Changed("country") {
		cfg.Country = f.country
	}
	if fs.Changed("timezone") {
		cfg.Timezone = f.timezone
	}
	if fs.Changed("working-days") {
		// Blank stays an empty list and fails validation.
		cfg.WorkingDays = config.SplitList(f.workingDays)
	}
	if fs.Changed("exclude-public-holidays") {
		cfg.SetExcludeHolidays(f.excludeHolidays)
	}
	if fs.Changed("skip-today") {
		cfg.SkipToday = f.skipToday
	}
	if fs.Changed("holidays-file") {
		cfg.HolidaysFile = f.holidaysFile
	}
	if fs.Changed("workspaces") {
		cfg.Workspaces = config.SplitList(f.workspaces)
	}
	if fs.Changed("clients") {
		cfg.Clients = config.SplitList(f.clients)
	}
	if fs.Changed("projects") {
		cfg.Projects = config.SplitList(f.projects)
	}
	if fs.Changed("filter-mode") {
		cfg.FilterMode = f.filterMode
	}
}

// loadConfig reads the config file, overlays the command's flags and sets up
// logging.
func loadConfig(cmd *cobra.Command, wf *windowFlags) (*config.Config, *slog.Logger, error) {
	path := ""
	if cmd.Flags().Changed("config") {
		path = configPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if wf != nil {
		wf.apply(cmd, cfg)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger := logging.New(cfg.Log, cmd.ErrOrStderr())
	logger.Debug("configuration loaded", slog.String("path", path), slog.String("command", cmd.Name()))
	return cfg, logger, nil
}

// newCalendar builds the billing calendar with the built-in holidays of the
// configured country plus the optional holidays file.
func newCalendar(cfg *config.Config, logger *slog.Logger) (*billing.Calendar, error) {
	clk, err := newClock(cfg.Timezone)
	if err != nil {
		return nil, model.NewConfigError("timezone", "%v", err)
	}

	var hc holiday.Calendar = holiday.Builtin{}
	if cfg.HolidaysFile != "" {
		fc, err := holiday.LoadFile(cfg.HolidaysFile)
		if err != nil {
			return nil, model.NewConfigError("holidays_file", "%v", err)
		}
		hc = holiday.Merged{hc, fc}
	}

	cal, err := billing.New(cfg.BillingOptions(), clk, hc)
	if err != nil {
		return nil, err
	}
	logger.Debug("billing calendar ready",
		slog.String("country", cal.Country()),
		slog.Int("invoice_day", cal.InvoiceDay()),
		slog.Any("working_days", cal.WorkingDays()),
		slog.Time("now", cal.Now()),
	)
	return cal, nil
}

func newTogglClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*toggl.Client, error) {
	return toggl.NewClient(ctx, toggl.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}, logger)
}
