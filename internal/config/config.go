package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Tiliavir/toggl-tally/internal/billing"
	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/model"
)

const (
	// DefaultPath is the config file read when no path is given.
	DefaultPath = "./config.yml"
	// PathEnv overrides DefaultPath.
	PathEnv = "TOGGL_TALLY_CONFIG"
)

// Config is the root configuration for toggl-tally. Every field of the hours
// command can be given here; command-line flags take precedence.
type Config struct {
	HoursPerMonth int    `yaml:"hours_per_month" env:"TOGGL_TALLY_HOURS_PER_MONTH"`
	InvoiceDay    int    `yaml:"invoice_day"     env:"TOGGL_TALLY_INVOICE_DAY"`
	Country       string `yaml:"country"         env:"TOGGL_TALLY_COUNTRY"`
	// Timezone is an IANA zone name. Empty means the local zone.
	Timezone    string   `yaml:"timezone"     env:"TOGGL_TALLY_TIMEZONE"`
	WorkingDays []string `yaml:"working_days" env:"TOGGL_TALLY_WORKING_DAYS" env-default:"MO,TU,WE,TH,FR"`
	// ExcludePublicHolidays is a pointer so an explicit false in the file
	// survives; nil means true.
	ExcludePublicHolidays *bool  `yaml:"exclude_public_holidays"`
	SkipToday             bool   `yaml:"skip_today" env:"TOGGL_TALLY_SKIP_TODAY"`
	HolidaysFile          string `yaml:"holidays_file" env:"TOGGL_TALLY_HOLIDAYS_FILE"`

	Workspaces []string `yaml:"workspaces" env:"TOGGL_TALLY_WORKSPACES"`
	Clients    []string `yaml:"clients"    env:"TOGGL_TALLY_CLIENTS"`
	Projects   []string `yaml:"projects"   env:"TOGGL_TALLY_PROJECTS"`
	FilterMode string   `yaml:"filter_mode" env:"TOGGL_TALLY_FILTER_MODE" env-default:"union"`

	Log LogConfig `yaml:"log"`
	API APIConfig `yaml:"api"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"TOGGL_TALLY_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"TOGGL_TALLY_LOG_FORMAT" env-default:"text"`
}

// APIConfig holds Toggl API settings. The token is only read from the
// environment so it never ends up in a committed config file.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"TOGGL_API_BASE_URL" env-default:"https://api.track.toggl.com/api/v9"`
	Token   string        `yaml:"-"        env:"TOGGL_API_TOKEN"`
	Timeout time.Duration `yaml:"timeout"  env:"TOGGL_API_TIMEOUT"  env-default:"30s"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// An empty path falls back to $TOGGL_TALLY_CONFIG, then DefaultPath. A
// missing file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	var cfg Config

	path, explicitPath := ResolvePath(path)

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, &model.ConfigError{Message: fmt.Sprintf("read %s: %v", path, err)}
		}
	} else if explicitPath {
		return nil, &model.ConfigError{Message: fmt.Sprintf("file %s: %v", path, err)}
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, &model.ConfigError{Message: fmt.Sprintf("read env: %v", err)}
		}
	}

	cfg.Workspaces = trimAll(cfg.Workspaces)
	cfg.Clients = trimAll(cfg.Clients)
	cfg.Projects = trimAll(cfg.Projects)
	cfg.WorkingDays = trimAll(cfg.WorkingDays)

	return &cfg, nil
}

// ResolvePath returns the config file to use for path: path itself, else
// $TOGGL_TALLY_CONFIG, else DefaultPath. explicit is false only for
// DefaultPath.
func ResolvePath(path string) (resolved string, explicit bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv(PathEnv); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// ExcludeHolidays reports whether public holidays are removed from working
// days. It defaults to true.
func (c *Config) ExcludeHolidays() bool {
	return c.ExcludePublicHolidays == nil || *c.ExcludePublicHolidays
}

// SetExcludeHolidays overrides ExcludePublicHolidays.
func (c *Config) SetExcludeHolidays(v bool) {
	c.ExcludePublicHolidays = &v
}

// ValidateCalendar checks the settings every billing window depends on.
func (c *Config) ValidateCalendar() error {
	if c.InvoiceDay < 1 || c.InvoiceDay > 31 {
		return model.NewConfigError("invoice_day", "must be between 1 and 31, got %d", c.InvoiceDay)
	}
	if strings.TrimSpace(c.Country) == "" {
		return model.NewConfigError("country", "is required")
	}
	return nil
}

// Validate checks everything the hours report needs.
func (c *Config) Validate() error {
	if c.HoursPerMonth <= 0 {
		return model.NewConfigError("hours_per_month", "must be a positive number of hours, got %d", c.HoursPerMonth)
	}
	if err := c.ValidateCalendar(); err != nil {
		return err
	}
	if _, err := filter.ParseMode(c.FilterMode); err != nil {
		return err
	}
	return nil
}

// BillingOptions maps the configuration onto billing.Options.
func (c *Config) BillingOptions() billing.Options {
	return billing.Options{
		InvoiceDay:            c.InvoiceDay,
		Country:               strings.ToUpper(strings.TrimSpace(c.Country)),
		Timezone:              c.Timezone,
		WorkingDays:           c.WorkingDays,
		ExcludePublicHolidays: c.ExcludeHolidays(),
		SkipToday:             c.SkipToday,
	}
}

// FilterNames returns the configured workspace, client and project names.
func (c *Config) FilterNames() filter.Names {
	return filter.Names{
		Workspaces: c.Workspaces,
		Clients:    c.Clients,
		Projects:   c.Projects,
	}
}

// SplitList splits a comma-separated flag value, dropping blanks. A blank
// value gives an empty, non-nil list so an explicitly cleared setting is not
// mistaken for an unset one.
func SplitList(s string) []string {
	return trimAll(strings.Split(s, ","))
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// configTemplate is the annotated config written by `config init`.
const configTemplate = `# toggl-tally configuration
#
# Every value below is a default for the matching flag of the hours command;
# flags given on the command line win. The Toggl API token is read from the
# TOGGL_API_TOKEN environment variable only.

# Target billable hours per invoice period.
hours_per_month: %d

# Day of the month invoices go out (1-31). Days past the end of a short month
# fall back to its last day; weekends and public holidays roll back further.
invoice_day: %d

# Country code for public holidays (NL, US, ZA).
country: %s

# IANA timezone, e.g. "Europe/Amsterdam". Leave empty for the local zone.
timezone: ""

# Working days using MO, TU, WE, TH, FR, SA, SU.
working_days: [MO, TU, WE, TH, FR]

# Remove public holidays from the remaining working days.
exclude_public_holidays: true

# Do not count today as a remaining working day.
skip_today: false

# Optional TOML file with extra holidays ([[holiday]] date/name/country).
holidays_file: ""

# Names of workspaces, clients and projects to count. Empty means everything.
workspaces: []
clients: []
projects: []

# How the filters above combine: union (any filter matches) or intersection
# (every given filter matches).
filter_mode: union

log:
  # debug, info, warn or error
  level: warn
  # text or json
  format: text

api:
  base_url: https://api.track.toggl.com/api/v9
  timeout: 30s
`

// Template renders the annotated default config.
func Template(hoursPerMonth, invoiceDay int, country string) string {
	return fmt.Sprintf(configTemplate, hoursPerMonth, invoiceDay, country)
}

// WriteDefault writes the annotated config template to path. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool, hoursPerMonth, invoiceDay int, country string) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Template(hoursPerMonth, invoiceDay, country)), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
