// Package tally fetches the billing window's time entries, filters them and
// works out the hours still needed to reach the monthly target.
package tally

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/toggl-tally/internal/billing"
	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/model"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Source provides time entries and the catalog they are filtered against.
type Source interface {
	TimeEntries(ctx context.Context, from, to time.Time) ([]model.TimeEntry, error)
	Catalog(ctx context.Context) (model.Catalog, error)
}

// Request describes one tally run.
type Request struct {
	HoursPerMonth int
	Names         filter.Names
	Mode          filter.Mode
}

// Summary is the outcome of a tally run. Durations are in seconds.
type Summary struct {
	Period        billing.Period
	HoursPerMonth int
	Filters       filter.Resolved
	Entries       []model.TimeEntry

	Worked      decimal.Decimal
	Target      decimal.Decimal
	Outstanding decimal.Decimal
	// PerDay is Outstanding spread over the remaining working days; zero when
	// none are left.
	PerDay decimal.Decimal
}

// HasWorkingDaysLeft reports whether PerDay is meaningful.
func (s *Summary) HasWorkingDaysLeft() bool {
	return s.Period.RemainingWorkingDays > 0
}

// PerDaySeconds rounds PerDay to whole seconds.
func (s *Summary) PerDaySeconds() int64 {
	return s.PerDay.Round(0).IntPart()
}

// WorkedSeconds rounds Worked to whole seconds.
func (s *Summary) WorkedSeconds() int64 {
	return s.Worked.Round(0).IntPart()
}

// WorkedHours is Worked in hours, rounded to two places.
func (s *Summary) WorkedHours() decimal.Decimal {
	return s.Worked.Div(secondsPerHour).Round(2)
}

// Progress is the share of Target already worked, within [0, 1].
func (s *Summary) Progress() decimal.Decimal {
	if !s.Target.IsPositive() {
		return decimal.NewFromInt(1)
	}
	p := s.Worked.Div(s.Target)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return decimal.Max(p, decimal.Zero)
}

// Tally ties a billing calendar to an entry source.
type Tally struct {
	cal     *billing.Calendar
	src     Source
	log     *slog.Logger
	catalog *model.Catalog
}

// New creates a Tally.
func New(cal *billing.Calendar, src Source, logger *slog.Logger) *Tally {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tally{cal: cal, src: src, log: logger.With("component", "tally")}
}

// Calendar returns the billing calendar the tally runs against.
func (t *Tally) Calendar() *billing.Calendar { return t.cal }

// Catalog fetches the catalog on first use and reuses it afterwards.
func (t *Tally) Catalog(ctx context.Context) (model.Catalog, error) {
	if t.catalog != nil {
		return *t.catalog, nil
	}
	c, err := t.src.Catalog(ctx)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("fetching catalog: %w", err)
	}
	t.catalog = &c
	return c, nil
}

// Entries resolves names, fetches the entries of the current billing window
// ([FirstBillableDate, now]) and filters them. The catalog is only fetched
// when at least one name is given.
func (t *Tally) Entries(ctx context.Context, names filter.Names, mode filter.Mode) (filter.Resolved, []model.TimeEntry, error) {
	var catalog model.Catalog
	if !names.Empty() {
		var err error
		if catalog, err = t.Catalog(ctx); err != nil {
			return filter.Resolved{}, nil, err
		}
	}
	resolved, err := filter.ResolveAll(names, catalog)
	if err != nil {
		return filter.Resolved{}, nil, err
	}

	from, to := t.cal.FirstBillableDate(), t.cal.Now()
	raw, err := t.src.TimeEntries(ctx, from, to)
	if err != nil {
		return filter.Resolved{}, nil, fmt.Errorf("fetching time entries: %w", err)
	}
	entries := filter.New(mode).Apply(raw, resolved)

	t.log.DebugContext(ctx, "entries filtered",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.String("mode", string(mode)),
		slog.Int("fetched", len(raw)),
		slog.Int("kept", len(entries)),
	)
	return resolved, entries, nil
}

// Summarize runs the full tally for req.
func (t *Tally) Summarize(ctx context.Context, req Request) (*Summary, error) {
	if req.HoursPerMonth <= 0 {
		return nil, model.NewConfigError("hours_per_month", "must be a positive number of hours, got %d", req.HoursPerMonth)
	}
	resolved, entries, err := t.Entries(ctx, req.Names, req.Mode)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Period:        t.cal.Period(),
		HoursPerMonth: req.HoursPerMonth,
		Filters:       resolved,
		Entries:       entries,
		Worked:        SumDurations(entries),
		Target:        decimal.NewFromInt(int64(req.HoursPerMonth)).Mul(secondsPerHour),
		PerDay:        decimal.Zero,
	}
	s.Outstanding = decimal.Max(s.Target.Sub(s.Worked), decimal.Zero)
	if days := s.Period.RemainingWorkingDays; days > 0 {
		s.PerDay = s.Outstanding.Div(decimal.NewFromInt(int64(days)))
	}

	t.log.DebugContext(ctx, "tally computed",
		slog.String("worked", s.Worked.String()),
		slog.String("outstanding", s.Outstanding.String()),
		slog.Int("remaining_days", s.Period.RemainingWorkingDays),
	)
	return s, nil
}

// SumDurations adds up the recorded durations of entries.
func SumDurations(entries []model.TimeEntry) decimal.Decimal {
	var total int64
	for _, e := range entries {
		total += e.Duration
	}
	return decimal.NewFromInt(total)
}
