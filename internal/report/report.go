// Package report renders tally results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/tally"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
)

// DateFormat renders dates like "Fri 24 Mar".
const DateFormat = "Mon 02 Jan"

const barWidth = 40

// Report writes styled report lines to a writer. Colours are only emitted
// when the writer is a terminal.
type Report struct {
	w io.Writer

	intStyle      lipgloss.Style
	dateStyle     lipgloss.Style
	limitStyle    lipgloss.Style
	hoursStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	barStyle      lipgloss.Style
	barEmptyStyle lipgloss.Style
	titleStyle    lipgloss.Style
	keyStyle      lipgloss.Style
	valueStyle    lipgloss.Style
}

// New creates a Report writing to w.
func New(w io.Writer) *Report {
	r := lipgloss.NewRenderer(w)
	return &Report{
		w:             w,
		intStyle:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dateStyle:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		limitStyle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		hoursStyle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		errorStyle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		barStyle:      r.NewStyle().Foreground(lipgloss.Color("10")),
		barEmptyStyle: r.NewStyle().Foreground(lipgloss.Color("8")),
		titleStyle:    r.NewStyle().Bold(true),
		keyStyle:      r.NewStyle().Foreground(lipgloss.Color("14")),
		valueStyle:    r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// Summary prints the full hours report. verbose adds the filters and
// holidays tables.
func (r *Report) Summary(s *tally.Summary, verbose bool) {
	p := s.Period
	r.RemainingWorkingDays(p.RemainingWorkingDays, p.NextInvoiceDate)
	r.HoursPerDay(s)
	r.HoursWorked(s.WorkedSeconds())
	r.ProgressBar(s.Progress())
	if verbose {
		r.FiltersTable(s.Filters)
		r.HolidaysTable(p.RemainingPublicHolidays)
	}
}

// RemainingWorkingDays prints the days left before the next invoice.
func (r *Report) RemainingWorkingDays(days int, nextInvoice time.Time) {
	fmt.Fprintf(r.w, "%s days to go before next invoice on %s.\n",
		r.intStyle.Render(fmt.Sprint(days)),
		r.dateStyle.Render(nextInvoice.Format(DateFormat)))
}

// HoursPerDay prints the daily effort needed to reach the target, or a
// warning when no working days are left.
func (r *Report) HoursPerDay(s *tally.Summary) {
	if !s.HasWorkingDaysLeft() {
		fmt.Fprintf(r.w, "You have %s.\n", r.errorStyle.Render("no working days left"))
		return
	}
	fmt.Fprintf(r.w, "Work %s per day to hit your target of %s hours on last billable workday %s.\n",
		r.hoursStyle.Render(timecalc.FormatDurationHHMMSS(s.PerDaySeconds())),
		r.limitStyle.Render(fmt.Sprint(s.HoursPerMonth)),
		r.dateStyle.Render(s.Period.LastBillableDate.Format(DateFormat)))
}

// HoursWorked prints the time tracked since the last invoice.
func (r *Report) HoursWorked(seconds int64) {
	fmt.Fprintf(r.w, "%s hours worked since last invoice.\n",
		r.hoursStyle.Render(timecalc.FormatDurationHHMMSS(seconds)))
}

// ProgressBar prints a bar for progress, a fraction in [0, 1].
func (r *Report) ProgressBar(progress decimal.Decimal) {
	fmt.Fprintln(r.w, r.progressLine(progress))
}

func (r *Report) progressLine(progress decimal.Decimal) string {
	progress = decimal.Min(decimal.Max(progress, decimal.Zero), decimal.NewFromInt(1))
	filled := int(progress.Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	bar := r.barStyle.Render(strings.Repeat("━", filled)) +
		r.barEmptyStyle.Render(strings.Repeat("─", barWidth-filled))
	pct := progress.Mul(decimal.NewFromInt(100)).Round(0)
	return fmt.Sprintf("Progress for month %s %3s%%", bar, pct.String())
}

// FiltersTable prints the resolved filters. Nothing is printed without
// filters.
func (r *Report) FiltersTable(f filter.Resolved) {
	var rows [][]string
	for _, group := range []struct {
		label string
		set   filter.Set
	}{
		{"Workspace", f.Workspaces},
		{"Client", f.Clients},
		{"Project", f.Projects},
	} {
		for _, name := range group.set.Names() {
			rows = append(rows, []string{group.label, name})
		}
	}
	if len(rows) == 0 {
		return
	}
	r.printTable("Filters", []string{"Type", "Name"}, rows)
}

// HolidaysTable prints the given public holidays. Nothing is printed for an
// empty list.
func (r *Report) HolidaysTable(holidays []holiday.Named) {
	if len(holidays) == 0 {
		return
	}
	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		rows = append(rows, []string{h.Name, h.Date.In(time.UTC).Format(DateFormat)})
	}
	r.printTable("Public holidays", []string{"Name", "Date"}, rows)
}

func (r *Report) printTable(title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.titleStyle.Padding(0, 1)
			case col == 0:
				return r.keyStyle.Padding(0, 1).Align(lipgloss.Right)
			default:
				return r.valueStyle.Padding(0, 1)
			}
		})
	fmt.Fprintln(r.w, r.titleStyle.Render(title))
	fmt.Fprintln(r.w, t.Render())
}
