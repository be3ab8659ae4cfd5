package holiday

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"
	"github.com/rickar/cal/v2/za"
)

var builtinHolidays = map[string][]*cal.Holiday{
	"NL": nl.Holidays,
	"US": us.Holidays,
	"ZA": za.Holidays,
}

// Builtin serves national holidays bundled with github.com/rickar/cal.
// Holidays moved to another weekday are listed on both dates, the moved one
// suffixed with "(observed)".
type Builtin struct{}

// Countries lists the ISO 3166 alpha-2 codes Builtin supports.
func Countries() []string {
	codes := make([]string, 0, len(builtinHolidays))
	for code := range builtinHolidays {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (Builtin) Lookup(country string, year int) (Holidays, error) {
	list, ok := builtinHolidays[strings.ToUpper(country)]
	if !ok {
		return nil, fmt.Errorf("holiday: %w %q (supported: %s)",
			ErrUnsupportedCountry, country, strings.Join(Countries(), ", "))
	}
	out := Holidays{}
	for _, h := range list {
		actual, observed := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		out.Add(DateOf(actual), h.Name)
		if !observed.IsZero() && DateOf(observed) != DateOf(actual) {
			out.Add(DateOf(observed), h.Name+" (observed)")
		}
	}
	return out, nil
}
