package holiday

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileCalendar serves holidays declared in a TOML file:
//
//	[[holiday]]
//	date = "2024-12-24"
//	name = "Christmas Eve"
//	country = "ZA"   # optional, empty applies to every country
type FileCalendar struct {
	entries []fileEntry
}

type fileEntry struct {
	date    Date
	name    string
	country string
}

type fileDoc struct {
	Holiday []struct {
		Date    string `toml:"date"`
		Name    string `toml:"name"`
		Country string `toml:"country"`
	} `toml:"holiday"`
}

// LoadFile decodes a holidays TOML file.
func LoadFile(path string) (*FileCalendar, error) {
	var doc fileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decode holidays file %s: %w", path, err)
	}
	fc := &FileCalendar{}
	for i, h := range doc.Holiday {
		d, err := ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holidays file %s entry %d: %w", path, i+1, err)
		}
		if h.Name == "" {
			return nil, fmt.Errorf("holidays file %s entry %d: missing name", path, i+1)
		}
		fc.entries = append(fc.entries, fileEntry{date: d, name: h.Name, country: strings.ToUpper(h.Country)})
	}
	return fc, nil
}

func (f *FileCalendar) Lookup(country string, year int) (Holidays, error) {
	country = strings.ToUpper(country)
	out := Holidays{}
	for _, e := range f.entries {
		if e.date.Year != year {
			continue
		}
		if e.country != "" && e.country != country {
			continue
		}
		out.Add(e.date, e.name)
	}
	return out, nil
}
