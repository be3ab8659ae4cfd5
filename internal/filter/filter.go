package filter

import (
	"strings"

	"github.com/Tiliavir/toggl-tally/internal/model"
)

// Mode selects how the workspace, client and project filters combine.
type Mode string

const (
	// ModeUnion keeps an entry matching any given filter.
	ModeUnion Mode = "union"
	// ModeIntersection keeps an entry matching every given filter.
	ModeIntersection Mode = "intersection"
)

// ParseMode parses a mode name; "" selects ModeUnion.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUnion:
		return ModeUnion, nil
	case ModeIntersection:
		return ModeIntersection, nil
	default:
		return "", model.NewConfigError("filter_mode", "must be %q or %q, got %q", ModeUnion, ModeIntersection, s)
	}
}

// Filter reduces time entries to the resolved workspaces, clients and projects.
type Filter struct {
	Mode Mode
	// ExcludeRunning drops running entries (negative duration) whatever they match.
	ExcludeRunning bool
}

// New returns a Filter in mode that excludes running entries.
func New(mode Mode) Filter {
	return Filter{Mode: mode, ExcludeRunning: true}
}

// Apply returns the entries of entries that count toward billable hours, in
// their original order. entries is not modified.
func (f Filter) Apply(entries []model.TimeEntry, r Resolved) []model.TimeEntry {
	match := f.matcher(r)
	out := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if f.ExcludeRunning && e.Running() {
			continue
		}
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matcher(r Resolved) func(model.TimeEntry) bool {
	if f.Mode == ModeIntersection {
		return intersectionMatcher(r)
	}
	return unionMatcher(r)
}

func unionMatcher(r Resolved) func(model.TimeEntry) bool {
	if r.Workspaces.Empty() && r.Clients.Empty() && r.Projects.Empty() {
		return func(model.TimeEntry) bool { return true }
	}
	return func(e model.TimeEntry) bool {
		return r.Workspaces.Contains(e.WorkspaceID) ||
			r.ClientProjects.ContainsPtr(e.ProjectID) ||
			r.Projects.ContainsPtr(e.ProjectID)
	}
}

func intersectionMatcher(r Resolved) func(model.TimeEntry) bool {
	var families []Set
	if !r.Projects.Empty() {
		families = append(families, r.Projects)
	}
	if !r.Clients.Empty() {
		// Clients without projects leave an empty family that matches nothing.
		families = append(families, r.ClientProjects)
	}
	return func(e model.TimeEntry) bool {
		if !r.Workspaces.Empty() && !r.Workspaces.Contains(e.WorkspaceID) {
			return false
		}
		for _, family := range families {
			if !family.ContainsPtr(e.ProjectID) {
				return false
			}
		}
		return true
	}
}
