package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/toggl-tally/internal/model"
)

// ErrNotFound is the sentinel behind NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a filter name missing from the user's catalog.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind.String()
	return fmt.Sprintf("%s name %s not found in user %ss", strings.ToUpper(kind[:1])+kind[1:], e.Name, kind)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Named is a catalog record that can be looked up by name.
type Named interface {
	EntityID() int64
	EntityName() string
}

// Resolve maps names to entities of kind by exact match against catalog,
// preserving the order of names. No names yields an empty Set without
// reading the catalog. The first unknown name fails with *NotFoundError.
func Resolve[T Named](kind Kind, names []string, catalog []T) (Set, error) {
	if len(names) == 0 {
		return NewSet(kind), nil
	}
	byName := make(map[string]int64, len(catalog))
	for _, item := range catalog {
		if _, seen := byName[item.EntityName()]; !seen {
			byName[item.EntityName()] = item.EntityID()
		}
	}
	entities := make([]Entity, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return Set{}, &NotFoundError{Kind: kind, Name: name}
		}
		entities = append(entities, Entity{ID: id, Name: name, Kind: kind})
	}
	return NewSet(kind, entities...), nil
}

// ResolveClientProjects returns the projects owned by any client in clients.
// Time entries only reference clients through their project.
func ResolveClientProjects(clients Set, projects []model.Project) Set {
	if clients.Empty() {
		return NewSet(KindProject)
	}
	var entities []Entity
	for _, p := range projects {
		if clients.ContainsPtr(p.ClientID) {
			entities = append(entities, Entity{ID: p.ID, Name: p.Name, Kind: KindProject})
		}
	}
	return NewSet(KindProject, entities...)
}

// Names are the caller's filter names per kind.
type Names struct {
	Workspaces []string
	Clients    []string
	Projects   []string
}

// Empty reports whether no filter names were given.
func (n Names) Empty() bool {
	return len(n.Workspaces) == 0 && len(n.Clients) == 0 && len(n.Projects) == 0
}

// Resolved holds the entity sets a Filter applies.
type Resolved struct {
	Workspaces     Set
	Clients        Set
	ClientProjects Set
	Projects       Set
}

// ResolveAll resolves every name family against catalog once.
func ResolveAll(names Names, catalog model.Catalog) (Resolved, error) {
	workspaces, err := Resolve(KindWorkspace, names.Workspaces, catalog.Workspaces)
	if err != nil {
		return Resolved{}, err
	}
	clients, err := Resolve(KindClient, names.Clients, catalog.Clients)
	if err != nil {
		return Resolved{}, err
	}
	projects, err := Resolve(KindProject, names.Projects, catalog.Projects)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		Workspaces:     workspaces,
		Clients:        clients,
		ClientProjects: ResolveClientProjects(clients, catalog.Projects),
		Projects:       projects,
	}, nil
}
