// Package filter resolves workspace, client and project names to Toggl ids
// and reduces time entries to the ones matching them.
package filter

import "fmt"

// Kind is the type of a Toggl entity.
type Kind int

const (
	KindProject Kind = iota + 1
	KindClient
	KindWorkspace
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindClient:
		return "client"
	case KindWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entity is a named Toggl object with a provider-assigned id.
type Entity struct {
	ID   int64
	Name string
	Kind Kind
}

// Set is an ordered group of entities of one kind plus their id set.
// An empty Set means "no filter of this kind".
type Set struct {
	kind     Kind
	entities []Entity
	ids      map[int64]struct{}
}

// NewSet builds a Set. Entities repeating an id already present are dropped.
func NewSet(kind Kind, entities ...Entity) Set {
	s := Set{kind: kind, ids: make(map[int64]struct{}, len(entities))}
	for _, e := range entities {
		if _, dup := s.ids[e.ID]; dup {
			continue
		}
		s.ids[e.ID] = struct{}{}
		s.entities = append(s.entities, e)
	}
	return s
}

// Kind returns the kind of the set's entities.
func (s Set) Kind() Kind { return s.kind }

// Empty reports whether the set holds no entities.
func (s Set) Empty() bool { return len(s.entities) == 0 }

// Len returns the number of entities.
func (s Set) Len() int { return len(s.entities) }

// Entities returns the entities in insertion order.
func (s Set) Entities() []Entity {
	return append([]Entity(nil), s.entities...)
}

// Names returns the entity names in insertion order.
func (s Set) Names() []string {
	names := make([]string, len(s.entities))
	for i, e := range s.entities {
		names[i] = e.Name
	}
	return names
}

// IDs returns the entity ids in insertion order.
func (s Set) IDs() []int64 {
	ids := make([]int64, len(s.entities))
	for i, e := range s.entities {
		ids[i] = e.ID
	}
	return ids
}

// Contains reports whether id belongs to the set.
func (s Set) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// ContainsPtr is Contains for nullable ids; nil is never contained.
func (s Set) ContainsPtr(id *int64) bool {
	return id != nil && s.Contains(*id)
}
