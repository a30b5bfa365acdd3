// Package design defines the tube design document produced by script
// evaluation. A Design is a list of named tube requests, each binding a
// path source to a width profile and a mesh mode. Each evaluation
// produces a new Design; it is never mutated after construction.
package design

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/helixtube/pkg/curve"
	"github.com/chazu/helixtube/pkg/sweep"
)

// namespace scopes tube ids so they never collide with other SHA-1 UUIDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/helixtube/tube"))

// TubeID is a content-addressed tube identifier: the same name always
// yields the same id.
type TubeID uuid.UUID

// NewTubeID derives the id of the tube with the given name.
func NewTubeID(name string) TubeID {
	return TubeID(uuid.NewSHA1(namespace, []byte(name)))
}

// IsZero reports whether id is the zero id.
func (id TubeID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// Short returns the first 8 hex characters, for logs and messages.
func (id TubeID) Short() string { return id.String()[:8] }

func (id TubeID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the id in its canonical form.
func (id TubeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses the canonical form.
func (id *TubeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// Tube is one extrusion request.
type Tube struct {
	ID     TubeID             `json:"id"`
	Name   string             `json:"name"`
	Source curve.Source       `json:"-"`
	Path   sweep.Path         `json:"path"`
	Width  sweep.WidthProfile `json:"width"`
	Mode   sweep.Mode         `json:"mode"`
}

// NewTube builds a tube from a path source. The source is sampled once,
// so later changes to it do not affect the tube.
func NewTube(name string, src curve.Source, width sweep.WidthProfile, mode sweep.Mode) *Tube {
	t := &Tube{ID: NewTubeID(name), Name: name, Source: src, Width: width, Mode: mode}
	if src != nil {
		t.Path = src.PathPoints()
	}
	return t
}

func (t *Tube) String() string {
	return fmt.Sprintf("tube %q (%d points, %s)", t.Name, len(t.Path), t.Mode)
}

// Design is the evaluated document.
type Design struct {
	Tubes     map[TubeID]*Tube  `json:"tubes"`
	Order     []TubeID          `json:"order"`
	NameIndex map[string]TubeID `json:"name_index"`
	Version   uint64            `json:"version"`

	dupes []string
}

// New creates an empty Design.
func New() *Design {
	return &Design{
		Tubes:     make(map[TubeID]*Tube),
		NameIndex: make(map[string]TubeID),
	}
}

// AddTube appends t. It does not check for duplicates; Validate does.
func (d *Design) AddTube(t *Tube) {
	if _, seen := d.Tubes[t.ID]; !seen {
		d.Order = append(d.Order, t.ID)
	} else {
		d.dupes = append(d.dupes, t.Name)
	}
	d.Tubes[t.ID] = t
	if t.Name != "" {
		d.NameIndex[t.Name] = t.ID
	}
}

// Lookup returns the tube with the given name, or nil.
func (d *Design) Lookup(name string) *Tube {
	id, ok := d.NameIndex[name]
	if !ok {
		return nil
	}
	return d.Tubes[id]
}

// Get returns the tube with the given id, or nil.
func (d *Design) Get(id TubeID) *Tube {
	return d.Tubes[id]
}

// List returns the tubes in the order they were added.
func (d *Design) List() []*Tube {
	return lo.FilterMap(d.Order, func(id TubeID, _ int) (*Tube, bool) {
		t := d.Get(id)
		return t, t != nil
	})
}

// Names returns the tube names in order.
func (d *Design) Names() []string {
	return lo.Map(d.List(), func(t *Tube, _ int) string { return t.Name })
}

// TubeCount returns the number of distinct tubes.
func (d *Design) TubeCount() int {
	return len(d.Tubes)
}
