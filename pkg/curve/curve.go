// Package curve provides the path sources a tube is extruded along.
package curve

import (
	"fmt"
	"math"

	"github.com/chazu/helixtube/pkg/geom"
)

// Source yields the ordered control points of a path.
type Source interface {
	PathPoints() []geom.Point3
}

// Helix defaults.
const (
	DefaultRadius = 4.0
	DefaultPitch  = 0.5
	DefaultCount  = 20
)

// Helix samples a helix around the Y axis at integer parameter values:
// vertex i is (Radius*cos i, Pitch*i, Radius*sin i).
type Helix struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Pitch  float64 `json:"pitch" yaml:"pitch"`
	Count  int     `json:"count" yaml:"count"`
}

// DefaultHelix returns the 20-vertex helix of radius 4 and pitch 0.5.
func DefaultHelix() Helix {
	return Helix{Radius: DefaultRadius, Pitch: DefaultPitch, Count: DefaultCount}
}

// PathPoints returns Count control vertices. A non-positive Count yields
// nil.
func (h Helix) PathPoints() []geom.Point3 {
	if h.Count <= 0 {
		return nil
	}
	pts := make([]geom.Point3, h.Count)
	for i := range pts {
		t := float64(i)
		pts[i] = geom.P(h.Radius*math.Cos(t), h.Pitch*t, h.Radius*math.Sin(t))
	}
	return pts
}

func (h Helix) String() string {
	return fmt.Sprintf("helix(r=%g, pitch=%g, n=%d)", h.Radius, h.Pitch, h.Count)
}

// Points is a fixed list of control points.
type Points []geom.Point3

// PathPoints returns a copy of the list.
func (p Points) PathPoints() []geom.Point3 {
	if p == nil {
		return nil
	}
	return append([]geom.Point3(nil), p...)
}

func (p Points) String() string {
	return fmt.Sprintf("points(%d)", len(p))
}

var (
	_ Source = Helix{}
	_ Source = Points(nil)
)
