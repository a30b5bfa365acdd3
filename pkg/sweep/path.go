package sweep

import (
	"fmt"
	"math"

	"github.com/chazu/helixtube/pkg/geom"
)

// Path is an ordered polyline. Consecutive points define directed
// segments; a valid path has at least two points, only finite
// coordinates, and no degenerate segment.
type Path []geom.Point3

// Segments returns the number of segments, i.e. cells an extrusion emits.
func (p Path) Segments() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Validate checks the path before any cell is built.
func (p Path) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("%w: got %d", ErrPathTooShort, len(p))
	}
	for i, pt := range p {
		if !pt.IsFinite() {
			return fmt.Errorf("%w: point %d is %v", ErrNonFinitePoint, i, pt)
		}
	}
	for i := 0; i+1 < len(p); i++ {
		if err := checkSegment(p[i], p[i+1]); err != nil {
			de := err.(*DegenerateSegmentError)
			de.Segment = i
			return de
		}
	}
	return nil
}

// WidthProfile tapers the cross-section linearly along the path.
type WidthProfile struct {
	Start     float64 `json:"start" yaml:"start"`
	Decrement float64 `json:"decrement" yaml:"decrement"`
}

// Validate rejects negative or non-finite settings.
func (w WidthProfile) Validate() error {
	if !(w.Start >= 0) || !(w.Decrement >= 0) || math.IsInf(w.Start, 0) || math.IsInf(w.Decrement, 0) {
		return &InvalidWidthProfileError{Start: w.Start, Decrement: w.Decrement}
	}
	return nil
}

// At returns the width factor of segment i: Start - i*Decrement, floored
// at zero.
func (w WidthProfile) At(i int) float64 {
	return math.Max(0, w.Start-float64(i)*w.Decrement)
}

// ZeroFrom returns the first segment index whose width is zero, or -1 if
// the width never reaches zero within segments.
func (w WidthProfile) ZeroFrom(segments int) int {
	for i := 0; i < segments; i++ {
		if w.At(i) == 0 {
			return i
		}
	}
	return -1
}
