package sweep

import (
	"math"

	"github.com/chazu/helixtube/pkg/geom"
)

// Local corner layout of a cell. "Leading" corners sit toward the next
// path point, "trailing" corners toward the previous one; h and v are the
// horizontal and vertical offsets of the cross-section.
//
//	0 lead +h +v    4 lead -h -v
//	1 lead +h -v    5 lead -h +v
//	2 trail +h -v   6 trail -h +v
//	3 trail +h +v   7 trail -h -v
const (
	cornersPerCell = 8
	facesPerCell   = 6
	cornersPerFace = 4
)

// FaceTable is the connectivity shared by every cell. Faces are wound
// consistently, so each edge of the box is walked once in each direction.
var FaceTable = [facesPerCell][cornersPerFace]int{
	{0, 1, 2, 3}, // +h side
	{0, 5, 4, 1}, // leading cap
	{5, 6, 7, 4}, // -h side
	{6, 3, 2, 7}, // trailing cap
	{0, 3, 6, 5}, // +v side
	{1, 4, 7, 2}, // -v side
}

// Face indexes into FaceTable.
const (
	faceSidePosH = iota
	faceLeadingCap
	faceSideNegH
	faceTrailingCap
	faceSidePosV
	faceSideNegV
)

// trailingSlots receive a reused face; leadingSlots supply the next one.
// leadingSlots[j] of cell i and trailingSlots[j] of cell i+1 are the same
// vertex.
var (
	trailingSlots = [4]int{2, 3, 6, 7}
	leadingSlots  = [4]int{1, 0, 5, 4}
)

// TrailingFace carries the four corners one cell hands to the next. The
// zero value means "no previous face" and makes BuildCell compute the
// trailing corners itself.
type TrailingFace struct {
	corners [4]geom.Point3
	ok      bool
}

// NewTrailingFace wraps four corners in reuse order: they land in local
// slots 2, 3, 6 and 7 of the next cell.
func NewTrailingFace(c2, c3, c6, c7 geom.Point3) TrailingFace {
	return TrailingFace{corners: [4]geom.Point3{c2, c3, c6, c7}, ok: true}
}

// Corners returns the carried corners and whether there are any.
func (f TrailingFace) Corners() ([4]geom.Point3, bool) {
	return f.corners, f.ok
}

// IsNone reports whether f carries no face.
func (f TrailingFace) IsNone() bool { return !f.ok }

// Frame is the local coordinate system of one segment.
type Frame struct {
	Center   geom.Point3
	Dir      geom.Point3
	PerpH    geom.Point3
	PerpV    geom.Point3
	HalfSpan float64
}

// NewFrame computes the frame of the segment prev->next. PerpH uses the
// fixed swizzle (-z, y, x) of the direction. It is not orthogonal to Dir
// in general, and downstream geometry depends on that exact convention.
func NewFrame(prev, next geom.Point3, width float64) Frame {
	dir := next.Sub(prev).Normalize()
	perpH := geom.P(-dir.Z, dir.Y, dir.X)
	return Frame{
		Center:   prev.Midpoint(next),
		Dir:      dir,
		PerpH:    perpH,
		PerpV:    perpH.Cross(dir),
		HalfSpan: prev.Distance(next) / 2 * width,
	}
}

// corner places one box corner: a diagonal of length HalfSpan*sqrt(2)
// in the dir/perpH plane, lifted by +-PerpV*HalfSpan.
func (f Frame) corner(along, side, up float64) geom.Point3 {
	diag := f.Dir.Scale(along).Add(f.PerpH.Scale(side)).Normalize().Scale(f.HalfSpan * math.Sqrt2)
	return diag.Add(f.Center).Add(f.PerpV.Scale(up * f.HalfSpan))
}

// Cell is one hexahedral segment of the tube.
type Cell struct {
	Vertices [cornersPerCell]geom.Point3
	Width    float64
	// Trailing is the handle to pass to the BuildCell call for the next
	// segment.
	Trailing TrailingFace
}

// FaceCounts returns the per-face vertex counts of a cell (always 6x4).
func (c *Cell) FaceCounts() []int {
	counts := make([]int, facesPerCell)
	for i := range counts {
		counts[i] = cornersPerFace
	}
	return counts
}

// FaceConnects returns FaceTable flattened to 24 local indices.
func (c *Cell) FaceConnects() []int {
	connects := make([]int, 0, facesPerCell*cornersPerFace)
	for _, f := range FaceTable {
		connects = append(connects, f[:]...)
	}
	return connects
}

// BuildCell computes the cell bridging prev and next at the given width
// factor. When trailing carries a face its corners are used verbatim for
// slots 2, 3, 6 and 7; otherwise those corners are computed. BuildCell is
// pure: identical inputs always yield identical output.
func BuildCell(prev, next geom.Point3, width float64, trailing TrailingFace) (Cell, error) {
	if err := checkSegment(prev, next); err != nil {
		return Cell{}, err
	}
	if !(width >= 0) || math.IsInf(width, 0) {
		return Cell{}, &InvalidWidthProfileError{Start: width}
	}
	f := NewFrame(prev, next, width)
	if math.IsInf(f.HalfSpan, 0) {
		return Cell{}, &DegenerateSegmentError{Segment: -1, Point: prev, Reason: ReasonOverflow}
	}
	return buildCell(f, width, trailing), nil
}

// checkSegment rejects segments whose frame would produce NaN corners. The
// checks run on the computed frame: a finite, non-zero difference can
// still overflow its length or normalize to an exactly vertical direction.
func checkSegment(prev, next geom.Point3) error {
	if next.Sub(prev).IsZero() {
		return &DegenerateSegmentError{Segment: -1, Point: prev, Reason: ReasonCoincident}
	}
	f := NewFrame(prev, next, 1)
	switch {
	case !f.Dir.IsFinite() || f.Dir.IsZero() || !f.Center.IsFinite() || math.IsInf(f.HalfSpan, 0):
		return &DegenerateSegmentError{Segment: -1, Point: prev, Reason: ReasonOverflow}
	case f.Dir.X == 0 && f.Dir.Z == 0:
		return &DegenerateSegmentError{Segment: -1, Point: prev, Reason: ReasonVertical}
	}
	return nil
}

func buildCell(f Frame, width float64, trailing TrailingFace) Cell {
	var v [cornersPerCell]geom.Point3
	v[0] = f.corner(1, 1, 1)
	v[1] = f.corner(1, 1, -1)
	v[4] = f.corner(1, -1, -1)
	v[5] = f.corner(1, -1, 1)

	if reused, ok := trailing.Corners(); ok {
		for j, slot := range trailingSlots {
			v[slot] = reused[j]
		}
	} else {
		v[2] = f.corner(-1, 1, -1)
		v[3] = f.corner(-1, 1, 1)
		v[6] = f.corner(-1, -1, 1)
		v[7] = f.corner(-1, -1, -1)
	}

	return Cell{
		Vertices: v,
		Width:    width,
		Trailing: leadingFace(v),
	}
}

// leadingFace packages the corners the next cell reuses.
func leadingFace(v [cornersPerCell]geom.Point3) TrailingFace {
	var c [4]geom.Point3
	for j, slot := range leadingSlots {
		c[j] = v[slot]
	}
	return TrailingFace{corners: c, ok: true}
}
