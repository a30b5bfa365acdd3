package geom

import "math"

// Box is an axis-aligned bounding box. The zero Box is not empty; use
// EmptyBox as the starting value when accumulating points.
type Box struct {
	Min, Max Point3
}

// EmptyBox returns a box that contains nothing. Including any point makes
// it the degenerate box around that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: Point3{inf, inf, inf},
		Max: Point3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include returns the smallest box containing b and p.
func (b Box) Include(p Point3) Box {
	return Box{
		Min: FromVec(b.Min.Vec().Min(p.Vec())),
		Max: FromVec(b.Max.Vec().Max(p.Vec())),
	}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Include(o.Min).Include(o.Max)
}

// Size returns the extent along each axis, or zero for an empty box.
func (b Box) Size() Point3 {
	if b.IsEmpty() {
		return Point3{}
	}
	return b.Max.Sub(b.Min)
}

// BoundsOf returns the bounding box of pts.
func BoundsOf(pts []Point3) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = b.Include(p)
	}
	return b
}
