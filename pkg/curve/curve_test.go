package curve

import (
	"math"
	"testing"

	"github.com/chazu/helixtube/pkg/geom"
)

func TestDefaultHelix(t *testing.T) {
	h := DefaultHelix()
	pts := h.PathPoints()
	if len(pts) != 20 {
		t.Fatalf("got %d points, want 20", len(pts))
	}
	if pts[0] != geom.P(4, 0, 0) {
		t.Errorf("first point = %v, want (4,0,0)", pts[0])
	}
	for i, p := range pts {
		r := math.Hypot(p.X, p.Z)
		if math.Abs(r-4) > 1e-12 {
			t.Errorf("point %d radius = %v, want 4", i, r)
		}
		if math.Abs(p.Y-0.5*float64(i)) > 1e-12 {
			t.Errorf("point %d height = %v, want %v", i, p.Y, 0.5*float64(i))
		}
	}
}

func TestHelixNoVerticalSegments(t *testing.T) {
	// Integer parameter steps never land two vertices on the same vertical.
	pts := Helix{Radius: 1, Pitch: 2, Count: 50}.PathPoints()
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		if d.X == 0 && d.Z == 0 {
			t.Fatalf("segment %d is vertical", i-1)
		}
	}
}

func TestHelixEmpty(t *testing.T) {
	for _, n := range []int{0, -3} {
		if pts := (Helix{Radius: 1, Pitch: 1, Count: n}).PathPoints(); pts != nil {
			t.Errorf("Count=%d: got %v, want nil", n, pts)
		}
	}
}

func TestPointsCopies(t *testing.T) {
	src := Points{geom.P(0, 0, 0), geom.P(1, 0, 0)}
	got := src.PathPoints()
	got[0] = geom.P(9, 9, 9)
	if src[0] != geom.P(0, 0, 0) {
		t.Error("PathPoints must not alias the source")
	}
	if Points(nil).PathPoints() != nil {
		t.Error("nil Points should yield nil")
	}
}

func TestSourceStrings(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{DefaultHelix(), "helix(r=4, pitch=0.5, n=20)"},
		{Points{geom.P(0, 0, 0)}, "points(1)"},
	}
	for _, tt := range tests {
		if got := tt.src.(interface{ String() string }).String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
