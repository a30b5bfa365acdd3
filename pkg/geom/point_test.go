package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := P(1, 2, 3)
	b := P(4, -5, 6)

	tests := []struct {
		name string
		got  Point3
		want Point3
	}{
		{"add", a.Add(b), P(5, -3, 9)},
		{"sub", a.Sub(b), P(-3, 7, -3)},
		{"neg", a.Neg(), P(-1, -2, -3)},
		{"scale", a.Scale(2), P(2, 4, 6)},
		{"div", b.Div(2), P(2, -2.5, 3)},
		{"midpoint", P(0, 0, 0).Midpoint(P(2, 4, 6)), P(1, 2, 3)},
		{"cross x*y", P(1, 0, 0).Cross(P(0, 1, 0)), P(0, 0, 1)},
		{"cross z*x", P(0, 0, 1).Cross(P(1, 0, 0)), P(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPointMetrics(t *testing.T) {
	if got := P(1, 2, 3).Dot(P(4, -5, 6)); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := P(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := P(1, 1, 1).Distance(P(1, 1, 3)); got != 2 {
		t.Errorf("Distance = %v, want 2", got)
	}
	n := P(0, 3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalize length = %v, want 1", n.Length())
	}
}

func TestPointPredicates(t *testing.T) {
	if !(Point3{}).IsZero() {
		t.Error("zero point should report IsZero")
	}
	if P(0, 0, 1e-300).IsZero() {
		t.Error("tiny non-zero point should not report IsZero")
	}
	if !P(1, 2, 3).IsFinite() {
		t.Error("finite point reported non-finite")
	}
	if P(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN point reported finite")
	}
	if P(0, math.Inf(-1), 0).IsFinite() {
		t.Error("Inf point reported finite")
	}
}

func TestBox(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatal("EmptyBox should be empty")
	}
	if b.Size() != (Point3{}) {
		t.Errorf("empty Size = %v, want zero", b.Size())
	}

	b = BoundsOf([]Point3{P(1, -2, 3), P(-1, 4, 0), P(0, 0, 5)})
	if b.Min != P(-1, -2, 0) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != P(1, 4, 5) {
		t.Errorf("Max = %v", b.Max)
	}
	if b.Size() != P(2, 6, 5) {
		t.Errorf("Size = %v", b.Size())
	}

	u := b.Union(BoundsOf([]Point3{P(10, 10, 10)}))
	if u.Max != P(10, 10, 10) || u.Min != b.Min {
		t.Errorf("Union = %+v", u)
	}
	if got := b.Union(EmptyBox()); got != b {
		t.Errorf("Union with empty = %+v, want %+v", got, b)
	}
}
