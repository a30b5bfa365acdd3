package sdfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/helixtube/pkg/geom"
)

// unitBox returns the 8 corners of the unit cube and six outward quads.
func unitBox() ([]geom.Point3, []int, []int) {
	v := []geom.Point3{
		geom.P(0, 0, 0), geom.P(1, 0, 0), geom.P(1, 1, 0), geom.P(0, 1, 0),
		geom.P(0, 0, 1), geom.P(1, 0, 1), geom.P(1, 1, 1), geom.P(0, 1, 1),
	}
	counts := []int{4, 4, 4, 4, 4, 4}
	connects := []int{
		0, 3, 2, 1,
		4, 5, 6, 7,
		0, 1, 5, 4,
		2, 3, 7, 6,
		1, 2, 6, 5,
		0, 4, 7, 3,
	}
	return v, counts, connects
}

func TestCreateMeshTriangulates(t *testing.T) {
	k := New()
	v, c, f := unitBox()
	m, err := k.CreateMesh("box", v, c, f)
	if err != nil {
		t.Fatalf("CreateMesh failed: %v", err)
	}
	if m.FaceCount() != 6 {
		t.Fatalf("FaceCount = %d, want 6", m.FaceCount())
	}
	// A box should produce exactly 12 triangles (2 per face, 6 faces).
	if got := len(k.Triangles()); got != 12 {
		t.Fatalf("scene has %d triangles, want 12", got)
	}
	if k.Skipped() != 0 {
		t.Errorf("Skipped = %d, want 0", k.Skipped())
	}

	bb := k.BoundingBox()
	if bb.Min.X != 0 || bb.Min.Y != 0 || bb.Min.Z != 0 {
		t.Errorf("bbox min = %v, want origin", bb.Min)
	}
	if bb.Max.X != 1 || bb.Max.Y != 1 || bb.Max.Z != 1 {
		t.Errorf("bbox max = %v, want (1,1,1)", bb.Max)
	}
}

func TestCreateMeshRejectsInvalid(t *testing.T) {
	k := New()
	v, _, _ := unitBox()
	if _, err := k.CreateMesh("bad", v, []int{4}, []int{0, 1, 2, 8}); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if len(k.Meshes()) != 0 || len(k.Triangles()) != 0 {
		t.Error("rejected mesh leaked into the scene")
	}
}

func TestZeroAreaTrianglesSkipped(t *testing.T) {
	k := New()
	p := geom.P(1, 1, 1)
	v := []geom.Point3{p, p, p, p}
	if _, err := k.CreateMesh("collapsed", v, []int{4}, []int{0, 1, 2, 3}); err != nil {
		t.Fatalf("CreateMesh failed: %v", err)
	}
	if got := len(k.Triangles()); got != 0 {
		t.Errorf("scene has %d triangles, want 0", got)
	}
	if k.Skipped() != 2 {
		t.Errorf("Skipped = %d, want 2", k.Skipped())
	}
	if len(k.Meshes()) != 1 {
		t.Errorf("collapsed mesh should still be recorded")
	}
}

func TestSaveSTL(t *testing.T) {
	k := New()
	v, c, f := unitBox()
	if _, err := k.CreateMesh("box", v, c, f); err != nil {
		t.Fatalf("CreateMesh failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := k.SaveSTL(path); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("STL file is empty")
	}
}

func TestSaveSTLEmptyScene(t *testing.T) {
	k := New()
	if err := k.SaveSTL(filepath.Join(t.TempDir(), "empty.stl")); err == nil {
		t.Fatal("expected error for empty scene")
	}
}

func TestReset(t *testing.T) {
	k := New()
	v, c, f := unitBox()
	if _, err := k.CreateMesh("box", v, c, f); err != nil {
		t.Fatalf("CreateMesh failed: %v", err)
	}
	k.Reset()
	if len(k.Meshes()) != 0 || len(k.Triangles()) != 0 || k.Skipped() != 0 {
		t.Error("Reset left state behind")
	}
}
