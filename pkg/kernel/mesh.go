package kernel

import (
	"errors"
	"fmt"

	"github.com/chazu/helixtube/pkg/geom"
)

// ErrInvalidMesh is returned when polygon buffers are inconsistent.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is a polygon mesh as handed to the scene layer.
// FaceCounts holds the number of vertices of each face and FaceConnects
// the flattened per-face vertex indices, so len(FaceConnects) is the sum
// of FaceCounts.
type Mesh struct {
	Name         string        `json:"name"`
	Vertices     []geom.Point3 `json:"vertices"`
	FaceCounts   []int         `json:"faceCounts"`
	FaceConnects []int         `json:"faceConnects"`
}

// NewMesh validates the buffers and returns a Mesh that owns copies of
// them. Callers may reuse their slices afterwards.
func NewMesh(name string, vertices []geom.Point3, faceCounts, faceConnects []int) (*Mesh, error) {
	if err := checkBuffers(vertices, faceCounts, faceConnects); err != nil {
		return nil, fmt.Errorf("kernel: mesh %q: %w", name, err)
	}
	return &Mesh{
		Name:         name,
		Vertices:     append([]geom.Point3(nil), vertices...),
		FaceCounts:   append([]int(nil), faceCounts...),
		FaceConnects: append([]int(nil), faceConnects...),
	}, nil
}

func checkBuffers(vertices []geom.Point3, faceCounts, faceConnects []int) error {
	total := 0
	for i, c := range faceCounts {
		if c < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidMesh, i, c)
		}
		total += c
	}
	if total != len(faceConnects) {
		return fmt.Errorf("%w: face counts sum to %d but %d indices given", ErrInvalidMesh, total, len(faceConnects))
	}
	for i, idx := range faceConnects {
		if idx < 0 || idx >= len(vertices) {
			return fmt.Errorf("%w: index %d at position %d out of range [0,%d)", ErrInvalidMesh, idx, i, len(vertices))
		}
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is not finite: %v", ErrInvalidMesh, i, v)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of polygons.
func (m *Mesh) FaceCount() int {
	return len(m.FaceCounts)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Faces returns each polygon's vertex indices. The returned slices alias
// FaceConnects.
func (m *Mesh) Faces() [][]int {
	faces := make([][]int, 0, len(m.FaceCounts))
	off := 0
	for _, c := range m.FaceCounts {
		faces = append(faces, m.FaceConnects[off:off+c])
		off += c
	}
	return faces
}

// Triangles fan-triangulates every polygon and returns index triples.
// Winding is preserved.
func (m *Mesh) Triangles() [][3]int {
	var tris [][3]int
	for _, f := range m.Faces() {
		for i := 1; i+1 < len(f); i++ {
			tris = append(tris, [3]int{f[0], f[i], f[i+1]})
		}
	}
	return tris
}

// TriangleCount returns the number of triangles Triangles would produce.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, c := range m.FaceCounts {
		n += c - 2
	}
	return n
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() geom.Box {
	return geom.BoundsOf(m.Vertices)
}
