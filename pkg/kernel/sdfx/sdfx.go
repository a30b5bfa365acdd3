// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx CAD library. Accepted meshes are triangulated into
// sdf.Triangle3 values and collected into one scene that can be measured
// or written out with sdfx's STL renderer.
package sdfx

import (
	"fmt"
	"sync"

	"github.com/chazu/helixtube/pkg/geom"
	"github.com/chazu/helixtube/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// SdfxKernel implements kernel.Kernel by accumulating triangles.
// It is safe for concurrent use.
type SdfxKernel struct {
	mu      sync.Mutex
	meshes  []*kernel.Mesh
	tris    []*sdf.Triangle3
	skipped int
}

// New returns an empty SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// CreateMesh validates the polygon buffers, triangulates them into the
// scene, and returns the created mesh. Zero-area triangles (cells of zero
// width collapse to a point) are counted but kept out of the scene since
// they have no normal.
func (k *SdfxKernel) CreateMesh(name string, vertices []geom.Point3, faceCounts, faceConnects []int) (*kernel.Mesh, error) {
	m, err := kernel.NewMesh(name, vertices, faceCounts, faceConnects)
	if err != nil {
		return nil, err
	}
	tris, skipped := ToTriangles(m)

	k.mu.Lock()
	k.meshes = append(k.meshes, m)
	k.tris = append(k.tris, tris...)
	k.skipped += skipped
	k.mu.Unlock()
	return m, nil
}

// ToTriangles converts a polygon mesh into sdfx triangles, dropping
// zero-area ones. It returns the number dropped.
func ToTriangles(m *kernel.Mesh) ([]*sdf.Triangle3, int) {
	idx := m.Triangles()
	out := make([]*sdf.Triangle3, 0, len(idx))
	skipped := 0
	for _, t := range idx {
		a, b, c := m.Vertices[t[0]].Vec(), m.Vertices[t[1]].Vec(), m.Vertices[t[2]].Vec()
		if degenerate(a, b, c) {
			skipped++
			continue
		}
		out = append(out, &sdf.Triangle3{a, b, c})
	}
	return out, skipped
}

func degenerate(a, b, c v3.Vec) bool {
	return b.Sub(a).Cross(c.Sub(a)).Length() == 0
}

// Meshes returns the accepted meshes in submission order.
func (k *SdfxKernel) Meshes() []*kernel.Mesh {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*kernel.Mesh(nil), k.meshes...)
}

// Triangles returns the scene triangles.
func (k *SdfxKernel) Triangles() []*sdf.Triangle3 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*sdf.Triangle3(nil), k.tris...)
}

// Skipped returns how many zero-area triangles were left out of the scene.
func (k *SdfxKernel) Skipped() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.skipped
}

// BoundingBox returns the axis-aligned bounds of the scene triangles.
func (k *SdfxKernel) BoundingBox() sdf.Box3 {
	k.mu.Lock()
	defer k.mu.Unlock()
	b := geom.EmptyBox()
	for _, t := range k.tris {
		for j := 0; j < 3; j++ {
			b = b.Include(geom.FromVec(t[j]))
		}
	}
	return sdf.Box3{Min: b.Min.Vec(), Max: b.Max.Vec()}
}

// SaveSTL writes the scene to path using sdfx's STL renderer.
func (k *SdfxKernel) SaveSTL(path string) error {
	tris := k.Triangles()
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: no triangles to write to %s", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: SaveSTL %s: %w", path, err)
	}
	return nil
}

// Reset clears the scene.
func (k *SdfxKernel) Reset() {
	k.mu.Lock()
	k.meshes, k.tris, k.skipped = nil, nil, 0
	k.mu.Unlock()
}
