//go:build manifold

package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/chazu/helixtube/pkg/geom"
	"github.com/chazu/helixtube/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*ManifoldKernel)(nil)

// ManifoldKernel checks each mesh with Manifold before forwarding it to
// the inner kernel. It holds no C state between calls, so it is safe for
// concurrent use whenever the inner kernel is.
type ManifoldKernel struct {
	inner kernel.Kernel
}

// New wraps inner.
func New(inner kernel.Kernel) (kernel.Kernel, error) {
	if inner == nil {
		inner = kernel.NewMemory()
	}
	return &ManifoldKernel{inner: inner}, nil
}

// CreateMesh fans the polygons into triangles, builds a Manifold from
// them and refuses the mesh unless Manifold accepts it as a non-empty
// closed solid.
func (k *ManifoldKernel) CreateMesh(name string, vertices []geom.Point3, faceCounts, faceConnects []int) (*kernel.Mesh, error) {
	m, err := kernel.NewMesh(name, vertices, faceCounts, faceConnects)
	if err != nil {
		return nil, err
	}
	if err := check(m); err != nil {
		return nil, fmt.Errorf("manifold: %q: %w", name, err)
	}
	return k.inner.CreateMesh(name, vertices, faceCounts, faceConnects)
}

func check(m *kernel.Mesh) error {
	tris := m.Triangles()
	if len(m.Vertices) == 0 || len(tris) == 0 {
		return fmt.Errorf("%w: no triangles", ErrNotManifold)
	}

	// MeshGL takes float32 positions (3 properties per vertex) and
	// uint32 triangle indices.
	props := make([]float32, 0, 3*len(m.Vertices))
	for _, v := range m.Vertices {
		props = append(props, float32(v.X), float32(v.Y), float32(v.Z))
	}
	indices := make([]uint32, 0, 3*len(tris))
	for _, t := range tris {
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}

	meshGL := C.manifold_meshgl(C.manifold_alloc_meshgl(),
		(*C.float)(unsafe.Pointer(&props[0])), C.size_t(len(m.Vertices)), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&indices[0])), C.size_t(len(tris)),
	)
	defer C.manifold_delete_meshgl(meshGL)

	solid := C.manifold_of_meshgl(C.manifold_alloc_manifold(), meshGL)
	defer C.manifold_delete_manifold(solid)

	if status := C.manifold_status(solid); status != C.MANIFOLD_NO_ERROR {
		return fmt.Errorf("%w: %s", ErrNotManifold, statusString(status))
	}
	// Zero-area input is dropped during construction.
	if C.manifold_is_empty(solid) != 0 {
		return fmt.Errorf("%w: collapses to an empty solid", ErrNotManifold)
	}
	return nil
}

func statusString(s C.ManifoldError) string {
	switch s {
	case C.MANIFOLD_NON_FINITE_VERTEX:
		return "non-finite vertex"
	case C.MANIFOLD_NOT_MANIFOLD:
		return "open or non-manifold edges"
	case C.MANIFOLD_VERTEX_INDEX_OUT_OF_BOUNDS:
		return "vertex index out of bounds"
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}
