// Package kernel defines the mesh-creation collaborator the extrusion
// core submits its cells to. Implementations (the in-memory Memory
// kernel, the sdfx scene kernel) accept polygon buffers and either return
// a created Mesh or report failure. The abstraction lets the core stay
// ignorant of where meshes end up.
package kernel

import (
	"sync"

	"github.com/chazu/helixtube/pkg/geom"
)

// Kernel creates meshes from polygon buffers. A Kernel may refuse a mesh;
// callers must not assume success.
type Kernel interface {
	CreateMesh(name string, vertices []geom.Point3, faceCounts, faceConnects []int) (*Mesh, error)
}

// Compile-time interface check.
var _ Kernel = (*Memory)(nil)

// Memory is a Kernel that keeps every accepted mesh in memory, in
// submission order. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	meshes []*Mesh
}

// NewMemory returns an empty Memory kernel.
func NewMemory() *Memory {
	return &Memory{}
}

// CreateMesh validates the buffers and stores the resulting mesh.
func (k *Memory) CreateMesh(name string, vertices []geom.Point3, faceCounts, faceConnects []int) (*Mesh, error) {
	m, err := NewMesh(name, vertices, faceCounts, faceConnects)
	if err != nil {
		return nil, err
	}
	k.mu.Lock()
	k.meshes = append(k.meshes, m)
	k.mu.Unlock()
	return m, nil
}

// Meshes returns the accepted meshes.
func (k *Memory) Meshes() []*Mesh {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*Mesh(nil), k.meshes...)
}

// Reset drops every stored mesh.
func (k *Memory) Reset() {
	k.mu.Lock()
	k.meshes = nil
	k.mu.Unlock()
}
