// Package manifold provides a CGo-based mesh check backed by the Manifold
// library (https://github.com/elalish/manifold). The kernel it returns
// hands every submitted mesh to Manifold and refuses the ones that are not
// a closed, consistently oriented 2-manifold; accepted meshes are passed
// on to an inner kernel unchanged.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

import "errors"

var (
	// ErrUnavailable is returned by New when the manifold tag is not set.
	ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")
	// ErrNotManifold wraps every refusal.
	ErrNotManifold = errors.New("mesh is not a closed manifold")
)
