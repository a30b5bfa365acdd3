//go:build !manifold

package manifold

import "github.com/chazu/helixtube/pkg/kernel"

// New returns ErrUnavailable. Build with -tags=manifold to enable.
func New(inner kernel.Kernel) (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
