package sweep_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chazu/helixtube/pkg/kernel"
	"github.com/chazu/helixtube/pkg/sweep"
)

func TestExtrudeParallelMatchesSequential(t *testing.T) {
	path := helixPath(40)
	width := sweep.WidthProfile{Start: 0.5, Decrement: 0.0125}

	for _, mode := range []sweep.Mode{sweep.ModeCells, sweep.ModeMerged} {
		want, err := sweep.Extrude(context.Background(), path, width, kernel.NewMemory(), sweep.Options{Mode: mode})
		if err != nil {
			t.Fatalf("Extrude(%v) error = %v", mode, err)
		}
		for _, workers := range []int{0, 1, 3, 8, 100} {
			t.Run(fmt.Sprintf("%v/workers=%d", mode, workers), func(t *testing.T) {
				got, err := sweep.ExtrudeParallel(context.Background(), path, width, kernel.NewMemory(),
					sweep.Options{Mode: mode, Workers: workers})
				if err != nil {
					t.Fatalf("ExtrudeParallel() error = %v", err)
				}
				if len(got.Cells) != len(want.Cells) {
					t.Fatalf("got %d cells, want %d", len(got.Cells), len(want.Cells))
				}
				for i := range want.Cells {
					if got.Cells[i] != want.Cells[i] {
						t.Errorf("cell %d differs from sequential result", i)
					}
				}
				if len(got.Meshes) != len(want.Meshes) {
					t.Fatalf("got %d meshes, want %d", len(got.Meshes), len(want.Meshes))
				}
				for i := range want.Meshes {
					g, w := got.Meshes[i], want.Meshes[i]
					if g.Name != w.Name {
						t.Errorf("mesh %d name = %q, want %q", i, g.Name, w.Name)
					}
					for j := range w.Vertices {
						if g.Vertices[j] != w.Vertices[j] {
							t.Errorf("mesh %d vertex %d = %v, want %v", i, j, g.Vertices[j], w.Vertices[j])
						}
					}
				}
			})
		}
	}
}

func TestExtrudeParallelKernelOrder(t *testing.T) {
	k := newFlakyKernel(2, 5)
	res, err := sweep.ExtrudeParallel(context.Background(), helixPath(9),
		sweep.WidthProfile{Start: 0.5, Decrement: 0.025}, k, sweep.Options{Workers: 4})
	if err != nil {
		t.Fatalf("ExtrudeParallel() error = %v", err)
	}
	// Submission is sequential, so the failing call indices are the
	// failing segment indices.
	got := res.FailedSegments()
	if len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Errorf("FailedSegments() = %v, want [2 5]", got)
	}
	for i, m := range k.inner.Meshes() {
		if i > 0 && m.Name <= k.inner.Meshes()[i-1].Name {
			t.Errorf("meshes out of order: %q after %q", m.Name, k.inner.Meshes()[i-1].Name)
		}
	}
}

func TestExtrudeParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	k := kernel.NewMemory()

	res, err := sweep.ExtrudeParallel(ctx, helixPath(30), sweep.WidthProfile{Start: 0.5}, k, sweep.Options{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ExtrudeParallel() error = %v, want context.Canceled", err)
	}
	if len(res.Meshes) != 0 || len(k.Meshes()) != 0 {
		t.Errorf("cancelled run submitted %d meshes", len(k.Meshes()))
	}
}

func TestExtrudeParallelValidates(t *testing.T) {
	_, err := sweep.ExtrudeParallel(context.Background(), helixPath(1), sweep.WidthProfile{Start: 1}, kernel.NewMemory(), sweep.Options{})
	if !errors.Is(err, sweep.ErrPathTooShort) {
		t.Fatalf("error = %v, want ErrPathTooShort", err)
	}

	k := kernel.NewMemory()
	_, err = sweep.ExtrudeParallel(context.Background(), helixPath(4), sweep.WidthProfile{Start: 1}, k, sweep.Options{Mode: sweep.Mode(7)})
	if !errors.Is(err, sweep.ErrUnknownMode) {
		t.Fatalf("error = %v, want ErrUnknownMode", err)
	}
	if len(k.Meshes()) != 0 {
		t.Errorf("kernel received %d meshes for an unknown mode", len(k.Meshes()))
	}
}
