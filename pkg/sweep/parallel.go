package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/chazu/helixtube/pkg/kernel"
)

// ExtrudeParallel produces the same cells and meshes as Extrude but splits
// the work in two passes. The first pass computes every cell on its own
// frame, across Options.Workers goroutines. The second pass walks the
// cells in order, copies each predecessor's leading corners into the
// trailing slots, and submits to k from the calling goroutine, so kernels
// see the same call sequence as with Extrude.
//
// Cancellation is checked by the workers between cells and again before
// stitching; a cancelled run submits nothing.
func ExtrudeParallel(ctx context.Context, path Path, width WidthProfile, k kernel.Kernel, opts Options) (*Result, error) {
	if err := validate(path, width, opts.Mode); err != nil {
		return nil, err
	}
	log := Logger().With("tube", opts.name(), "mode", opts.Mode.String())
	n := path.Segments()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	log.Info("extrude start", "segments", n, "workers", workers)

	cells := make([]Cell, n)
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				cells[i] = buildCell(NewFrame(path[i], path[i+1], width.At(i)), width.At(i), TrailingFace{})
			}
		}()
	}
feed:
	for i := 0; i < n; i++ {
		select {
		case next <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Info("extrude cancelled before stitching")
		return &Result{}, fmt.Errorf("sweep: parallel extrude cancelled: %w", err)
	}

	res := &Result{Cells: make([]Cell, 0, n)}
	for i := range cells {
		if i > 0 {
			stitch(&cells[i], cells[i-1])
		}
		emitCell(res, k, opts, i, cells[i], log)
	}
	return finish(res, k, opts, log), nil
}

// stitch replaces cur's trailing corners with prev's leading corners and
// leaves everything else untouched. Leading corners never depend on the
// trailing ones, so a cell computed in isolation only differs from the
// sequential one in those four slots.
func stitch(cur *Cell, prev Cell) {
	reused, _ := prev.Trailing.Corners()
	for j, slot := range trailingSlots {
		cur.Vertices[slot] = reused[j]
	}
}
