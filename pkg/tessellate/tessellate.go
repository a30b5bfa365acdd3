// Package tessellate walks a design and extrudes every tube into a mesh
// kernel. Tubes are processed in design order, one extrusion run each.
package tessellate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/helixtube/pkg/design"
	"github.com/chazu/helixtube/pkg/kernel"
	"github.com/chazu/helixtube/pkg/sweep"
)

// ErrInvalidDesign wraps blocking validation findings.
var ErrInvalidDesign = errors.New("invalid design")

// Options controls a tessellation.
type Options struct {
	// Parallel selects sweep.ExtrudeParallel; Workers bounds its pool.
	Parallel bool
	Workers  int
}

// TubeResult is the outcome of one tube's extrusion run.
type TubeResult struct {
	RunID uuid.UUID
	Tube  *design.Tube
	*sweep.Result
}

// Result collects every run of a tessellation.
type Result struct {
	Tubes    []*TubeResult
	Warnings []design.ValidationWarning
}

// Meshes returns every created mesh, tube by tube.
func (r *Result) Meshes() []*kernel.Mesh {
	return lo.FlatMap(r.Tubes, func(t *TubeResult, _ int) []*kernel.Mesh {
		return t.Result.Meshes
	})
}

// Failures returns every kernel refusal, tube by tube.
func (r *Result) Failures() []*sweep.MeshCreationError {
	return lo.FlatMap(r.Tubes, func(t *TubeResult, _ int) []*sweep.MeshCreationError {
		return t.Result.Failures
	})
}

// Err joins the failures of every run, prefixed by tube name, or returns
// nil.
func (r *Result) Err() error {
	var errs []error
	for _, t := range r.Tubes {
		if err := t.Result.Err(); err != nil {
			errs = append(errs, fmt.Errorf("tube %q: %w", t.Tube.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Tessellate validates d and extrudes each of its tubes into k. Blocking
// validation findings abort before any mesh is created; warnings are
// carried in the result. Kernel refusals never abort: they are recorded
// per tube. Cancellation stops the run and returns what was completed.
// The design is never mutated.
func Tessellate(ctx context.Context, d *design.Design, k kernel.Kernel, opts Options) (*Result, error) {
	if d == nil {
		return &Result{}, nil
	}
	vr := design.ValidateAll(d)
	if !vr.OK() {
		return nil, fmt.Errorf("tessellate: %w: %w", ErrInvalidDesign, vr.Err())
	}

	res := &Result{Warnings: vr.Warnings}
	for _, tube := range d.List() {
		runID := uuid.New()
		sweep.Logger().Debug("tessellate tube", "tube", tube.Name, "id", tube.ID.Short(), "run", runID)

		sopts := sweep.Options{Mode: tube.Mode, Name: tube.Name, Workers: opts.Workers}
		extrude := sweep.Extrude
		if opts.Parallel {
			extrude = sweep.ExtrudeParallel
		}
		sr, err := extrude(ctx, tube.Path, tube.Width, k, sopts)
		if sr != nil {
			res.Tubes = append(res.Tubes, &TubeResult{RunID: runID, Tube: tube, Result: sr})
		}
		if err != nil {
			return res, fmt.Errorf("tessellate: tube %q: %w", tube.Name, err)
		}
	}
	return res, nil
}
