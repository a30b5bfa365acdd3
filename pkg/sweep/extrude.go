package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/helixtube/pkg/geom"
	"github.com/chazu/helixtube/pkg/kernel"
	"github.com/samber/lo"
)

// Mode selects how cells are handed to the kernel.
type Mode int

const (
	// ModeCells submits one independent 8-vertex mesh per cell. Seams match
	// in position but cells share no indices.
	ModeCells Mode = iota
	// ModeMerged submits a single indexed mesh in which neighbouring cells
	// share their seam vertices and interior caps are dropped, giving a
	// closed surface.
	ModeMerged
)

func (m Mode) String() string {
	switch m {
	case ModeCells:
		return "cells"
	case ModeMerged:
		return "merged"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "cells" or "merged" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "cells", "":
		return ModeCells, nil
	case "merged":
		return ModeMerged, nil
	}
	return ModeCells, fmt.Errorf("unknown mode %q, expected cells or merged", s)
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeCells, ModeMerged:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(m))
}

// UnmarshalText accepts the names ParseMode accepts.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DefaultName is used when Options.Name is empty.
const DefaultName = "tube"

// Options controls an extrusion.
type Options struct {
	Mode Mode
	// Name prefixes every mesh name. Cells are named "<name>/cell-NNN".
	Name string
	// Workers bounds the goroutines ExtrudeParallel uses for the cell
	// math. Zero or less means runtime.GOMAXPROCS.
	Workers int
}

func (o Options) name() string {
	if o.Name == "" {
		return DefaultName
	}
	return o.Name
}

// Result is the outcome of an extrusion. A non-empty Failures list does
// not mean the other meshes are unusable.
type Result struct {
	Meshes   []*kernel.Mesh
	Cells    []Cell
	Failures []*MeshCreationError
}

// FailedSegments returns the segment indices whose mesh was refused.
func (r *Result) FailedSegments() []int {
	return lo.Map(r.Failures, func(f *MeshCreationError, _ int) int {
		return f.Segment
	})
}

// Err joins every failure, or returns nil if there were none.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return errors.Join(lo.Map(r.Failures, func(f *MeshCreationError, _ int) error {
		return f
	})...)
}

// Extrude builds one cell per path segment, threading each cell's leading
// face into the next, and submits the cells to k.
//
// The path and width profile are validated first; a validation error is
// returned before anything reaches the kernel. A kernel refusal is
// recorded in Result.Failures and extrusion continues. ctx is checked
// between cells; on cancellation the cells completed so far (and, in cells
// mode, their meshes) are returned with the context error and nothing more
// is submitted.
func Extrude(ctx context.Context, path Path, width WidthProfile, k kernel.Kernel, opts Options) (*Result, error) {
	if err := validate(path, width, opts.Mode); err != nil {
		return nil, err
	}
	log := Logger().With("tube", opts.name(), "mode", opts.Mode.String())
	log.Info("extrude start", "segments", path.Segments())

	res := &Result{Cells: make([]Cell, 0, path.Segments())}
	var trailing TrailingFace
	for i := 0; i < path.Segments(); i++ {
		if err := ctx.Err(); err != nil {
			log.Info("extrude cancelled", "cells", i)
			return res, fmt.Errorf("sweep: extrude cancelled after %d of %d cells: %w", i, path.Segments(), err)
		}
		cell := buildCell(NewFrame(path[i], path[i+1], width.At(i)), width.At(i), trailing)
		trailing = cell.Trailing
		log.Debug("cell", "segment", i, "width", cell.Width)
		emitCell(res, k, opts, i, cell, log)
	}
	return finish(res, k, opts, log), nil
}

func validate(path Path, width WidthProfile, mode Mode) error {
	if mode != ModeCells && mode != ModeMerged {
		return fmt.Errorf("sweep: %w %d", ErrUnknownMode, int(mode))
	}
	if err := width.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if err := path.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	// Start is the widest the profile gets.
	for i := 0; i < path.Segments(); i++ {
		if math.IsInf(path[i].Distance(path[i+1])/2*width.Start, 0) {
			return fmt.Errorf("sweep: %w", &DegenerateSegmentError{Segment: i, Point: path[i], Reason: ReasonOverflow})
		}
	}
	return nil
}

// emitCell records the cell and, in cells mode, submits it.
func emitCell(res *Result, k kernel.Kernel, opts Options, i int, cell Cell, log *slog.Logger) {
	res.Cells = append(res.Cells, cell)
	if opts.Mode != ModeCells {
		return
	}
	name := fmt.Sprintf("%s/cell-%03d", opts.name(), i)
	m, err := k.CreateMesh(name, cell.Vertices[:], cell.FaceCounts(), cell.FaceConnects())
	if err != nil {
		log.Warn("mesh creation failed", "segment", i, "err", err)
		res.Failures = append(res.Failures, &MeshCreationError{Segment: i, Name: name, Err: err})
		return
	}
	res.Meshes = append(res.Meshes, m)
}

// finish submits the merged mesh when needed and logs the summary.
func finish(res *Result, k kernel.Kernel, opts Options, log *slog.Logger) *Result {
	if opts.Mode == ModeMerged && len(res.Cells) > 0 {
		name := opts.name()
		v, counts, connects := Merge(res.Cells)
		m, err := k.CreateMesh(name, v, counts, connects)
		if err != nil {
			log.Warn("mesh creation failed", "err", err)
			res.Failures = append(res.Failures, &MeshCreationError{Segment: -1, Name: name, Err: err})
		} else {
			res.Meshes = append(res.Meshes, m)
		}
	}
	log.Info("extrude done", "cells", len(res.Cells), "meshes", len(res.Meshes), "failures", len(res.Failures))
	return res
}

// Merge stitches consecutive cells into one indexed polygon mesh. The
// trailing corners of each cell after the first resolve to the leading
// corners of its predecessor, so n cells yield 4n+4 vertices. Interior
// caps are omitted: only the first cell's trailing cap and the last cell's
// leading cap close the ends, leaving 4n+2 faces.
func Merge(cells []Cell) ([]geom.Point3, []int, []int) {
	if len(cells) == 0 {
		return nil, nil, nil
	}
	n := len(cells)
	vertices := make([]geom.Point3, 0, 4*n+4)
	counts := make([]int, 0, 4*n+2)
	connects := make([]int, 0, cornersPerFace*(4*n+2))

	var prev [cornersPerCell]int
	for ci, cell := range cells {
		var global [cornersPerCell]int
		for slot := range global {
			global[slot] = -1
		}
		if ci > 0 {
			for j, slot := range trailingSlots {
				global[slot] = prev[leadingSlots[j]]
			}
		}
		for slot := range global {
			if global[slot] < 0 {
				global[slot] = len(vertices)
				vertices = append(vertices, cell.Vertices[slot])
			}
		}

		for fi, face := range FaceTable {
			if fi == faceTrailingCap && ci > 0 {
				continue
			}
			if fi == faceLeadingCap && ci < n-1 {
				continue
			}
			counts = append(counts, cornersPerFace)
			for _, slot := range face {
				connects = append(connects, global[slot])
			}
		}
		prev = global
	}
	return vertices, counts, connects
}
