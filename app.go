package main

import (
	"context"
	"log"

	"github.com/chazu/helixtube/pkg/config"
	"github.com/chazu/helixtube/pkg/design"
	"github.com/chazu/helixtube/pkg/engine"
	"github.com/chazu/helixtube/pkg/geom"
	"github.com/chazu/helixtube/pkg/kernel"
	"github.com/chazu/helixtube/pkg/kernel/manifold"
	"github.com/chazu/helixtube/pkg/kernel/sdfx"
	"github.com/chazu/helixtube/pkg/tessellate"
)

// colorPalette assigns distinct colors to tubes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App turns tube scripts into meshes. Every evaluation starts from an
// empty sdfx scene, which can then be written out with SaveSTL.
type App struct {
	engine *engine.Engine
	kernel *sdfx.SdfxKernel
	// target receives the meshes: the scene itself, or a checker in
	// front of it.
	target kernel.Kernel
	opts   tessellate.Options
}

// MeshData is the JSON form of one created mesh: flat float32 xyz
// positions, per-vertex normals and triangle indices.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Tube     string    `json:"tube"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full outcome of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	// Failed lists the mesh names the kernel refused.
	Failed []string `json:"failed"`
}

// NewApp creates an App with the stock defaults.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates an App whose scripts fall back to c's helix,
// width and mode, and whose runs use c's worker settings.
func NewAppWithConfig(c config.Config) *App {
	scene := sdfx.New()
	return &App{
		engine: engine.NewEngineWithDefaults(engine.Defaults{Helix: c.Helix, Width: c.Width, Mode: c.Mode}),
		kernel: scene,
		target: scene,
		opts:   tessellate.Options{Parallel: c.Parallel, Workers: c.Workers},
	}
}

// CheckManifold puts the Manifold check in front of the scene: meshes
// that are not closed solids are refused and reported as failures. It
// fails unless the binary was built with -tags=manifold.
func (a *App) CheckManifold() error {
	k, err := manifold.New(a.kernel)
	if err != nil {
		return err
	}
	a.target = k
	return nil
}

// HelixDesign returns a design holding a single tube, name, built from
// the engine's default helix, width and mode.
func (a *App) HelixDesign(name string) *design.Design {
	defs := a.engine.Defaults()
	d := design.New()
	d.AddTube(design.NewTube(name, defs.Helix, defs.Width, defs.Mode))
	return d
}

// Evaluate runs a tube script and tessellates the design it declares.
// The scene is cleared first, so a failed script leaves it empty.
func (a *App) Evaluate(source string) EvalResult {
	result := newEvalResult()
	a.kernel.Reset()

	d, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	return a.Tessellate(context.Background(), d)
}

// Tessellate extrudes d into a fresh scene. An empty design yields an
// empty result.
func (a *App) Tessellate(ctx context.Context, d *design.Design) EvalResult {
	result := newEvalResult()
	a.kernel.Reset()
	if d == nil || d.TubeCount() == 0 {
		return result
	}

	res, err := tessellate.Tessellate(ctx, d, a.target, a.opts)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		if res == nil {
			return result
		}
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	for i, run := range res.Tubes {
		color := colorPalette[i%len(colorPalette)]
		for _, m := range run.Result.Meshes {
			md := toMeshData(m)
			md.Tube = run.Tube.Name
			md.Color = color
			result.Meshes = append(result.Meshes, md)
		}
		for _, f := range run.Result.Failures {
			result.Failed = append(result.Failed, f.Name)
			result.Warnings = append(result.Warnings, EvalErrorData{Message: f.Error()})
		}
	}
	return result
}

// SaveSTL writes the current scene.
func (a *App) SaveSTL(path string) error {
	return a.kernel.SaveSTL(path)
}

// Scene returns the kernel holding the last evaluation's meshes.
func (a *App) Scene() *sdfx.SdfxKernel {
	return a.kernel
}

func newEvalResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
		Failed:   []string{},
	}
}

// toMeshData triangulates m and computes area-weighted vertex normals.
func toMeshData(m *kernel.Mesh) MeshData {
	md := MeshData{
		Vertices: make([]float32, 0, 3*len(m.Vertices)),
		Normals:  make([]float32, 0, 3*len(m.Vertices)),
		Name:     m.Name,
	}
	normals := make([]geom.Point3, len(m.Vertices))
	for _, t := range m.Triangles() {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range t {
			normals[i] = normals[i].Add(n)
			md.Indices = append(md.Indices, uint32(i))
		}
	}
	for i, v := range m.Vertices {
		n := normals[i]
		if !n.IsZero() {
			n = n.Normalize()
		}
		md.Vertices = append(md.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		md.Normals = append(md.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return md
}
