// Package engine evaluates tube scripts. It wraps zygomys in a sandboxed
// environment and produces a design.Design from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/helixtube/pkg/curve"
	"github.com/chazu/helixtube/pkg/design"
	"github.com/chazu/helixtube/pkg/sweep"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Defaults fill in whatever a script leaves out: a (tube ...) without
// :path uses Helix, one without :width uses Width, and so on.
type Defaults struct {
	Helix curve.Helix
	Width sweep.WidthProfile
	Mode  sweep.Mode
}

// DefaultDefaults mirrors the stock command: a 20-vertex helix of radius 4
// and pitch 0.5, tapering from 0.5 by 0.025 per segment.
func DefaultDefaults() Defaults {
	return Defaults{
		Helix: curve.DefaultHelix(),
		Width: sweep.WidthProfile{Start: 0.5, Decrement: 0.025},
		Mode:  sweep.ModeCells,
	}
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	defaults   Defaults
}

// NewEngine creates an Engine with DefaultDefaults.
func NewEngine() *Engine {
	return &Engine{defaults: DefaultDefaults()}
}

// NewEngineWithDefaults creates an Engine whose scripts fall back to d.
func NewEngineWithDefaults(d Defaults) *Engine {
	return &Engine{defaults: d}
}

// Defaults returns the engine's fallbacks.
func (e *Engine) Defaults() Defaults {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defaults
}

// Evaluate runs source and returns the design it declares.
//
// Return semantics:
//   - On success: design + nil errors + nil error
//   - On parse/eval failure: nil design + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*design.Design, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	defaults := e.defaults
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		d, evalErrs, err := evaluate(source, defaults)
		if d != nil {
			d.Version = gen
		}
		ch <- evalResult{design: d, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate runs source in a fresh sandbox.
func evaluate(source string, defaults Defaults) (*design.Design, []EvalError, error) {
	d := design.New()
	if strings.TrimSpace(source) == "" {
		return d, nil, nil
	}

	// The sandbox keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, d, defaults)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return d, nil, nil
}

// linePattern matches "Error on line N: ..." and "line N: ..." messages.
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)|^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		lineStr, detail := m[1], m[2]
		if lineStr == "" {
			lineStr, detail = m[3], m[4]
		}
		line, _ := strconv.Atoi(lineStr)
		// Keep any text before the location prefix.
		msg = strings.Replace(msg, m[0], detail, 1)
		return []EvalError{{Line: line, Message: strings.TrimSpace(msg)}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
