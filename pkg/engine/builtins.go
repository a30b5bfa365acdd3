package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/helixtube/pkg/curve"
	"github.com/chazu/helixtube/pkg/design"
	"github.com/chazu/helixtube/pkg/geom"
	"github.com/chazu/helixtube/pkg/sweep"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix marks string literals that were keywords in the source.
const kwPrefix = "__kw_"

// preprocessSource rewrites tube script source into something zygomys
// reads directly:
//
//   - :name becomes the string literal "__kw_name" (":=" is left alone)
//   - a hyphen between identifier characters becomes an underscore, so
//     start-width reads as start_width rather than a subtraction
//   - ; and ;; line comments become // comments
//
// String literals, both "..." and `...`, pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	src := source

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			j := skipQuoted(src, i)
			out.WriteString(src[i:j])
			i = j

		case c == '`':
			j := strings.IndexByte(src[i+1:], '`')
			if j < 0 {
				out.WriteString(src[i:])
				return out.String()
			}
			out.WriteString(src[i : i+j+2])
			i += j + 2

		case c == ';':
			for i < len(src) && src[i] == ';' {
				i++
			}
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			out.WriteString("//")
			out.WriteString(src[i : i+end])
			i += end

		case c == ':' && i+1 < len(src) && isLetter(src[i+1]):
			j := i + 1
			for j < len(src) && isKeywordChar(src[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + src[i+1:j] + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < len(src) && isIdentChar(src[i-1]) && isLetter(src[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the double-quoted literal that
// starts at i, honouring backslash escapes.
func skipQuoted(src string, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(src)
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }
func isKeywordChar(c byte) bool { return isIdentChar(c) || c == '-' }

// ---------------------------------------------------------------------------
// Script values
// ---------------------------------------------------------------------------

// sexpPoint carries a geom.Point3 between builtins.
type sexpPoint struct {
	p geom.Point3
}

func (v *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.p.X, v.p.Y, v.p.Z)
}
func (v *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpSource carries a path source.
type sexpSource struct {
	src curve.Source
}

func (s *sexpSource) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("%v", s.src)
}
func (s *sexpSource) Type() *zygo.RegisteredType { return nil }

// sexpWidth carries a width profile.
type sexpWidth struct {
	w sweep.WidthProfile
}

func (s *sexpWidth) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(width :start %g :decrement %g)", s.w.Start, s.w.Decrement)
}
func (s *sexpWidth) Type() *zygo.RegisteredType { return nil }

// sexpTubeRef is what (tube ...) evaluates to.
type sexpTubeRef struct {
	id   design.TubeID
	name string
}

func (r *sexpTubeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tube %q)", r.name)
}
func (r *sexpTubeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// kwArgs splits a call's arguments into keyword and positional ones.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := keywordName(args[i])
		if !ok {
			pa.positional = append(pa.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			pa.kw[name] = args[i+1]
			i++
		} else {
			pa.kw[name] = zygo.SexpNull
		}
	}
	return pa
}

func keywordName(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// float reads keyword key as a number, leaving *dst untouched when absent.
func (pa kwArgs) float(key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func (pa kwArgs) unknown(allowed ...string) error {
	for k := range pa.kw {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown keyword :%s", k)
		}
	}
	return nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

// toKeywordString accepts :merged as well as "merged".
func toKeywordString(s zygo.Sexp) (string, error) {
	if name, ok := keywordName(s); ok {
		return name, nil
	}
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected keyword or string, got %s", s.SexpString(nil))
}

func toPoint(s zygo.Sexp) (geom.Point3, error) {
	if v, ok := s.(*sexpPoint); ok {
		return v.p, nil
	}
	return geom.Point3{}, fmt.Errorf("expected vec3, got %s", s.SexpString(nil))
}

// toSource accepts a path source or a list of vec3.
func toSource(s zygo.Sexp) (curve.Source, error) {
	if v, ok := s.(*sexpSource); ok {
		return v.src, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected (helix ...), (points ...) or a list of vec3, got %s", s.SexpString(nil))
	}
	return toPoints(items)
}

func toPoints(items []zygo.Sexp) (curve.Points, error) {
	pts := make(curve.Points, 0, len(items))
	for i, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func toWidth(s zygo.Sexp) (sweep.WidthProfile, error) {
	if v, ok := s.(*sexpWidth); ok {
		return v.w, nil
	}
	return sweep.WidthProfile{}, fmt.Errorf("expected (width ...), got %s", s.SexpString(nil))
}

func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the tube forms. They append to d as the
// script runs; defaults fill in every keyword a script leaves out.
func registerBuiltins(env *zygo.Zlisp, d *design.Design, defaults Defaults) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpPoint{p: geom.P(xyz[0], xyz[1], xyz[2])}, nil
	})

	// (helix :radius 4 :pitch 0.5 :count 20)
	env.AddFunction("helix", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("radius", "pitch", "count"); err != nil {
			return zygo.SexpNull, fmt.Errorf("helix: %w", err)
		}
		h := defaults.Helix
		if err := pa.float("radius", &h.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("helix: %w", err)
		}
		if err := pa.float("pitch", &h.Pitch); err != nil {
			return zygo.SexpNull, fmt.Errorf("helix: %w", err)
		}
		if v, ok := pa.kw["count"]; ok {
			n, ok := v.(*zygo.SexpInt)
			if !ok || n.Val < 0 {
				return zygo.SexpNull, fmt.Errorf("helix: count: expected non-negative integer, got %s", v.SexpString(nil))
			}
			h.Count = int(n.Val)
		}
		return &sexpSource{src: h}, nil
	})

	// (points (vec3 ...) (vec3 ...) ...) or (points (list ...))
	env.AddFunction("points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			if list, err := sexpListToSlice(args[0]); err == nil {
				items = list
			}
		}
		pts, err := toPoints(items)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("points: %w", err)
		}
		return &sexpSource{src: pts}, nil
	})

	// (width :start 0.5 :decrement 0.025)
	env.AddFunction("width", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("start", "decrement"); err != nil {
			return zygo.SexpNull, fmt.Errorf("width: %w", err)
		}
		w := defaults.Width
		if err := pa.float("start", &w.Start); err != nil {
			return zygo.SexpNull, fmt.Errorf("width: %w", err)
		}
		if err := pa.float("decrement", &w.Decrement); err != nil {
			return zygo.SexpNull, fmt.Errorf("width: %w", err)
		}
		return &sexpWidth{w: w}, nil
	})

	// (tube "name" :path P :width W :mode :merged)
	env.AddFunction("tube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("tube requires a name argument")
		}
		tubeName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tube: name: %w", err)
		}
		if err := pa.unknown("path", "width", "mode"); err != nil {
			return zygo.SexpNull, fmt.Errorf("tube %q: %w", tubeName, err)
		}

		var src curve.Source = defaults.Helix
		if v, ok := pa.kw["path"]; ok {
			if src, err = toSource(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("tube %q: path: %w", tubeName, err)
			}
		}
		width := defaults.Width
		if v, ok := pa.kw["width"]; ok {
			if width, err = toWidth(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("tube %q: width: %w", tubeName, err)
			}
		}
		mode := defaults.Mode
		if v, ok := pa.kw["mode"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tube %q: mode: %w", tubeName, err)
			}
			if mode, err = sweep.ParseMode(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("tube %q: mode: %w", tubeName, err)
			}
		}

		t := design.NewTube(tubeName, src, width, mode)
		d.AddTube(t)
		return &sexpTubeRef{id: t.ID, name: tubeName}, nil
	})
}
