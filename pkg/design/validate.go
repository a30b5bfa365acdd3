package design

import (
	"errors"
	"fmt"

	"github.com/chazu/helixtube/pkg/sweep"
)

// ValidationSeverity indicates whether a finding blocks tessellation or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	TubeID   TubeID             // zero if design-level
	Tube     string             // tube name, for messages
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
	Err      error              // underlying sweep error, if any
}

func (e ValidationError) Error() string {
	if e.TubeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] tube %q (%s): %s", e.Severity, e.Tube, e.TubeID.Short(), e.Message)
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	TubeID  TubeID
	Tube    string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("tube %q: %s", w.Tube, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory) from
// both tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Err joins the blocking errors, or returns nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Validate runs the structural checks: names present and unique, and
// enough path points to form a segment. It never mutates d.
func Validate(d *Design) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(d)...)
	errs = append(errs, validatePathLengths(d)...)
	return errs
}

// ValidateAll runs the structural tier followed by the geometric tier and
// separates errors from warnings.
func ValidateAll(d *Design) ValidationResult {
	var result ValidationResult
	result.Errors = append(result.Errors, Validate(d)...)

	geoErrs, geoWarnings := validateGeometry(d)
	result.Errors = append(result.Errors, geoErrs...)
	result.Warnings = append(result.Warnings, geoWarnings...)
	return result
}

func validateNames(d *Design) []ValidationError {
	var errs []ValidationError
	if len(d.Tubes) == 0 {
		errs = append(errs, ValidationError{
			Message:  "design has no tubes",
			Severity: SeverityError,
		})
	}
	for _, t := range d.List() {
		if t.Name == "" {
			errs = append(errs, ValidationError{
				TubeID:   t.ID,
				Message:  "tube has no name",
				Severity: SeverityError,
			})
		}
	}
	for _, name := range d.dupes {
		errs = append(errs, ValidationError{
			TubeID:   NewTubeID(name),
			Tube:     name,
			Message:  "name defined more than once",
			Severity: SeverityError,
		})
	}
	return errs
}

func validatePathLengths(d *Design) []ValidationError {
	var errs []ValidationError
	for _, t := range d.List() {
		if len(t.Path) < 2 {
			errs = append(errs, ValidationError{
				TubeID:   t.ID,
				Tube:     t.Name,
				Message:  fmt.Sprintf("path has %d points, need at least 2", len(t.Path)),
				Severity: SeverityError,
				Err:      sweep.ErrPathTooShort,
			})
		}
	}
	return errs
}

// validateGeometry checks what the assembler would reject, plus width
// profiles that leave part of the tube collapsed.
func validateGeometry(d *Design) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, t := range d.List() {
		if err := t.Width.Validate(); err != nil {
			errs = append(errs, ValidationError{
				TubeID: t.ID, Tube: t.Name, Message: err.Error(), Severity: SeverityError, Err: err,
			})
		}
		// Short paths are reported by the structural tier.
		if len(t.Path) >= 2 {
			if err := t.Path.Validate(); err != nil {
				errs = append(errs, ValidationError{
					TubeID: t.ID, Tube: t.Name, Message: err.Error(), Severity: SeverityError, Err: err,
				})
			}
		}
		warnings = append(warnings, widthWarnings(t)...)
	}
	return errs, warnings
}

func widthWarnings(t *Tube) []ValidationWarning {
	w := t.Width
	if w.Validate() != nil {
		return nil
	}
	if w.Start == 0 {
		return []ValidationWarning{{
			TubeID: t.ID, Tube: t.Name,
			Message: "start width is 0, every cell collapses to its segment center",
		}}
	}
	segments := t.Path.Segments()
	if i := w.ZeroFrom(segments); i >= 0 {
		return []ValidationWarning{{
			TubeID: t.ID, Tube: t.Name,
			Message: fmt.Sprintf("width reaches 0 at segment %d of %d", i, segments),
		}}
	}
	return nil
}
