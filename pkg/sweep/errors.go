package sweep

import (
	"errors"
	"fmt"

	"github.com/chazu/helixtube/pkg/geom"
)

// Sentinel errors for errors.Is matching.
var (
	ErrDegenerateSegment   = errors.New("degenerate segment")
	ErrInvalidWidthProfile = errors.New("invalid width profile")
	ErrMeshCreation        = errors.New("mesh creation failed")
	ErrPathTooShort        = errors.New("path needs at least 2 points")
	ErrNonFinitePoint      = errors.New("path point is not finite")
	ErrUnknownMode         = errors.New("unknown mode")
)

// DegenerateSegmentError reports a segment no cell can be oriented along.
// Its endpoints may coincide, or it may run exactly along the Y axis, where
// the horizontal swizzle equals the direction and the cross-section frame
// collapses. A segment whose length or half span leaves the float64 range
// is reported as well.
type DegenerateSegmentError struct {
	Segment int // -1 when the caller did not know the index
	Point   geom.Point3
	Reason  string
}

// Reasons reported by DegenerateSegmentError.
const (
	ReasonCoincident = "coincident points"
	ReasonVertical   = "segment parallel to the Y axis"
	ReasonOverflow   = "segment length out of floating-point range"
)

func (e *DegenerateSegmentError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("degenerate segment: %s at %v", e.Reason, e.Point)
	}
	return fmt.Sprintf("degenerate segment %d: %s at %v", e.Segment, e.Reason, e.Point)
}

func (e *DegenerateSegmentError) Is(target error) bool { return target == ErrDegenerateSegment }

// InvalidWidthProfileError reports a negative or non-finite width setting.
type InvalidWidthProfileError struct {
	Start     float64
	Decrement float64
}

func (e *InvalidWidthProfileError) Error() string {
	return fmt.Sprintf("invalid width profile: start=%g decrement=%g (both must be finite and >= 0)", e.Start, e.Decrement)
}

func (e *InvalidWidthProfileError) Is(target error) bool { return target == ErrInvalidWidthProfile }

// MeshCreationError records a kernel refusal for one segment. In merged
// mode Segment is -1 since one mesh covers the whole path.
type MeshCreationError struct {
	Segment int
	Name    string
	Err     error
}

func (e *MeshCreationError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("mesh %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("segment %d (mesh %q): %v", e.Segment, e.Name, e.Err)
}

func (e *MeshCreationError) Is(target error) bool { return target == ErrMeshCreation }

func (e *MeshCreationError) Unwrap() error { return e.Err }
