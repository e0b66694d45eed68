package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrDetectionFailure matches any *DetectionFailure.
	ErrDetectionFailure = errors.New("detection failure")

	// ErrMalformedDetection matches any *MalformedDetectionError.
	ErrMalformedDetection = errors.New("malformed detection")

	errNilImage = errors.New("nil image")
)

// DetectionFailure reports that the detector could not process an image:
// undecodable data, a backend error, or a timeout.
type DetectionFailure struct {
	// Op names the image or step that failed, e.g. "room" or "reference".
	Op  string
	Err error
}

func (e *DetectionFailure) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("detection failed: %v", e.Err)
	}
	return fmt.Sprintf("detection failed for %s: %v", e.Op, e.Err)
}

func (e *DetectionFailure) Unwrap() error { return e.Err }

func (e *DetectionFailure) Is(target error) bool { return target == ErrDetectionFailure }

// Fail wraps err as a DetectionFailure for op. An error that already is a
// DetectionFailure is relabelled, not wrapped twice.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var df *DetectionFailure
	if errors.As(err, &df) {
		if op == "" || df.Op == op {
			return df
		}
		return &DetectionFailure{Op: op, Err: df.Err}
	}
	return &DetectionFailure{Op: op, Err: err}
}

// MalformedDetectionError reports a detection whose geometry cannot be used.
type MalformedDetectionError struct {
	Raw    RawDetection
	Reason string
}

func (e *MalformedDetectionError) Error() string {
	b := e.Raw.Box
	return fmt.Sprintf("malformed detection (class %d %q) box (%d,%d)-(%d,%d): %s",
		e.Raw.ClassID, e.Raw.ClassName, b.X1, b.Y1, b.X2, b.Y2, e.Reason)
}

func (e *MalformedDetectionError) Is(target error) bool { return target == ErrMalformedDetection }
