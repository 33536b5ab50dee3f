package domain

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrProcessNotFound      = errors.New("process not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrMalformedCgroup      = errors.New("malformed cgroup")
	ErrModelUnavailable     = errors.New("ranking model unavailable")
	ErrUnsupported          = errors.New("not supported by this kernel")
	ErrInvalidPriorityClass = errors.New("invalid priority class")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrNoSnapshot           = errors.New("no snapshot evaluated yet")
)

// ActuationOp names a single OS operation performed for an adjustment.
type ActuationOp string

const (
	OpNice        ActuationOp = "nice"
	OpLatencyNice ActuationOp = "latency_nice"
	OpIONice      ActuationOp = "ionice"
	OpCPUWeight   ActuationOp = "cpu_weight"
)

// ActuationError is the failure of one OS operation for one pid.
// Kind is one of the sentinel errors above, or Err itself when unclassified.
type ActuationError struct {
	PID  int
	Op   ActuationOp
	Kind error
	Err  error
}

func (e *ActuationError) Error() string {
	return fmt.Sprintf("%s for pid %d: %v: %v", e.Op, e.PID, e.Kind, e.Err)
}

func (e *ActuationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewActuationError(pid int, op ActuationOp, kind error, err error) *ActuationError {
	return &ActuationError{
		PID:  pid,
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

func IsActuationError(err error) (*ActuationError, bool) {
	if err == nil {
		return nil, false
	}
	err = pkgerrors.Cause(err)
	actErr, ok := err.(*ActuationError)
	return actErr, ok
}
