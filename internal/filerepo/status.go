package filerepo

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned by writes against a read-only repository.
	ErrReadOnly = errors.New("file repository is read-only")
	// ErrObjectNotFound is returned when a backend path holds no object.
	ErrObjectNotFound = errors.New("object not found")
)

// Status tags the outcome of a repository operation.
type Status int

const (
	StatusOK Status = iota
	// StatusNotWritable means the repository refused the write. Callers treat
	// it as a benign outcome.
	StatusNotWritable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotWritable:
		return "not writable"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is a Status with the error behind a failure.
type Result struct {
	Status Status
	Err    error
}

func OK() Result {
	return Result{Status: StatusOK}
}

func NotWritable() Result {
	return Result{Status: StatusNotWritable, Err: ErrReadOnly}
}

func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

func (r Result) IsNotWritable() bool {
	return r.Status == StatusNotWritable
}

func (r Result) String() string {
	if r.Err != nil && r.Status == StatusFailed {
		return fmt.Sprintf("%s: %v", r.Status, r.Err)
	}

	return r.Status.String()
}
