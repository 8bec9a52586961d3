package models

import "github.com/pkg/errors"

var (
	// ErrInvalidInput marks malformed uploads and options; the pipeline is never entered.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStage marks a pipeline stage failure; no partial result is returned.
	ErrStage = errors.New("stage failed")
)

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string        { return e.err.Error() }
func (e *kindError) Cause() error         { return e.err }
func (e *kindError) Unwrap() error        { return e.err }
func (e *kindError) Is(target error) bool { return target == e.kind }

func InvalidInput(err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: ErrInvalidInput, err: err}
}

func InvalidInputf(format string, args ...interface{}) error {
	return InvalidInput(errors.Errorf(format, args...))
}

// StageFailure prefixes err with the failing stage name.
func StageFailure(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: ErrStage, err: errors.Wrap(err, stage)}
}
