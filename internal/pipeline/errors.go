package pipeline

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Stage names tag run errors with the phase that failed.
const (
	StageSetup     = "setup"
	StageResume    = "resume"
	StageFetch     = "fetch"
	StageNormalize = "normalize"
	StageEmbed     = "embed"
	StageRank      = "rank"
	StageFilter    = "filter"
	StageReport    = "report"
)

// StageError wraps a stage failure together with a captured stack trace.
type StageError struct {
	Stage string
	Err   error
	Stack []byte
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) StackTrace() []byte {
	return e.Stack
}

func newStageError(stage string, err error) *StageError {
	var stack []byte
	if stackErr, ok := err.(*goerrors.Error); ok {
		stack = stackErr.Stack()
	} else {
		stack = goerrors.Wrap(err, 2).Stack()
	}

	return &StageError{Stage: stage, Err: err, Stack: stack}
}

// StageOf reports which stage a run error came from, or an empty string for
// errors the pipeline did not produce.
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}

	return ""
}
