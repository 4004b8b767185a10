package interfaces

import (
	"errors"
	"fmt"
)

// Extraction failures. Implementations wrap these sentinels with detail via
// fmt.Errorf("...: %w", ErrX) so callers can classify with errors.Is.
var (
	// ErrMalformed indicates the source bytes do not parse as a valid PDF
	// (corrupted header, or encrypted without supplied credentials).
	ErrMalformed = errors.New("document is not a readable PDF")

	// ErrUnreachable indicates a URL source could not be fetched: network
	// failure, timeout, or a non-success HTTP status.
	ErrUnreachable = errors.New("source is unreachable")

	// ErrEmpty indicates extraction succeeded mechanically but produced no
	// text content after stripping.
	ErrEmpty = errors.New("no text content extracted")
)

// Generation failures.
var (
	// ErrBackendUnreachable indicates the connection to the generation
	// backend could not be established.
	ErrBackendUnreachable = errors.New("generation backend is unreachable")

	// ErrModelNotFound indicates the backend reports the requested model is
	// not loaded or available.
	ErrModelNotFound = errors.New("model is not available on the backend")

	// ErrStreamFault indicates the generation stream failed after it was
	// established; fragments already delivered remain valid.
	ErrStreamFault = errors.New("generation stream fault")
)

// PipelineStage identifies which phase of the summary pipeline failed.
type PipelineStage string

const (
	StageExtract  PipelineStage = "extract"
	StageGenerate PipelineStage = "generate"
)

// PipelineError is the terminal error reported on a pipeline's SummaryStream.
// Stage distinguishes "no generation was attempted" (StageExtract) from
// "generation failed, possibly after partial output" (StageGenerate). The
// underlying extraction or generation error is preserved for errors.Is/As.
type PipelineError struct {
	Stage PipelineStage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
