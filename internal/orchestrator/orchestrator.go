// Package orchestrator tracks one edit at a time per caller and keeps the latest outcome.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

// State of an orchestrator
type State string

const (
	StateIdle        State = "idle"
	StateSubmitting  State = "submitting"
	StateSucceeded   State = "succeeded"
	StateEmptyResult State = "empty_result"
	StateFailed      State = "failed"
)

// ErrSubmissionInFlight is returned while a previous submission is still running
var ErrSubmissionInFlight = errors.New("an image generation is already in progress")

// errRetired is returned by an orchestrator the registry has let go of
var errRetired = errors.New("orchestrator retired")

// Runner executes edits; *stylist.Service implements it
type Runner interface {
	RunStructuredEdit(ctx context.Context, req models.StructuredEditRequest) (*models.GenerationResult, error)
	RunDirectEdit(ctx context.Context, req models.DirectEditRequest) (*models.GenerationResult, error)
}

// Outcome is the latest submission as seen by the caller
type Outcome struct {
	ID         string
	State      State
	Mode       models.EditMode
	Result     *models.GenerationResult
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Message is the user-facing text for a terminal outcome
func (o Outcome) Message() string {
	switch o.State {
	case StateEmptyResult:
		return models.EmptyResultMessage
	case StateFailed:
		var transportErr *models.GenerationTransportError
		if errors.As(o.Err, &transportErr) {
			return models.TransportErrorMessage
		}
		if o.Err != nil {
			return o.Err.Error()
		}
	}
	return ""
}

// Orchestrator enforces single flight. Its mutex guards state only and is
// never held while the runner is working.
type Orchestrator struct {
	mu      sync.Mutex
	runner  Runner
	state   State
	latest  *Outcome
	retired bool
	now     func() time.Time
}

// New creates an idle orchestrator
func New(runner Runner) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		state:  StateIdle,
		now:    time.Now,
	}
}

// State returns the current state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Latest returns the most recent outcome, including an in-flight one
func (o *Orchestrator) Latest() (Outcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.latest == nil {
		return Outcome{}, false
	}
	return *o.latest, true
}

// retire stops o from accepting submissions. It refuses while an edit is
// running and reports whether o was retired.
func (o *Orchestrator) retire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return false
	}
	o.retired = true
	return true
}

// SubmitStructured validates and runs a structured edit
func (o *Orchestrator) SubmitStructured(ctx context.Context, req models.StructuredEditRequest) (Outcome, error) {
	return o.submit(ctx, req, func(ctx context.Context) (*models.GenerationResult, error) {
		return o.runner.RunStructuredEdit(ctx, req)
	})
}

// SubmitDirect validates and runs a direct edit
func (o *Orchestrator) SubmitDirect(ctx context.Context, req models.DirectEditRequest) (Outcome, error) {
	return o.submit(ctx, req, func(ctx context.Context) (*models.GenerationResult, error) {
		return o.runner.RunDirectEdit(ctx, req)
	})
}

// Submit dispatches on the request variant
func (o *Orchestrator) Submit(ctx context.Context, req models.EditRequest) (Outcome, error) {
	switch r := req.(type) {
	case models.StructuredEditRequest:
		return o.SubmitStructured(ctx, r)
	case models.DirectEditRequest:
		return o.SubmitDirect(ctx, r)
	case *models.StructuredEditRequest:
		if r != nil {
			return o.SubmitStructured(ctx, *r)
		}
	case *models.DirectEditRequest:
		if r != nil {
			return o.SubmitDirect(ctx, *r)
		}
	}
	return Outcome{}, models.NewValidationError("", "Unknown edit mode.")
}

// submit returns a *models.ValidationError or ErrSubmissionInFlight without
// touching state; otherwise it runs the edit and returns its outcome together
// with the runner's error, if any.
func (o *Orchestrator) submit(
	ctx context.Context,
	req models.EditRequest,
	run func(ctx context.Context) (*models.GenerationResult, error),
) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	o.mu.Lock()
	if o.retired {
		o.mu.Unlock()
		return Outcome{}, errRetired
	}
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	}
	pending := Outcome{
		ID:        uuid.NewString(),
		State:     StateSubmitting,
		Mode:      req.Mode(),
		StartedAt: o.now(),
	}
	o.state = StateSubmitting
	o.latest = &pending
	o.mu.Unlock()

	// a started call is never aborted by the caller going away
	result, err := run(context.WithoutCancel(ctx))

	outcome := pending
	outcome.FinishedAt = o.now()
	switch {
	case err != nil:
		outcome.State = StateFailed
		outcome.Err = err
	case result.HasImage():
		outcome.State = StateSucceeded
		outcome.Result = result
	default:
		outcome.State = StateEmptyResult
		outcome.Result = models.NewEmptyResult()
	}

	o.mu.Lock()
	o.state = outcome.State
	o.latest = &outcome
	o.mu.Unlock()

	return outcome, err
}
