package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/testutil"
)

// mockRunner is a test implementation of Runner
type mockRunner struct {
	structuredFunc func(ctx context.Context, req models.StructuredEditRequest) (*models.GenerationResult, error)
	directFunc     func(ctx context.Context, req models.DirectEditRequest) (*models.GenerationResult, error)
	calls          int
}

func (m *mockRunner) RunStructuredEdit(ctx context.Context, req models.StructuredEditRequest) (*models.GenerationResult, error) {
	m.calls++
	if m.structuredFunc != nil {
		return m.structuredFunc(ctx, req)
	}
	return models.NewEmptyResult(), nil
}

func (m *mockRunner) RunDirectEdit(ctx context.Context, req models.DirectEditRequest) (*models.GenerationResult, error) {
	m.calls++
	if m.directFunc != nil {
		return m.directFunc(ctx, req)
	}
	return models.NewEmptyResult(), nil
}

func TestOrchestrator_StartsIdle(t *testing.T) {
	o := New(&mockRunner{})
	assert.Equal(t, StateIdle, o.State())
	_, ok := o.Latest()
	assert.False(t, ok)
}

func TestOrchestrator_TerminalStates(t *testing.T) {
	image := testutil.PNGPayload(t, 7)

	tests := []struct {
		name        string
		direct      func(context.Context, models.DirectEditRequest) (*models.GenerationResult, error)
		wantState   State
		wantErr     bool
		wantMessage string
	}{
		{
			name: "image produced",
			direct: func(context.Context, models.DirectEditRequest) (*models.GenerationResult, error) {
				return models.NewImageResult(image), nil
			},
			wantState: StateSucceeded,
		},
		{
			name: "empty result",
			direct: func(context.Context, models.DirectEditRequest) (*models.GenerationResult, error) {
				return models.NewEmptyResult(), nil
			},
			wantState:   StateEmptyResult,
			wantMessage: models.EmptyResultMessage,
		},
		{
			name: "transport failure",
			direct: func(context.Context, models.DirectEditRequest) (*models.GenerationResult, error) {
				return nil, &models.GenerationTransportError{Provider: "gemini", Err: errors.New("dial tcp: refused")}
			},
			wantState:   StateFailed,
			wantErr:     true,
			wantMessage: models.TransportErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&mockRunner{directFunc: tt.direct})

			outcome, err := o.SubmitDirect(context.Background(), models.DirectEditRequest{
				ReferenceImage: testutil.PNGPayload(t, 1),
				Instruction:    "sepia",
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantState, outcome.State)
			assert.Equal(t, tt.wantState, o.State())
			assert.Equal(t, tt.wantMessage, outcome.Message())
			assert.Equal(t, models.EditModeDirect, outcome.Mode)
			assert.NotEmpty(t, outcome.ID)

			latest, ok := o.Latest()
			require.True(t, ok)
			assert.Equal(t, outcome.ID, latest.ID)
		})
	}
}

func TestOrchestrator_ValidationKeepsState(t *testing.T) {
	runner := &mockRunner{}
	o := New(runner)

	_, err := o.SubmitStructured(context.Background(), models.StructuredEditRequest{})
	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, models.FieldReferenceImage, validationErr.Field)

	_, err = o.SubmitDirect(context.Background(), models.DirectEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		Instruction:    " \t\n",
	})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, models.FieldInstruction, validationErr.Field)

	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 0, runner.calls)
}

func TestOrchestrator_SingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	runner := &mockRunner{
		structuredFunc: func(context.Context, models.StructuredEditRequest) (*models.GenerationResult, error) {
			close(started)
			<-release
			return models.NewEmptyResult(), nil
		},
	}
	o := New(runner)
	req := models.StructuredEditRequest{ReferenceImage: testutil.PNGPayload(t, 1)}

	done := make(chan Outcome)
	go func() {
		outcome, _ := o.SubmitStructured(context.Background(), req)
		done <- outcome
	}()

	<-started
	assert.Equal(t, StateSubmitting, o.State())
	latest, ok := o.Latest()
	require.True(t, ok)
	assert.Equal(t, StateSubmitting, latest.State)

	_, err := o.SubmitStructured(context.Background(), req)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	outcome := <-done
	assert.Equal(t, StateEmptyResult, outcome.State)

	// a new submission is accepted from a terminal state
	_, err = o.SubmitStructured(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, 2, runner.calls)
}

func TestOrchestrator_CallerCancellationDoesNotAbort(t *testing.T) {
	runner := &mockRunner{
		directFunc: func(ctx context.Context, _ models.DirectEditRequest) (*models.GenerationResult, error) {
			return models.NewEmptyResult(), ctx.Err()
		},
	}
	o := New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := o.SubmitDirect(ctx, models.DirectEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		Instruction:    "x",
	})
	require.NoError(t, err)
	assert.Equal(t, StateEmptyResult, outcome.State)
}

func TestOrchestrator_Submit(t *testing.T) {
	o := New(&mockRunner{})
	ref := testutil.PNGPayload(t, 1)

	outcome, err := o.Submit(context.Background(), &models.StructuredEditRequest{ReferenceImage: ref})
	require.NoError(t, err)
	assert.Equal(t, models.EditModeStructured, outcome.Mode)

	_, err = o.Submit(context.Background(), nil)
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestOrchestrator_SubmitTypedNil(t *testing.T) {
	runner := &mockRunner{}
	o := New(runner)

	for _, req := range []models.EditRequest{(*models.StructuredEditRequest)(nil), (*models.DirectEditRequest)(nil)} {
		var validationErr *models.ValidationError
		_, err := o.Submit(context.Background(), req)
		assert.True(t, errors.As(err, &validationErr), "%T", req)
	}
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 0, runner.calls)
}

func TestOrchestrator_Timestamps(t *testing.T) {
	o := New(&mockRunner{})
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	o.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	outcome, err := o.SubmitStructured(context.Background(), models.StructuredEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Second, outcome.FinishedAt.Sub(outcome.StartedAt))
}

func TestOutcome_MessageForNonTransportFailure(t *testing.T) {
	o := Outcome{State: StateFailed, Err: errors.New("unsupported edit request")}
	assert.Equal(t, "unsupported edit request", o.Message())
	assert.Equal(t, "", Outcome{State: StateSucceeded}.Message())
}
