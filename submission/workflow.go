// Package submission implements the two-step hotspot submission wizard as
// an explicit state machine: mutate the form, advance the step, submit.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openwifimap/backend-api-go/hotspots"
)

// Step is the wizard page the user is editing.
type Step int

const (
	// StepDetails collects the location, Wi-Fi fields and description.
	StepDetails Step = 1
	// StepReview shows the summary and collects submitter info.
	StepReview Step = 2
)

// Status is the workflow phase around the editing steps.
type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

var (
	// ErrNoLocation blocks step advancement until a location is selected.
	ErrNoLocation = errors.New("a location must be selected first")
	// ErrSubmitting rejects actions while a submission is in flight.
	ErrSubmitting = errors.New("a submission is already in progress")
	// ErrNotAtReview rejects submitting before the review step was reached.
	ErrNotAtReview = errors.New("the submission must be reviewed first")
)

// Poster sends a completed submission to the backend. *client.API
// satisfies it.
type Poster interface {
	CreateHotspot(ctx context.Context, req hotspots.SubmitRequest) error
}

// Workflow owns one submission attempt from empty form to terminal state.
//
// A failed submission keeps the entered data so the user can retry;
// only Reset and "submit another" discard it.
type Workflow struct {
	form   Form
	step   Step
	status Status
	errMsg string
	poster Poster
}

func New(poster Poster) *Workflow {
	return &Workflow{
		form:   NewForm(),
		step:   StepDetails,
		status: StatusEditing,
		poster: poster,
	}
}

// Form exposes the wizard state for field-by-field mutation.
func (w *Workflow) Form() *Form {
	return &w.form
}

func (w *Workflow) Step() Step     { return w.step }
func (w *Workflow) Status() Status { return w.status }

// Err returns the message of the last failed submission, empty otherwise.
func (w *Workflow) Err() string { return w.errMsg }

// Next advances from the details step to the review step. It is blocked
// while no location has been selected.
func (w *Workflow) Next() error {
	if w.status == StatusSubmitting {
		return ErrSubmitting
	}
	if w.step == StepDetails && w.form.Location == nil {
		return ErrNoLocation
	}
	if w.step == StepDetails {
		w.step = StepReview
	}
	return nil
}

// Back returns to the details step without losing any input.
func (w *Workflow) Back() {
	if w.status != StatusSubmitting && w.step == StepReview {
		w.step = StepDetails
	}
}

// Submit validates the form and posts it. It is only reachable from the
// review step. On a 2xx response the workflow is succeeded; on anything
// else it is failed with a readable message and the form kept intact for
// a retry.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.status == StatusSubmitting {
		return ErrSubmitting
	}
	if w.step != StepReview {
		return ErrNotAtReview
	}

	if missing := w.form.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("required fields missing: %s", strings.Join(missing, ", "))
	}

	w.status = StatusSubmitting
	w.errMsg = ""

	if err := w.poster.CreateHotspot(ctx, w.form.payload()); err != nil {
		w.status = StatusFailed
		w.errMsg = fmt.Sprintf("Error submitting hotspot: %s", err.Error())
		return err
	}

	w.status = StatusSucceeded
	return nil
}

// Retry re-submits after a failure. The request carries no deduplication
// key, so a retry after a response that was lost in transit can create a
// duplicate; the backend rejects exact duplicates by location and name.
func (w *Workflow) Retry(ctx context.Context) error {
	if w.status != StatusFailed {
		return fmt.Errorf("retry is only valid after a failed submission")
	}
	w.status = StatusEditing
	return w.Submit(ctx)
}

// Reset discards everything and starts a fresh wizard at step 1.
func (w *Workflow) Reset() {
	w.form = NewForm()
	w.step = StepDetails
	w.status = StatusEditing
	w.errMsg = ""
}

// SubmitAnother leaves the terminal succeeded state for a new empty form.
func (w *Workflow) SubmitAnother() {
	if w.status == StatusSucceeded {
		w.Reset()
	}
}
