// Package wizard implements the step-gated form engine behind registration
// and AI resume generation. A wizard owns an ordered list of steps over one
// strongly typed accumulator struct; each step validates its own slice of
// the accumulator, forward navigation is gated on that validation, and the
// final submission hands the whole accumulator to a single target action
// exactly once.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
)

// Direction records which way the user last navigated, for slide
// animations and focus handling in the UI.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Step declares one wizard page: a name and a validator over the
// accumulator. Validate returns a field→message map; an empty (or nil)
// map means the step passes. A step must only ever report errors for
// fields it owns, so cross-field rules like password confirmation live in
// the step containing both fields.
type Step[A any] struct {
	Name     string
	Validate func(A) map[string]string
}

// Wizard is the engine. Field values persist across step changes in both
// directions; going back never clears anything.
type Wizard[A any] struct {
	steps  []Step[A]
	submit func(context.Context, A) error
	log    *zap.Logger

	mu        sync.Mutex
	idx       int
	direction Direction
	fields    A
	errors    map[int]map[string]string
	submitted bool
	lastErr   *api.ErrorInfo
}

// New builds a wizard from at least one step. initial seeds the
// accumulator; submit is the single configured target action invoked from
// the final step.
func New[A any](steps []Step[A], initial A, submit func(context.Context, A) error, log *zap.Logger) (*Wizard[A], error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard needs at least one step")
	}
	if submit == nil {
		return nil, errors.New("wizard needs a submit target")
	}
	return &Wizard[A]{
		steps:  steps,
		submit: submit,
		log:    log,
		fields: initial,
		errors: make(map[int]map[string]string),
	}, nil
}

// Update mutates the accumulator. Validation is deliberately not run here:
// it is step-boundary-triggered, so users are not flooded with errors
// while typing.
func (w *Wizard[A]) Update(fn func(*A)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.fields)
}

// Next validates the active step and advances on success. It reports
// whether the index moved; on failure the step's errors are recorded and
// the index stays put.
func (w *Wizard[A]) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return false
	}
	errs := w.steps[w.idx].Validate(w.fields)
	if len(errs) > 0 {
		w.errors[w.idx] = errs
		return false
	}
	w.errors[w.idx] = nil
	w.direction = Forward
	if w.idx < len(w.steps)-1 {
		w.idx++
		return true
	}
	return false
}

// Back moves one step backwards when possible. Previously entered field
// values are untouched.
func (w *Wizard[A]) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted || w.idx == 0 {
		return false
	}
	w.direction = Backward
	w.idx--
	return true
}

// Submit re-validates the final step and, when it passes, invokes the
// target action exactly once with the full accumulator. The wizard
// becomes Submitted only on that call's success; a target failure leaves
// the wizard on the final step with the error surfaced.
func (w *Wizard[A]) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return errors.New("already submitted")
	}
	last := len(w.steps) - 1
	if w.idx != last {
		w.mu.Unlock()
		return fmt.Errorf("submit is only allowed from the final step (on step %d of %d)", w.idx+1, last+1)
	}
	if errs := w.steps[last].Validate(w.fields); len(errs) > 0 {
		w.errors[last] = errs
		w.mu.Unlock()
		return &api.ValidationError{Fields: errs}
	}
	w.errors[last] = nil
	fields := w.fields
	w.mu.Unlock()

	// The target action runs outside the lock; the wizard exclusively owns
	// its fields, so nothing can change them while the call is in flight.
	err := w.submit(ctx, fields)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.lastErr = api.Normalize(err)
		w.log.Debug("wizard submit failed", zap.Error(err))
		return err
	}
	w.submitted = true
	w.lastErr = nil
	return nil
}

// StepIndex returns the zero-based index of the active step.
func (w *Wizard[A]) StepIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.idx
}

// StepCount returns the number of steps.
func (w *Wizard[A]) StepCount() int { return len(w.steps) }

// StepName returns the name of the active step.
func (w *Wizard[A]) StepName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.idx].Name
}

// Direction returns the direction of the last navigation.
func (w *Wizard[A]) Direction() Direction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.direction
}

// Errors returns the recorded errors for the given step index, nil when
// the step passed or has not been validated yet.
func (w *Wizard[A]) Errors(step int) map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors[step]
}

// Fields returns a copy of the accumulator.
func (w *Wizard[A]) Fields() A {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields
}

// Submitted reports whether the wizard reached its terminal state.
func (w *Wizard[A]) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// Err returns the error from the last failed submit, or nil.
func (w *Wizard[A]) Err() *api.ErrorInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// validate is the shared schema engine behind the concrete wizards.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Check runs struct-tag validation over a step view and flattens the
// result into a field→message map.
func Check(view any) map[string]string {
	err := validate.Struct(view)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		return "does not match"
	case "e164":
		return "must be a valid phone number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("invalid value (%s)", fe.Tag())
	}
}
