package metrics

import (
	"errors"
	"sync"

	"club-event-approval/internal/domain/access"
	"club-event-approval/internal/domain/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow counts every approval-workflow and advisor-assignment operation
// by outcome. A nil *Workflow is a valid no-op recorder.
type Workflow struct {
	transitions *prometheus.CounterVec
	assignments *prometheus.CounterVec

	registerOnce sync.Once
}

// NewWorkflow builds the collectors and registers them with registry. A nil
// registry leaves the collectors unregistered, which is handy in tests.
func NewWorkflow(registry prometheus.Registerer) *Workflow {
	w := &Workflow{}
	w.register(registry)
	return w
}

func (w *Workflow) register(registry prometheus.Registerer) {
	w.registerOnce.Do(func() {
		factory := promauto.With(registry)

		w.transitions = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_application_transitions_total",
			Help: "Total number of event application operations by outcome",
		}, []string{"operation", "outcome"})

		w.assignments = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_assignment_operations_total",
			Help: "Total number of advisor assignment operations by outcome",
		}, []string{"operation", "outcome"})
	})
}

func (w *Workflow) ObserveTransition(operation string, err error) {
	if w == nil {
		return
	}
	w.transitions.WithLabelValues(operation, Outcome(err)).Inc()
}

func (w *Workflow) ObserveAssignment(operation string, err error) {
	if w == nil {
		return
	}
	w.assignments.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome is the label value for an operation result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperr.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, apperr.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	case errors.Is(err, access.ErrForbidden), errors.Is(err, access.ErrUnauthenticated):
		return "denied"
	default:
		return "error"
	}
}
