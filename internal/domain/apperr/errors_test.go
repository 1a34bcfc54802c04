package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_CollectsAllFields(t *testing.T) {
	var ve ValidationError
	if ve.Err() != nil {
		t.Fatalf("empty ValidationError must yield nil")
	}
	ve.Add("event_name", "is required")
	ve.Add("end_time", "must be after start_time")

	err := ve.Err()
	if err == nil {
		t.Fatal("want error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("errors.Is(err, ErrValidation) = false")
	}
	if errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("validation must not match invalid transition")
	}
	msg := err.Error()
	if !strings.Contains(msg, "event_name is required") || !strings.Contains(msg, "end_time must be after") {
		t.Fatalf("message missing fields: %q", msg)
	}
	if got := len(Fields(err)); got != 2 {
		t.Fatalf("Fields len = %d, want 2", got)
	}
}

func TestInvalid_WrapsThroughFmt(t *testing.T) {
	err := fmt.Errorf("add advisor: %w", Invalid("request_petition_ref", "is required"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("wrapped validation error lost its kind")
	}
	f := Fields(err)
	if len(f) != 1 || f[0].Field != "request_petition_ref" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if Fields(ErrConflict) != nil {
		t.Fatalf("non-validation error must have no fields")
	}
}
