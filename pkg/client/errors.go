package client

import (
	"errors"
	"fmt"
)

// ErrRequestInFlight is returned when a mutation for the same
// appointment is already being submitted. Callers disable the
// triggering control rather than queueing a duplicate.
var ErrRequestInFlight = errors.New("a request for this appointment is already in flight")

// FieldError is a local validation failure. It is raised before any
// network call is made.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// APIError is a remote failure, carrying the server's machine-readable
// code and a user-facing message derived from it.
type APIError struct {
	StatusCode  int
	Code        string
	UserMessage string
	Detail      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Detail)
}

// codeMessages maps the server's error vocabulary to user-facing copy.
// Unknown codes fall back to genericFailure.
var codeMessages = map[string]string{
	"TIME_SLOT_TAKEN":            "That time slot has just been taken. Please pick another time.",
	"APPOINTMENT_NOT_MODIFIABLE": "This appointment can no longer be changed.",
	"ALREADY_CANCELLED":          "This appointment has already been cancelled.",
	"EXAM_EDIT_WINDOW_CLOSED":    "The edit window for this exam has closed.",
	"VALIDATION_ERROR":           "Some of the entered information is invalid.",
	"NOT_FOUND":                  "The requested record could not be found.",
	"UNAUTHORIZED":               "Your session has expired. Please sign in again.",
	"FORBIDDEN":                  "You do not have permission to do that.",
}

const genericFailure = "Something went wrong. Please try again."

func userMessage(code string) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return genericFailure
}
