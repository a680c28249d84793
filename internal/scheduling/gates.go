package scheduling

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"hospital-management-server/internal/models"
)

// MaxCancelReasonLen is the maximum length of a cancellation reason.
const MaxCancelReasonLen = 500

var (
	ErrReasonRequired   = errors.New("cancel reason is required")
	ErrReasonTooLong    = errors.New("cancel reason exceeds maximum length")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrNotModifiable    = errors.New("appointment is no longer modifiable")
)

// IsCancelable reports whether the appointment may still be cancelled.
func IsCancelable(apt *models.Appointment) bool {
	return apt.Status == models.StatusScheduled
}

// IsEditable reports whether the appointment may still be edited or
// rescheduled. Role gating is layered on top, see AllowedActions.
func IsEditable(apt *models.Appointment) bool {
	return apt.Status == models.StatusScheduled
}

// IsCompletable reports whether the appointment may be marked completed.
func IsCompletable(apt *models.Appointment) bool {
	return apt.Status == models.StatusScheduled
}

// ValidateCancelReason enforces the cancellation-reason rules: non-empty
// after trimming whitespace, at most MaxCancelReasonLen characters.
func ValidateCancelReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if utf8.RuneCountInString(reason) > MaxCancelReasonLen {
		return ErrReasonTooLong
	}
	return nil
}

// ExamEditable reports whether a recorded medical exam is still within
// its edit window.
func ExamEditable(createdAt time.Time, window time.Duration, now time.Time) bool {
	return now.Sub(createdAt) <= window
}
