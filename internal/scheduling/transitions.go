package scheduling

import (
	"time"

	"hospital-management-server/internal/models"
)

// Cancel transitions a SCHEDULED appointment to CANCELLED, stamping the
// reason and cancellation time. The reason is validated first so an
// invalid reason never mutates the appointment.
func Cancel(apt *models.Appointment, reason string, now time.Time) error {
	if err := ValidateCancelReason(reason); err != nil {
		return err
	}
	if apt.Status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !IsCancelable(apt) {
		return ErrNotModifiable
	}
	apt.Status = models.StatusCancelled
	apt.CancelReason = reason
	apt.CancelledAt = &now
	return nil
}

// Complete transitions a SCHEDULED appointment to COMPLETED.
func Complete(apt *models.Appointment) error {
	if apt.Status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !IsCompletable(apt) {
		return ErrNotModifiable
	}
	apt.Status = models.StatusCompleted
	return nil
}

// MarkNoShow transitions a SCHEDULED appointment to NO_SHOW. There is no
// patient-facing path to this status; it is applied by back-office staff
// after the appointment time has passed.
func MarkNoShow(apt *models.Appointment) error {
	if apt.Status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}
	if apt.IsTerminal() {
		return ErrNotModifiable
	}
	apt.Status = models.StatusNoShow
	return nil
}
