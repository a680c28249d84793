package scheduling

import (
	"testing"
	"time"

	"hospital-management-server/internal/models"
)

func TestCancelScheduledAppointment(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusScheduled}
	now := time.Date(2025, 12, 9, 14, 0, 0, 0, time.UTC)

	if err := Cancel(apt, "Patient rescheduled", now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if apt.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", apt.Status)
	}
	if apt.CancelReason != "Patient rescheduled" {
		t.Errorf("cancelReason = %q", apt.CancelReason)
	}
	if apt.CancelledAt == nil || !apt.CancelledAt.Equal(now) {
		t.Errorf("cancelledAt = %v, want %v", apt.CancelledAt, now)
	}
}

func TestCancelRejectsInvalidReasonWithoutMutation(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusScheduled}

	if err := Cancel(apt, "  ", time.Now()); err != ErrReasonRequired {
		t.Fatalf("Cancel with blank reason = %v, want ErrReasonRequired", err)
	}
	if apt.Status != models.StatusScheduled || apt.CancelReason != "" || apt.CancelledAt != nil {
		t.Error("a rejected cancellation must leave the appointment untouched")
	}
}

func TestDoubleCancel(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusCancelled}
	if err := Cancel(apt, "again", time.Now()); err != ErrAlreadyCancelled {
		t.Errorf("Cancel on cancelled = %v, want ErrAlreadyCancelled", err)
	}
}

func TestCancelTerminalStates(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusCompleted, models.StatusNoShow} {
		apt := &models.Appointment{Status: status}
		if err := Cancel(apt, "too late", time.Now()); err != ErrNotModifiable {
			t.Errorf("Cancel on %s = %v, want ErrNotModifiable", status, err)
		}
	}
}

func TestComplete(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusScheduled}
	if err := Complete(apt); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if apt.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", apt.Status)
	}

	if err := Complete(apt); err != ErrNotModifiable {
		t.Errorf("Complete twice = %v, want ErrNotModifiable", err)
	}

	cancelled := &models.Appointment{Status: models.StatusCancelled}
	if err := Complete(cancelled); err != ErrAlreadyCancelled {
		t.Errorf("Complete on cancelled = %v, want ErrAlreadyCancelled", err)
	}
}

func TestMarkNoShow(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusScheduled}
	if err := MarkNoShow(apt); err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	if apt.Status != models.StatusNoShow {
		t.Errorf("status = %s, want NO_SHOW", apt.Status)
	}

	completed := &models.Appointment{Status: models.StatusCompleted}
	if err := MarkNoShow(completed); err != ErrNotModifiable {
		t.Errorf("MarkNoShow on completed = %v, want ErrNotModifiable", err)
	}
}
