package scheduling

import (
	"strings"
	"testing"
	"time"

	"hospital-management-server/internal/models"
)

func TestGatesClosedForTerminalStatuses(t *testing.T) {
	for _, status := range []models.AppointmentStatus{
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusNoShow,
	} {
		apt := &models.Appointment{Status: status}
		if IsCancelable(apt) {
			t.Errorf("IsCancelable(%s) = true, want false", status)
		}
		if IsEditable(apt) {
			t.Errorf("IsEditable(%s) = true, want false", status)
		}
		if IsCompletable(apt) {
			t.Errorf("IsCompletable(%s) = true, want false", status)
		}
	}
}

func TestGatesOpenWhileScheduled(t *testing.T) {
	apt := &models.Appointment{Status: models.StatusScheduled}
	if !IsCancelable(apt) || !IsEditable(apt) || !IsCompletable(apt) {
		t.Errorf("scheduled appointment should be cancelable, editable and completable")
	}
}

func TestValidateCancelReason(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		wantErr error
	}{
		{"empty", "", ErrReasonRequired},
		{"whitespace only", "   \t\n", ErrReasonRequired},
		{"normal reason", "Patient rescheduled", nil},
		{"exactly max length", strings.Repeat("a", MaxCancelReasonLen), nil},
		{"one over max", strings.Repeat("a", MaxCancelReasonLen+1), ErrReasonTooLong},
		{"multibyte at max", strings.Repeat("é", MaxCancelReasonLen), nil},
		{"multibyte over max", strings.Repeat("é", MaxCancelReasonLen+1), ErrReasonTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCancelReason(tt.reason); got != tt.wantErr {
				t.Errorf("ValidateCancelReason() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestExamEditableWindow(t *testing.T) {
	created := time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	if !ExamEditable(created, window, created.Add(23*time.Hour)) {
		t.Error("exam should be editable inside the window")
	}
	if !ExamEditable(created, window, created.Add(24*time.Hour)) {
		t.Error("exam should be editable exactly at the window boundary")
	}
	if ExamEditable(created, window, created.Add(24*time.Hour+time.Second)) {
		t.Error("exam should not be editable past the window")
	}
}
