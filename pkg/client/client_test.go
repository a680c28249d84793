package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okEnvelope(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  200,
		"message": "ok",
		"data":    json.RawMessage(raw),
	})
}

func errEnvelope(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": "An error occurred",
		"code":    code,
		"error":   detail,
	})
}

func TestCancelWithEmptyReasonIssuesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	_, err := c.CancelAppointment(context.Background(), "apt-1", "")

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "cancelReason", fieldErr.Field)
	assert.Zero(t, atomic.LoadInt32(&calls), "no network call may be issued for a local validation failure")
}

func TestCancelReasonLengthBoundary(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		okEnvelope(t, w, Appointment{ID: "apt-1", Status: "CANCELLED"})
	}))
	defer srv.Close()

	c := New(srv.URL, "token")

	// 501 characters: rejected locally
	_, err := c.CancelAppointment(context.Background(), "apt-1", strings.Repeat("x", 501))
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Zero(t, atomic.LoadInt32(&calls))

	// exactly 500 characters: submitted
	apt, err := c.CancelAppointment(context.Background(), "apt-1", strings.Repeat("x", 500))
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", apt.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestErrorCodeMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errEnvelope(w, http.StatusConflict, "TIME_SLOT_TAKEN", "slot occupied")
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	_, err := c.CreateAppointment(context.Background(), CreateAppointmentInput{
		PatientID:       "p1",
		DoctorID:        "d1",
		AppointmentTime: time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC),
		Type:            "CONSULTATION",
		Reason:          "checkup",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "TIME_SLOT_TAKEN", apiErr.Code)
	assert.Equal(t, "That time slot has just been taken. Please pick another time.", apiErr.UserMessage)
}

func TestUnknownErrorCodeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errEnvelope(w, http.StatusTeapot, "MOON_PHASE_MISALIGNED", "???")
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	_, err := c.GetAppointment(context.Background(), "apt-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, genericFailure, apiErr.UserMessage)
}

func TestListCachedUntilMutationInvalidates(t *testing.T) {
	var listCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/appointments":
			atomic.AddInt32(&listCalls, 1)
			okEnvelope(t, w, AppointmentPage{
				Content: []Appointment{{ID: "apt-1", DoctorID: "d1", PatientID: "p1", Status: "SCHEDULED"}},
				Size:    20, TotalElements: 1, TotalPages: 1, Last: true,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/appointments/apt-1/cancel":
			okEnvelope(t, w, Appointment{ID: "apt-1", DoctorID: "d1", PatientID: "p1", Status: "CANCELLED"})
		default:
			errEnvelope(w, http.StatusNotFound, "NOT_FOUND", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	q := ListQuery{DoctorID: "d1"}

	_, err := c.ListAppointments(context.Background(), q)
	require.NoError(t, err)
	_, err = c.ListAppointments(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls), "repeat list should come from cache")

	_, err = c.CancelAppointment(context.Background(), "apt-1", "Patient rescheduled")
	require.NoError(t, err)

	_, err = c.ListAppointments(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listCalls), "cancel must invalidate the doctor's list view")
}

func TestUnrelatedListSurvivesInvalidation(t *testing.T) {
	var listCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/appointments":
			atomic.AddInt32(&listCalls, 1)
			okEnvelope(t, w, AppointmentPage{Last: true})
		case r.Method == http.MethodPost && r.URL.Path == "/appointments/apt-1/cancel":
			okEnvelope(t, w, Appointment{ID: "apt-1", DoctorID: "d1", PatientID: "p1", Status: "CANCELLED"})
		default:
			errEnvelope(w, http.StatusNotFound, "NOT_FOUND", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	otherDoctor := ListQuery{DoctorID: "d2"}

	_, err := c.ListAppointments(context.Background(), otherDoctor)
	require.NoError(t, err)

	_, err = c.CancelAppointment(context.Background(), "apt-1", "Patient rescheduled")
	require.NoError(t, err)

	_, err = c.ListAppointments(context.Background(), otherDoctor)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls), "another doctor's list cannot contain the appointment")
}

func TestDetailCacheInvalidatedByUpdate(t *testing.T) {
	var detailCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/appointments/apt-1":
			atomic.AddInt32(&detailCalls, 1)
			okEnvelope(t, w, Appointment{ID: "apt-1", DoctorID: "d1", PatientID: "p1", Status: "SCHEDULED"})
		case r.Method == http.MethodPatch && r.URL.Path == "/appointments/apt-1":
			okEnvelope(t, w, Appointment{ID: "apt-1", DoctorID: "d1", PatientID: "p1", Status: "SCHEDULED"})
		default:
			errEnvelope(w, http.StatusNotFound, "NOT_FOUND", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "token")

	_, err := c.GetAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	_, err = c.GetAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&detailCalls))

	notes := "arrived early"
	_, err = c.UpdateAppointment(context.Background(), "apt-1", UpdateAppointmentInput{Notes: &notes})
	require.NoError(t, err)

	_, err = c.GetAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&detailCalls))
}

func TestSlotsAreNeverCached(t *testing.T) {
	var slotCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&slotCalls, 1)
		assert.Equal(t, "d1", r.URL.Query().Get("doctorId"))
		assert.Equal(t, "2025-12-10", r.URL.Query().Get("date"))
		okEnvelope(t, w, []TimeSlot{{Time: "09:00", Available: false}})
	}))
	defer srv.Close()

	c := New(srv.URL, "token")
	for i := 0; i < 3; i++ {
		slots, err := c.GetTimeSlots(context.Background(), "d1", "2025-12-10", "")
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.False(t, slots[0].Available)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&slotCalls))
}

func TestConcurrentDuplicateMutationRejected(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		okEnvelope(t, w, Appointment{ID: "apt-1", Status: "CANCELLED"})
	}))
	defer srv.Close()

	c := New(srv.URL, "token")

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = c.CancelAppointment(context.Background(), "apt-1", "first")
	}()

	<-received
	_, err := c.CancelAppointment(context.Background(), "apt-1", "second")
	assert.True(t, errors.Is(err, ErrRequestInFlight), "duplicate in-flight cancel must be rejected, got %v", err)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
}
