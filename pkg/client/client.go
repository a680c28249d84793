// Package client is a typed Go client for the hospital management API.
// It caches list and detail views, applies each mutation's declared
// invalidation set on success, and maps the server's error vocabulary
// to user-facing messages. Failed requests are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"hospital-management-server/internal/scheduling"
)

// Client talks to the hospital management API on behalf of one
// authenticated session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string

	cache *viewCache

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given API base URL and bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		token:      token,
		cache:      newViewCache(),
		inFlight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the server's standard response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ListAppointments fetches a filtered, paginated appointment list,
// serving repeats from cache until a mutation invalidates it.
func (c *Client) ListAppointments(ctx context.Context, q ListQuery) (AppointmentPage, error) {
	if page, ok := c.cache.getList(q); ok {
		return page, nil
	}

	values := url.Values{}
	if q.DoctorID != "" {
		values.Set("doctorId", q.DoctorID)
	}
	if q.PatientID != "" {
		values.Set("patientId", q.PatientID)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.StartDate != "" {
		values.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		values.Set("endDate", q.EndDate)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	values.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}

	var page AppointmentPage
	if err := c.do(ctx, http.MethodGet, "/appointments?"+values.Encode(), nil, &page); err != nil {
		return AppointmentPage{}, err
	}
	c.cache.putList(q, page)
	return page, nil
}

// GetAppointment fetches one appointment by id, cached until invalidated.
func (c *Client) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	if apt, ok := c.cache.getDetail(id); ok {
		return apt, nil
	}

	var apt Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id, nil, &apt); err != nil {
		return Appointment{}, err
	}
	c.cache.putDetail(apt)
	return apt, nil
}

// GetTimeSlots resolves the bookable slots for a doctor and a date.
// Results are never cached: every call reflects current availability.
func (c *Client) GetTimeSlots(ctx context.Context, doctorID, date, excludeAppointmentID string) ([]TimeSlot, error) {
	values := url.Values{}
	values.Set("doctorId", doctorID)
	values.Set("date", date)
	if excludeAppointmentID != "" {
		values.Set("excludeAppointmentId", excludeAppointmentID)
	}

	var slots []TimeSlot
	if err := c.do(ctx, http.MethodGet, "/appointments/time-slots?"+values.Encode(), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateAppointment books a new appointment and invalidates the list
// views that could show it.
func (c *Client) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (Appointment, error) {
	release, err := c.acquire("create:" + in.DoctorID + ":" + in.AppointmentTime.Format(time.RFC3339))
	if err != nil {
		return Appointment{}, err
	}
	defer release()

	var apt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", in, &apt); err != nil {
		return Appointment{}, err
	}
	c.cache.apply(invalidation{
		doctorID:      apt.DoctorID,
		patientID:     apt.PatientID,
		appointmentID: apt.ID,
	})
	return apt, nil
}

// UpdateAppointment applies a partial edit or reschedule.
func (c *Client) UpdateAppointment(ctx context.Context, id string, in UpdateAppointmentInput) (Appointment, error) {
	release, err := c.acquire("update:" + id)
	if err != nil {
		return Appointment{}, err
	}
	defer release()

	var apt Appointment
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+id, in, &apt); err != nil {
		return Appointment{}, err
	}
	c.cache.apply(invalidation{
		doctorID:      apt.DoctorID,
		patientID:     apt.PatientID,
		appointmentID: apt.ID,
	})
	return apt, nil
}

// CancelAppointment cancels an appointment. The reason is validated
// locally first: an empty or oversized reason yields a FieldError and
// no request is issued.
func (c *Client) CancelAppointment(ctx context.Context, id, reason string) (Appointment, error) {
	if err := scheduling.ValidateCancelReason(reason); err != nil {
		msg := "A cancellation reason is required."
		if err == scheduling.ErrReasonTooLong {
			msg = fmt.Sprintf("The reason must be at most %d characters.", scheduling.MaxCancelReasonLen)
		}
		return Appointment{}, &FieldError{Field: "cancelReason", Message: msg}
	}

	release, err := c.acquire("cancel:" + id)
	if err != nil {
		return Appointment{}, err
	}
	defer release()

	body := map[string]string{"cancelReason": reason}
	var apt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id+"/cancel", body, &apt); err != nil {
		return Appointment{}, err
	}
	c.cache.apply(invalidation{
		doctorID:      apt.DoctorID,
		patientID:     apt.PatientID,
		appointmentID: apt.ID,
	})
	return apt, nil
}

// CompleteAppointment marks an appointment completed.
func (c *Client) CompleteAppointment(ctx context.Context, id string) (Appointment, error) {
	release, err := c.acquire("complete:" + id)
	if err != nil {
		return Appointment{}, err
	}
	defer release()

	var apt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id+"/complete", nil, &apt); err != nil {
		return Appointment{}, err
	}
	c.cache.apply(invalidation{
		doctorID:      apt.DoctorID,
		patientID:     apt.PatientID,
		appointmentID: apt.ID,
	})
	return apt, nil
}

// acquire guards against concurrent duplicate mutations for the same
// key. The returned release func must be called when the request ends.
func (c *Client) acquire(key string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return nil, ErrRequestInFlight
	}
	c.inFlight[key] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inFlight, key)
		c.mu.Unlock()
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        env.Code,
			UserMessage: userMessage(env.Code),
			Detail:      env.Error,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
