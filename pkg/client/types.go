package client

import (
	"time"
)

// Person is the subset of user fields embedded in appointment responses.
type Person struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Department     string `json:"department,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Appointment mirrors the server's appointment representation.
type Appointment struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patientId"`
	DoctorID        string     `json:"doctorId"`
	Patient         Person     `json:"patient"`
	Doctor          Person     `json:"doctor"`
	AppointmentTime time.Time  `json:"appointmentTime"`
	Status          string     `json:"status"`
	Type            string     `json:"type"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes"`
	CancelReason    string     `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`
	AllowedActions  []string   `json:"allowedActions,omitempty"`
}

// TimeSlot is one bookable candidate time for a doctor's day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Current   bool   `json:"current,omitempty"`
}

// AppointmentPage is the paginated list envelope.
type AppointmentPage struct {
	Content       []Appointment `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Last          bool          `json:"last"`
}

// ListQuery holds the supported appointment list filters.
type ListQuery struct {
	DoctorID  string
	PatientID string
	Status    string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Page      int
	Size      int
	Sort      string // e.g. "appointmentTime,desc"
}

// CreateAppointmentInput is the booking payload.
type CreateAppointmentInput struct {
	PatientID       string    `json:"patientId"`
	DoctorID        string    `json:"doctorId"`
	AppointmentTime time.Time `json:"appointmentTime"`
	Type            string    `json:"type"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes,omitempty"`
}

// UpdateAppointmentInput is the partial update payload. Nil fields are
// left untouched by the server.
type UpdateAppointmentInput struct {
	AppointmentTime *time.Time `json:"appointmentTime,omitempty"`
	Type            *string    `json:"type,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}
