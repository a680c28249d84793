package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment.
// The state machine is forward-only: once an appointment leaves
// SCHEDULED it never transitions again.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// AppointmentType classifies the encounter. It has no behavioral
// effect beyond display.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "CONSULTATION"
	TypeFollowUp     AppointmentType = "FOLLOW_UP"
	TypeEmergency    AppointmentType = "EMERGENCY"
)

// Appointment represents one scheduled clinical encounter
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index" json:"doctorId"`
	AppointmentTime time.Time         `gorm:"index" json:"appointmentTime"`
	Status          AppointmentStatus `gorm:"size:20;default:'SCHEDULED'" json:"status"`
	Type            AppointmentType   `gorm:"size:20;default:'CONSULTATION'" json:"type"`
	Reason          string            `gorm:"size:255" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes"`
	CancelReason    string            `gorm:"size:500" json:"cancelReason,omitempty"`
	CancelledAt     *time.Time        `json:"cancelledAt,omitempty"`
	UpdatedBy       string            `gorm:"size:36" json:"updatedBy,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"patient"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor"`
}

// IsTerminal reports whether the appointment reached a final status.
func (a *Appointment) IsTerminal() bool {
	return a.Status != StatusScheduled
}
