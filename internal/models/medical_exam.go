package models

import (
	"time"
)

// MedicalExam represents the clinical findings recorded by a doctor
// for a completed appointment, together with the prescription written
// during the encounter. Exams stay editable only within a fixed window
// after creation (see config.ClinicConfig.ExamEditHrs).
type MedicalExam struct {
	BaseModel
	AppointmentID string    `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PatientID     string    `gorm:"size:36;index" json:"patientId"`
	DoctorID      string    `gorm:"size:36;index" json:"doctorId"`
	ExamDate      time.Time `json:"examDate"`
	Symptoms      string    `gorm:"type:text" json:"symptoms"`
	Diagnosis     string    `gorm:"type:text" json:"diagnosis"`
	Notes         string    `gorm:"type:text" json:"notes"`

	// Vital signs, typically recorded by a nurse before the exam
	TemperatureC  *float64 `json:"temperatureC,omitempty"`
	BloodPressure string   `gorm:"size:20" json:"bloodPressure,omitempty"`
	HeartRate     *int     `json:"heartRate,omitempty"`

	// Relations
	Patient      User               `gorm:"foreignKey:PatientID" json:"-"`
	Doctor       User               `gorm:"foreignKey:DoctorID" json:"-"`
	Prescription []PrescriptionItem `gorm:"foreignKey:MedicalExamID" json:"prescription,omitempty"`
}

// PrescriptionItem is one medication line on an exam's prescription
type PrescriptionItem struct {
	BaseModel
	MedicalExamID string `gorm:"size:36;index;not null" json:"medicalExamId"`
	Medication    string `gorm:"size:255;not null" json:"medication"`
	Dosage        string `gorm:"size:100" json:"dosage"`
	Frequency     string `gorm:"size:100" json:"frequency"`
	DurationDays  int    `json:"durationDays"`
	Instructions  string `gorm:"type:text" json:"instructions,omitempty"`
}
