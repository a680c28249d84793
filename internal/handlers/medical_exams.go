package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// MedicalExamHandler handles medical exam and prescription requests.
type MedicalExamHandler struct {
	DB         *gorm.DB
	EditWindow time.Duration
}

// NewMedicalExamHandler creates a new MedicalExamHandler.
func NewMedicalExamHandler(db *gorm.DB, editWindow time.Duration) *MedicalExamHandler {
	return &MedicalExamHandler{DB: db, EditWindow: editWindow}
}

// PrescriptionItemRequest is one medication line in an exam payload.
type PrescriptionItemRequest struct {
	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"durationDays"`
	Instructions string `json:"instructions"`
}

// CreateExamRequest represents the request body for recording an exam.
type CreateExamRequest struct {
	AppointmentID string                    `json:"appointmentId" binding:"required,uuid"`
	Symptoms      string                    `json:"symptoms"`
	Diagnosis     string                    `json:"diagnosis" binding:"required"`
	Notes         string                    `json:"notes"`
	Prescription  []PrescriptionItemRequest `json:"prescription"`
}

// CreateExam records the clinical findings for an appointment. Doctors
// record exams for their own appointments.
func (h *MedicalExamHandler) CreateExam(c *gin.Context) {
	var req CreateExamRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if userRole == models.RoleDoctor && userID != appointment.DoctorID {
		utils.Forbidden(c, "Doctors can only record exams for their own appointments.")
		return
	}

	var existing models.MedicalExam
	if err := h.DB.Where("appointment_id = ?", req.AppointmentID).First(&existing).Error; err == nil {
		utils.Conflict(c, utils.CodeValidationError, "An exam has already been recorded for this appointment.")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	exam := models.MedicalExam{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		ExamDate:      time.Now(),
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
	}
	for _, item := range req.Prescription {
		exam.Prescription = append(exam.Prescription, models.PrescriptionItem{
			Medication:   item.Medication,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Instructions: item.Instructions,
		})
	}

	if err := h.DB.Create(&exam).Error; err != nil {
		utils.InternalServerError(c, "Failed to record exam: "+err.Error())
		return
	}

	utils.Created(c, "Exam recorded successfully", exam)
}

// GetExamByID fetches a single exam with its prescription.
func (h *MedicalExamHandler) GetExamByID(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if !canViewExam(userID, userRole, exam) {
		utils.Forbidden(c, "You are not authorized to view this exam")
		return
	}

	utils.Success(c, "Exam fetched successfully", exam)
}

// GetExamsForPatient lists all exams recorded for one patient.
func (h *MedicalExamHandler) GetExamsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own exams")
		return
	}
	if userRole == models.RoleReceptionist {
		utils.Forbidden(c, "Receptionists cannot view clinical records")
		return
	}

	var exams []models.MedicalExam
	if err := h.DB.Preload("Prescription").
		Where("patient_id = ?", patientID).
		Order("exam_date desc").
		Find(&exams).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch exams: "+err.Error())
		return
	}

	utils.Success(c, "Exams fetched successfully", exams)
}

// UpdateExamRequest represents the partial update body for an exam.
type UpdateExamRequest struct {
	Symptoms     *string                   `json:"symptoms"`
	Diagnosis    *string                   `json:"diagnosis"`
	Notes        *string                   `json:"notes"`
	Prescription []PrescriptionItemRequest `json:"prescription"`
}

// UpdateExam edits a recorded exam. The recording doctor (or an admin)
// may edit it, and only while the edit window is still open.
func (h *MedicalExamHandler) UpdateExam(c *gin.Context) {
	exam, ok := h.loadExam(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RoleDoctor && userID != exam.DoctorID {
		utils.Forbidden(c, "Doctors can only edit their own exams.")
		return
	}
	if userRole != models.RoleDoctor && userRole != models.RoleAdmin {
		utils.Forbidden(c, "You are not authorized to edit exams.")
		return
	}

	if !scheduling.ExamEditable(exam.CreatedAt, h.EditWindow, time.Now()) {
		utils.Conflict(c, utils.CodeExamWindowClosed, "The edit window for this exam has closed.")
		return
	}

	var req UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Symptoms != nil {
		exam.Symptoms = *req.Symptoms
	}
	if req.Diagnosis != nil {
		exam.Diagnosis = *req.Diagnosis
	}
	if req.Notes != nil {
		exam.Notes = *req.Notes
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if req.Prescription != nil {
			if err := tx.Where("medical_exam_id = ?", exam.ID).
				Delete(&models.PrescriptionItem{}).Error; err != nil {
				return err
			}
			exam.Prescription = nil
			for _, item := range req.Prescription {
				exam.Prescription = append(exam.Prescription, models.PrescriptionItem{
					MedicalExamID: exam.ID,
					Medication:    item.Medication,
					Dosage:        item.Dosage,
					Frequency:     item.Frequency,
					DurationDays:  item.DurationDays,
					Instructions:  item.Instructions,
				})
			}
		}
		return tx.Save(exam).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update exam: "+err.Error())
		return
	}

	utils.Success(c, "Exam updated successfully", exam)
}

// RecordVitalsRequest represents the vital signs recorded by a nurse.
type RecordVitalsRequest struct {
	TemperatureC  *float64 `json:"temperatureC"`
	BloodPressure string   `json:"bloodPressure"`
	HeartRate     *int     `json:"heartRate"`
}

// RecordVitals records vital signs against an appointment, creating the
// exam shell if the doctor has not written findings yet. Offered to
// nurses while the appointment is still SCHEDULED.
func (h *MedicalExamHandler) RecordVitals(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req RecordVitalsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !scheduling.Can(appointment.Status, userRole, scheduling.ActionRecordVitals) &&
		userRole != models.RoleAdmin {
		utils.Forbidden(c, "Vital signs can only be recorded for a scheduled appointment.")
		return
	}

	var exam models.MedicalExam
	err := h.DB.Where("appointment_id = ?", appointmentID).First(&exam).Error
	if err == gorm.ErrRecordNotFound {
		exam = models.MedicalExam{
			AppointmentID: appointment.ID,
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			ExamDate:      time.Now(),
		}
	} else if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	if req.TemperatureC != nil {
		exam.TemperatureC = req.TemperatureC
	}
	if req.BloodPressure != "" {
		exam.BloodPressure = req.BloodPressure
	}
	if req.HeartRate != nil {
		exam.HeartRate = req.HeartRate
	}

	if err := h.DB.Save(&exam).Error; err != nil {
		utils.InternalServerError(c, "Failed to record vital signs: "+err.Error())
		return
	}

	utils.Success(c, "Vital signs recorded successfully", exam)
}

func (h *MedicalExamHandler) loadExam(c *gin.Context) (*models.MedicalExam, bool) {
	examID := c.Param("id")
	if _, err := uuid.Parse(examID); err != nil {
		utils.BadRequest(c, "Invalid Exam ID format")
		return nil, false
	}

	var exam models.MedicalExam
	if err := h.DB.Preload("Prescription").First(&exam, "id = ?", examID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Exam not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &exam, true
}

// canViewExam mirrors canViewAppointment for clinical records, except
// receptionists have no business reading them.
func canViewExam(userID string, role models.Role, exam *models.MedicalExam) bool {
	switch role {
	case models.RoleAdmin, models.RoleNurse:
		return true
	case models.RoleDoctor:
		return userID == exam.DoctorID
	case models.RolePatient:
		return userID == exam.PatientID
	}
	return false
}
