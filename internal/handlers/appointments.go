package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB     *gorm.DB
	Grid   scheduling.Grid
	Logger zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, grid scheduling.Grid, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Grid: grid, Logger: logger}
}

// AppointmentDetail is an appointment plus the actions the requesting
// role may be offered for it.
type AppointmentDetail struct {
	models.Appointment
	AllowedActions []scheduling.Action `json:"allowedActions"`
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID       string    `json:"patientId" binding:"required,uuid"`
	DoctorID        string    `json:"doctorId" binding:"required,uuid"`
	AppointmentTime time.Time `json:"appointmentTime" binding:"required"`
	Type            string    `json:"type" binding:"required,oneof=CONSULTATION FOLLOW_UP EMERGENCY"`
	Reason          string    `json:"reason" binding:"required"`
	Notes           string    `json:"notes"`
}

// CreateAppointment handles booking a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	// Patients can only book for themselves; staff can book for anyone
	if userRole == models.RolePatient && userID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	// Verify doctor exists and is a doctor
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	if req.AppointmentTime.Before(time.Now()) {
		utils.BadRequest(c, "Appointment time must be in the future.")
		return
	}

	taken, err := h.slotTaken(req.DoctorID, req.AppointmentTime, "")
	if err != nil {
		utils.InternalServerError(c, "Database error checking availability: "+err.Error())
		return
	}
	if taken {
		utils.Conflict(c, utils.CodeTimeSlotTaken, "The selected time slot is no longer available.")
		return
	}

	appointment := models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentTime: req.AppointmentTime,
		Type:            models.AppointmentType(req.Type),
		Reason:          req.Reason,
		Notes:           req.Notes,
		Status:          models.StatusScheduled,
		UpdatedBy:       userID,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	h.Logger.Info().
		Str("appointment_id", appointment.ID).
		Str("doctor_id", appointment.DoctorID).
		Time("appointment_time", appointment.AppointmentTime).
		Msg("appointment booked")

	utils.Created(c, "Appointment created successfully", appointment)
}

// ListAppointments handles fetching appointments with filtering and
// pagination. Patients are always scoped to their own appointments and
// doctors to their own schedule.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Model(&models.Appointment{}).Preload("Patient").Preload("Doctor")

	switch userRole {
	case models.RolePatient:
		query = query.Where("patient_id = ?", userID)
	case models.RoleDoctor:
		query = query.Where("doctor_id = ?", userID)
	case models.RoleAdmin, models.RoleNurse, models.RoleReceptionist:
		if doctorID := c.Query("doctorId"); doctorID != "" {
			query = query.Where("doctor_id = ?", doctorID)
		}
		if patientID := c.Query("patientId"); patientID != "" {
			query = query.Where("patient_id = ?", patientID)
		}
	default:
		utils.Forbidden(c, "User role not permitted to view appointments.")
		return
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", startDate, time.Local); err == nil {
			query = query.Where("appointment_time >= ?", t)
		} else {
			utils.BadRequest(c, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
	}
	if endDate := c.Query("endDate"); endDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", endDate, time.Local); err == nil {
			query = query.Where("appointment_time < ?", t.AddDate(0, 0, 1))
		} else {
			utils.BadRequest(c, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
	}

	page, size := parsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count appointments: "+err.Error())
		return
	}

	var appointments []models.Appointment
	if err := query.Order(parseSort(c.Query("sort"))).
		Offset(page * size).Limit(size).
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully",
		utils.NewPage(appointments, page, size, total))
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, the involved doctor, or back-office
// staff; a patient asking for someone else's appointment gets a 403.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, true)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if !canViewAppointment(userID, userRole, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", AppointmentDetail{
		Appointment:    *appointment,
		AllowedActions: scheduling.AllowedActions(appointment.Status, userRole),
	})
}

// GetTimeSlots resolves the bookable slot grid for a doctor and a date.
func (h *AppointmentHandler) GetTimeSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		utils.BadRequest(c, "doctorId is required")
		return
	}
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid doctorId format")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}
	excludeID := c.Query("excludeAppointmentId")

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	var appointments []models.Appointment
	dayEnd := date.AddDate(0, 0, 1)
	if err := h.DB.Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ?",
		doctorID, date, dayEnd).Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments for date: "+err.Error())
		return
	}

	slots := scheduling.ResolveSlots(h.Grid, appointments, excludeID)
	utils.Success(c, "Time slots resolved successfully", slots)
}

// UpdateAppointmentRequest represents the partial update body for an appointment.
type UpdateAppointmentRequest struct {
	AppointmentTime *time.Time `json:"appointmentTime"`
	Type            *string    `json:"type"`
	Reason          *string    `json:"reason"`
	Notes           *string    `json:"notes"`
}

// UpdateAppointment handles editing or rescheduling a SCHEDULED appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, false)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if !h.requireModifiable(c, appointment) {
		return
	}
	if !scheduling.Can(appointment.Status, userRole, scheduling.ActionEdit) {
		utils.Forbidden(c, "You are not authorized to edit this appointment.")
		return
	}

	if req.Type != nil {
		switch models.AppointmentType(*req.Type) {
		case models.TypeConsultation, models.TypeFollowUp, models.TypeEmergency:
			appointment.Type = models.AppointmentType(*req.Type)
		default:
			utils.BadRequest(c, "Invalid appointment type")
			return
		}
	}
	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.AppointmentTime != nil {
		if req.AppointmentTime.Before(time.Now()) {
			utils.BadRequest(c, "Appointment time must be in the future.")
			return
		}
		taken, err := h.slotTaken(appointment.DoctorID, *req.AppointmentTime, appointment.ID)
		if err != nil {
			utils.InternalServerError(c, "Database error checking availability: "+err.Error())
			return
		}
		if taken {
			utils.Conflict(c, utils.CodeTimeSlotTaken, "The selected time slot is no longer available.")
			return
		}
		appointment.AppointmentTime = *req.AppointmentTime
	}

	appointment.UpdatedBy = userID
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// CancelAppointmentRequest represents the request body for cancelling an appointment.
type CancelAppointmentRequest struct {
	CancelReason string `json:"cancelReason" binding:"required"`
}

// CancelAppointment handles cancelling a SCHEDULED appointment. Allowed
// for the owning patient, the involved doctor, or an admin.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, false)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	isOwner := userID == appointment.PatientID || userID == appointment.DoctorID
	if userRole != models.RoleAdmin && !isOwner {
		utils.Forbidden(c, "You are not authorized to cancel this appointment.")
		return
	}

	if err := scheduling.Cancel(appointment, req.CancelReason, time.Now()); err != nil {
		h.respondTransitionError(c, err)
		return
	}

	appointment.UpdatedBy = userID
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	h.Logger.Info().
		Str("appointment_id", appointment.ID).
		Str("cancelled_by", userID).
		Msg("appointment cancelled")

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// CompleteAppointment handles marking a SCHEDULED appointment as completed.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, false)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole != models.RoleAdmin && userRole != models.RoleDoctor {
		utils.Forbidden(c, "You are not authorized to complete appointments.")
		return
	}
	if userRole == models.RoleDoctor && userID != appointment.DoctorID {
		utils.Forbidden(c, "Doctors can only complete their own appointments.")
		return
	}

	if err := scheduling.Complete(appointment); err != nil {
		h.respondTransitionError(c, err)
		return
	}

	appointment.UpdatedBy = userID
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to complete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment completed successfully", appointment)
}

// MarkNoShow handles flagging a missed appointment. Admin-only; there is
// no patient- or doctor-facing path to NO_SHOW.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, false)
	if !ok {
		return
	}

	if appointment.AppointmentTime.After(time.Now()) {
		utils.BadRequest(c, "Cannot mark a future appointment as no-show.")
		return
	}

	if err := scheduling.MarkNoShow(appointment); err != nil {
		h.respondTransitionError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	appointment.UpdatedBy = userID
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to mark appointment as no-show: "+err.Error())
		return
	}

	utils.Success(c, "Appointment marked as no-show", appointment)
}

// loadAppointment fetches the appointment addressed by the :id path
// parameter, writing the error response itself when it fails.
func (h *AppointmentHandler) loadAppointment(c *gin.Context, preload bool) (*models.Appointment, bool) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return nil, false
	}

	query := h.DB
	if preload {
		query = query.Preload("Patient").Preload("Doctor")
	}

	var appointment models.Appointment
	if err := query.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &appointment, true
}

// requireModifiable writes a conflict response when the appointment has
// already reached a terminal status.
func (h *AppointmentHandler) requireModifiable(c *gin.Context, apt *models.Appointment) bool {
	if apt.Status == models.StatusCancelled {
		utils.Conflict(c, utils.CodeAlreadyCanceled, "Appointment has already been cancelled.")
		return false
	}
	if apt.IsTerminal() {
		utils.Conflict(c, utils.CodeNotModifiable, "Appointment is no longer modifiable.")
		return false
	}
	return true
}

func (h *AppointmentHandler) respondTransitionError(c *gin.Context, err error) {
	switch err {
	case scheduling.ErrReasonRequired, scheduling.ErrReasonTooLong:
		utils.BadRequest(c, err.Error())
	case scheduling.ErrAlreadyCancelled:
		utils.Conflict(c, utils.CodeAlreadyCanceled, "Appointment has already been cancelled.")
	case scheduling.ErrNotModifiable:
		utils.Conflict(c, utils.CodeNotModifiable, "Appointment is no longer modifiable.")
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// slotTaken reports whether another SCHEDULED appointment already
// occupies the doctor's slot at the given time.
func (h *AppointmentHandler) slotTaken(doctorID string, at time.Time, excludeID string) (bool, error) {
	query := h.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_time = ? AND status = ?",
			doctorID, at, models.StatusScheduled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// canViewAppointment decides whether a user may see an appointment.
// Back-office staff see everything; doctors and patients only their own.
func canViewAppointment(userID string, role models.Role, apt *models.Appointment) bool {
	switch role {
	case models.RoleAdmin, models.RoleNurse, models.RoleReceptionist:
		return true
	case models.RoleDoctor:
		return userID == apt.DoctorID
	case models.RolePatient:
		return userID == apt.PatientID
	}
	return false
}

func parsePagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// parseSort maps a "field,direction" query value onto a safe ORDER BY
// clause. Unknown fields fall back to appointment time ascending.
func parseSort(sort string) string {
	field := "appointment_time"
	direction := "asc"

	parts := strings.SplitN(sort, ",", 2)
	switch parts[0] {
	case "appointmentTime":
		field = "appointment_time"
	case "createdAt":
		field = "created_at"
	case "status":
		field = "status"
	}
	if len(parts) == 2 && strings.EqualFold(parts[1], "desc") {
		direction = "desc"
	}
	return field + " " + direction
}
