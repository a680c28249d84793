package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"
)

// ShiftHandler handles staff work-schedule requests.
type ShiftHandler struct {
	DB *gorm.DB
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(db *gorm.DB) *ShiftHandler {
	return &ShiftHandler{DB: db}
}

// CreateShiftRequest represents the request body for scheduling a shift.
type CreateShiftRequest struct {
	StaffID   string `json:"staffId" binding:"required,uuid"`
	ShiftDate string `json:"shiftDate" binding:"required"` // YYYY-MM-DD
	StartTime string `json:"startTime" binding:"required"` // HH:mm
	EndTime   string `json:"endTime" binding:"required"`   // HH:mm
	Ward      string `json:"ward"`
	Notes     string `json:"notes"`
}

// CreateShift schedules a work shift for a staff member (admin only,
// enforced at the route).
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req CreateShiftRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	shiftDate, startTime, endTime, ok := parseShiftTimes(c, req.ShiftDate, req.StartTime, req.EndTime)
	if !ok {
		return
	}

	var staff models.User
	if err := h.DB.First(&staff, "id = ?", req.StaffID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Staff member not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if !staff.IsStaff() {
		utils.BadRequest(c, "Shifts can only be scheduled for staff members")
		return
	}

	shift := models.StaffShift{
		StaffID:   req.StaffID,
		ShiftDate: shiftDate,
		StartTime: startTime,
		EndTime:   endTime,
		Ward:      req.Ward,
		Notes:     req.Notes,
	}
	if err := h.DB.Create(&shift).Error; err != nil {
		utils.InternalServerError(c, "Failed to create shift: "+err.Error())
		return
	}

	utils.Created(c, "Shift scheduled successfully", shift)
}

// ListShifts lists shifts. Staff members see their own schedule; admins
// may filter by staffId and date range.
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Model(&models.StaffShift{}).Preload("Staff")

	if userRole == models.RoleAdmin {
		if staffID := c.Query("staffId"); staffID != "" {
			query = query.Where("staff_id = ?", staffID)
		}
	} else {
		query = query.Where("staff_id = ?", userID)
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			query = query.Where("shift_date >= ?", t)
		} else {
			utils.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			query = query.Where("shift_date <= ?", t)
		} else {
			utils.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	var shifts []models.StaffShift
	if err := query.Order("shift_date asc, start_time asc").Find(&shifts).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch shifts: "+err.Error())
		return
	}

	utils.Success(c, "Shifts fetched successfully", shifts)
}

// UpdateShiftRequest represents the partial update body for a shift.
type UpdateShiftRequest struct {
	ShiftDate string  `json:"shiftDate"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Ward      *string `json:"ward"`
	Notes     *string `json:"notes"`
}

// UpdateShift edits a scheduled shift (admin only, enforced at the route).
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	shift, ok := h.loadShift(c)
	if !ok {
		return
	}

	var req UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.ShiftDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ShiftDate, time.Local)
		if err != nil {
			utils.BadRequest(c, "Invalid shiftDate, expected YYYY-MM-DD")
			return
		}
		shift.ShiftDate = t
	}
	newStart, newEnd := shift.StartTime, shift.EndTime
	if req.StartTime != "" {
		newStart = req.StartTime
	}
	if req.EndTime != "" {
		newEnd = req.EndTime
	}
	if newStart != shift.StartTime || newEnd != shift.EndTime {
		if _, start, end, ok := parseShiftTimes(c, "2000-01-01", newStart, newEnd); ok {
			shift.StartTime = start
			shift.EndTime = end
		} else {
			return
		}
	}
	if req.Ward != nil {
		shift.Ward = *req.Ward
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}

	if err := h.DB.Save(shift).Error; err != nil {
		utils.InternalServerError(c, "Failed to update shift: "+err.Error())
		return
	}

	utils.Success(c, "Shift updated successfully", shift)
}

// DeleteShift removes a scheduled shift (admin only, enforced at the route).
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	shift, ok := h.loadShift(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(shift).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete shift: "+err.Error())
		return
	}

	utils.Success(c, "Shift deleted successfully", nil)
}

func (h *ShiftHandler) loadShift(c *gin.Context) (*models.StaffShift, bool) {
	shiftID := c.Param("id")
	if _, err := uuid.Parse(shiftID); err != nil {
		utils.BadRequest(c, "Invalid Shift ID format")
		return nil, false
	}

	var shift models.StaffShift
	if err := h.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Shift not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &shift, true
}

// parseShiftTimes validates the date and clock strings of a shift,
// writing the error response itself when they are malformed.
func parseShiftTimes(c *gin.Context, date, start, end string) (time.Time, string, string, bool) {
	shiftDate, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid shiftDate, expected YYYY-MM-DD")
		return time.Time{}, "", "", false
	}
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		utils.BadRequest(c, "Invalid startTime, expected HH:mm")
		return time.Time{}, "", "", false
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		utils.BadRequest(c, "Invalid endTime, expected HH:mm")
		return time.Time{}, "", "", false
	}
	if !startAt.Before(endAt) {
		utils.BadRequest(c, "startTime must be before endTime")
		return time.Time{}, "", "", false
	}
	return shiftDate, start, end, true
}
