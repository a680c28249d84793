package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode is the machine-readable error vocabulary exposed to clients.
// Clients map these to user-facing messages; unknown codes fall back to
// a generic failure message on their side.
type ErrorCode string

const (
	CodeValidationError  ErrorCode = "VALIDATION_ERROR"
	CodeTimeSlotTaken    ErrorCode = "TIME_SLOT_TAKEN"
	CodeNotModifiable    ErrorCode = "APPOINTMENT_NOT_MODIFIABLE"
	CodeAlreadyCanceled  ErrorCode = "ALREADY_CANCELLED"
	CodeExamWindowClosed ErrorCode = "EXAM_EDIT_WINDOW_CLOSED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Page is the envelope for paginated list responses.
type Page struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Last          bool        `json:"last"`
}

// NewPage builds a Page envelope from a content slice and the total row
// count reported by the database.
func NewPage(content interface{}, page, size int, total int64) Page {
	if size <= 0 {
		size = 1
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return Page{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          page >= totalPages-1,
	}
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response with a machine-readable code.
func Error(c *gin.Context, statusCode int, code ErrorCode, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Code:    code,
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, CodeValidationError, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, CodeForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, CodeNotFound, errorMessage)
}

// Conflict sends a 409 Conflict error response with the given code.
func Conflict(c *gin.Context, code ErrorCode, errorMessage string) {
	Error(c, http.StatusConflict, code, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, CodeInternalError, errorMessage)
}
