package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"
)

// InvoiceHandler handles billing requests.
type InvoiceHandler struct {
	DB *gorm.DB
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{DB: db}
}

// InvoiceView is an invoice with its derived amounts.
type InvoiceView struct {
	models.Invoice
	AmountPaidCents int64 `json:"amountPaidCents"`
	BalanceCents    int64 `json:"balanceCents"`
}

func viewOf(inv *models.Invoice) InvoiceView {
	return InvoiceView{
		Invoice:         *inv,
		AmountPaidCents: inv.AmountPaidCents(),
		BalanceCents:    inv.BalanceCents(),
	}
}

// InvoiceItemRequest is one billable line in an invoice payload.
type InvoiceItemRequest struct {
	Description    string `json:"description" binding:"required"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents the request body for creating an invoice.
type CreateInvoiceRequest struct {
	PatientID     string               `json:"patientId" binding:"required,uuid"`
	AppointmentID string               `json:"appointmentId" binding:"omitempty,uuid"`
	DueDate       *time.Time           `json:"dueDate"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInvoice creates a DRAFT invoice for a patient.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	invoice := models.Invoice{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Status:        models.InvoiceDraft,
		DueDate:       req.DueDate,
	}
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Description:    item.Description,
			Quantity:       qty,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	invoice.RecomputeTotal()

	if err := h.DB.Create(&invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to create invoice: "+err.Error())
		return
	}

	utils.Created(c, "Invoice created successfully", viewOf(&invoice))
}

// ListInvoices lists invoices, paginated. Patients see only their own.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Model(&models.Invoice{}).Preload("Items").Preload("Payments")

	switch userRole {
	case models.RolePatient:
		query = query.Where("patient_id = ?", userID)
	case models.RoleAdmin, models.RoleReceptionist:
		if patientID := c.Query("patientId"); patientID != "" {
			query = query.Where("patient_id = ?", patientID)
		}
	default:
		utils.Forbidden(c, "User role not permitted to view invoices.")
		return
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	page, size := parsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count invoices: "+err.Error())
		return
	}

	var invoices []models.Invoice
	if err := query.Order("created_at desc").
		Offset(page * size).Limit(size).
		Find(&invoices).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch invoices: "+err.Error())
		return
	}

	views := make([]InvoiceView, len(invoices))
	for i := range invoices {
		views[i] = viewOf(&invoices[i])
	}

	utils.Success(c, "Invoices fetched successfully", utils.NewPage(views, page, size, total))
}

// GetInvoiceByID fetches one invoice with items, payments and balance.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient && userID != invoice.PatientID {
		utils.Forbidden(c, "You are not authorized to view this invoice")
		return
	}

	utils.Success(c, "Invoice fetched successfully", viewOf(invoice))
}

// IssueInvoice moves a DRAFT invoice to ISSUED.
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	if invoice.Status != models.InvoiceDraft {
		utils.Conflict(c, utils.CodeValidationError, "Only draft invoices can be issued.")
		return
	}

	now := time.Now()
	invoice.Status = models.InvoiceIssued
	invoice.IssuedAt = &now
	if err := h.DB.Omit(clause.Associations).Save(invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to issue invoice: "+err.Error())
		return
	}

	utils.Success(c, "Invoice issued successfully", viewOf(invoice))
}

// AddPaymentRequest represents the request body for recording a payment.
type AddPaymentRequest struct {
	AmountCents int64  `json:"amountCents" binding:"required,gt=0"`
	Method      string `json:"method" binding:"required"`
}

// AddPayment records a payment against an issued invoice and settles its
// status from the remaining balance.
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	var req AddPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if invoice.Status != models.InvoiceIssued && invoice.Status != models.InvoicePartiallyPaid {
		utils.Conflict(c, utils.CodeValidationError, "Payments can only be recorded against issued invoices.")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	payment := models.Payment{
		InvoiceID:   invoice.ID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		PaidAt:      time.Now(),
		ReceivedBy:  userID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		invoice.Payments = append(invoice.Payments, payment)
		if invoice.BalanceCents() == 0 {
			invoice.Status = models.InvoicePaid
		} else {
			invoice.Status = models.InvoicePartiallyPaid
		}
		return tx.Omit(clause.Associations).Save(invoice).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to record payment: "+err.Error())
		return
	}

	utils.Success(c, "Payment recorded successfully", viewOf(invoice))
}

// VoidInvoice voids an unpaid invoice.
func (h *InvoiceHandler) VoidInvoice(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	if invoice.Status == models.InvoicePaid {
		utils.Conflict(c, utils.CodeValidationError, "A paid invoice cannot be voided.")
		return
	}

	invoice.Status = models.InvoiceVoid
	if err := h.DB.Omit(clause.Associations).Save(invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to void invoice: "+err.Error())
		return
	}

	utils.Success(c, "Invoice voided successfully", viewOf(invoice))
}

func (h *InvoiceHandler) loadInvoice(c *gin.Context) (*models.Invoice, bool) {
	invoiceID := c.Param("id")
	if _, err := uuid.Parse(invoiceID); err != nil {
		utils.BadRequest(c, "Invalid Invoice ID format")
		return nil, false
	}

	var invoice models.Invoice
	if err := h.DB.Preload("Items").Preload("Payments").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &invoice, true
}
