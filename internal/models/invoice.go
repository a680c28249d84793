package models

import (
	"time"
)

// InvoiceStatus represents the billing state of an invoice
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceIssued        InvoiceStatus = "ISSUED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceVoid          InvoiceStatus = "VOID"
)

// Invoice represents a bill issued to a patient. Amounts are stored in
// minor currency units (cents) to keep the arithmetic exact.
type Invoice struct {
	BaseModel
	PatientID     string        `gorm:"size:36;index" json:"patientId"`
	AppointmentID string        `gorm:"size:36;index" json:"appointmentId,omitempty"`
	Status        InvoiceStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	IssuedAt      *time.Time    `json:"issuedAt,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	TotalCents    int64         `json:"totalCents"`

	// Relations
	Patient  User          `gorm:"foreignKey:PatientID" json:"-"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// InvoiceItem is one billable line on an invoice
type InvoiceItem struct {
	BaseModel
	InvoiceID      string `gorm:"size:36;index;not null" json:"invoiceId"`
	Description    string `gorm:"size:255;not null" json:"description"`
	Quantity       int    `gorm:"default:1" json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Payment records money received against an invoice
type Payment struct {
	BaseModel
	InvoiceID   string    `gorm:"size:36;index;not null" json:"invoiceId"`
	AmountCents int64     `json:"amountCents"`
	Method      string    `gorm:"size:50" json:"method"`
	PaidAt      time.Time `json:"paidAt"`
	ReceivedBy  string    `gorm:"size:36" json:"receivedBy,omitempty"`
}

// AmountPaidCents sums all recorded payments.
func (inv *Invoice) AmountPaidCents() int64 {
	var paid int64
	for _, p := range inv.Payments {
		paid += p.AmountCents
	}
	return paid
}

// BalanceCents is the outstanding amount on the invoice. Overpayment
// clamps to zero rather than going negative.
func (inv *Invoice) BalanceCents() int64 {
	balance := inv.TotalCents - inv.AmountPaidCents()
	if balance < 0 {
		return 0
	}
	return balance
}

// RecomputeTotal derives TotalCents from the invoice items.
func (inv *Invoice) RecomputeTotal() {
	var total int64
	for _, item := range inv.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += int64(qty) * item.UnitPriceCents
	}
	inv.TotalCents = total
}
