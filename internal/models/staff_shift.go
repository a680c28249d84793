package models

import (
	"time"
)

// StaffShift represents one scheduled work shift for a staff member
type StaffShift struct {
	BaseModel
	StaffID   string    `gorm:"size:36;index" json:"staffId"`
	ShiftDate time.Time `gorm:"index" json:"shiftDate"`
	StartTime string    `gorm:"size:5" json:"startTime"` // "HH:mm"
	EndTime   string    `gorm:"size:5" json:"endTime"`   // "HH:mm"
	Ward      string    `gorm:"size:100" json:"ward,omitempty"`
	Notes     string    `gorm:"size:255" json:"notes,omitempty"`

	// Relations
	Staff User `gorm:"foreignKey:StaffID" json:"staff"`
}
