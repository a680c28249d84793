package scheduling

import (
	"fmt"
	"time"

	"hospital-management-server/internal/models"
)

// TimeSlot is one bookable candidate time within a clinical day. It is
// derived on every request and never persisted.
type TimeSlot struct {
	Time      string `json:"time"` // "HH:mm"
	Available bool   `json:"available"`
	Current   bool   `json:"current,omitempty"`
}

// Grid describes the fixed candidate slot grid for a clinical day.
type Grid struct {
	dayStart time.Duration // offset from midnight
	dayEnd   time.Duration // exclusive
	step     time.Duration
}

// NewGrid builds a Grid from "HH:mm" bounds and a slot width in minutes.
func NewGrid(dayStart, dayEnd string, slotMinutes int) (Grid, error) {
	start, err := parseClock(dayStart)
	if err != nil {
		return Grid{}, fmt.Errorf("invalid day start %q: %w", dayStart, err)
	}
	end, err := parseClock(dayEnd)
	if err != nil {
		return Grid{}, fmt.Errorf("invalid day end %q: %w", dayEnd, err)
	}
	if slotMinutes <= 0 {
		return Grid{}, fmt.Errorf("invalid slot width %d", slotMinutes)
	}
	if !start.Before(end) {
		return Grid{}, fmt.Errorf("day start %q is not before day end %q", dayStart, dayEnd)
	}
	return Grid{
		dayStart: start.offset(),
		dayEnd:   end.offset(),
		step:     time.Duration(slotMinutes) * time.Minute,
	}, nil
}

// Times enumerates the candidate slot times, formatted "HH:mm".
func (g Grid) Times() []string {
	var times []string
	for at := g.dayStart; at < g.dayEnd; at += g.step {
		times = append(times, fmt.Sprintf("%02d:%02d", int(at.Hours()), int(at.Minutes())%60))
	}
	return times
}

// ResolveSlots produces the slot sequence for one doctor and one day.
// The appointments are those already fetched for that (doctor, date)
// pair; only SCHEDULED ones block a slot. The appointment identified by
// excludeID never blocks its own slot, and its original time is flagged
// current so a reschedule form can preselect it.
func ResolveSlots(g Grid, appointments []models.Appointment, excludeID string) []TimeSlot {
	taken := make(map[string]bool)
	currentTime := ""
	for i := range appointments {
		apt := &appointments[i]
		slot := apt.AppointmentTime.Format("15:04")
		if apt.ID == excludeID && excludeID != "" {
			currentTime = slot
			continue
		}
		if apt.Status == models.StatusScheduled {
			taken[slot] = true
		}
	}

	times := g.Times()
	slots := make([]TimeSlot, 0, len(times))
	for _, t := range times {
		slots = append(slots, TimeSlot{
			Time:      t,
			Available: !taken[t],
			Current:   t == currentTime,
		})
	}
	return slots
}

// clock is a parsed "HH:mm" value.
type clock struct {
	hour, minute int
}

func (c clock) offset() time.Duration {
	return time.Duration(c.hour)*time.Hour + time.Duration(c.minute)*time.Minute
}

func (c clock) Before(other clock) bool {
	return c.offset() < other.offset()
}

func parseClock(s string) (clock, error) {
	var c clock
	if _, err := fmt.Sscanf(s, "%02d:%02d", &c.hour, &c.minute); err != nil {
		return clock{}, err
	}
	if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 {
		return clock{}, fmt.Errorf("out of range")
	}
	return c, nil
}
