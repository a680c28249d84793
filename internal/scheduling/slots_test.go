package scheduling

import (
	"testing"
	"time"

	"hospital-management-server/internal/models"
)

func mustGrid(t *testing.T) Grid {
	t.Helper()
	grid, err := NewGrid("08:00", "17:00", 30)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return grid
}

func aptAt(id string, status models.AppointmentStatus, hour, minute int) models.Appointment {
	return models.Appointment{
		BaseModel:       models.BaseModel{ID: id},
		Status:          status,
		AppointmentTime: time.Date(2025, 12, 10, hour, minute, 0, 0, time.UTC),
	}
}

func slotByTime(t *testing.T, slots []TimeSlot, at string) TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Time == at {
			return s
		}
	}
	t.Fatalf("no slot %q in %v", at, slots)
	return TimeSlot{}
}

func TestGridTimes(t *testing.T) {
	grid := mustGrid(t)
	times := grid.Times()
	if len(times) != 18 {
		t.Fatalf("got %d slots, want 18", len(times))
	}
	if times[0] != "08:00" || times[len(times)-1] != "16:30" {
		t.Errorf("grid bounds wrong: first %s, last %s", times[0], times[len(times)-1])
	}
}

func TestNewGridRejectsBadInput(t *testing.T) {
	cases := []struct {
		start, end string
		step       int
	}{
		{"bogus", "17:00", 30},
		{"08:00", "nope", 30},
		{"08:00", "17:00", 0},
		{"17:00", "08:00", 30},
		{"25:00", "17:00", 30},
	}
	for _, tc := range cases {
		if _, err := NewGrid(tc.start, tc.end, tc.step); err == nil {
			t.Errorf("NewGrid(%q, %q, %d) should fail", tc.start, tc.end, tc.step)
		}
	}
}

func TestScheduledAppointmentBlocksSlot(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusScheduled, 9, 0),
	}

	slots := ResolveSlots(grid, appointments, "")

	if slot := slotByTime(t, slots, "09:00"); slot.Available {
		t.Error("09:00 should be unavailable with a scheduled appointment at that time")
	}
	if slot := slotByTime(t, slots, "09:30"); !slot.Available {
		t.Error("09:30 should remain available")
	}
}

func TestCancelledAppointmentDoesNotBlockSlot(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusCancelled, 9, 0),
		aptAt("apt-2", models.StatusCompleted, 10, 0),
		aptAt("apt-3", models.StatusNoShow, 11, 0),
	}

	slots := ResolveSlots(grid, appointments, "")

	for _, at := range []string{"09:00", "10:00", "11:00"} {
		if slot := slotByTime(t, slots, at); !slot.Available {
			t.Errorf("%s should be available, terminal appointments do not block", at)
		}
	}
}

func TestExcludedAppointmentDoesNotSelfBlock(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusScheduled, 9, 0),
	}

	slots := ResolveSlots(grid, appointments, "apt-1")

	slot := slotByTime(t, slots, "09:00")
	if !slot.Available {
		t.Error("the excluded appointment must not block its own slot")
	}
	if !slot.Current {
		t.Error("the excluded appointment's slot should be marked current")
	}

	// exactly one current slot
	currents := 0
	for _, s := range slots {
		if s.Current {
			currents++
		}
	}
	if currents != 1 {
		t.Errorf("got %d current slots, want 1", currents)
	}
}

func TestCurrentMarkedEvenWhenBlockedByAnother(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusScheduled, 9, 0),
		aptAt("apt-2", models.StatusScheduled, 9, 0),
	}

	slots := ResolveSlots(grid, appointments, "apt-1")

	slot := slotByTime(t, slots, "09:00")
	if slot.Available {
		t.Error("09:00 still blocked by the other scheduled appointment")
	}
	if !slot.Current {
		t.Error("09:00 should be marked current regardless of availability")
	}
}

func TestNoCurrentWithoutExclusion(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusScheduled, 9, 0),
	}

	for _, slot := range ResolveSlots(grid, appointments, "") {
		if slot.Current {
			t.Errorf("slot %s marked current with no exclusion", slot.Time)
		}
	}
}

func TestEmptyDayFullyAvailable(t *testing.T) {
	grid := mustGrid(t)
	slots := ResolveSlots(grid, nil, "")
	if len(slots) != 18 {
		t.Fatalf("got %d slots, want 18", len(slots))
	}
	for _, slot := range slots {
		if !slot.Available {
			t.Errorf("slot %s should be available on an empty day", slot.Time)
		}
	}
}

func TestOffGridAppointmentDoesNotDisturbGrid(t *testing.T) {
	grid := mustGrid(t)
	appointments := []models.Appointment{
		aptAt("apt-1", models.StatusScheduled, 9, 15),
	}

	slots := ResolveSlots(grid, appointments, "")
	for _, slot := range slots {
		if !slot.Available {
			t.Errorf("slot %s blocked by an off-grid appointment", slot.Time)
		}
	}
}
