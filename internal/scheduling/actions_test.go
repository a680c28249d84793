package scheduling

import (
	"testing"

	"hospital-management-server/internal/models"
)

var allStatuses = []models.AppointmentStatus{
	models.StatusScheduled,
	models.StatusCompleted,
	models.StatusCancelled,
	models.StatusNoShow,
}

var allRoles = []models.Role{
	models.RoleAdmin,
	models.RoleDoctor,
	models.RoleNurse,
	models.RoleReceptionist,
	models.RolePatient,
}

func contains(actions []Action, a Action) bool {
	for _, got := range actions {
		if got == a {
			return true
		}
	}
	return false
}

func TestTerminalStatusesAllowViewOnly(t *testing.T) {
	for _, status := range allStatuses[1:] {
		for _, role := range allRoles {
			actions := AllowedActions(status, role)
			if len(actions) != 1 || actions[0] != ActionView {
				t.Errorf("AllowedActions(%s, %s) = %v, want [VIEW]", status, role, actions)
			}
		}
	}
}

func TestScheduledActionsPerRole(t *testing.T) {
	tests := []struct {
		role models.Role
		want []Action
	}{
		{models.RoleAdmin, []Action{ActionView, ActionEdit, ActionCancel, ActionComplete}},
		{models.RoleDoctor, []Action{ActionView, ActionCancel, ActionComplete}},
		{models.RoleNurse, []Action{ActionView, ActionEdit, ActionRecordVitals}},
		{models.RoleReceptionist, []Action{ActionView}},
		{models.RolePatient, []Action{ActionView, ActionCancel}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := AllowedActions(models.StatusScheduled, tt.role)
			if len(got) != len(tt.want) {
				t.Fatalf("AllowedActions(SCHEDULED, %s) = %v, want %v", tt.role, got, tt.want)
			}
			for _, action := range tt.want {
				if !contains(got, action) {
					t.Errorf("AllowedActions(SCHEDULED, %s) missing %s", tt.role, action)
				}
			}
		})
	}
}

func TestUnknownRoleGetsEmptySet(t *testing.T) {
	for _, status := range allStatuses {
		if actions := AllowedActions(status, models.Role("JANITOR")); len(actions) != 0 {
			t.Errorf("AllowedActions(%s, JANITOR) = %v, want empty", status, actions)
		}
	}
}

func TestUnknownStatusGetsEmptySet(t *testing.T) {
	for _, role := range allRoles {
		if actions := AllowedActions(models.AppointmentStatus("LIMBO"), role); len(actions) != 0 {
			t.Errorf("AllowedActions(LIMBO, %s) = %v, want empty", role, actions)
		}
	}
}

func TestCan(t *testing.T) {
	if !Can(models.StatusScheduled, models.RoleDoctor, ActionComplete) {
		t.Error("doctor should be able to complete a scheduled appointment")
	}
	if Can(models.StatusScheduled, models.RolePatient, ActionComplete) {
		t.Error("patient should not be able to complete an appointment")
	}
	if Can(models.StatusCompleted, models.RoleAdmin, ActionCancel) {
		t.Error("no one cancels a completed appointment")
	}
}

func TestAllowedActionsReturnsCopy(t *testing.T) {
	first := AllowedActions(models.StatusScheduled, models.RoleAdmin)
	first[0] = ActionRecordVitals
	second := AllowedActions(models.StatusScheduled, models.RoleAdmin)
	if second[0] != ActionView {
		t.Error("mutating a returned action slice must not affect the table")
	}
}
