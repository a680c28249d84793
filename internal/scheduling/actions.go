package scheduling

import (
	"hospital-management-server/internal/models"
)

// Action is a UI-facing operation that may be offered for an appointment.
type Action string

const (
	ActionView         Action = "VIEW"
	ActionEdit         Action = "EDIT" // covers reschedule
	ActionCancel       Action = "CANCEL"
	ActionComplete     Action = "COMPLETE"
	ActionRecordVitals Action = "RECORD_VITALS"
)

// scheduledActions maps each role to the actions it may take while an
// appointment is still SCHEDULED. Terminal statuses allow viewing only,
// so they need no table of their own.
var scheduledActions = map[models.Role][]Action{
	models.RoleAdmin:        {ActionView, ActionEdit, ActionCancel, ActionComplete},
	models.RoleDoctor:       {ActionView, ActionCancel, ActionComplete},
	models.RoleNurse:        {ActionView, ActionEdit, ActionRecordVitals},
	models.RoleReceptionist: {ActionView},
	models.RolePatient:      {ActionView, ActionCancel},
}

// AllowedActions returns the set of actions a role may be offered for an
// appointment in the given status. It is total: unknown roles and unknown
// statuses yield an empty set. Ownership checks (a patient may only act
// on their own appointment) are layered on top by the caller.
func AllowedActions(status models.AppointmentStatus, role models.Role) []Action {
	switch status {
	case models.StatusScheduled:
		actions, ok := scheduledActions[role]
		if !ok {
			return nil
		}
		out := make([]Action, len(actions))
		copy(out, actions)
		return out
	case models.StatusCompleted, models.StatusCancelled, models.StatusNoShow:
		if _, ok := scheduledActions[role]; !ok {
			return nil
		}
		return []Action{ActionView}
	}
	return nil
}

// Can reports whether the role is offered the given action for the status.
func Can(status models.AppointmentStatus, role models.Role, action Action) bool {
	for _, a := range AllowedActions(status, role) {
		if a == action {
			return true
		}
	}
	return false
}
