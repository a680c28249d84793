package client

import (
	"fmt"
	"strings"
	"sync"
)

// invalidation is the declared set of cached views a mutation makes
// stale: every list view that could contain the appointment, plus its
// detail view. It is carried explicitly by each mutation rather than
// inferred from key structure.
type invalidation struct {
	doctorID      string
	patientID     string
	appointmentID string
}

// viewCache is a small read-through cache for list and detail views.
// Slot queries never pass through it.
type viewCache struct {
	mu      sync.Mutex
	details map[string]Appointment
	lists   map[string]listEntry
}

type listEntry struct {
	page      AppointmentPage
	doctorID  string
	patientID string
}

func newViewCache() *viewCache {
	return &viewCache{
		details: make(map[string]Appointment),
		lists:   make(map[string]listEntry),
	}
}

func listKey(q ListQuery) string {
	return strings.Join([]string{
		"doctor=" + q.DoctorID,
		"patient=" + q.PatientID,
		"status=" + q.Status,
		"start=" + q.StartDate,
		"end=" + q.EndDate,
		fmt.Sprintf("page=%d", q.Page),
		fmt.Sprintf("size=%d", q.Size),
		"sort=" + q.Sort,
	}, "&")
}

func (vc *viewCache) getDetail(id string) (Appointment, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	apt, ok := vc.details[id]
	return apt, ok
}

func (vc *viewCache) putDetail(apt Appointment) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.details[apt.ID] = apt
}

func (vc *viewCache) getList(q ListQuery) (AppointmentPage, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	entry, ok := vc.lists[listKey(q)]
	return entry.page, ok
}

func (vc *viewCache) putList(q ListQuery, page AppointmentPage) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.lists[listKey(q)] = listEntry{page: page, doctorID: q.DoctorID, patientID: q.PatientID}
}

// apply drops every cached view named by the invalidation. A list
// filtered by a different doctor or a different patient cannot contain
// the appointment and survives; unfiltered lists always go.
func (vc *viewCache) apply(inv invalidation) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	delete(vc.details, inv.appointmentID)

	for key, entry := range vc.lists {
		couldContainDoctor := entry.doctorID == "" || entry.doctorID == inv.doctorID
		couldContainPatient := entry.patientID == "" || entry.patientID == inv.patientID
		if couldContainDoctor && couldContainPatient {
			delete(vc.lists, key)
		}
	}
}
