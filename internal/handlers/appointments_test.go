package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"hospital-management-server/internal/models"
)

func TestCanViewAppointment(t *testing.T) {
	apt := &models.Appointment{PatientID: "p1", DoctorID: "d1"}

	tests := []struct {
		name   string
		userID string
		role   models.Role
		want   bool
	}{
		{"owning patient", "p1", models.RolePatient, true},
		{"another patient", "p2", models.RolePatient, false},
		{"involved doctor", "d1", models.RoleDoctor, true},
		{"other doctor", "d2", models.RoleDoctor, false},
		{"admin", "anyone", models.RoleAdmin, true},
		{"nurse", "anyone", models.RoleNurse, true},
		{"receptionist", "anyone", models.RoleReceptionist, true},
		{"unknown role", "p1", models.Role("GUEST"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canViewAppointment(tt.userID, tt.role, apt); got != tt.want {
				t.Errorf("canViewAppointment(%s, %s) = %v, want %v", tt.userID, tt.role, got, tt.want)
			}
		})
	}
}

func TestCanViewExam(t *testing.T) {
	exam := &models.MedicalExam{PatientID: "p1", DoctorID: "d1"}

	if !canViewExam("p1", models.RolePatient, exam) {
		t.Error("patient should see their own exam")
	}
	if canViewExam("p2", models.RolePatient, exam) {
		t.Error("patient must not see another patient's exam")
	}
	if canViewExam("anyone", models.RoleReceptionist, exam) {
		t.Error("receptionists have no access to clinical records")
	}
	if !canViewExam("anyone", models.RoleNurse, exam) {
		t.Error("nurses should see exams")
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "appointment_time asc"},
		{"appointmentTime,desc", "appointment_time desc"},
		{"createdAt,asc", "created_at asc"},
		{"status,desc", "status desc"},
		{"evil; DROP TABLE--,desc", "appointment_time desc"},
		{"appointmentTime", "appointment_time asc"},
	}

	for _, tt := range tests {
		if got := parseSort(tt.in); got != tt.want {
			t.Errorf("parseSort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/appointments?"+query, nil)
		return c
	}

	page, size := parsePagination(newCtx(""))
	if page != 0 || size != 20 {
		t.Errorf("defaults = (%d, %d), want (0, 20)", page, size)
	}

	page, size = parsePagination(newCtx("page=3&size=50"))
	if page != 3 || size != 50 {
		t.Errorf("explicit = (%d, %d), want (3, 50)", page, size)
	}

	page, size = parsePagination(newCtx("page=-1&size=1000"))
	if page != 0 || size != 100 {
		t.Errorf("clamped = (%d, %d), want (0, 100)", page, size)
	}
}
