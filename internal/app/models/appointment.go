package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending                    AppointmentStatus = "pending"
	StatusConfirmed                  AppointmentStatus = "confirmed"
	StatusRejected                   AppointmentStatus = "rejected"
	StatusCancelled                  AppointmentStatus = "cancelled"
	StatusCompleted                  AppointmentStatus = "completed"
	StatusFailed                     AppointmentStatus = "failed"
	StatusNoResponse                 AppointmentStatus = "no_response"
	StatusPendingStudentConfirmation AppointmentStatus = "pending_student_confirmation"
	StatusPendingAdvisorConfirmation AppointmentStatus = "pending_advisor_confirmation"
)

// AllStatuses lists every valid status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusFailed,
	StatusNoResponse,
	StatusPendingStudentConfirmation,
	StatusPendingAdvisorConfirmation,
}

// IsValid reports whether s is one of the defined statuses
func (s AppointmentStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no workflow event can leave s
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusFailed, StatusNoResponse, StatusCancelled:
		return true
	}
	return false
}

// IsDeletable reports whether an appointment in status s may be deleted.
// Cancelled appointments are terminal but can still be removed.
func (s AppointmentStatus) IsDeletable() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRejected, StatusNoResponse:
		return false
	}
	return true
}

// DateLayout and TimeLayout are the storage formats of Appointment.Date and Appointment.Time
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment represents a meeting between an advisor and a student (or a project's students)
type Appointment struct {
	ID        int64             `db:"id" json:"id"`
	Title     string            `db:"title" json:"title"`
	Date      string            `db:"date" json:"date"`
	Time      string            `db:"time" json:"time"`
	Location  string            `db:"location" json:"location"`
	Notes     *string           `db:"notes" json:"notes,omitempty"`
	Status    AppointmentStatus `db:"status" json:"status"`
	AdvisorID int64             `db:"advisor_id" json:"advisorId"`
	StudentID *int64            `db:"student_id" json:"studentId,omitempty"`
	ProjectID *int64            `db:"project_id" json:"projectId,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}

// IsProjectWide reports whether the appointment awaits a project member to claim it
func (a *Appointment) IsProjectWide() bool {
	return a.StudentID == nil && a.ProjectID != nil
}

// ScheduledAt combines Date and Time in loc
func (a *Appointment) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}

// Clone returns a copy that shares no pointers with a
func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.Notes != nil {
		n := *a.Notes
		c.Notes = &n
	}
	if a.StudentID != nil {
		s := *a.StudentID
		c.StudentID = &s
	}
	if a.ProjectID != nil {
		p := *a.ProjectID
		c.ProjectID = &p
	}
	return &c
}
