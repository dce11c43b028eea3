package dto

import (
	"time"

	"github.com/yigit/advisorly/internal/app/models"
)

// CreateAppointmentRequest represents the data needed to request an appointment.
// Advisors must give a projectId; students may give one to address a project's advisor.
type CreateAppointmentRequest struct {
	Title     string  `json:"title" binding:"required,notblank,max=200" example:"Thesis review"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02" example:"2026-03-10"`
	Time      string  `json:"time" binding:"required,datetime=15:04" example:"14:00"`
	Location  string  `json:"location" binding:"required,notblank,max=200" example:"Room 101"`
	Notes     *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
	ProjectID *int64  `json:"projectId,omitempty" binding:"omitempty,min=1" example:"5"`
}

// UpdateAppointmentRequest is a partial update. Changing date, time or location
// asks the other side to confirm again.
type UpdateAppointmentRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Date     *string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time,omitempty" binding:"omitempty,datetime=15:04"`
	Location *string `json:"location,omitempty" binding:"omitempty,max=200"`
	Notes    *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// TransitionRequest asks for a workflow event. The schedule fields are only
// read for the edit event.
type TransitionRequest struct {
	Event    string  `json:"event" binding:"required,oneof=confirm reject accept student_reject edit confirm_changes complete fail cancel" example:"confirm"`
	Reason   string  `json:"reason,omitempty" binding:"max=1000"`
	Date     *string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time,omitempty" binding:"omitempty,datetime=15:04"`
	Location *string `json:"location,omitempty" binding:"omitempty,max=200"`
}

// AppointmentFilterRequest filters the appointment list
type AppointmentFilterRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed rejected cancelled completed failed no_response pending_student_confirmation pending_advisor_confirmation"`
	ProjectID *int64 `form:"projectId" binding:"omitempty,min=1"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID        int64                    `json:"id" example:"42"`
	Title     string                   `json:"title" example:"Thesis review"`
	Date      string                   `json:"date" example:"2026-03-10"`
	Time      string                   `json:"time" example:"14:00"`
	Location  string                   `json:"location" example:"Room 101"`
	Notes     *string                  `json:"notes,omitempty"`
	Status    models.AppointmentStatus `json:"status" example:"pending"`
	AdvisorID int64                    `json:"advisorId" example:"3"`
	StudentID *int64                   `json:"studentId,omitempty" example:"20"`
	ProjectID *int64                   `json:"projectId,omitempty" example:"5"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// AppointmentListResponse is a page of appointments
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// FromAppointment converts a models.Appointment to an AppointmentResponse
func FromAppointment(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		Title:     a.Title,
		Date:      a.Date,
		Time:      a.Time,
		Location:  a.Location,
		Notes:     a.Notes,
		Status:    a.Status,
		AdvisorID: a.AdvisorID,
		StudentID: a.StudentID,
		ProjectID: a.ProjectID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromAppointments converts a slice of appointments
func FromAppointments(items []*models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, FromAppointment(a))
	}
	return out
}
