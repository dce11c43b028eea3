package services

import (
	"context"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// appointmentLoader loads appointments together with the roster of their
// project and enforces visibility
type appointmentLoader struct {
	appointments AppointmentStore
	projects     ProjectStore
}

// roster returns the member IDs of the appointment's project, or nil
func (l appointmentLoader) roster(ctx context.Context, a *models.Appointment) ([]int64, error) {
	if a.ProjectID == nil {
		return nil, nil
	}
	return l.projects.MemberIDs(ctx, *a.ProjectID)
}

// load fetches an appointment the actor may see. Appointments the actor has no
// access to are reported as not found.
func (l appointmentLoader) load(ctx context.Context, id int64, actor workflow.Actor) (*models.Appointment, []int64, error) {
	a, err := l.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	members, err := l.roster(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	if !workflow.CanAccess(a, actor, members) {
		return nil, nil, apperrors.ErrAppointmentNotFound
	}
	return a, members, nil
}

// participants returns everyone involved in an appointment
func participants(a *models.Appointment, members []int64) []int64 {
	ids := []int64{a.AdvisorID}
	if a.StudentID != nil {
		return append(ids, *a.StudentID)
	}
	return append(ids, members...)
}
