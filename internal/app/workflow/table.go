package workflow

import (
	"fmt"
	"strings"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

type transitionKey struct {
	from  models.AppointmentStatus
	event Event
}

// binding restricts which appointments (and which students) a rule applies to
type binding int

const (
	anyBinding binding = iota
	// the appointment must already have a student
	studentBound
	// the appointment must be project-wide and the actor on its roster
	projectWide
	// the actor must be the appointment's student
	boundToActor
)

// recipient selects who receives a rule's notification
type recipient int

const (
	nobody recipient = iota
	// the bound student, or every project member while unbound
	toStudents
	toAdvisor
)

type rule struct {
	to      models.AppointmentStatus
	binding binding
	claim   bool

	notify  recipient
	kind    models.NotificationType
	title   string
	message func(a *models.Appointment, in Input) string
}

func (r rule) check(in Input) error {
	a := in.Appointment
	switch r.binding {
	case studentBound:
		if a.StudentID == nil {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("Cannot %s a project-wide appointment; a project member must respond", in.Event))
		}
	case projectWide:
		if !a.IsProjectWide() {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("Cannot %s an appointment that is already bound to a student", in.Event))
		}
		if !containsID(in.Members, in.Actor.ID) {
			return apperrors.NewForbiddenError("Only members of the project can respond to this appointment")
		}
	case boundToActor:
		if a.StudentID == nil || *a.StudentID != in.Actor.ID {
			return apperrors.NewForbiddenError(
				fmt.Sprintf("Only the appointment's student can %s it", in.Event))
		}
	}
	return nil
}

func (r rule) intents(a *models.Appointment, in Input) []NotificationIntent {
	if r.notify == nobody {
		return nil
	}

	var userIDs []int64
	switch r.notify {
	case toAdvisor:
		userIDs = []int64{a.AdvisorID}
	case toStudents:
		if a.StudentID != nil {
			userIDs = []int64{*a.StudentID}
		} else {
			userIDs = in.Members
		}
	}

	msg := r.message(a, in)
	intents := make([]NotificationIntent, 0, len(userIDs))
	for _, id := range userIDs {
		if id == in.Actor.ID {
			continue
		}
		intents = append(intents, NotificationIntent{
			UserID:        id,
			Type:          r.kind,
			Title:         r.title,
			Message:       msg,
			AppointmentID: a.ID,
		})
	}
	return intents
}

var table = buildTable()

func buildTable() map[transitionKey]map[models.RoleType]rule {
	t := make(map[transitionKey]map[models.RoleType]rule)
	add := func(from models.AppointmentStatus, ev Event, role models.RoleType, r rule) {
		k := transitionKey{from: from, event: ev}
		if t[k] == nil {
			t[k] = make(map[models.RoleType]rule)
		}
		t[k][role] = r
	}

	// first response to a new appointment
	add(models.StatusPending, EventConfirm, models.RoleAdvisor, rule{
		to: models.StatusConfirmed, binding: studentBound,
		notify: toStudents, kind: models.NotificationAppointmentConfirmed,
		title: "Appointment Confirmed", message: confirmedMessage,
	})
	add(models.StatusPending, EventReject, models.RoleAdvisor, rule{
		to: models.StatusRejected, binding: studentBound,
		notify: toStudents, kind: models.NotificationAppointmentRejected,
		title: "Appointment Rejected", message: rejectedMessage,
	})
	add(models.StatusPending, EventAccept, models.RoleStudent, rule{
		to: models.StatusConfirmed, binding: projectWide, claim: true,
		notify: toAdvisor, kind: models.NotificationAppointmentAccepted,
		title: "Appointment Accepted", message: acceptedMessage,
	})
	add(models.StatusPending, EventStudentReject, models.RoleStudent, rule{
		to: models.StatusRejected, binding: projectWide,
		notify: toAdvisor, kind: models.NotificationAppointmentDeclined,
		title: "Appointment Declined", message: declinedMessage,
	})

	// schedule changes
	add(models.StatusPending, EventEdit, models.RoleAdvisor, rule{to: models.StatusPending})
	add(models.StatusPending, EventEdit, models.RoleStudent, rule{to: models.StatusPending, binding: boundToActor})
	add(models.StatusConfirmed, EventEdit, models.RoleAdvisor, rule{
		to:     models.StatusPendingStudentConfirmation,
		notify: toStudents, kind: models.NotificationAppointmentChanged,
		title: "Appointment Changed", message: changedMessage,
	})
	add(models.StatusConfirmed, EventEdit, models.RoleStudent, rule{
		to: models.StatusPendingAdvisorConfirmation, binding: boundToActor,
		notify: toAdvisor, kind: models.NotificationAppointmentChanged,
		title: "Appointment Changed", message: changedMessage,
	})
	add(models.StatusPendingStudentConfirmation, EventEdit, models.RoleAdvisor, rule{
		to:     models.StatusPendingStudentConfirmation,
		notify: toStudents, kind: models.NotificationAppointmentChanged,
		title: "Appointment Changed", message: changedMessage,
	})
	add(models.StatusPendingAdvisorConfirmation, EventEdit, models.RoleStudent, rule{
		to: models.StatusPendingAdvisorConfirmation, binding: boundToActor,
		notify: toAdvisor, kind: models.NotificationAppointmentChanged,
		title: "Appointment Changed", message: changedMessage,
	})
	add(models.StatusPendingStudentConfirmation, EventConfirmChanges, models.RoleStudent, rule{
		to: models.StatusConfirmed, binding: boundToActor,
		notify: toAdvisor, kind: models.NotificationChangesConfirmed,
		title: "Changes Confirmed", message: changesConfirmedMessage,
	})
	add(models.StatusPendingAdvisorConfirmation, EventConfirmChanges, models.RoleAdvisor, rule{
		to:     models.StatusConfirmed,
		notify: toStudents, kind: models.NotificationChangesConfirmed,
		title: "Changes Confirmed", message: changesConfirmedMessage,
	})

	// outcome of a confirmed meeting
	for _, ev := range []Event{EventComplete, EventFail} {
		to := models.StatusCompleted
		if ev == EventFail {
			to = models.StatusFailed
		}
		add(models.StatusConfirmed, ev, models.RoleAdvisor, rule{to: to})
		add(models.StatusConfirmed, ev, models.RoleStudent, rule{to: to, binding: boundToActor})
	}

	for _, from := range []models.AppointmentStatus{models.StatusPending, models.StatusPendingStudentConfirmation} {
		add(from, EventExpire, models.RoleSystem, rule{to: models.StatusNoResponse})
	}

	for _, from := range models.AllStatuses {
		if from.IsTerminal() {
			continue
		}
		add(from, EventCancel, models.RoleAdvisor, rule{to: models.StatusCancelled})
		add(from, EventCancel, models.RoleStudent, rule{to: models.StatusCancelled, binding: boundToActor})
	}

	return t
}

func describe(a *models.Appointment) string {
	return fmt.Sprintf("%q on %s at %s", a.Title, a.Date, a.Time)
}

func confirmedMessage(a *models.Appointment, _ Input) string {
	return fmt.Sprintf("Your appointment %s has been confirmed.", describe(a))
}

func rejectedMessage(a *models.Appointment, _ Input) string {
	return fmt.Sprintf("Your appointment request %s has been rejected.", describe(a))
}

func acceptedMessage(a *models.Appointment, _ Input) string {
	return fmt.Sprintf("A project member accepted the appointment %s.", describe(a))
}

func declinedMessage(a *models.Appointment, in Input) string {
	msg := fmt.Sprintf("A project member declined the appointment %s.", describe(a))
	if reason := strings.TrimSpace(in.Reason); reason != "" {
		msg += " Reason: " + reason
	}
	return msg
}

func changedMessage(a *models.Appointment, _ Input) string {
	return fmt.Sprintf("The appointment %q was changed to %s at %s, %s. Please confirm the new details.",
		a.Title, a.Date, a.Time, a.Location)
}

func changesConfirmedMessage(a *models.Appointment, _ Input) string {
	return fmt.Sprintf("The new details of the appointment %s have been confirmed.", describe(a))
}
