package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// Patch is a partial update of an appointment's editable fields. Nil means unchanged.
type Patch struct {
	Title    *string
	Date     *string
	Time     *string
	Location *string
	Notes    *string
}

// IsEmpty reports whether the patch carries no fields
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil && p.Location == nil && p.Notes == nil
}

// Validate checks the formats of the fields present in p
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperrors.NewValidationError("Title cannot be empty")
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		return apperrors.NewValidationError("Location cannot be empty")
	}
	if p.Date != nil {
		if err := ValidateDate(*p.Date); err != nil {
			return err
		}
	}
	if p.Time != nil {
		if err := ValidateTime(*p.Time); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date
func ValidateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}
	return nil
}

// ValidateTime checks an HH:MM time of day
func ValidateTime(tod string) error {
	if _, err := time.Parse(models.TimeLayout, tod); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid time %q, expected HH:MM", tod))
	}
	return nil
}

// Plan is the result of PlanUpdate
type Plan struct {
	// Updated is the appointment to persist
	Updated *models.Appointment
	// Decision is set when the update is an edit event
	Decision *Decision
}

func isStudentOf(a *models.Appointment, userID int64) bool {
	return a.StudentID != nil && *a.StudentID == userID
}

// PlanUpdate applies p to a copy of current and works out whether the change
// is a workflow edit. Schedule changes (date, time, location) go through the
// edit event. A title change is accepted without transition unless the
// appointment is terminal. Notes can always be changed.
func PlanUpdate(current *models.Appointment, p Patch, actor Actor, members []int64) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	// students only edit their own appointments, whatever the field
	if actor.Role == models.RoleStudent && !isStudentOf(current, actor.ID) {
		return Plan{}, apperrors.NewForbiddenError("Only the appointment's student can edit it")
	}

	updated := current.Clone()
	scheduleChanged := false
	if p.Date != nil && *p.Date != current.Date {
		updated.Date = *p.Date
		scheduleChanged = true
	}
	if p.Time != nil && *p.Time != current.Time {
		updated.Time = *p.Time
		scheduleChanged = true
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) != current.Location {
		updated.Location = strings.TrimSpace(*p.Location)
		scheduleChanged = true
	}
	titleChanged := false
	if p.Title != nil && strings.TrimSpace(*p.Title) != current.Title {
		updated.Title = strings.TrimSpace(*p.Title)
		titleChanged = true
	}
	if p.Notes != nil {
		notes := *p.Notes
		updated.Notes = &notes
	}

	if scheduleChanged {
		d, err := Decide(Input{Appointment: updated, Actor: actor, Event: EventEdit, Members: members})
		if err != nil {
			return Plan{}, err
		}
		d.Apply(updated)
		return Plan{Updated: updated, Decision: &d}, nil
	}

	if titleChanged && current.Status.IsTerminal() {
		return Plan{}, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("Only notes can be changed on an appointment that is %s", current.Status))
	}
	return Plan{Updated: updated}, nil
}
