package workflow

import (
	"time"

	"github.com/yigit/advisorly/internal/app/models"
)

// ExpirableStatuses are the statuses the sweep considers
var ExpirableStatuses = []models.AppointmentStatus{
	models.StatusPending,
	models.StatusPendingStudentConfirmation,
}

// IsExpired reports whether a is still awaiting a response and its scheduled
// moment is strictly before now, both read in loc at minute precision.
// Appointments whose date or time cannot be parsed never expire.
func IsExpired(a *models.Appointment, now time.Time, loc *time.Location) bool {
	if a.Status != models.StatusPending && a.Status != models.StatusPendingStudentConfirmation {
		return false
	}
	at, err := a.ScheduledAt(loc)
	if err != nil {
		return false
	}
	return at.Before(now.In(loc).Truncate(time.Minute))
}

// Cutoff splits now into the date and time strings the storage layer compares
// against, in loc.
func Cutoff(now time.Time, loc *time.Location) (date, tod string) {
	local := now.In(loc)
	return local.Format(models.DateLayout), local.Format(models.TimeLayout)
}
