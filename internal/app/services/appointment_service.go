package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/repositories"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/helpers"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	CreateAppointment(ctx context.Context, actor workflow.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id int64, actor workflow.Actor) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor workflow.Actor, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	Transition(ctx context.Context, id int64, actor workflow.Actor, req *dto.TransitionRequest) (*dto.AppointmentResponse, error)
	UpdateFields(ctx context.Context, id int64, actor workflow.Actor, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id int64, actor workflow.Actor) error
	// SweepExpired moves every appointment still awaiting a response whose
	// scheduled moment has passed to no_response and returns how many moved
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// appointmentServiceImpl implements AppointmentService
type appointmentServiceImpl struct {
	appointmentLoader
	users    UserStore
	notifier Notifier
	loc      *time.Location
	logger   zerolog.Logger
}

// NewAppointmentService creates a new appointment service. loc is the timezone
// appointment dates and times are interpreted in.
func NewAppointmentService(
	appointments AppointmentStore,
	projects ProjectStore,
	users UserStore,
	notifier Notifier,
	loc *time.Location,
	logger zerolog.Logger,
) AppointmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &appointmentServiceImpl{
		appointmentLoader: appointmentLoader{appointments: appointments, projects: projects},
		users:             users,
		notifier:          notifier,
		loc:               loc,
		logger:            logger,
	}
}

func (s *appointmentServiceImpl) CreateAppointment(ctx context.Context, actor workflow.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	// Validate input
	title := strings.TrimSpace(req.Title)
	location := strings.TrimSpace(req.Location)
	if title == "" {
		return nil, apperrors.NewValidationError("Title cannot be empty")
	}
	if location == "" {
		return nil, apperrors.NewValidationError("Location cannot be empty")
	}
	if err := workflow.ValidateDate(req.Date); err != nil {
		return nil, err
	}
	if err := workflow.ValidateTime(req.Time); err != nil {
		return nil, err
	}

	a := &models.Appointment{
		Title:     title,
		Date:      req.Date,
		Time:      req.Time,
		Location:  location,
		Notes:     req.Notes,
		Status:    models.StatusPending,
		ProjectID: req.ProjectID,
	}

	var (
		project   *models.Project
		requester *models.User
	)
	// Resolve the advisor and the student binding from the creator's role
	switch actor.Role {
	case models.RoleStudent:
		user, err := s.users.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		requester = user
		studentID := actor.ID
		a.StudentID = &studentID

		// A project appointment goes to the project's advisor
		if req.ProjectID != nil {
			p, err := s.openProject(ctx, *req.ProjectID)
			if err != nil {
				return nil, err
			}
			if !p.HasMember(actor.ID) {
				return nil, apperrors.ErrProjectNotFound
			}
			project = p
			a.AdvisorID = p.AdvisorID
		} else {
			if user.AdvisorID == nil {
				return nil, apperrors.NewValidationError("You have no advisor assigned; choose one of your projects instead")
			}
			a.AdvisorID = *user.AdvisorID
		}

	case models.RoleAdvisor:
		// Advisors always open the appointment to a whole project
		if req.ProjectID == nil {
			return nil, apperrors.NewValidationError("Advisors must schedule appointments for one of their projects")
		}
		p, err := s.openProject(ctx, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if p.AdvisorID != actor.ID {
			return nil, apperrors.ErrProjectNotFound
		}
		project = p
		a.AdvisorID = actor.ID

	default:
		return nil, apperrors.NewForbiddenError("Only students and advisors can create appointments")
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Int64("actorID", actor.ID).Msg("Failed to create appointment")
		return nil, err
	}

	s.logger.Info().
		Int64("appointmentID", a.ID).
		Int64("actorID", actor.ID).
		Str("role", string(actor.Role)).
		Msg("Appointment created")

	s.notifier.Notify(ctx, creationIntents(a, project, requester))

	resp := dto.FromAppointment(a)
	return &resp, nil
}

// openProject loads a project that still accepts appointments
func (s *appointmentServiceImpl) openProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsArchived() {
		return nil, apperrors.ErrProjectArchived
	}
	return p, nil
}

// creationIntents notifies the advisor of a student's request, or the project
// members of an advisor's project-wide appointment
func creationIntents(a *models.Appointment, project *models.Project, requester *models.User) []workflow.NotificationIntent {
	when := fmt.Sprintf("%q on %s at %s", a.Title, a.Date, a.Time)

	if requester != nil {
		return []workflow.NotificationIntent{{
			UserID:        a.AdvisorID,
			Type:          models.NotificationAppointmentRequest,
			Title:         "New Appointment Request",
			Message:       fmt.Sprintf("%s requested an appointment %s.", requester.FullName(), when),
			AppointmentID: a.ID,
		}}
	}

	intents := make([]workflow.NotificationIntent, 0, len(project.MemberIDs))
	for _, id := range project.MemberIDs {
		intents = append(intents, workflow.NotificationIntent{
			UserID:        id,
			Type:          models.NotificationAppointmentCreated,
			Title:         "New Project Appointment",
			Message:       fmt.Sprintf("Your advisor scheduled %s for %s. Please accept or decline.", when, project.Name),
			AppointmentID: a.ID,
		})
	}
	return intents
}

func (s *appointmentServiceImpl) GetAppointment(ctx context.Context, id int64, actor workflow.Actor) (*dto.AppointmentResponse, error) {
	a, _, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	resp := dto.FromAppointment(a)
	return &resp, nil
}

func (s *appointmentServiceImpl) ListAppointments(ctx context.Context, actor workflow.Actor, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	if filter == nil {
		filter = &dto.AppointmentFilterRequest{}
	}
	page, size := helpers.NormalizePage(filter.Page, filter.PageSize)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	f := repositories.AppointmentFilter{
		Status:    models.AppointmentStatus(filter.Status),
		ProjectID: filter.ProjectID,
		FromDate:  filter.From,
		ToDate:    filter.To,
		Offset:    offset,
		Limit:     limit,
	}
	actorID := actor.ID
	switch actor.Role {
	case models.RoleAdvisor:
		f.AdvisorID = &actorID
	case models.RoleStudent:
		f.VisibleToStudent = &actorID
	default:
		return nil, apperrors.NewForbiddenError("Only students and advisors can list appointments")
	}

	items, total, err := s.appointments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: dto.FromAppointments(items),
		Pagination:   helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *appointmentServiceImpl) Transition(ctx context.Context, id int64, actor workflow.Actor, req *dto.TransitionRequest) (*dto.AppointmentResponse, error) {
	event := workflow.Event(req.Event)
	if event == workflow.EventEdit {
		return s.UpdateFields(ctx, id, actor, &dto.UpdateAppointmentRequest{
			Date:     req.Date,
			Time:     req.Time,
			Location: req.Location,
		})
	}

	a, members, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	// Check the transition against the current state
	d, err := workflow.Decide(workflow.Input{
		Appointment: a,
		Actor:       actor,
		Event:       event,
		Members:     members,
		Reason:      req.Reason,
	})
	if err != nil {
		return nil, err
	}

	// Persist only if nobody moved the appointment since it was read
	updated := a.Clone()
	d.Apply(updated)
	if err := s.appointments.UpdateIfStatus(ctx, updated, d.From); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("appointmentID", id).
		Int64("actorID", actor.ID).
		Str("event", string(d.Event)).
		Str("from", string(d.From)).
		Str("to", string(d.To)).
		Msg("Appointment transitioned")

	s.notifier.Notify(ctx, d.Intents)

	resp := dto.FromAppointment(updated)
	return &resp, nil
}

func (s *appointmentServiceImpl) UpdateFields(ctx context.Context, id int64, actor workflow.Actor, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patch := workflow.Patch{
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Notes:    req.Notes,
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewValidationError("Nothing to update")
	}

	a, members, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	plan, err := workflow.PlanUpdate(a, patch, actor, members)
	if err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateIfStatus(ctx, plan.Updated, a.Status); err != nil {
		return nil, err
	}

	if plan.Decision != nil {
		s.logger.Info().
			Int64("appointmentID", id).
			Int64("actorID", actor.ID).
			Str("from", string(plan.Decision.From)).
			Str("to", string(plan.Decision.To)).
			Msg("Appointment schedule changed")
		s.notifier.Notify(ctx, plan.Decision.Intents)
	}

	resp := dto.FromAppointment(plan.Updated)
	return &resp, nil
}

func (s *appointmentServiceImpl) DeleteAppointment(ctx context.Context, id int64, actor workflow.Actor) error {
	a, _, err := s.load(ctx, id, actor)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleStudent && (a.StudentID == nil || *a.StudentID != actor.ID) {
		return apperrors.NewForbiddenError("Only the advisor or the appointment's student can delete it")
	}
	if err := workflow.CanDelete(a); err != nil {
		return err
	}
	if err := s.appointments.DeleteIfStatus(ctx, id, a.Status); err != nil {
		return err
	}

	s.logger.Info().Int64("appointmentID", id).Int64("actorID", actor.ID).Msg("Appointment deleted")
	return nil
}

func (s *appointmentServiceImpl) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	// Narrow the candidates in SQL, then apply the exact minute check
	date, tod := workflow.Cutoff(now, s.loc)
	candidates, err := s.appointments.ListExpirable(ctx, date, tod)
	if err != nil {
		return 0, err
	}

	expired := 0
	var errs []error
	for _, a := range candidates {
		if !workflow.IsExpired(a, now, s.loc) {
			continue
		}
		d, err := workflow.Decide(workflow.Input{
			Appointment: a,
			Actor:       workflow.SystemActor,
			Event:       workflow.EventExpire,
		})
		if err != nil {
			s.logger.Warn().Err(err).Int64("appointmentID", a.ID).Msg("Skipping appointment during sweep")
			continue
		}

		updated := a.Clone()
		d.Apply(updated)
		if err := s.appointments.UpdateIfStatus(ctx, updated, d.From); err != nil {
			if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrResourceNotFound) {
				// answered or removed since the candidate query
				s.logger.Debug().Int64("appointmentID", a.ID).Msg("Appointment changed during sweep")
				continue
			}
			s.logger.Error().Err(err).Int64("appointmentID", a.ID).Msg("Failed to expire appointment")
			errs = append(errs, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info().Int("expired", expired).Str("cutoff", date+" "+tod).Msg("Expired unanswered appointments")
	}
	return expired, errors.Join(errs...)
}
