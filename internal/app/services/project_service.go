package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// ProjectService defines the interface for project operations
type ProjectService interface {
	CreateProject(ctx context.Context, actor workflow.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, actor workflow.Actor, id int64) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, actor workflow.Actor, includeArchived bool) ([]dto.ProjectResponse, error)
	AddMember(ctx context.Context, actor workflow.Actor, projectID, studentID int64) (*dto.ProjectResponse, error)
	RemoveMember(ctx context.Context, actor workflow.Actor, projectID, studentID int64) error
	ArchiveProject(ctx context.Context, actor workflow.Actor, projectID int64) (*models.ProjectArchive, error)
}

// projectServiceImpl implements ProjectService
type projectServiceImpl struct {
	projects ProjectStore
	users    UserStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects ProjectStore, users UserStore, logger zerolog.Logger) ProjectService {
	return &projectServiceImpl{
		projects: projects,
		users:    users,
		now:      time.Now,
		logger:   logger,
	}
}

// requireStudent checks that id belongs to a student account
func (s *projectServiceImpl) requireStudent(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewValidationError("Student does not exist")
		}
		return err
	}
	if user.RoleType != models.RoleStudent {
		return apperrors.NewValidationError("Only students can be project members")
	}
	return nil
}

// owned loads a project the advisor owns. Projects of other advisors are
// reported as not found.
func (s *projectServiceImpl) owned(ctx context.Context, actor workflow.Actor, id int64) (*models.Project, error) {
	if actor.Role != models.RoleAdvisor {
		return nil, apperrors.NewForbiddenError("Only advisors can manage projects")
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AdvisorID != actor.ID {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, actor workflow.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if actor.Role != models.RoleAdvisor {
		return nil, apperrors.NewForbiddenError("Only advisors can create projects")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Project name cannot be empty")
	}

	seen := make(map[int64]bool, len(req.MemberIDs))
	members := make([]int64, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.requireStudent(ctx, id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}

	p := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		AdvisorID:   actor.ID,
		MemberIDs:   members,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Int64("advisorID", actor.ID).Msg("Failed to create project")
		return nil, err
	}

	s.logger.Info().Int64("projectID", p.ID).Int("members", len(members)).Msg("Project created")
	resp := dto.FromProject(p)
	return &resp, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, actor workflow.Actor, id int64) (*dto.ProjectResponse, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visible := (actor.Role == models.RoleAdvisor && p.AdvisorID == actor.ID) ||
		(actor.Role == models.RoleStudent && p.HasMember(actor.ID))
	if !visible {
		return nil, apperrors.ErrProjectNotFound
	}
	resp := dto.FromProject(p)
	return &resp, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, actor workflow.Actor, includeArchived bool) ([]dto.ProjectResponse, error) {
	var (
		projects []*models.Project
		err      error
	)
	switch actor.Role {
	case models.RoleAdvisor:
		projects, err = s.projects.ListByAdvisor(ctx, actor.ID, includeArchived)
	case models.RoleStudent:
		projects, err = s.projects.ListByMember(ctx, actor.ID, includeArchived)
	default:
		return nil, apperrors.NewForbiddenError("Only students and advisors have projects")
	}
	if err != nil {
		return nil, err
	}
	return dto.FromProjects(projects), nil
}

func (s *projectServiceImpl) AddMember(ctx context.Context, actor workflow.Actor, projectID, studentID int64) (*dto.ProjectResponse, error) {
	p, err := s.owned(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if p.IsArchived() {
		return nil, apperrors.ErrProjectArchived
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	if err := s.projects.AddMember(ctx, projectID, studentID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectID", projectID).Int64("studentID", studentID).Msg("Project member added")
	p.MemberIDs = append(p.MemberIDs, studentID)
	resp := dto.FromProject(p)
	return &resp, nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, actor workflow.Actor, projectID, studentID int64) error {
	p, err := s.owned(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if p.IsArchived() {
		return apperrors.ErrProjectArchived
	}
	if err := s.projects.RemoveMember(ctx, projectID, studentID); err != nil {
		return err
	}
	s.logger.Info().Int64("projectID", projectID).Int64("studentID", studentID).Msg("Project member removed")
	return nil
}

func (s *projectServiceImpl) ArchiveProject(ctx context.Context, actor workflow.Actor, projectID int64) (*models.ProjectArchive, error) {
	if _, err := s.owned(ctx, actor, projectID); err != nil {
		return nil, err
	}
	archive, err := s.projects.Archive(ctx, projectID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("projectID", projectID).Int64("archiveID", archive.ID).Msg("Project archived")
	return archive, nil
}
