package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/advisorly/internal/app/models"
	appRepos "github.com/yigit/advisorly/internal/app/repositories"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/auth"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "Advisorly123"

type demoUser struct {
	email     string
	firstName string
	lastName  string
	role      appModels.RoleType
}

var (
	demoAdvisor  = demoUser{"advisor@advisorly.test", "Grace", "Hopper", appModels.RoleAdvisor}
	demoStudents = []demoUser{
		{"ada@advisorly.test", "Ada", "Lovelace", appModels.RoleStudent},
		{"alan@advisorly.test", "Alan", "Turing", appModels.RoleStudent},
	}
)

// CreateDefaultData creates a demo advisor, two of their students and a shared
// project. Existing accounts are left untouched, so it is safe to run repeatedly.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	projectRepo := appRepos.NewProjectRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo data (advisor, students, project)...")

	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	advisor, err := ensureUser(ctx, userRepo, demoAdvisor, hashed, nil)
	if err != nil {
		lgr.Error().Err(err).Str("email", demoAdvisor.email).Msg("Error creating demo advisor")
		return err
	}

	var finalErr error
	var studentIDs []int64
	for _, s := range demoStudents {
		student, err := ensureUser(ctx, userRepo, s, hashed, &advisor.ID)
		if err != nil {
			lgr.Error().Err(err).Str("email", s.email).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		studentIDs = append(studentIDs, student.ID)
	}

	projects, err := projectRepo.ListByAdvisor(ctx, advisor.ID, true)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if len(projects) == 0 {
		project := &appModels.Project{
			Name:        "Senior Design",
			Description: "Demo project shared by the seeded students",
			AdvisorID:   advisor.ID,
			MemberIDs:   studentIDs,
		}
		if err := projectRepo.Create(ctx, project); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo project")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int64("projectID", project.ID).Msg("Demo project created")
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Demo data ready")
	}
	return finalErr
}

func ensureUser(ctx context.Context, repo *appRepos.UserRepository, u demoUser, hashed string, advisorID *int64) (*appModels.User, error) {
	existing, err := repo.GetByEmail(ctx, u.email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	user := &appModels.User{
		Email:     u.email,
		Password:  hashed,
		FirstName: u.firstName,
		LastName:  u.lastName,
		RoleType:  u.role,
		AdvisorID: advisorID,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
