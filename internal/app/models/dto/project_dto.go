package dto

import (
	"time"

	"github.com/yigit/advisorly/internal/app/models"
)

// CreateProjectRequest represents the data needed to create a project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=200" example:"Autonomous rover"`
	Description string  `json:"description" binding:"max=2000" example:"Senior design project"`
	MemberIDs   []int64 `json:"memberIds" binding:"omitempty,dive,min=1"`
}

// AddMemberRequest adds a student to a project roster
type AddMemberRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1" example:"20"`
}

// ProjectFilterRequest filters the project list
type ProjectFilterRequest struct {
	IncludeArchived bool `form:"includeArchived"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          int64      `json:"id" example:"5"`
	Name        string     `json:"name" example:"Autonomous rover"`
	Description string     `json:"description" example:"Senior design project"`
	AdvisorID   int64      `json:"advisorId" example:"3"`
	MemberIDs   []int64    `json:"memberIds"`
	Archived    bool       `json:"archived" example:"false"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FromProject converts a models.Project to a ProjectResponse
func FromProject(p *models.Project) ProjectResponse {
	members := p.MemberIDs
	if members == nil {
		members = []int64{}
	}
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		AdvisorID:   p.AdvisorID,
		MemberIDs:   members,
		Archived:    p.IsArchived(),
		ArchivedAt:  p.ArchivedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromProjects converts a slice of projects
func FromProjects(projects []*models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}
