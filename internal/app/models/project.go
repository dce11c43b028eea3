package models

import "time"

// Project is an advisor-owned group of students. Appointments may be attached to it.
type Project struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	AdvisorID   int64      `db:"advisor_id" json:"advisorId"`
	ArchivedAt  *time.Time `db:"archived_at" json:"archivedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	// Student ids from project_students
	MemberIDs []int64 `json:"memberIds"`
}

// IsArchived reports whether the project has been archived
func (p *Project) IsArchived() bool {
	return p.ArchivedAt != nil
}

// HasMember reports whether studentID is on the roster
func (p *Project) HasMember(studentID int64) bool {
	for _, id := range p.MemberIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// ProjectArchive is the snapshot written to 'project_archive' when a project is archived
type ProjectArchive struct {
	ID          int64     `db:"id" json:"id"`
	ProjectID   int64     `db:"project_id" json:"projectId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	AdvisorID   int64     `db:"advisor_id" json:"advisorId"`
	MemberIDs   []int64   `db:"member_ids" json:"memberIds"`
	ArchivedAt  time.Time `db:"archived_at" json:"archivedAt"`
}
