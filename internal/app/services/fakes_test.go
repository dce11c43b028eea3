package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/repositories"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

func ptr[T any](v T) *T { return &v }

// memoryDB is an in-memory implementation of every store
type memoryDB struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]*models.User
	projects      map[int64]*models.Project
	appointments  map[int64]*models.Appointment
	comments      []*models.Comment
	notifications []*models.Notification
	archives      []*models.ProjectArchive
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:        make(map[int64]*models.User),
		projects:     make(map[int64]*models.Project),
		appointments: make(map[int64]*models.Appointment),
	}
}

func (m *memoryDB) id() int64 {
	m.nextID++
	return m.nextID
}

type (
	userStore         struct{ *memoryDB }
	projectStore      struct{ *memoryDB }
	appointmentStore  struct{ *memoryDB }
	commentStore      struct{ *memoryDB }
	notificationStore struct{ *memoryDB }
)

func (s userStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	u.ID = s.id()
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s userStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s userStore) ListByRole(_ context.Context, role models.RoleType) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.users {
		if u.RoleType == role {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	c.MemberIDs = append([]int64(nil), p.MemberIDs...)
	return &c
}

func (s projectStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.projects[p.ID] = copyProject(p)
	return nil
}

func (s projectStore) GetByID(_ context.Context, id int64) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return copyProject(p), nil
}

func (s projectStore) list(keep func(*models.Project) bool, includeArchived bool) []*models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, p := range s.projects {
		if keep(p) && (includeArchived || !p.IsArchived()) {
			out = append(out, copyProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s projectStore) ListByAdvisor(_ context.Context, advisorID int64, includeArchived bool) ([]*models.Project, error) {
	return s.list(func(p *models.Project) bool { return p.AdvisorID == advisorID }, includeArchived), nil
}

func (s projectStore) ListByMember(_ context.Context, studentID int64, includeArchived bool) ([]*models.Project, error) {
	return s.list(func(p *models.Project) bool { return p.HasMember(studentID) }, includeArchived), nil
}

func (s projectStore) MemberIDs(_ context.Context, projectID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return append([]int64(nil), p.MemberIDs...), nil
}

func (s projectStore) AddMember(_ context.Context, projectID, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	if p.HasMember(studentID) {
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "Student is already a member of this project")
	}
	p.MemberIDs = append(p.MemberIDs, studentID)
	return nil
}

func (s projectStore) RemoveMember(_ context.Context, projectID, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	for i, id := range p.MemberIDs {
		if id == studentID {
			p.MemberIDs = append(p.MemberIDs[:i], p.MemberIDs[i+1:]...)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("Student is not a member of this project")
}

func (s projectStore) Archive(_ context.Context, projectID int64, at time.Time) (*models.ProjectArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	if p.IsArchived() {
		return nil, apperrors.NewConflictError("Project is already archived")
	}
	p.ArchivedAt = &at
	archive := &models.ProjectArchive{
		ID:          s.id(),
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		AdvisorID:   p.AdvisorID,
		MemberIDs:   append([]int64(nil), p.MemberIDs...),
		ArchivedAt:  at,
	}
	s.archives = append(s.archives, archive)
	return archive, nil
}

func (s appointmentStore) Create(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.appointments[a.ID] = a.Clone()
	return nil
}

func (s appointmentStore) GetByID(_ context.Context, id int64) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, apperrors.ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

func (s appointmentStore) List(_ context.Context, f repositories.AppointmentFilter) ([]*models.Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Appointment
	for _, a := range s.appointments {
		if f.AdvisorID != nil && a.AdvisorID != *f.AdvisorID {
			continue
		}
		if f.VisibleToStudent != nil {
			bound := a.StudentID != nil && *a.StudentID == *f.VisibleToStudent
			member := a.ProjectID != nil && s.projects[*a.ProjectID] != nil && s.projects[*a.ProjectID].HasMember(*f.VisibleToStudent)
			if !bound && !member {
				continue
			}
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ProjectID != nil && (a.ProjectID == nil || *a.ProjectID != *f.ProjectID) {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if int(f.Offset) >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && int(f.Limit) < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s appointmentStore) UpdateIfStatus(_ context.Context, a *models.Appointment, expected models.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.appointments[a.ID]
	if !ok {
		return apperrors.ErrAppointmentNotFound
	}
	if current.Status != expected {
		return apperrors.NewConflictError("Appointment was changed by someone else")
	}
	s.appointments[a.ID] = a.Clone()
	return nil
}

func (s appointmentStore) DeleteIfStatus(_ context.Context, id int64, expected models.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.appointments[id]
	if !ok {
		return apperrors.ErrAppointmentNotFound
	}
	if current.Status != expected {
		return apperrors.NewConflictError("Appointment was changed by someone else")
	}
	delete(s.appointments, id)
	return nil
}

func (s appointmentStore) ListExpirable(_ context.Context, date, tod string) ([]*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Appointment
	for _, a := range s.appointments {
		if a.Status != models.StatusPending && a.Status != models.StatusPendingStudentConfirmation {
			continue
		}
		if a.Date < date || (a.Date == date && a.Time < tod) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s commentStore) Create(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = time.Now()
	cp := *c
	s.comments = append(s.comments, &cp)
	return nil
}

func (s commentStore) ListByAppointment(_ context.Context, appointmentID int64) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.AppointmentID == appointmentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s notificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	n.CreatedAt = time.Now()
	cp := *n
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s notificationStore) ListByUser(_ context.Context, userID int64, unreadOnly bool, offset, limit uint64) ([]*models.Notification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			cp := *n
			out = append(out, &cp)
		}
	}
	total := len(out)
	if int(offset) >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (s notificationStore) CountUnread(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s notificationStore) MarkRead(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (s notificationStore) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

// notificationsFor returns the stored notifications of a user, oldest first
func (m *memoryDB) notificationsFor(userID int64) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (m *memoryDB) addUser(first string, role models.RoleType, advisorID *int64) *models.User {
	u := &models.User{
		Email:     first + "@uni.edu",
		FirstName: first,
		LastName:  "Test",
		RoleType:  role,
		AdvisorID: advisorID,
	}
	_ = userStore{m}.Create(context.Background(), u)
	return u
}

type recordingPusher struct {
	mu   sync.Mutex
	sent map[int64]int
}

func (p *recordingPusher) SendToUser(userID int64, _ string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = make(map[int64]int)
	}
	p.sent[userID]++
	return nil
}

func (p *recordingPusher) count(userID int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent[userID]
}

// fixture is a small university: one advisor with two students on a project
type fixture struct {
	db       *memoryDB
	pusher   *recordingPusher
	notifier NotificationService
	appts    AppointmentService
	comments CommentService
	projects ProjectService

	advisor  *models.User
	student  *models.User
	student2 *models.User
	project  *models.Project
}

func newFixture() *fixture {
	db := newMemoryDB()
	pusher := &recordingPusher{}
	log := zerolog.Nop()

	notifier := NewNotificationService(notificationStore{db}, pusher, log)
	f := &fixture{
		db:       db,
		pusher:   pusher,
		notifier: notifier,
		appts:    NewAppointmentService(appointmentStore{db}, projectStore{db}, userStore{db}, notifier, time.UTC, log),
		comments: NewCommentService(commentStore{db}, appointmentStore{db}, projectStore{db}, userStore{db}, notifier, log),
		projects: NewProjectService(projectStore{db}, userStore{db}, log),
	}

	f.advisor = db.addUser("advisor", models.RoleAdvisor, nil)
	f.student = db.addUser("ada", models.RoleStudent, ptr(f.advisor.ID))
	f.student2 = db.addUser("grace", models.RoleStudent, ptr(f.advisor.ID))
	f.project = &models.Project{
		Name:      "Rover",
		AdvisorID: f.advisor.ID,
		MemberIDs: []int64{f.student.ID, f.student2.ID},
	}
	_ = projectStore{db}.Create(context.Background(), f.project)
	return f
}

func (f *fixture) advisorActor() workflow.Actor {
	return workflow.Actor{ID: f.advisor.ID, Role: models.RoleAdvisor}
}

func (f *fixture) studentActor() workflow.Actor {
	return workflow.Actor{ID: f.student.ID, Role: models.RoleStudent}
}

func (f *fixture) student2Actor() workflow.Actor {
	return workflow.Actor{ID: f.student2.ID, Role: models.RoleStudent}
}
