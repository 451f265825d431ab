// Package memory is a process-local implementation of repository.Database.
// It mirrors the PostgreSQL constraints (unique emails, unique course IDs,
// cascading enrollment deletes) so services behave the same on both.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
)

// ErrMissingReference mirrors a foreign-key violation on enrollment.
var ErrMissingReference = errors.New("enrollment references a missing student or course")

type state struct {
	mu sync.RWMutex

	nextStudentID int
	students      map[int]model.Student
	// enrollments maps student ID to the set of course IDs.
	enrollments map[int]map[string]struct{}

	nextTeacherID int
	teachers      map[int]model.Teacher

	courses map[string]model.Course

	nextUserID int
	users      map[string]model.APIUser

	now func() time.Time
}

// InMemory is a repository.Database held in maps.
type InMemory struct {
	st *state
	// txMu serialises RunInTx callers against each other.
	txMu *sync.Mutex
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		st: &state{
			students:    make(map[int]model.Student),
			enrollments: make(map[int]map[string]struct{}),
			teachers:    make(map[int]model.Teacher),
			courses:     make(map[string]model.Course),
			users:       make(map[string]model.APIUser),
			now:         time.Now,
		},
		txMu: &sync.Mutex{},
	}
}

func (m *InMemory) Students() repository.StudentStore { return &students{m.st} }
func (m *InMemory) Teachers() repository.TeacherStore { return &teachers{m.st} }
func (m *InMemory) Courses() repository.CourseStore   { return &courses{m.st} }
func (m *InMemory) Users() repository.UserStore       { return &users{m.st} }

// RunInTx runs fn while holding the transaction lock. Services persist their
// changes with a single write at the end of fn, so a failing fn leaves no
// partial state behind.
func (m *InMemory) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}

func (m *InMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// coursesOf returns the enrolled courses of a student ordered by ID.
// Callers hold st.mu.
func (st *state) coursesOf(studentID int) []model.Course {
	ids := make([]string, 0, len(st.enrollments[studentID]))
	for id := range st.enrollments[studentID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := st.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

type students struct{ st *state }

func (s *students) ExistsByID(_ context.Context, id int) (bool, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	_, ok := s.st.students[id]
	return ok, nil
}

func (s *students) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	_, ok := s.byEmail(email)
	return ok, nil
}

func (s *students) byEmail(email string) (model.Student, bool) {
	for _, st := range s.st.students {
		if st.Email == email {
			return st, true
		}
	}
	return model.Student{}, false
}

func (s *students) FindByID(_ context.Context, id int) (repository.Lookup[model.Student], error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	st, ok := s.st.students[id]
	if !ok {
		return repository.NotFound[model.Student](), nil
	}
	st.EnrolledCourses = s.st.coursesOf(st.ID)
	return repository.Found(st), nil
}

func (s *students) FindByEmail(_ context.Context, email string) (repository.Lookup[model.Student], error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	st, ok := s.byEmail(email)
	if !ok {
		return repository.NotFound[model.Student](), nil
	}
	st.EnrolledCourses = s.st.coursesOf(st.ID)
	return repository.Found(st), nil
}

func (s *students) Create(_ context.Context, st *model.Student) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, taken := s.byEmail(st.Email); taken {
		return repository.ErrDuplicateEmail
	}
	s.st.nextStudentID++
	now := s.st.now()
	st.ID = s.st.nextStudentID
	st.CreatedAt, st.UpdatedAt = now, now
	st.EnrolledCourses = []model.Course{}

	stored := *st
	stored.EnrolledCourses = nil
	s.st.students[st.ID] = stored
	return nil
}

func (s *students) Update(_ context.Context, st *model.Student) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cur, ok := s.st.students[st.ID]
	if !ok {
		return nil
	}
	if other, taken := s.byEmail(st.Email); taken && other.ID != st.ID {
		return repository.ErrDuplicateEmail
	}
	cur.Name, cur.Email, cur.DOB = st.Name, st.Email, st.DOB
	cur.UpdatedAt = s.st.now()
	st.UpdatedAt = cur.UpdatedAt
	s.st.students[st.ID] = cur
	return nil
}

func (s *students) DeleteByID(_ context.Context, id int) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	delete(s.st.students, id)
	delete(s.st.enrollments, id)
	return nil
}

func (s *students) DeleteByEmail(_ context.Context, email string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if st, ok := s.byEmail(email); ok {
		delete(s.st.students, st.ID)
		delete(s.st.enrollments, st.ID)
	}
	return nil
}

func (s *students) List(_ context.Context) ([]model.Student, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]model.Student, 0, len(s.st.students))
	for _, st := range s.st.students {
		st.EnrolledCourses = s.st.coursesOf(st.ID)
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *students) AddEnrollment(_ context.Context, studentID int, courseID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.students[studentID]; !ok {
		return ErrMissingReference
	}
	if _, ok := s.st.courses[courseID]; !ok {
		return ErrMissingReference
	}
	set, ok := s.st.enrollments[studentID]
	if !ok {
		set = make(map[string]struct{})
		s.st.enrollments[studentID] = set
	}
	set[courseID] = struct{}{}
	return nil
}

type teachers struct{ st *state }

func (t *teachers) byEmail(email string) (model.Teacher, bool) {
	for _, te := range t.st.teachers {
		if te.Email == email {
			return te, true
		}
	}
	return model.Teacher{}, false
}

func (t *teachers) ExistsByID(_ context.Context, id int) (bool, error) {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	_, ok := t.st.teachers[id]
	return ok, nil
}

func (t *teachers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	_, ok := t.byEmail(email)
	return ok, nil
}

func (t *teachers) FindByID(_ context.Context, id int) (repository.Lookup[model.Teacher], error) {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	te, ok := t.st.teachers[id]
	if !ok {
		return repository.NotFound[model.Teacher](), nil
	}
	return repository.Found(te), nil
}

func (t *teachers) FindByEmail(_ context.Context, email string) (repository.Lookup[model.Teacher], error) {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	te, ok := t.byEmail(email)
	if !ok {
		return repository.NotFound[model.Teacher](), nil
	}
	return repository.Found(te), nil
}

func (t *teachers) Create(_ context.Context, te *model.Teacher) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	if _, taken := t.byEmail(te.Email); taken {
		return repository.ErrDuplicateEmail
	}
	t.st.nextTeacherID++
	now := t.st.now()
	te.ID = t.st.nextTeacherID
	te.CreatedAt, te.UpdatedAt = now, now
	t.st.teachers[te.ID] = *te
	return nil
}

func (t *teachers) Update(_ context.Context, te *model.Teacher) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	cur, ok := t.st.teachers[te.ID]
	if !ok {
		return nil
	}
	if other, taken := t.byEmail(te.Email); taken && other.ID != te.ID {
		return repository.ErrDuplicateEmail
	}
	cur.Name, cur.Email, cur.Subject = te.Name, te.Email, te.Subject
	cur.UpdatedAt = t.st.now()
	te.UpdatedAt = cur.UpdatedAt
	t.st.teachers[te.ID] = cur
	return nil
}

func (t *teachers) DeleteByID(_ context.Context, id int) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	delete(t.st.teachers, id)
	return nil
}

func (t *teachers) DeleteByEmail(_ context.Context, email string) error {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	if te, ok := t.byEmail(email); ok {
		delete(t.st.teachers, te.ID)
	}
	return nil
}

func (t *teachers) List(_ context.Context) ([]model.Teacher, error) {
	t.st.mu.RLock()
	defer t.st.mu.RUnlock()
	out := make([]model.Teacher, 0, len(t.st.teachers))
	for _, te := range t.st.teachers {
		out = append(out, te)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type courses struct{ st *state }

func (c *courses) FindByID(_ context.Context, id string) (repository.Lookup[model.Course], error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	co, ok := c.st.courses[id]
	if !ok {
		return repository.NotFound[model.Course](), nil
	}
	return repository.Found(co), nil
}

func (c *courses) Create(_ context.Context, co *model.Course) error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	if _, taken := c.st.courses[co.ID]; taken {
		return repository.ErrDuplicateCourse
	}
	c.st.courses[co.ID] = *co
	return nil
}

func (c *courses) Update(_ context.Context, co *model.Course) error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	if _, ok := c.st.courses[co.ID]; ok {
		c.st.courses[co.ID] = *co
	}
	return nil
}

func (c *courses) Delete(_ context.Context, id string) error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	delete(c.st.courses, id)
	for _, set := range c.st.enrollments {
		delete(set, id)
	}
	return nil
}

func (c *courses) List(_ context.Context) ([]model.Course, error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	out := make([]model.Course, 0, len(c.st.courses))
	for _, co := range c.st.courses {
		out = append(out, co)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *courses) ListStudents(_ context.Context, courseID string) ([]model.Student, error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	out := []model.Student{}
	for studentID, set := range c.st.enrollments {
		if _, ok := set[courseID]; !ok {
			continue
		}
		if st, ok := c.st.students[studentID]; ok {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type users struct{ st *state }

func (u *users) FindByUsername(_ context.Context, username string) (repository.Lookup[model.APIUser], error) {
	u.st.mu.RLock()
	defer u.st.mu.RUnlock()
	usr, ok := u.st.users[username]
	if !ok {
		return repository.NotFound[model.APIUser](), nil
	}
	return repository.Found(usr), nil
}

func (u *users) Create(_ context.Context, usr *model.APIUser) error {
	u.st.mu.Lock()
	defer u.st.mu.Unlock()
	if _, taken := u.st.users[usr.Username]; taken {
		return repository.ErrDuplicateUser
	}
	u.st.nextUserID++
	usr.ID = u.st.nextUserID
	usr.CreatedAt = u.st.now()
	u.st.users[usr.Username] = *usr
	return nil
}

var _ repository.Database = (*InMemory)(nil)
