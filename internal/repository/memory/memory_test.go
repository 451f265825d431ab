package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) newStudent(name, email string) *model.Student {
	st := &model.Student{Name: name, Email: email, DOB: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.Require().NoError(s.store.Students().Create(s.ctx, st))
	return st
}

// TestStudentLookups verifies creation assigns IDs and keyed reads find the record.
func (s *InMemorySuite) TestStudentLookups() {
	s.Run("assigns sequential IDs", func() {
		a := s.newStudent("Al", "al@example.com")
		b := s.newStudent("Bo", "bo@example.com")
		s.Equal(a.ID+1, b.ID)
		s.NotNil(a.EnrolledCourses)
	})

	s.Run("finds by email", func() {
		res, err := s.store.Students().FindByEmail(s.ctx, "al@example.com")
		s.Require().NoError(err)
		got, ok := res.Get()
		s.Require().True(ok)
		s.Equal("Al", got.Name)
		s.Empty(got.EnrolledCourses)
	})

	s.Run("reports missing ID as not found", func() {
		res, err := s.store.Students().FindByID(s.ctx, 999)
		s.Require().NoError(err)
		_, ok := res.Get()
		s.False(ok)
	})
}

// TestEmailUniqueness verifies the store enforces unique emails like the
// database unique index.
func (s *InMemorySuite) TestEmailUniqueness() {
	a := s.newStudent("Al", "al@example.com")
	b := s.newStudent("Bo", "bo@example.com")

	s.Run("rejects duplicate on create", func() {
		err := s.store.Students().Create(s.ctx, &model.Student{Name: "Al2", Email: "al@example.com"})
		s.ErrorIs(err, repository.ErrDuplicateEmail)
	})

	s.Run("rejects taking another student's email on update", func() {
		b.Email = a.Email
		err := s.store.Students().Update(s.ctx, b)
		s.ErrorIs(err, repository.ErrDuplicateEmail)
	})

	s.Run("allows keeping own email", func() {
		a.Name = "Alan"
		s.Require().NoError(s.store.Students().Update(s.ctx, a))
		res, _ := s.store.Students().FindByID(s.ctx, a.ID)
		got, _ := res.Get()
		s.Equal("Alan", got.Name)
	})
}

// TestEnrollment verifies set semantics and cascading deletes.
func (s *InMemorySuite) TestEnrollment() {
	st := s.newStudent("Al", "al@example.com")
	s.Require().NoError(s.store.Courses().Create(s.ctx, &model.Course{ID: "CS101", Title: "Intro"}))

	s.Require().NoError(s.store.Students().AddEnrollment(s.ctx, st.ID, "CS101"))
	s.Require().NoError(s.store.Students().AddEnrollment(s.ctx, st.ID, "CS101"))

	res, _ := s.store.Students().FindByID(s.ctx, st.ID)
	got, _ := res.Get()
	s.Require().Len(got.EnrolledCourses, 1)
	s.Equal("CS101", got.EnrolledCourses[0].ID)

	enrolled, err := s.store.Courses().ListStudents(s.ctx, "CS101")
	s.Require().NoError(err)
	s.Require().Len(enrolled, 1)
	s.Equal(st.ID, enrolled[0].ID)

	s.ErrorIs(s.store.Students().AddEnrollment(s.ctx, st.ID, "NOPE"), ErrMissingReference)
	s.ErrorIs(s.store.Students().AddEnrollment(s.ctx, 999, "CS101"), ErrMissingReference)

	s.Require().NoError(s.store.Courses().Delete(s.ctx, "CS101"))
	res, _ = s.store.Students().FindByID(s.ctx, st.ID)
	got, _ = res.Get()
	s.Empty(got.EnrolledCourses)
}

func (s *InMemorySuite) TestCourseIdentity() {
	s.Require().NoError(s.store.Courses().Create(s.ctx, &model.Course{ID: "CS101", Title: "Intro"}))
	err := s.store.Courses().Create(s.ctx, &model.Course{ID: "CS101", Title: "Other"})
	s.ErrorIs(err, repository.ErrDuplicateCourse)

	list, err := s.store.Courses().List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Intro", list[0].Title)
}

func (s *InMemorySuite) TestRunInTxPropagatesError() {
	boom := errors.New("boom")
	err := s.store.RunInTx(s.ctx, func(tx repository.Store) error {
		return boom
	})
	s.ErrorIs(err, boom)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	called := false
	err = s.store.RunInTx(ctx, func(tx repository.Store) error {
		called = true
		return nil
	})
	s.ErrorIs(err, context.Canceled)
	s.False(called)
}

func (s *InMemorySuite) TestUsers() {
	u := &model.APIUser{Username: "admin", PasswordHash: "hash"}
	s.Require().NoError(s.store.Users().Create(s.ctx, u))
	s.NotZero(u.ID)

	s.ErrorIs(s.store.Users().Create(s.ctx, &model.APIUser{Username: "admin"}), repository.ErrDuplicateUser)

	res, err := s.store.Users().FindByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	got, ok := res.Get()
	s.Require().True(ok)
	s.Equal("hash", got.PasswordHash)
}
