package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
	"github.com/stemsi/school-records/internal/validator"
)

const entityStudent = "STUDENT"

// StudentService handles student business logic: registration checks,
// email-addressed updates and course enrollment.
type StudentService struct {
	store TxStore
	log   zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(store TxStore, log zerolog.Logger) *StudentService {
	return &StudentService{
		store: store,
		log:   log.With().Str("component", "student_service").Logger(),
	}
}

// Register persists a new student. The email must be unused and well formed
// and the name long enough, checked in that order.
//
// The existence check only rejects early. Two concurrent registrations can
// both pass it; the unique index on email decides, and its violation is
// reported as the same conflict.
func (s *StudentService) Register(ctx context.Context, student *model.Student) error {
	taken, err := s.store.Students().ExistsByEmail(ctx, student.Email)
	if err != nil {
		return fault(s.log, "check student email", err)
	}
	if taken {
		return reject(s.log, alreadyExists(entityStudent, "E-MAIL", student.Email))
	}
	if !validator.IsEmailValid(student.Email) {
		return reject(s.log, invalidInput(msgEmailNotValid))
	}
	if !validator.IsNameValid(student.Name) {
		return reject(s.log, invalidInput(msgNameNotValid))
	}

	if err := s.store.Students().Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return reject(s.log, alreadyExists(entityStudent, "E-MAIL", student.Email))
		}
		return fault(s.log, "create student", err)
	}

	s.log.Info().Int("student_id", student.ID).Str("email", student.Email).Msg("New student saved")
	return nil
}

// Update replaces name, email and date of birth of the student registered
// under email. The whole operation runs in one transaction; a rejection
// leaves the stored record untouched.
func (s *StudentService) Update(ctx context.Context, email string, patch model.Student) (*model.Student, error) {
	var updated model.Student

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		res, err := tx.Students().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		current, ok := res.Get()
		if !ok {
			return reject(s.log, notFoundByEmail(entityStudent, email))
		}

		if !validator.IsNameValid(patch.Name) {
			return reject(s.log, invalidInput(msgNameNotValid))
		}
		current.Name = patch.Name

		if !validator.IsEmailValid(patch.Email) {
			return reject(s.log, invalidInput(msgEmailNotValid))
		}
		if patch.Email != email {
			taken, err := tx.Students().ExistsByEmail(ctx, patch.Email)
			if err != nil {
				return err
			}
			if taken {
				return reject(s.log, conflict(msgEmailTaken))
			}
			current.Email = patch.Email
		}

		current.DOB = patch.DOB

		if err := tx.Students().Update(ctx, &current); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return reject(s.log, conflict(msgEmailTaken))
			}
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, settle(s.log, "update student", err)
	}

	s.log.Info().Int("student_id", updated.ID).Str("email", updated.Email).Msg("Student updated")
	return &updated, nil
}

// DeleteByID removes the student with id.
func (s *StudentService) DeleteByID(ctx context.Context, id int) error {
	exists, err := s.store.Students().ExistsByID(ctx, id)
	if err != nil {
		return fault(s.log, "check student id", err)
	}
	if !exists {
		return reject(s.log, notFoundByID(entityStudent, id))
	}
	if err := s.store.Students().DeleteByID(ctx, id); err != nil {
		return fault(s.log, "delete student", err)
	}
	s.log.Info().Int("student_id", id).Msg("Student deleted")
	return nil
}

// DeleteByEmail removes the student registered under email.
func (s *StudentService) DeleteByEmail(ctx context.Context, email string) error {
	exists, err := s.store.Students().ExistsByEmail(ctx, email)
	if err != nil {
		return fault(s.log, "check student email", err)
	}
	if !exists {
		return reject(s.log, notFoundByEmail(entityStudent, email))
	}
	if err := s.store.Students().DeleteByEmail(ctx, email); err != nil {
		return fault(s.log, "delete student", err)
	}
	s.log.Info().Str("email", email).Msg("Student deleted")
	return nil
}

// GetByID retrieves a student with their enrolled courses.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	res, err := s.store.Students().FindByID(ctx, id)
	if err != nil {
		return nil, fault(s.log, "find student", err)
	}
	student, ok := res.Get()
	if !ok {
		return nil, reject(s.log, notFoundByID(entityStudent, id))
	}
	s.log.Debug().Int("student_id", id).Msg("Student found")
	return &student, nil
}

// GetByEmail retrieves a student by email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	res, err := s.store.Students().FindByEmail(ctx, email)
	if err != nil {
		return nil, fault(s.log, "find student", err)
	}
	student, ok := res.Get()
	if !ok {
		return nil, reject(s.log, notFoundByEmail(entityStudent, email))
	}
	s.log.Debug().Int("student_id", student.ID).Msg("Student found")
	return &student, nil
}

// List retrieves all students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.store.Students().List(ctx)
	if err != nil {
		return nil, fault(s.log, "list students", err)
	}
	return students, nil
}

// Enroll adds courseID to the student's enrolled set. Enrolling twice in the
// same course is a no-op.
func (s *StudentService) Enroll(ctx context.Context, studentID int, courseID string) error {
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		sres, err := tx.Students().FindByID(ctx, studentID)
		if err != nil {
			return err
		}
		student, ok := sres.Get()
		if !ok {
			return reject(s.log, notFoundByID(entityStudent, studentID))
		}

		cres, err := tx.Courses().FindByID(ctx, courseID)
		if err != nil {
			return err
		}
		course, ok := cres.Get()
		if !ok {
			return reject(s.log, notFoundByID(entityCourse, courseID))
		}

		if !student.Enroll(course) {
			s.log.Info().Int("student_id", studentID).Str("course_id", courseID).Msg("Student already enrolled")
			return nil
		}
		if err := tx.Students().AddEnrollment(ctx, studentID, courseID); err != nil {
			return err
		}
		s.log.Info().Int("student_id", studentID).Str("course_id", courseID).Msg("Student enrolled")
		return nil
	})
	return settle(s.log, "enroll student", err)
}
