package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
	"github.com/stemsi/school-records/internal/validator"
)

const entityTeacher = "TEACHER"

// TeacherService applies the student rules to teachers, without enrollment.
type TeacherService struct {
	store TxStore
	log   zerolog.Logger
}

func NewTeacherService(store TxStore, log zerolog.Logger) *TeacherService {
	return &TeacherService{
		store: store,
		log:   log.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *TeacherService) Register(ctx context.Context, teacher *model.Teacher) error {
	taken, err := s.store.Teachers().ExistsByEmail(ctx, teacher.Email)
	if err != nil {
		return fault(s.log, "check teacher email", err)
	}
	if taken {
		return reject(s.log, alreadyExists(entityTeacher, "E-MAIL", teacher.Email))
	}
	if !validator.IsEmailValid(teacher.Email) {
		return reject(s.log, invalidInput(msgEmailNotValid))
	}
	if !validator.IsNameValid(teacher.Name) {
		return reject(s.log, invalidInput(msgNameNotValid))
	}

	if err := s.store.Teachers().Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return reject(s.log, alreadyExists(entityTeacher, "E-MAIL", teacher.Email))
		}
		return fault(s.log, "create teacher", err)
	}

	s.log.Info().Int("teacher_id", teacher.ID).Str("email", teacher.Email).Msg("New teacher saved")
	return nil
}

// Update replaces name, email and subject of the teacher registered under
// email, in one transaction.
func (s *TeacherService) Update(ctx context.Context, email string, patch model.Teacher) (*model.Teacher, error) {
	var updated model.Teacher

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		res, err := tx.Teachers().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		current, ok := res.Get()
		if !ok {
			return reject(s.log, notFoundByEmail(entityTeacher, email))
		}

		if !validator.IsNameValid(patch.Name) {
			return reject(s.log, invalidInput(msgNameNotValid))
		}
		current.Name = patch.Name

		if !validator.IsEmailValid(patch.Email) {
			return reject(s.log, invalidInput(msgEmailNotValid))
		}
		if patch.Email != email {
			taken, err := tx.Teachers().ExistsByEmail(ctx, patch.Email)
			if err != nil {
				return err
			}
			if taken {
				return reject(s.log, conflict(msgEmailTaken))
			}
			current.Email = patch.Email
		}

		current.Subject = patch.Subject

		if err := tx.Teachers().Update(ctx, &current); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return reject(s.log, conflict(msgEmailTaken))
			}
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, settle(s.log, "update teacher", err)
	}

	s.log.Info().Int("teacher_id", updated.ID).Str("email", updated.Email).Msg("Teacher updated")
	return &updated, nil
}

func (s *TeacherService) DeleteByID(ctx context.Context, id int) error {
	exists, err := s.store.Teachers().ExistsByID(ctx, id)
	if err != nil {
		return fault(s.log, "check teacher id", err)
	}
	if !exists {
		return reject(s.log, notFoundByID(entityTeacher, id))
	}
	if err := s.store.Teachers().DeleteByID(ctx, id); err != nil {
		return fault(s.log, "delete teacher", err)
	}
	s.log.Info().Int("teacher_id", id).Msg("Teacher deleted")
	return nil
}

func (s *TeacherService) DeleteByEmail(ctx context.Context, email string) error {
	exists, err := s.store.Teachers().ExistsByEmail(ctx, email)
	if err != nil {
		return fault(s.log, "check teacher email", err)
	}
	if !exists {
		return reject(s.log, notFoundByEmail(entityTeacher, email))
	}
	if err := s.store.Teachers().DeleteByEmail(ctx, email); err != nil {
		return fault(s.log, "delete teacher", err)
	}
	s.log.Info().Str("email", email).Msg("Teacher deleted")
	return nil
}

func (s *TeacherService) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	res, err := s.store.Teachers().FindByID(ctx, id)
	if err != nil {
		return nil, fault(s.log, "find teacher", err)
	}
	teacher, ok := res.Get()
	if !ok {
		return nil, reject(s.log, notFoundByID(entityTeacher, id))
	}
	return &teacher, nil
}

func (s *TeacherService) GetByEmail(ctx context.Context, email string) (*model.Teacher, error) {
	res, err := s.store.Teachers().FindByEmail(ctx, email)
	if err != nil {
		return nil, fault(s.log, "find teacher", err)
	}
	teacher, ok := res.Get()
	if !ok {
		return nil, reject(s.log, notFoundByEmail(entityTeacher, email))
	}
	return &teacher, nil
}

func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	teachers, err := s.store.Teachers().List(ctx)
	if err != nil {
		return nil, fault(s.log, "list teachers", err)
	}
	return teachers, nil
}
