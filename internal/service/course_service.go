package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
)

const entityCourse = "COURSE"

// CourseService manages the course catalog. Course IDs are unique by
// primary key; the service only translates violations and missing rows.
type CourseService struct {
	store TxStore
	log   zerolog.Logger
}

func NewCourseService(store TxStore, log zerolog.Logger) *CourseService {
	return &CourseService{
		store: store,
		log:   log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) Add(ctx context.Context, course *model.Course) error {
	if err := s.store.Courses().Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicateCourse) {
			return reject(s.log, alreadyExists(entityCourse, "ID", course.ID))
		}
		return fault(s.log, "create course", err)
	}
	s.log.Info().Str("course_id", course.ID).Msg("New course saved")
	return nil
}

// Update replaces title and description of the course with id.
func (s *CourseService) Update(ctx context.Context, id string, patch model.Course) (*model.Course, error) {
	var updated model.Course

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		res, err := tx.Courses().FindByID(ctx, id)
		if err != nil {
			return err
		}
		current, ok := res.Get()
		if !ok {
			return reject(s.log, notFoundByID(entityCourse, id))
		}
		current.Title = patch.Title
		current.Description = patch.Description
		if err := tx.Courses().Update(ctx, &current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, settle(s.log, "update course", err)
	}

	s.log.Info().Str("course_id", id).Msg("Course updated")
	return &updated, nil
}

func (s *CourseService) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Courses().Delete(ctx, id); err != nil {
		return fault(s.log, "delete course", err)
	}
	s.log.Info().Str("course_id", id).Msg("Course deleted")
	return nil
}

func (s *CourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	res, err := s.store.Courses().FindByID(ctx, id)
	if err != nil {
		return nil, fault(s.log, "find course", err)
	}
	course, ok := res.Get()
	if !ok {
		return nil, reject(s.log, notFoundByID(entityCourse, id))
	}
	return &course, nil
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.store.Courses().List(ctx)
	if err != nil {
		return nil, fault(s.log, "list courses", err)
	}
	return courses, nil
}

// ListStudents returns the students enrolled in the course with id.
func (s *CourseService) ListStudents(ctx context.Context, id string) ([]model.Student, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	students, err := s.store.Courses().ListStudents(ctx, id)
	if err != nil {
		return nil, fault(s.log, "list course students", err)
	}
	return students, nil
}
