package repository

import (
	"context"
	"errors"

	"github.com/stemsi/school-records/internal/model"
)

var (
	ErrDuplicateEmail  = errors.New("record with this email already exists")
	ErrDuplicateCourse = errors.New("course with this id already exists")
	ErrDuplicateUser   = errors.New("user with this username already exists")
)

// Lookup is the outcome of a keyed read: either a record or nothing.
type Lookup[T any] struct {
	value T
	found bool
}

// Found wraps a record that exists.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{value: v, found: true}
}

// NotFound is the empty lookup.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{}
}

// Get returns the record and whether it exists.
func (l Lookup[T]) Get() (T, bool) {
	return l.value, l.found
}

// StudentStore persists students and their enrolled-course set.
type StudentStore interface {
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int) (Lookup[model.Student], error)
	FindByEmail(ctx context.Context, email string) (Lookup[model.Student], error)
	// Create assigns s.ID. It returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, s *model.Student) error
	// Update writes name, email and DOB. It returns ErrDuplicateEmail when the
	// new email is taken.
	Update(ctx context.Context, s *model.Student) error
	DeleteByID(ctx context.Context, id int) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]model.Student, error)
	// AddEnrollment records the edge; repeating it is a no-op.
	AddEnrollment(ctx context.Context, studentID int, courseID string) error
}

// TeacherStore persists teachers.
type TeacherStore interface {
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int) (Lookup[model.Teacher], error)
	FindByEmail(ctx context.Context, email string) (Lookup[model.Teacher], error)
	Create(ctx context.Context, t *model.Teacher) error
	Update(ctx context.Context, t *model.Teacher) error
	DeleteByID(ctx context.Context, id int) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]model.Teacher, error)
}

// CourseStore persists courses.
type CourseStore interface {
	FindByID(ctx context.Context, id string) (Lookup[model.Course], error)
	// Create returns ErrDuplicateCourse when the ID is taken.
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Course, error)
	// ListStudents returns the students enrolled in the course, without their
	// own enrolled-course sets.
	ListStudents(ctx context.Context, courseID string) ([]model.Student, error)
}

// UserStore persists API credentials.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (Lookup[model.APIUser], error)
	// Create returns ErrDuplicateUser when the username is taken.
	Create(ctx context.Context, u *model.APIUser) error
}

// Store groups the entity stores that share one connection or transaction.
type Store interface {
	Students() StudentStore
	Teachers() TeacherStore
	Courses() CourseStore
	Users() UserStore
}

// Transactor runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}

// Database is a Store that can also open transactions and report health.
type Database interface {
	Store
	Transactor
	Ping(ctx context.Context) error
}
