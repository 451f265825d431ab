package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/school-records/internal/model"
)

const studentColumns = `id, name, email, dob, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	db   DBTX
	lock string
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.Name, &s.Email, &s.DOB, &s.CreatedAt, &s.UpdatedAt)
}

// ExistsByID reports whether a student with id exists.
func (r *StudentRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ExistsByEmail reports whether a student with email exists.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// FindByID retrieves a student and the courses they are enrolled in.
func (r *StudentRepository) FindByID(ctx context.Context, id int) (Lookup[model.Student], error) {
	return r.findOne(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`+r.lock, id)
}

// FindByEmail retrieves a student by their unique email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (Lookup[model.Student], error) {
	return r.findOne(ctx, `SELECT `+studentColumns+` FROM students WHERE email = $1`+r.lock, email)
}

func (r *StudentRepository) findOne(ctx context.Context, query string, arg any) (Lookup[model.Student], error) {
	var s model.Student
	if err := scanStudent(r.db.QueryRow(ctx, query, arg), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFound[model.Student](), nil
		}
		return NotFound[model.Student](), err
	}

	courses, err := r.enrolledCourses(ctx, s.ID)
	if err != nil {
		return NotFound[model.Student](), err
	}
	s.EnrolledCourses = courses
	return Found(s), nil
}

func (r *StudentRepository) enrolledCourses(ctx context.Context, studentID int) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.title, c.description
		 FROM student_courses sc
		 JOIN courses c ON c.id = sc.course_id
		 WHERE sc.student_id = $1
		 ORDER BY c.id`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// List retrieves every student with their enrolled courses.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	index := make(map[int]int)
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		s.EnrolledCourses = []model.Course{}
		index[s.ID] = len(students)
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass over every enrollment instead of a query per student.
	erows, err := r.db.Query(ctx,
		`SELECT sc.student_id, c.id, c.title, c.description
		 FROM student_courses sc
		 JOIN courses c ON c.id = sc.course_id
		 ORDER BY sc.student_id, c.id`,
	)
	if err != nil {
		return nil, err
	}
	defer erows.Close()

	for erows.Next() {
		var studentID int
		var c model.Course
		if err := erows.Scan(&studentID, &c.ID, &c.Title, &c.Description); err != nil {
			return nil, err
		}
		if i, ok := index[studentID]; ok {
			students[i].EnrolledCourses = append(students[i].EnrolledCourses, c)
		}
	}
	return students, erows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (name, email, dob)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.DOB,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if s.EnrolledCourses == nil {
		s.EnrolledCourses = []model.Course{}
	}
	return nil
}

// Update modifies a student's name, email and date of birth.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`UPDATE students SET name = $1, email = $2, dob = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING updated_at`,
		s.Name, s.Email, s.DOB, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// DeleteByID removes a student by ID. Enrollment rows cascade.
func (r *StudentRepository) DeleteByID(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// DeleteByEmail removes a student by email.
func (r *StudentRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM students WHERE email = $1`, email)
	return err
}

// AddEnrollment links a student to a course.
func (r *StudentRepository) AddEnrollment(ctx context.Context, studentID int, courseID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO student_courses (student_id, course_id) VALUES ($1, $2)
		 ON CONFLICT (student_id, course_id) DO NOTHING`,
		studentID, courseID,
	)
	return err
}
