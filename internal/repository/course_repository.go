package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/school-records/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db   DBTX
	lock string
}

// FindByID retrieves a course by its code.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (Lookup[model.Course], error) {
	var c model.Course
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description FROM courses WHERE id = $1`+r.lock, id,
	).Scan(&c.ID, &c.Title, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFound[model.Course](), nil
		}
		return NotFound[model.Course](), err
	}
	return Found(c), nil
}

// Create inserts a course under its caller-supplied ID.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (id, title, description) VALUES ($1, $2, $3)`,
		c.ID, c.Title, c.Description,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCourse
	}
	return err
}

// Update modifies a course's title and description.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.db.Exec(ctx,
		`UPDATE courses SET title = $1, description = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		c.Title, c.Description, c.ID,
	)
	return err
}

// Delete removes a course. Enrollment rows cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// List retrieves all courses ordered by ID.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description FROM courses ORDER BY id ASC`)
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

// ListStudents retrieves the students enrolled in a course.
func (r *CourseRepository) ListStudents(ctx context.Context, courseID string) ([]model.Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name, s.email, s.dob, s.created_at, s.updated_at
		 FROM student_courses sc
		 JOIN students s ON s.id = sc.student_id
		 WHERE sc.course_id = $1
		 ORDER BY s.id`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
