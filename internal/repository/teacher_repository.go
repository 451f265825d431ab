package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/school-records/internal/model"
)

const teacherColumns = `id, name, email, subject, created_at, updated_at`

// TeacherRepository handles teacher data access.
type TeacherRepository struct {
	db   DBTX
	lock string
}

func scanTeacher(row pgx.Row, t *model.Teacher) error {
	return row.Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TeacherRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *TeacherRepository) FindByID(ctx context.Context, id int) (Lookup[model.Teacher], error) {
	return r.findOne(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`+r.lock, id)
}

func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (Lookup[model.Teacher], error) {
	return r.findOne(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE email = $1`+r.lock, email)
}

func (r *TeacherRepository) findOne(ctx context.Context, query string, arg any) (Lookup[model.Teacher], error) {
	var t model.Teacher
	if err := scanTeacher(r.db.QueryRow(ctx, query, arg), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFound[model.Teacher](), nil
		}
		return NotFound[model.Teacher](), err
	}
	return Found(t), nil
}

func (r *TeacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []model.Teacher{}
	for rows.Next() {
		var t model.Teacher
		if err := scanTeacher(rows, &t); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO teachers (name, email, subject)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Email, t.Subject,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	err := r.db.QueryRow(ctx,
		`UPDATE teachers SET name = $1, email = $2, subject = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING updated_at`,
		t.Name, t.Email, t.Subject, t.ID,
	).Scan(&t.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *TeacherRepository) DeleteByID(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}

func (r *TeacherRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE email = $1`, email)
	return err
}
