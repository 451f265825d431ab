package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the PostgreSQL-backed Database.
type Postgres struct {
	pool *pgxpool.Pool
	db   DBTX
	// inTx makes keyed reads lock the selected rows until commit.
	inTx bool
}

// NewPostgres creates a Postgres store on top of pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, db: pool}
}

func (p *Postgres) Students() StudentStore { return &StudentRepository{db: p.db, lock: p.lockClause()} }
func (p *Postgres) Teachers() TeacherStore { return &TeacherRepository{db: p.db, lock: p.lockClause()} }
func (p *Postgres) Courses() CourseStore   { return &CourseRepository{db: p.db, lock: p.lockClause()} }
func (p *Postgres) Users() UserStore       { return &UserRepository{db: p.db} }

// RunInTx implements Transactor with a pgx transaction. Nested calls reuse
// the outer transaction.
func (p *Postgres) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	if p.inTx {
		return fn(p)
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(&Postgres{pool: p.pool, db: tx, inTx: true})
	})
}

// Ping checks the connection pool.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) lockClause() string {
	if p.inTx {
		return " FOR UPDATE"
	}
	return ""
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ Database = (*Postgres)(nil)
