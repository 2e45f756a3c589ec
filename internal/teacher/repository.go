package teacher

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"teacher-service/internal/db"
	"teacher-service/internal/metrics"

	"github.com/uptrace/bun"
)

const tableName = "teachers"

// Repository hands out scoped sessions over the teachers table.
type Repository interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session is bound to one database connection for the duration of one
// service operation. Close must be called on every path.
type Session interface {
	EmployeeNumberLookup
	GetByID(ctx context.Context, id int) (*Teacher, error)
	GetAll(ctx context.Context) ([]Teacher, error)
	Exists(ctx context.Context, id int) (bool, error)
	Insert(ctx context.Context, teacher *Teacher) error
	Update(ctx context.Context, teacher *Teacher) error
	Delete(ctx context.Context, id int) error
	Close() error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      database,
		metrics: m,
	}
}

func (r *repository) Acquire(ctx context.Context) (Session, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, db.Classify("acquire connection", err)
	}
	return &session{conn: conn, metrics: r.metrics}, nil
}

type session struct {
	conn    bun.Conn
	metrics *metrics.Metrics
}

func (s *session) Close() error {
	return s.conn.Close()
}

func (s *session) GetByID(ctx context.Context, id int) (*Teacher, error) {
	start := time.Now()
	teacher := new(Teacher)
	err := s.conn.NewSelect().
		Model(teacher).
		Column(columns...).
		Where("id = ?", id).
		Scan(ctx)

	s.metrics.RecordQuery(ctx, "select", tableName, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, db.Classify("select teacher", err)
	}
	return teacher, nil
}

func (s *session) GetAll(ctx context.Context) ([]Teacher, error) {
	start := time.Now()
	teachers := make([]Teacher, 0)
	err := s.conn.NewSelect().
		Model(&teachers).
		Column(columns...).
		Order("id ASC").
		Scan(ctx)

	s.metrics.RecordQuery(ctx, "select", tableName, time.Since(start), err)

	if err != nil {
		return nil, db.Classify("select teachers", err)
	}
	return teachers, nil
}

func (s *session) Exists(ctx context.Context, id int) (bool, error) {
	start := time.Now()
	exists, err := s.conn.NewSelect().
		Model((*Teacher)(nil)).
		Where("id = ?", id).
		Exists(ctx)

	s.metrics.RecordQuery(ctx, "select", tableName, time.Since(start), err)

	if err != nil {
		return false, db.Classify("check teacher exists", err)
	}
	return exists, nil
}

func (s *session) EmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID int) (bool, error) {
	start := time.Now()
	q := s.conn.NewSelect().
		Model((*Teacher)(nil)).
		Where("employee_number = ?", employeeNumber)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	taken, err := q.Exists(ctx)

	s.metrics.RecordQuery(ctx, "select", tableName, time.Since(start), err)

	if err != nil {
		return false, db.Classify("check employee number", err)
	}
	return taken, nil
}

// Insert writes teacher and stores the assigned id back into it.
func (s *session) Insert(ctx context.Context, teacher *Teacher) error {
	start := time.Now()
	_, err := s.conn.NewInsert().
		Model(teacher).
		Column(mutableColumns...).
		Returning("id").
		Exec(ctx)

	s.metrics.RecordQuery(ctx, "insert", tableName, time.Since(start), err)

	return db.Classify("insert teacher", err)
}

// Update replaces every mutable column of the row identified by teacher.ID.
func (s *session) Update(ctx context.Context, teacher *Teacher) error {
	start := time.Now()
	result, err := s.conn.NewUpdate().
		Model(teacher).
		Column(mutableColumns...).
		WherePK().
		Exec(ctx)

	s.metrics.RecordQuery(ctx, "update", tableName, time.Since(start), err)

	if err != nil {
		return db.Classify("update teacher", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Classify("update teacher", err)
	}
	if rowsAffected == 0 {
		return &NotFoundError{ID: teacher.ID}
	}
	return nil
}

func (s *session) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := s.conn.NewDelete().
		Model((*Teacher)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	s.metrics.RecordQuery(ctx, "delete", tableName, time.Since(start), err)

	if err != nil {
		return db.Classify("delete teacher", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.Classify("delete teacher", err)
	}
	if rowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
