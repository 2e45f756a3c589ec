package teacher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"teacher-service/internal/db"
	"teacher-service/internal/metrics"
)

type Service interface {
	Get(ctx context.Context, id int) (*Teacher, error)
	List(ctx context.Context) ([]Teacher, error)
	EmployeeNumberExists(ctx context.Context, employeeNumber string) (bool, error)
	Create(ctx context.Context, teacher *Teacher) (*Teacher, error)
	Update(ctx context.Context, id int, teacher *Teacher) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo      Repository
	validator *Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	events    EventSender
}

// NewService wires the teacher service. events may be nil to disable publishing.
func NewService(repo Repository, validator *Validator, logger *slog.Logger, m *metrics.Metrics, events EventSender) Service {
	return &service{
		repo:      repo,
		validator: validator,
		logger:    logger,
		metrics:   m,
		events:    events,
	}
}

func (s *service) Get(ctx context.Context, id int) (*Teacher, error) {
	if id <= 0 {
		return nil, &NotFoundError{ID: id}
	}

	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	defer sess.Close()

	teacher, err := sess.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTeacherViewed(ctx)
	return teacher, nil
}

func (s *service) List(ctx context.Context) ([]Teacher, error) {
	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer sess.Close()

	teachers, err := sess.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	if teachers == nil {
		teachers = []Teacher{}
	}

	s.metrics.RecordTeachersListViewed(ctx)
	return teachers, nil
}

func (s *service) EmployeeNumberExists(ctx context.Context, employeeNumber string) (bool, error) {
	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("check employee number: %w", err)
	}
	defer sess.Close()

	return sess.EmployeeNumberTaken(ctx, employeeNumber, 0)
}

func (s *service) Create(ctx context.Context, teacher *Teacher) (*Teacher, error) {
	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	defer sess.Close()

	if err := s.validator.Validate(ctx, sess, teacher, ForCreate()); err != nil {
		return nil, s.validationFailure(ctx, "create teacher", err)
	}

	record := *teacher
	record.ID = 0
	if err := sess.Insert(ctx, &record); err != nil {
		return nil, s.writeFailure(ctx, "create teacher", err)
	}

	s.logger.InfoContext(ctx, "teacher created", "teacher_id", record.ID, "employee_number", record.EmployeeNumber)
	s.metrics.RecordTeacherCreated(ctx)
	s.publish(ctx, EventCreated, record.ID, record.EmployeeNumber)

	return &record, nil
}

func (s *service) Update(ctx context.Context, id int, teacher *Teacher) error {
	mode := ForUpdate(id)
	if err := s.validator.Check(teacher, mode); err != nil {
		return s.validationFailure(ctx, "update teacher", err)
	}
	if id <= 0 {
		return &NotFoundError{ID: id}
	}

	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	defer sess.Close()

	exists, err := sess.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	if !exists {
		return &NotFoundError{ID: id}
	}

	if err := s.validator.CheckUnique(ctx, sess, teacher, mode); err != nil {
		return s.validationFailure(ctx, "update teacher", err)
	}

	record := *teacher
	record.ID = id
	if err := sess.Update(ctx, &record); err != nil {
		return s.writeFailure(ctx, "update teacher", err)
	}

	s.logger.InfoContext(ctx, "teacher updated", "teacher_id", id, "employee_number", record.EmployeeNumber)
	s.metrics.RecordTeacherUpdated(ctx)
	s.publish(ctx, EventUpdated, id, record.EmployeeNumber)

	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return &NotFoundError{ID: id}
	}

	sess, err := s.repo.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	defer sess.Close()

	if err := sess.Delete(ctx, id); err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return err
		}
		return fmt.Errorf("delete teacher: %w", err)
	}

	s.logger.InfoContext(ctx, "teacher deleted", "teacher_id", id)
	s.metrics.RecordTeacherDeleted(ctx)
	s.publish(ctx, EventDeleted, id, "")

	return nil
}

// validationFailure records rejections and conflicts and passes them through
// unchanged; anything else is a lookup failure and gets wrapped.
func (s *service) validationFailure(ctx context.Context, op string, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		s.metrics.RecordValidationFailure(ctx, validationErr.Field)
		return err
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		s.metrics.RecordConflict(ctx, "precheck")
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// writeFailure maps a unique violation raised by the write itself to the
// same ConflictError the pre-check produces.
func (s *service) writeFailure(ctx context.Context, op string, err error) error {
	if db.IsKind(err, db.KindUniqueViolation) {
		s.logger.WarnContext(ctx, "employee number conflict caught by storage constraint", "op", op)
		s.metrics.RecordConflict(ctx, "constraint")
		return &ConflictError{Field: "employeeNumber"}
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *service) publish(ctx context.Context, eventType string, id int, employeeNumber string) {
	if s.events == nil {
		return
	}

	event := NewEvent(eventType, id, employeeNumber)
	if err := s.events.SendMessage(ctx, strconv.Itoa(id), event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish teacher event", "type", eventType, "teacher_id", id, "error", err)
	}
}
