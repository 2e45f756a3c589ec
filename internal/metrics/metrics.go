package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics

	teachersCreated    metric.Int64Counter
	teachersUpdated    metric.Int64Counter
	teachersDeleted    metric.Int64Counter
	teachersViewed     metric.Int64Counter
	teachersListViewed metric.Int64Counter
	validationFailures metric.Int64Counter
	conflicts          metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.Messaging, err = NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.teachersCreated, err = meter.Int64Counter(
		"teacher_service.teachers.created",
		metric.WithDescription("Total number of teachers created"),
		metric.WithUnit("{teacher}"),
	)
	if err != nil {
		return nil, err
	}

	m.teachersUpdated, err = meter.Int64Counter(
		"teacher_service.teachers.updated",
		metric.WithDescription("Total number of teacher updates"),
		metric.WithUnit("{teacher}"),
	)
	if err != nil {
		return nil, err
	}

	m.teachersDeleted, err = meter.Int64Counter(
		"teacher_service.teachers.deleted",
		metric.WithDescription("Total number of teachers deleted"),
		metric.WithUnit("{teacher}"),
	)
	if err != nil {
		return nil, err
	}

	m.teachersViewed, err = meter.Int64Counter(
		"teacher_service.teachers.viewed",
		metric.WithDescription("Total number of single teacher reads"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.teachersListViewed, err = meter.Int64Counter(
		"teacher_service.teachers.list_viewed",
		metric.WithDescription("Total number of times the teacher list was read"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.validationFailures, err = meter.Int64Counter(
		"teacher_service.validation.failures",
		metric.WithDescription("Teacher submissions rejected by validation"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	m.conflicts, err = meter.Int64Counter(
		"teacher_service.conflicts",
		metric.WithDescription("Employee number conflicts by detection source"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordTeacherCreated(ctx context.Context) {
	if m != nil && m.teachersCreated != nil {
		m.teachersCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordTeacherUpdated(ctx context.Context) {
	if m != nil && m.teachersUpdated != nil {
		m.teachersUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordTeacherDeleted(ctx context.Context) {
	if m != nil && m.teachersDeleted != nil {
		m.teachersDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordTeacherViewed(ctx context.Context) {
	if m != nil && m.teachersViewed != nil {
		m.teachersViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordTeachersListViewed(ctx context.Context) {
	if m != nil && m.teachersListViewed != nil {
		m.teachersListViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordValidationFailure(ctx context.Context, field string) {
	if m != nil && m.validationFailures != nil {
		m.validationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
	}
}

// RecordConflict counts a uniqueness conflict; source is "precheck" or "constraint".
func (m *Metrics) RecordConflict(ctx context.Context, source string) {
	if m != nil && m.conflicts != nil {
		m.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordQuery forwards to the database metrics; safe on a nil or mock Metrics.
func (m *Metrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.Database.RecordQuery(ctx, operation, table, duration, err)
}

// RecordPublish forwards to the messaging metrics; safe on a nil or mock Metrics.
func (m *Metrics) RecordPublish(ctx context.Context, system, destination string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.Messaging.RecordPublish(ctx, system, destination, duration, err)
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
