package teacher

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated = "teacher.created"
	EventUpdated = "teacher.updated"
	EventDeleted = "teacher.deleted"
)

// Event describes a committed change to a teacher record.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	TeacherID      int       `json:"teacherId"`
	EmployeeNumber string    `json:"employeeNumber,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func NewEvent(eventType string, teacherID int, employeeNumber string) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		TeacherID:      teacherID,
		EmployeeNumber: employeeNumber,
		OccurredAt:     time.Now().UTC(),
	}
}

// EventSender delivers a JSON-encodable message under a partition key.
// Implemented by the NATS and Kafka producers.
type EventSender interface {
	SendMessage(ctx context.Context, key string, value interface{}) error
}
