package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"teacher-service/internal/metrics"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSyncProducer records sent messages; unimplemented methods panic via the
// embedded nil interface.
type mockSyncProducer struct {
	sarama.SyncProducer
	sent   []*sarama.ProducerMessage
	err    error
	closed bool
}

func (m *mockSyncProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.sent = append(m.sent, msg)
	return 0, int64(len(m.sent) - 1), nil
}

func (m *mockSyncProducer) Close() error {
	m.closed = true
	return nil
}

func TestProducer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("SendMessage_KeyedJSON", func(t *testing.T) {
		mock := &mockSyncProducer{}
		producer := newProducer(mock, "school.teachers", logger, metrics.NewMock())

		err := producer.SendMessage(context.Background(), "42", map[string]interface{}{"type": "teacher.created", "teacherId": 42})
		require.NoError(t, err)
		require.Len(t, mock.sent, 1)

		msg := mock.sent[0]
		assert.Equal(t, "school.teachers", msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "42", string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, "teacher.created", decoded["type"])
		assert.Equal(t, float64(42), decoded["teacherId"])
	})

	t.Run("SendMessage_BrokerError", func(t *testing.T) {
		mock := &mockSyncProducer{err: errors.New("broker unavailable")}
		producer := newProducer(mock, "school.teachers", logger, nil)

		err := producer.SendMessage(context.Background(), "1", map[string]string{"type": "teacher.deleted"})
		assert.Error(t, err)
	})

	t.Run("SendMessage_UnencodableValue", func(t *testing.T) {
		mock := &mockSyncProducer{}
		producer := newProducer(mock, "school.teachers", logger, nil)

		err := producer.SendMessage(context.Background(), "1", make(chan int))
		assert.Error(t, err)
		assert.Empty(t, mock.sent)
	})

	t.Run("Close", func(t *testing.T) {
		mock := &mockSyncProducer{}
		producer := newProducer(mock, "school.teachers", logger, nil)

		require.NoError(t, producer.Close())
		assert.True(t, mock.closed)
	})
}
