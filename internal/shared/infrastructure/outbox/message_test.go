package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
)

type textChanged struct {
	domain.BaseEvent
	Text string `json:"text"`
}

func newTextChanged(aggregateID uuid.UUID, text string, at time.Time) *textChanged {
	return &textChanged{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Todo", "todos.todo.updated", at),
		Text:      text,
	}
}

func TestNewMessage(t *testing.T) {
	aggregateID := uuid.New()
	at := time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC)
	event := newTextChanged(aggregateID, "walk the dog", at)
	userID := uuid.New()
	event.SetMetadata(domain.EventMetadata{CorrelationID: "req-42", UserID: userID})

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "Todo", msg.AggregateType)
	assert.Equal(t, aggregateID, msg.AggregateID)
	assert.Equal(t, "todos.todo.updated", msg.RoutingKey)
	assert.Equal(t, msg.RoutingKey, msg.EventType)
	assert.True(t, msg.CreatedAt.Equal(at))
	assert.Zero(t, msg.ID)
	assert.Nil(t, msg.PublishedAt)
	assert.Nil(t, msg.DeadLetteredAt)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "walk the dog", payload["text"])

	var metadata domain.EventMetadata
	require.NoError(t, json.Unmarshal(msg.Metadata, &metadata))
	assert.Equal(t, "req-42", metadata.CorrelationID)
	assert.Equal(t, userID, metadata.UserID)
}

func TestNewMessages_Envelope(t *testing.T) {
	first := newTextChanged(uuid.New(), "first", time.Now())
	second := newTextChanged(uuid.New(), "second", time.Now())

	msgs, err := NewMessages([]domain.DomainEvent{first, second})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	env := msgs[1].Envelope()
	assert.Equal(t, second.EventID(), env.EventID)
	assert.Equal(t, second.AggregateID(), env.AggregateID)
	assert.Equal(t, "Todo", env.AggregateType)
	assert.Equal(t, "todos.todo.updated", env.RoutingKey)
	assert.JSONEq(t, string(msgs[1].Payload), string(env.Payload))
	assert.Equal(t, msgs[1].Metadata, env.Metadata)
}

func TestNewMessages_Empty(t *testing.T) {
	msgs, err := NewMessages(nil)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
