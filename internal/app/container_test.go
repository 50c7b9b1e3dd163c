package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityCommands "github.com/felixgeelhaar/tasklist/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/tasklist/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
	todoCommands "github.com/felixgeelhaar/tasklist/internal/todos/application/commands"
	todoQueries "github.com/felixgeelhaar/tasklist/internal/todos/application/queries"
	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "development",
		JWTSecret:          "test-secret",
		BcryptCost:         4,
		SQLitePath:         ":memory:",
		AutoMigrate:        true,
		EventBroker:        config.BrokerNone,
		OutboxPollInterval: 10 * time.Millisecond,
		OutboxBatchSize:    10,
		OutboxMaxRetries:   3,
	}
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_SQLite(t *testing.T) {
	c := newTestContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.NotNil(t, c.RegisterHandler)
	assert.NotNil(t, c.LoginHandler)
	assert.NotNil(t, c.DeleteUserHandler)
	assert.NotNil(t, c.GetProfileHandler)
	assert.NotNil(t, c.AddTodoHandler)
	assert.NotNil(t, c.EditTodoHandler)
	assert.NotNil(t, c.ToggleCompleteHandler)
	assert.NotNil(t, c.DeleteTodoHandler)
	assert.NotNil(t, c.ListTodosHandler)
	assert.Nil(t, c.OutboxProcessor)

	health := c.Health.Check(context.Background())
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
}

func TestNewContainer_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

// Register, add a todo, then delete the account: the todo and its events go with it
// and every change lands in the outbox.
func TestContainer_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	reg, err := c.RegisterHandler.Handle(ctx, identityCommands.RegisterCommand{
		Name:     "Alice Smith",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	principal, err := c.Tokens.Verify(reg.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, principal.UserID)

	added, err := c.AddTodoHandler.Handle(ctx, todoCommands.AddTodoCommand{UserID: reg.UserID, Text: "walk the dog"})
	require.NoError(t, err)

	profile, err := c.GetProfileHandler.Handle(ctx, identityQueries.GetProfileQuery{UserID: reg.UserID})
	require.NoError(t, err)
	assert.Equal(t, added.ID, profile.Todos[0])

	deleted, err := c.DeleteUserHandler.Handle(ctx, identityCommands.DeleteUserCommand{
		UserID:   reg.UserID,
		TargetID: reg.UserID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, deleted.ID)

	posts, err := c.ListTodosHandler.Handle(ctx, todoQueries.ListTodosQuery{UserID: reg.UserID})
	require.NoError(t, err)
	assert.Empty(t, posts)

	pending, err := c.OutboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	keys := make([]string, 0, len(pending))
	for _, msg := range pending {
		keys = append(keys, msg.RoutingKey)
	}
	assert.Equal(t, []string{"identity.user.registered", "todos.todo.created", "identity.user.deleted"}, keys)
}

func TestContainer_EnableEventRelay(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	require.NoError(t, c.EnableEventRelay(ctx))
	require.NotNil(t, c.OutboxProcessor)
	assert.IsType(t, &eventbus.NoopPublisher{}, c.EventPublisher)

	_, err := c.RegisterHandler.Handle(ctx, identityCommands.RegisterCommand{
		Name:     "Alice Smith",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, c.OutboxProcessor.ProcessOnce(ctx))

	pending, err := c.OutboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, uint64(1), c.OutboxProcessor.GetStats().PublishedCount)
}
