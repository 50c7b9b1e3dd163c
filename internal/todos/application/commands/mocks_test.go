package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockTodoRepo is a mock implementation of todo.Repository.
type mockTodoRepo struct {
	mock.Mock
}

func (m *mockTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTodoRepo) Update(ctx context.Context, t *todo.Todo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *mockTodoRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*todo.Todo, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTodoRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// mockOwnerIndex is a mock implementation of OwnerIndex.
type mockOwnerIndex struct {
	mock.Mock
}

func (m *mockOwnerIndex) AttachTodo(ctx context.Context, userID, todoID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, todoID, at)
	return args.Error(0)
}

func (m *mockOwnerIndex) DetachTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	args := m.Called(ctx, userID, todoID)
	return args.Error(0)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type txKey struct{}

func newTxMocks(ctx context.Context) (*mockUnitOfWork, context.Context) {
	uow := new(mockUnitOfWork)
	txCtx := context.WithValue(ctx, txKey{}, "tx")
	uow.On("Begin", ctx).Return(txCtx, nil)
	return uow, txCtx
}

func existingTodo(owner uuid.UUID, complete bool) *todo.Todo {
	now := time.Now()
	return todo.RehydrateTodo(uuid.New(), owner, "walk the dog", "1/1/2024", complete, now, now)
}

func routingKeys(msgs []*outbox.Message) []string {
	keys := make([]string, 0, len(msgs))
	for _, m := range msgs {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}
