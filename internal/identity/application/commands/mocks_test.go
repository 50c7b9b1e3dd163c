package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockUserRepo is a mock implementation of domain.UserRepository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username domain.Username) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) AttachTodo(ctx context.Context, userID, todoID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, todoID, at)
	return args.Error(0)
}

func (m *mockUserRepo) DetachTodo(ctx context.Context, userID, todoID uuid.UUID) error {
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

// mockTodoPurger is a mock implementation of TodoPurger.
type mockTodoPurger struct {
	mock.Mock
}

func (m *mockTodoPurger) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeHasher prefixes passwords instead of hashing them.
type fakeHasher struct {
	err error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return crypto.ErrMismatchedPassword
	}
	return nil
}

// fakeIssuer returns a token derived from the user id.
type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID.String(), nil
}

type txKey struct{}

func newTxMocks(ctx context.Context) (*mockUnitOfWork, context.Context) {
	uow := new(mockUnitOfWork)
	txCtx := context.WithValue(ctx, txKey{}, "tx")
	uow.On("Begin", ctx).Return(txCtx, nil)
	return uow, txCtx
}

func rehydratedUser(id uuid.UUID, todoIDs ...uuid.UUID) *domain.User {
	now := time.Now()
	return domain.RehydrateUser(id, "Alice Smith", "alice", "alice@example.com", "hashed:password1", now, now, todoIDs)
}
