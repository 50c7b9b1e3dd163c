package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mockUserRepo)
	purger := new(mockTodoPurger)
	outboxRepo := new(mockOutboxRepo)
	uow, txCtx := newTxMocks(ctx)

	userID := uuid.New()
	todoID := uuid.New()
	user := rehydratedUser(userID, todoID)

	userRepo.On("FindByID", txCtx, userID).Return(user, nil)
	purger.On("DeleteByOwner", txCtx, userID).Return(int64(1), nil)
	userRepo.On("Delete", txCtx, userID).Return(nil)
	outboxRepo.On("SaveBatch", txCtx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
		return len(msgs) == 1 && msgs[0].RoutingKey == domain.RoutingKeyUserDeleted
	})).Return(nil)
	uow.On("Commit", txCtx).Return(nil)

	handler := NewDeleteUserHandler(userRepo, purger, outboxRepo, uow)
	dto, err := handler.Handle(ctx, DeleteUserCommand{UserID: userID, TargetID: userID.String()})

	require.NoError(t, err)
	assert.Equal(t, userID, dto.ID)
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, []uuid.UUID{todoID}, dto.Todos)
	userRepo.AssertExpectations(t)
	purger.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestDeleteUserHandler_Handle_NotAllowedBeforeLookup(t *testing.T) {
	for name, target := range map[string]string{
		"other user": uuid.NewString(),
		"malformed":  "not-a-uuid",
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			userRepo := new(mockUserRepo)
			uow := new(mockUnitOfWork)

			handler := NewDeleteUserHandler(userRepo, new(mockTodoPurger), new(mockOutboxRepo), uow)
			_, err := handler.Handle(context.Background(), DeleteUserCommand{UserID: uuid.New(), TargetID: target})

			assert.ErrorIs(t, err, sharedDomain.ErrNotAllowed)
			uow.AssertNotCalled(t, "Begin", mock.Anything)
			userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteUserHandler_Handle_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mockUserRepo)
	purger := new(mockTodoPurger)
	uow, txCtx := newTxMocks(ctx)
	userID := uuid.New()

	userRepo.On("FindByID", txCtx, userID).Return(nil, domain.ErrUserNotFound)
	uow.On("Rollback", txCtx).Return(nil)

	handler := NewDeleteUserHandler(userRepo, purger, new(mockOutboxRepo), uow)
	_, err := handler.Handle(ctx, DeleteUserCommand{UserID: userID, TargetID: userID.String()})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	purger.AssertNotCalled(t, "DeleteByOwner", mock.Anything, mock.Anything)
}

func TestDeleteUserHandler_Handle_PurgeErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mockUserRepo)
	purger := new(mockTodoPurger)
	uow, txCtx := newTxMocks(ctx)
	userID := uuid.New()
	purgeErr := errors.New("delete failed")

	userRepo.On("FindByID", txCtx, userID).Return(rehydratedUser(userID), nil)
	purger.On("DeleteByOwner", txCtx, userID).Return(int64(0), purgeErr)
	uow.On("Rollback", txCtx).Return(nil)

	handler := NewDeleteUserHandler(userRepo, purger, new(mockOutboxRepo), uow)
	_, err := handler.Handle(ctx, DeleteUserCommand{UserID: userID, TargetID: userID.String()})

	assert.ErrorIs(t, err, purgeErr)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}
