package queries

import (
	"context"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/google/uuid"
)

// GetProfileQuery asks for the caller's own account.
type GetProfileQuery struct {
	UserID uuid.UUID
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	userRepo domain.UserRepository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(userRepo domain.UserRepository) *GetProfileHandler {
	return &GetProfileHandler{userRepo: userRepo}
}

// Handle returns domain.ErrUserNotFound when the account no longer exists.
func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfileQuery) (*UserDTO, error) {
	u, err := h.userRepo.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(u)
	return &dto, nil
}
