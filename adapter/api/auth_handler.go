package api

import (
	"log/slog"
	"net/http"

	identityCommands "github.com/felixgeelhaar/tasklist/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/tasklist/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/token"
	todoQueries "github.com/felixgeelhaar/tasklist/internal/todos/application/queries"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	register   *identityCommands.RegisterHandler
	login      *identityCommands.LoginHandler
	deleteUser *identityCommands.DeleteUserHandler
	profile    *identityQueries.GetProfileHandler
	listTodos  *todoQueries.ListTodosHandler
	logger     *slog.Logger
}

// NewAuthHandler creates the account endpoints.
func NewAuthHandler(
	register *identityCommands.RegisterHandler,
	login *identityCommands.LoginHandler,
	deleteUser *identityCommands.DeleteUserHandler,
	profile *identityQueries.GetProfileHandler,
	listTodos *todoQueries.ListTodosHandler,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		register:   register,
		login:      login,
		deleteUser: deleteUser,
		profile:    profile,
		listTodos:  listTodos,
		logger:     logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	result, err := h.register.Handle(r.Context(), identityCommands.RegisterCommand{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "user_id", result.UserID)
	writeSuccess(w, envelope{"authToken": result.AuthToken})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	result, err := h.login.Handle(r.Context(), identityCommands.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	todos, err := h.listTodos.Handle(r.Context(), todoQueries.ListTodosQuery{UserID: result.UserID})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, envelope{"authToken": result.AuthToken, "mytodos": todos})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	user, err := h.profile.Handle(r.Context(), identityQueries.GetProfileQuery{UserID: principal.UserID})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"user": user})
}

// DeleteUser handles DELETE /api/auth/deleteuser/{id}.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	user, err := h.deleteUser.Handle(r.Context(), identityCommands.DeleteUserCommand{
		UserID:   principal.UserID,
		TargetID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user deleted", "user_id", principal.UserID)
	writeSuccess(w, envelope{"user": user})
}
