package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	identityCommands "github.com/felixgeelhaar/tasklist/internal/identity/application/commands"
	identityDomain "github.com/felixgeelhaar/tasklist/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
)

// Messages returned in the error field of failed responses.
const (
	MsgInvalidToken    = "Please authenticate using a valid token"
	MsgEmailTaken      = "Another user with the same email already exists!"
	MsgUsernameTaken   = "Another user with the same username already exists!"
	MsgInvalidCreds    = "Invalid Credentials"
	MsgAccountNotFound = "Account not found"
	MsgTodoNotFound    = "Todo not found"
	MsgNotAllowed      = "This is not allowed"
	MsgInvalidBody     = "Invalid request body"
	MsgInternalServer  = "Internal Server Error"
	MsgRouteNotFound   = "Route not found"
)

// envelope is the body of every API response: success, status and the payload fields.
type envelope map[string]any

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeSuccess answers 200 with the payload merged into a success envelope.
func writeSuccess(w http.ResponseWriter, payload envelope) {
	body := envelope{"success": true, "status": http.StatusOK}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeFailure writes a failed envelope. Clients read status from the body, so the
// transport status is usually 200.
func writeFailure(w http.ResponseWriter, transport, status int, message string) {
	writeJSON(w, transport, envelope{
		"success": false,
		"error":   message,
		"status":  status,
	})
}

// writeError classifies err into an envelope. Unknown errors are logged and collapsed
// into a generic 500 so internals never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if ve, ok := sharedDomain.AsValidationError(err); ok {
		writeFailure(w, http.StatusOK, http.StatusBadRequest, ve.Message)
		return
	}

	switch {
	case errors.Is(err, identityDomain.ErrEmailTaken):
		writeFailure(w, http.StatusOK, http.StatusBadRequest, MsgEmailTaken)
	case errors.Is(err, identityDomain.ErrUsernameTaken):
		writeFailure(w, http.StatusOK, http.StatusBadRequest, MsgUsernameTaken)
	case errors.Is(err, identityCommands.ErrInvalidCredentials):
		writeFailure(w, http.StatusOK, http.StatusBadRequest, MsgInvalidCreds)
	case errors.Is(err, identityDomain.ErrUserNotFound):
		writeFailure(w, http.StatusOK, http.StatusNotFound, MsgAccountNotFound)
	case errors.Is(err, todo.ErrTodoNotFound):
		writeFailure(w, http.StatusOK, http.StatusNotFound, MsgTodoNotFound)
	case errors.Is(err, sharedDomain.ErrNotAllowed):
		writeFailure(w, http.StatusOK, http.StatusUnauthorized, MsgNotAllowed)
	default:
		writeInternalError(w, r, logger, err)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeFailure(w, http.StatusOK, http.StatusInternalServerError, MsgInternalServer)
}

// decodeJSON reads the request body into dst. An empty body decodes as an empty object.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
