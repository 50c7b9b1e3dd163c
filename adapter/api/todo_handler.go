package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/token"
	todoCommands "github.com/felixgeelhaar/tasklist/internal/todos/application/commands"
	todoQueries "github.com/felixgeelhaar/tasklist/internal/todos/application/queries"
)

// TodoHandler serves the /api/todos routes. Every route requires authentication.
type TodoHandler struct {
	list           *todoQueries.ListTodosHandler
	add            *todoCommands.AddTodoHandler
	edit           *todoCommands.EditTodoHandler
	toggleComplete *todoCommands.ToggleCompleteHandler
	remove         *todoCommands.DeleteTodoHandler
	logger         *slog.Logger
}

// NewTodoHandler creates the todo endpoints.
func NewTodoHandler(
	list *todoQueries.ListTodosHandler,
	add *todoCommands.AddTodoHandler,
	edit *todoCommands.EditTodoHandler,
	toggleComplete *todoCommands.ToggleCompleteHandler,
	remove *todoCommands.DeleteTodoHandler,
	logger *slog.Logger,
) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{
		list:           list,
		add:            add,
		edit:           edit,
		toggleComplete: toggleComplete,
		remove:         remove,
		logger:         logger,
	}
}

type addTodoRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// editTodoRequest uses pointers so absent fields keep their stored values.
type editTodoRequest struct {
	Text *string `json:"text"`
	Date *string `json:"date"`
}

// List handles GET /api/todos/fetchAlltodos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	todos, err := h.list.Handle(r.Context(), todoQueries.ListTodosQuery{UserID: principal.UserID})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"posts": todos})
}

// Add handles POST /api/todos/addtodo.
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	var req addTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	created, err := h.add.Handle(r.Context(), todoCommands.AddTodoCommand{
		UserID: principal.UserID,
		Text:   req.Text,
		Date:   req.Date,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"mytodo": created})
}

// Edit handles PUT /api/todos/edittodo/{id}.
func (h *TodoHandler) Edit(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	var req editTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	updated, err := h.edit.Handle(r.Context(), todoCommands.EditTodoCommand{
		UserID: principal.UserID,
		TodoID: r.PathValue("id"),
		Text:   req.Text,
		Date:   req.Date,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"post": updated})
}

// Complete handles PUT /api/todos/complete/{id}.
func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	todos, err := h.toggleComplete.Handle(r.Context(), todoCommands.ToggleCompleteCommand{
		UserID: principal.UserID,
		TodoID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"posts": todos})
}

// Delete handles DELETE /api/todos/deletetodo/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request, principal token.Principal) {
	remaining, err := h.remove.Handle(r.Context(), todoCommands.DeleteTodoCommand{
		UserID: principal.UserID,
		TodoID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, envelope{"filteredTodos": remaining})
}
