package tasks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/auth"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Handler handles all task related API calls
type Handler struct {
	SyncService     *SyncService
	UserRepository  users.UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

func (handler *Handler) userFromRequest(writer http.ResponseWriter, request *http.Request) (*users.User, bool) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not find user", err)
		return nil, false
	}

	return user, true
}

// respondWithTaskError maps a sync service error onto an http status
func (handler *Handler) respondWithTaskError(writer http.ResponseWriter, message string, err error) {
	var validationError *communication.ValidationError
	if errors.As(err, &validationError) {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, validationError.Error(), err)
		return
	}

	if errors.Is(err, ErrTaskNotFound) {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Task not found", err)
		return
	}

	handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, message, err)
}

func queryFromRequest(request *http.Request) *Query {
	query := Query{
		Search:     request.URL.Query().Get("q"),
		Completion: request.URL.Query().Get("filter"),
	}

	if query.Search == "" && query.Completion == "" {
		return nil
	}

	return &query
}

// TaskGetAll is the route for getting all tasks, optionally filtered
func (handler *Handler) TaskGetAll(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	tasks, err := handler.SyncService.List(request.Context(), user, queryFromRequest(request))
	if err != nil {
		handler.respondWithTaskError(writer, "Could not load tasks", err)
		return
	}

	handler.ResponseManager.Respond(writer, tasks)
}

// TaskAdd is the route for adding a task
func (handler *Handler) TaskAdd(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	task := Task{}
	err := json.NewDecoder(request.Body).Decode(&task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(task)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	created, err := handler.SyncService.Create(request.Context(), user, &task)
	if err != nil {
		handler.respondWithTaskError(writer, "Persisting task in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, created)
}

// TaskUpdate is the route for updating a task
func (handler *Handler) TaskUpdate(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	taskID := mux.Vars(request)["taskID"]

	update := TaskUpdate{}
	err := json.NewDecoder(request.Body).Decode(&update)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(update)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	updated, err := handler.SyncService.Update(request.Context(), user, taskID, &update)
	if err != nil {
		handler.respondWithTaskError(writer, "Persisting task in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, updated)
}

// TaskToggleDone is the route for checking a task off or reopening it
func (handler *Handler) TaskToggleDone(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	taskID := mux.Vars(request)["taskID"]

	body := struct {
		Completed bool `json:"completed"`
	}{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	toggled, err := handler.SyncService.Toggle(request.Context(), user, taskID, body.Completed)
	if err != nil {
		handler.respondWithTaskError(writer, "Persisting task in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, toggled)
}

// TaskDelete is the route for deleting a task
func (handler *Handler) TaskDelete(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	taskID := mux.Vars(request)["taskID"]

	err := handler.SyncService.Delete(request.Context(), user, taskID)
	if err != nil {
		handler.respondWithTaskError(writer, "Deleting the task did not work", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// TaskBulkEdit is the route for applying one action to many tasks at once
func (handler *Handler) TaskBulkEdit(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	body := struct {
		Action string   `json:"action" validate:"required"`
		IDs    []string `json:"ids" validate:"required,min=1"`
	}{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(body)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	tasks, err := handler.SyncService.BulkEdit(request.Context(), user, body.Action, body.IDs)
	if err != nil {
		handler.respondWithTaskError(writer, "Applying the bulk edit did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, tasks)
}

// TaskAnalytics is the route for the productivity summary
func (handler *Handler) TaskAnalytics(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	tasks, err := handler.SyncService.List(request.Context(), user, nil)
	if err != nil {
		handler.respondWithTaskError(writer, "Could not load tasks", err)
		return
	}

	analytics := ComputeAnalytics(tasks, time.Now().In(handler.SyncService.Location))

	handler.ResponseManager.Respond(writer, analytics)
}
