package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/dailygrind-app/dailygrind-backend/pkg/auth"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// GoalHandler handles all goal related API calls
type GoalHandler struct {
	GoalRepository  GoalRepositoryInterface
	UserRepository  users.UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

func (handler *GoalHandler) userFromRequest(writer http.ResponseWriter, request *http.Request) (*users.User, bool) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not find user", err)
		return nil, false
	}

	return user, true
}

// GoalGetAll is the route for getting all goals
func (handler *GoalHandler) GoalGetAll(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	goals, err := handler.GoalRepository.FindAll(request.Context(), user.ID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load goals", err)
		return
	}

	handler.ResponseManager.Respond(writer, goals)
}

// GoalAdd is the route for adding a goal
func (handler *GoalHandler) GoalAdd(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	goal := Goal{}
	err := json.NewDecoder(request.Body).Decode(&goal)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(goal)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	if goal.ID == "" {
		goal.ID = NewTaskID()
	}
	goal.UserID = user.ID
	goal.ApplyProgress(0)

	err = handler.GoalRepository.Upsert(request.Context(), &goal)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting goal in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, &goal)
}

// GoalProgress is the route for moving a goal's progress by a delta
func (handler *GoalHandler) GoalProgress(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	goalID := mux.Vars(request)["goalID"]

	body := struct {
		Delta int `json:"delta"`
	}{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	goal, err := handler.GoalRepository.FindByID(request.Context(), user.ID, goalID)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Goal not found", err)
			return
		}
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load goal", err)
		return
	}

	goal.ApplyProgress(body.Delta)

	err = handler.GoalRepository.Upsert(request.Context(), goal)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting goal in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, goal)
}

// GoalDelete is the route for deleting a goal
func (handler *GoalHandler) GoalDelete(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	goalID := mux.Vars(request)["goalID"]

	err := handler.GoalRepository.Delete(request.Context(), user.ID, goalID)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Goal not found", err)
			return
		}
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Deleting the goal did not work", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
