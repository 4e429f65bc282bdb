package ai

import (
	"encoding/json"
	"net/http"

	"github.com/dailygrind-app/dailygrind-backend/pkg/auth"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/go-playground/validator/v10"
)

// Handler handles all assistant related API calls
type Handler struct {
	Assistant       *Assistant
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

// Chat is the route for one assistant chat turn
func (handler *Handler) Chat(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	body := struct {
		Messages []Message `json:"messages" validate:"required,min=1"`
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

	result, err := handler.Assistant.Chat(request.Context(), user, body.Messages)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusServiceUnavailable,
			"The assistant is currently unavailable", err)
		return
	}

	handler.ResponseManager.Respond(writer, result)
}

// TaskCreate is the route for creating a task from a description
func (handler *Handler) TaskCreate(writer http.ResponseWriter, request *http.Request) {
	user, ok := handler.userFromRequest(writer, request)
	if !ok {
		return
	}

	body := struct {
		Description string `json:"description" validate:"required"`
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

	created, err := handler.Assistant.CreateTasks(request.Context(), user, body.Description)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not create the task", err)
		return
	}

	handler.ResponseManager.Respond(writer, created)
}
