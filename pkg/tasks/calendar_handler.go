package tasks

import (
	"fmt"
	"net/http"

	"github.com/dailygrind-app/dailygrind-backend/internal/google"
	"github.com/dailygrind-app/dailygrind-backend/pkg/auth"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"golang.org/x/oauth2"
)

// CalendarHandler handles all calendar related API calls
type CalendarHandler struct {
	UserRepository  users.UserRepositoryInterface
	UserCache       UserDataCacheInterface
	GoogleConfig    *google.Config
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
	FrontendBaseURL string
}

// GoogleConnect starts the OAuth flow and responds with the consent url
func (handler *CalendarHandler) GoogleConnect(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	u, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not find user", err)
		return
	}

	url, stateToken, err := handler.GoogleConfig.AuthURL()
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusServiceUnavailable,
			"Problem with Google Calendar connection", err)
		return
	}

	u.GoogleCalendarConnection.StateToken = stateToken

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem trying to persist user", err)
		return
	}

	handler.ResponseManager.Respond(writer, map[string]string{"url": url})
}

// GoogleCallback is where Google redirects back to after consent
func (handler *CalendarHandler) GoogleCallback(writer http.ResponseWriter, request *http.Request) {
	stateToken := request.URL.Query().Get("state")
	authCode := request.URL.Query().Get("code")

	u, err := handler.UserRepository.FindByGoogleStateToken(request.Context(), stateToken)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"Invalid state token", err)
		return
	}

	token, err := handler.GoogleConfig.Exchange(request.Context(), authCode)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem exchanging the authorization code", err)
		return
	}

	u.GoogleCalendarConnection.Token = *token
	u.GoogleCalendarConnection.EncryptToken()
	u.GoogleCalendarConnection.StateToken = ""
	u.GoogleCalendarConnection.IsActive = true

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem trying to persist user", err)
		return
	}

	err = handler.UserCache.Invalidate(request.Context(), u.ID.Hex())
	if err != nil {
		handler.Logger.Warning("could not invalidate user cache", err)
	}

	http.Redirect(writer, request,
		fmt.Sprintf("%s/settings?calendarConnected=true", handler.FrontendBaseURL), http.StatusFound)
}

// GoogleDisconnect drops the calendar link. Tasks keep working, they simply
// stop syncing.
func (handler *CalendarHandler) GoogleDisconnect(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)
	u, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not find user", err)
		return
	}

	u.GoogleCalendarConnection.Token = oauth2.Token{}
	u.GoogleCalendarConnection.IsActive = false

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem trying to persist user", err)
		return
	}

	err = handler.UserCache.Invalidate(request.Context(), u.ID.Hex())
	if err != nil {
		handler.Logger.Warning("could not invalidate user cache", err)
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
