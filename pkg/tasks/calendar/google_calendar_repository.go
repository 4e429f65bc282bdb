package calendar

import (
	"context"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/internal/google"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"golang.org/x/oauth2"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// reminder offsets sent with every event
const (
	popupReminderMinutes = 10
	emailReminderMinutes = 30
)

// GoogleCalendarRepository provides functions for easily editing the users google calendar
type GoogleCalendarRepository struct {
	Config     *oauth2.Config
	Logger     logger.Interface
	Service    *gcalendar.Service
	calendarID string
}

// NewGoogleCalendarRepository constructs a GoogleCalendarRepository for one
// user's connection. A refreshed token is written back into the connection
// so the caller can persist it.
func NewGoogleCalendarRepository(ctx context.Context, googleConfig *google.Config, connection *users.GoogleCalendarConnection, logger logger.Interface) (*GoogleCalendarRepository, error) {
	newRepo := GoogleCalendarRepository{}

	config, err := googleConfig.OAuth()
	if err != nil {
		return nil, err
	}

	newRepo.Config = config

	if connection.Token.AccessToken == "" {
		return nil, communication.ErrCalendarAuthInvalid
	}

	token := connection.DecryptedToken()

	if token.Expiry.Before(time.Now()) {
		source := newRepo.Config.TokenSource(ctx, &token)
		newToken, err := source.Token()
		if err != nil {
			return nil, communication.ErrCalendarAuthInvalid
		}
		token = *newToken

		connection.Token = token
		connection.EncryptToken()
	}

	client := newRepo.Config.Client(ctx, &token)

	srv, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	newRepo.Service = srv
	newRepo.Logger = logger
	newRepo.calendarID = "primary"

	return &newRepo, nil
}

func checkForInvalidTokenError(err error) error {
	if e, ok := err.(*googleapi.Error); ok {
		if e.Code == 401 {
			return communication.ErrCalendarAuthInvalid
		}
	}

	return err
}

func checkForIsGone(err error) error {
	if e, ok := err.(*googleapi.Error); ok {
		if e.Code == 410 || e.Code == 404 {
			return nil
		}
	}

	return err
}

// UpsertEvent creates or updates the remote event for a task and returns its id
func (c *GoogleCalendarRepository) UpsertEvent(event *Event) (string, error) {
	googleEvent := c.createGoogleEvent(event)

	if event.EventID == "" {
		createdEvent, err := c.Service.Events.Insert(c.calendarID, googleEvent).Do()
		if err != nil {
			return "", checkForInvalidTokenError(err)
		}

		return createdEvent.Id, nil
	}

	_, err := c.Service.Events.Update(c.calendarID, event.EventID, googleEvent).Do()
	if err != nil {
		// the remote event vanished, recreate it under a fresh id
		if checkForIsGone(err) == nil {
			createdEvent, err := c.Service.Events.Insert(c.calendarID, googleEvent).Do()
			if err != nil {
				return "", checkForInvalidTokenError(err)
			}

			return createdEvent.Id, nil
		}

		return "", checkForInvalidTokenError(err)
	}

	return event.EventID, nil
}

// DeleteEvent deletes a single Event. An event that is already gone counts
// as deleted.
func (c *GoogleCalendarRepository) DeleteEvent(eventID string) error {
	err := c.Service.Events.Delete(c.calendarID, eventID).Do()
	if err != nil {
		if checkForIsGone(err) == nil {
			return nil
		}

		return checkForInvalidTokenError(err)
	}

	return nil
}

func (c *GoogleCalendarRepository) createGoogleEvent(event *Event) *gcalendar.Event {
	start := gcalendar.EventDateTime{
		DateTime: event.Date.Start.Format(time.RFC3339),
	}

	end := gcalendar.EventDateTime{
		DateTime: event.Date.End.Format(time.RFC3339),
	}

	source := gcalendar.EventSource{Title: "Daily Grind", Url: "https://dailygrind.app"}

	googleEvent := gcalendar.Event{
		Start:        &start,
		End:          &end,
		Summary:      event.Title,
		Transparency: "opaque",
		Source:       &source,
		Reminders: &gcalendar.EventReminders{
			UseDefault: false,
			Overrides: []*gcalendar.EventReminder{
				{Method: "popup", Minutes: popupReminderMinutes},
				{Method: "email", Minutes: emailReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	return &googleEvent
}
