package google

import (
	"context"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
)

// Config is the process-wide OAuth client configuration. It is created once
// in main and handed to everything that talks to a Google API, instead of
// living in a package-level variable.
type Config struct {
	credentialsFile string
	apiBaseURL      string

	once  sync.Once
	oauth *oauth2.Config
	err   error
}

// NewConfig builds a Config that reads the credentials file on first use
func NewConfig(credentialsFile string, apiBaseURL string) *Config {
	if credentialsFile == "" {
		credentialsFile = "./keys/credentials.json"
	}

	return &Config{credentialsFile: credentialsFile, apiBaseURL: apiBaseURL}
}

// OAuth returns the parsed oauth2 client configuration
func (c *Config) OAuth() (*oauth2.Config, error) {
	c.once.Do(func() {
		b, err := ioutil.ReadFile(c.credentialsFile)
		if err != nil {
			c.err = err
			return
		}

		config, err := google.ConfigFromJSON(b, gcalendar.CalendarEventsScope)
		if err != nil {
			c.err = err
			return
		}

		config.RedirectURL = fmt.Sprintf("%s/v1/calendar/google/callback", c.apiBaseURL)
		c.oauth = config
	})

	return c.oauth, c.err
}

// AuthURL returns the URL where a user can grant calendar access plus the
// state token that identifies the flow
func (c *Config) AuthURL() (string, string, error) {
	config, err := c.OAuth()
	if err != nil {
		return "", "", err
	}

	stateToken := uuid.New().String()
	url := config.AuthCodeURL(stateToken, oauth2.AccessTypeOffline)

	return url, stateToken, nil
}

// Exchange trades an auth code for a token
func (c *Config) Exchange(ctx context.Context, authCode string) (*oauth2.Token, error) {
	config, err := c.OAuth()
	if err != nil {
		return nil, err
	}

	return config.Exchange(ctx, authCode, oauth2.AccessTypeOffline)
}
