package tasks

import (
	"context"

	"github.com/dailygrind-app/dailygrind-backend/internal/google"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks/calendar"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/pkg/errors"
)

// ErrCalendarNotConnected is returned when a user has no active calendar connection
var ErrCalendarNotConnected = errors.New("user has no connected calendar")

// CalendarRepositoryManager builds calendar repositories per user and keeps
// refreshed tokens persisted
type CalendarRepositoryManager struct {
	userRepository  users.UserRepositoryInterface
	userCache       UserDataCacheInterface
	googleConfig    *google.Config
	logger          logger.Interface
	overriddenRepos map[string]calendar.RepositoryInterface
}

// NewCalendarRepositoryManager creates a new CalendarRepositoryManager
func NewCalendarRepositoryManager(googleConfig *google.Config, userRepository users.UserRepositoryInterface, userCache UserDataCacheInterface, logger logger.Interface) (*CalendarRepositoryManager, error) {
	manager := CalendarRepositoryManager{
		userRepository: userRepository,
		userCache:      userCache,
		googleConfig:   googleConfig,
		logger:         logger,
	}

	return &manager, nil
}

// Override pins a repository for a user, used by tests
func (m *CalendarRepositoryManager) Override(userID string, repository calendar.RepositoryInterface) {
	if m.overriddenRepos == nil {
		m.overriddenRepos = make(map[string]calendar.RepositoryInterface)
	}
	m.overriddenRepos[userID] = repository
}

// GetCalendarRepositoryForUser gets the calendar repository for a user or
// ErrCalendarNotConnected when the user never linked a calendar
func (m *CalendarRepositoryManager) GetCalendarRepositoryForUser(ctx context.Context, user *users.User) (calendar.RepositoryInterface, error) {
	if len(m.overriddenRepos) > 0 && m.overriddenRepos[user.ID.Hex()] != nil {
		return m.overriddenRepos[user.ID.Hex()], nil
	}

	if !user.GoogleCalendarConnection.IsActive {
		return nil, ErrCalendarNotConnected
	}

	if m.userCache != nil {
		entry, err := m.userCache.Get(ctx, user.ID.Hex())
		if err == nil && entry.CalendarRepository != nil {
			return entry.CalendarRepository, nil
		}
	}

	calendarRepository, err := m.setupGoogleRepository(ctx, user)
	if err != nil {
		return nil, err
	}

	if m.userCache != nil {
		err = m.userCache.Add(ctx, user.ID.Hex(), &UserDataCacheEntry{CalendarRepository: calendarRepository, User: user})
		if err != nil {
			m.logger.Warning("could not cache calendar repository", err)
		}
	}

	return calendarRepository, nil
}

// setupGoogleRepository manages token refreshing
func (m *CalendarRepositoryManager) setupGoogleRepository(ctx context.Context, u *users.User) (*calendar.GoogleCalendarRepository, error) {
	oldAccessToken := u.GoogleCalendarConnection.Token.AccessToken

	calendarRepository, err := calendar.NewGoogleCalendarRepository(ctx, m.googleConfig, &u.GoogleCalendarConnection, m.logger)
	if err != nil {
		return nil, err
	}

	if oldAccessToken != u.GoogleCalendarConnection.Token.AccessToken {
		err := m.userRepository.Update(ctx, u)
		if err != nil {
			return nil, err
		}
	}

	return calendarRepository, nil
}
