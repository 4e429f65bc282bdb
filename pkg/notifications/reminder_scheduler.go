package notifications

import (
	"context"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"github.com/robfig/cron/v3"
)

const reminderLeadTime = time.Minute * 5

// DueSoonNotifier gets told about tasks that are about to start
type DueSoonNotifier interface {
	NotifyDueSoon(task *tasks.Task)
}

// ReminderScheduler checks once a minute for pending tasks starting in five
// minutes and notifies their owners
type ReminderScheduler struct {
	TaskRepository tasks.TaskRepositoryInterface
	Notifier       DueSoonNotifier
	Logger         logger.Interface
	Location       *time.Location
	cron           *cron.Cron
}

// NewReminderScheduler creates a ReminderScheduler
func NewReminderScheduler(taskRepository tasks.TaskRepositoryInterface, notifier DueSoonNotifier, log logger.Interface, location *time.Location) *ReminderScheduler {
	return &ReminderScheduler{
		TaskRepository: taskRepository,
		Notifier:       notifier,
		Logger:         log,
		Location:       location,
	}
}

// Start begins the minutely reminder checks
func (s *ReminderScheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(s.Location))

	_, err := s.cron.AddFunc("* * * * *", s.tick)
	if err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop ends the reminder checks, waiting for a running tick to finish
func (s *ReminderScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *ReminderScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	clock := time.Now().In(s.Location).Add(reminderLeadTime).Format("15:04")

	due, err := s.TaskRepository.FindAllDueAt(ctx, clock)
	if err != nil {
		s.Logger.Error("could not look up due tasks", err)
		return
	}

	for i := range due {
		s.Notifier.NotifyDueSoon(&due[i])
	}
}
