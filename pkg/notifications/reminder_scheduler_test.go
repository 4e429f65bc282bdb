package notifications

import (
	"testing"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct {
	notified []string
}

func (r *recordingNotifier) NotifyDueSoon(task *tasks.Task) {
	r.notified = append(r.notified, task.Title)
}

func TestReminderScheduler_Tick(t *testing.T) {
	userID := primitive.NewObjectID()
	dueClock := time.Now().UTC().Add(time.Minute * 5).Format("15:04")
	otherClock := time.Now().UTC().Add(time.Hour).Format("15:04")

	repository := &tasks.MockTaskRepository{}
	repository.Tasks = []*tasks.Task{
		{ID: "1", UserID: userID, Title: "Due soon", Time: dueClock},
		{ID: "2", UserID: userID, Title: "Already done", Time: dueClock, Completed: true},
		{ID: "3", UserID: userID, Title: "Much later", Time: otherClock},
	}

	notifier := &recordingNotifier{}
	scheduler := NewReminderScheduler(repository, notifier, logger.Logger{}, time.UTC)

	scheduler.tick()

	if len(notifier.notified) != 1 || notifier.notified[0] != "Due soon" {
		t.Errorf("expected exactly the pending task due in five minutes, got %v", notifier.notified)
	}
}
