package notifications

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/dailygrind-app/dailygrind-backend/pkg/environment"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"google.golang.org/api/option"
)

// NotificationController can send Messages to Google Cloud Messaging
type NotificationController struct {
	Logger         logger.Interface
	Client         messaging.Client
	UserRepository users.UserRepositoryInterface
}

// NewNotificationController constructs a NotificationController
func NewNotificationController(logger logger.Interface, userRepository users.UserRepositoryInterface) NotificationController {
	ctrl := NotificationController{}
	ctx := context.Background()

	opt := option.WithAPIKey(environment.Global.Firebase)
	config := &firebase.Config{ProjectID: environment.Global.GCPProjectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		logger.Fatal(err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Fatal(err)
	}

	ctrl.Client = *client
	ctrl.Logger = logger
	ctrl.UserRepository = userRepository

	return ctrl
}

// OnNotify gets called when a task changes and tells every device to resync
func (n *NotificationController) OnNotify(task *tasks.Task) {
	message := &messaging.MulticastMessage{
		Data: map[string]string{
			"collapse_key": "sync",
		},
	}

	if task.Completed {
		message.Notification = &messaging.Notification{
			Title: "Task completed 🎉",
			Body:  fmt.Sprintf("%s is done. Keep the streak going!", task.Title),
		}
	}

	n.send(task, message)
}

// NotifyDueSoon tells the user a task is about to start
func (n *NotificationController) NotifyDueSoon(task *tasks.Task) {
	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: "Coming up ⏰",
			Body:  fmt.Sprintf("%s starts at %s", task.Title, task.Time),
		},
		Data: map[string]string{
			"taskId": task.ID,
		},
	}

	n.send(task, message)
}

func (n *NotificationController) send(task *tasks.Task, message *messaging.MulticastMessage) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user, err := n.UserRepository.FindByID(ctx, task.UserID.Hex())
	if err != nil {
		n.Logger.Error("Could not find user", err)
		return
	}

	if len(user.DeviceTokens) == 0 {
		return
	}

	var tokens []string
	for _, token := range user.DeviceTokens {
		tokens = append(tokens, token.Token)
	}

	message.Tokens = tokens

	_, err = n.Client.SendMulticast(ctx, message)
	if err != nil {
		n.Logger.Error("Could not send messaging request", err)
	}
}
