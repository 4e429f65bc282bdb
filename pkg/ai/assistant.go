package ai

import (
	"context"
	"fmt"

	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
)

const chatSystemPrompt = `You are the assistant inside Daily Grind, a personal productivity app.
Help the user plan their day. When the user asks you to create one or more tasks, embed a single JSON object in your answer:
{"action":"createTask","payload":{"task":"<title>","time":"HH:MM","duration":"30 min","category":"personal|study|work|fitness|wellness","priority":"low|medium|high","icon":"<emoji>"},"response":"<what you want to tell the user>"}
The payload may also be an array of such objects. Only include fields you are sure about. Answer in plain text when no task should be created.`

const taskSystemPrompt = `You turn a short description into tasks for a productivity app.
Answer with nothing but this JSON object:
{"action":"createTask","payload":{"task":"<title>","time":"HH:MM","duration":"30 min","category":"personal|study|work|fitness|wellness","priority":"low|medium|high","icon":"<emoji>"}}
The payload may also be an array of such objects when the description names several tasks. Only include fields the description supports.`

// ChatCompleter is the slice of *Client the assistant needs
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
}

// TaskCreator is the slice of the task sync service the assistant needs
type TaskCreator interface {
	Create(ctx context.Context, user *users.User, task *tasks.Task) (*tasks.Task, error)
}

// ChatResult is what a single chat turn produced
type ChatResult struct {
	Response string       `json:"response"`
	Tasks    []tasks.Task `json:"tasks"`
}

// Assistant is the conversational layer over the completion api. Tasks the
// model asks for are created through the regular sync path, so they get the
// same persistence and calendar treatment as manually created ones.
type Assistant struct {
	Client      ChatCompleter
	TaskCreator TaskCreator
	Logger      logger.Interface
}

// NewAssistant creates an Assistant
func NewAssistant(client ChatCompleter, taskCreator TaskCreator, log logger.Interface) *Assistant {
	return &Assistant{Client: client, TaskCreator: taskCreator, Logger: log}
}

// Chat runs one chat turn over the full conversation so far and creates
// whatever tasks the model asked for. A task that fails to persist is
// dropped from the result but never fails the chat itself.
func (a *Assistant) Chat(ctx context.Context, user *users.User, history []Message) (*ChatResult, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)

	reply, err := a.Client.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	extraction := ExtractTasks(reply, a.Logger)

	result := ChatResult{Response: extraction.Reply, Tasks: []tasks.Task{}}

	for i := range extraction.Drafts {
		created, err := a.createFromDraft(ctx, user, &extraction.Drafts[i])
		if err != nil {
			a.Logger.Warning(fmt.Sprintf("could not create task %q from chat", extraction.Drafts[i].Title), err)
			continue
		}

		result.Tasks = append(result.Tasks, *created)
	}

	if len(result.Tasks) > 0 && !extraction.ResponseProvided {
		result.Response = taskConfirmation(len(result.Tasks))
	}

	return &result, nil
}

// taskConfirmation is shown when the model created tasks but left no
// response of its own
func taskConfirmation(count int) string {
	if count == 1 {
		return "I've added 1 task to your schedule!"
	}

	return fmt.Sprintf("I've added %d tasks to your schedule!", count)
}

// CreateTasks turns a free form description into created tasks. When the
// model's answer yields nothing usable the description itself becomes the
// title of a single task.
func (a *Assistant) CreateTasks(ctx context.Context, user *users.User, description string) ([]tasks.Task, error) {
	drafts := []TaskDraft{{Title: description}}

	reply, err := a.Client.ChatCompletion(ctx, []Message{
		{Role: "system", Content: taskSystemPrompt},
		{Role: "user", Content: description},
	})
	if err != nil {
		a.Logger.Warning("completion api unavailable, creating the task from heuristics alone", err)
	} else if extraction := ExtractTasks(reply, a.Logger); len(extraction.Drafts) > 0 {
		drafts = extraction.Drafts
	}

	created := make([]tasks.Task, 0, len(drafts))
	for i := range drafts {
		task, err := a.createFromDraft(ctx, user, &drafts[i])
		if err != nil {
			return nil, err
		}

		created = append(created, *task)
	}

	return created, nil
}

func (a *Assistant) createFromDraft(ctx context.Context, user *users.User, draft *TaskDraft) (*tasks.Task, error) {
	CompleteDraft(draft)

	return a.TaskCreator.Create(ctx, user, &tasks.Task{
		Title:    draft.Title,
		Time:     draft.Time,
		Duration: draft.Duration,
		Category: draft.Category,
		Priority: draft.Priority,
		Icon:     draft.Icon,
	})
}
