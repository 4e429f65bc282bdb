package ai

import (
	"context"
	"testing"

	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []Message
}

func (f *fakeCompleter) ChatCompletion(_ context.Context, messages []Message) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

type fakeTaskCreator struct {
	created []tasks.Task
	err     error
}

func (f *fakeTaskCreator) Create(_ context.Context, _ *users.User, task *tasks.Task) (*tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}

	task.ID = tasks.NewTaskID()
	f.created = append(f.created, *task)

	result := *task
	return &result, nil
}

func testUser() *users.User {
	return &users.User{ID: primitive.NewObjectID()}
}

func userTurn(content string) []Message {
	return []Message{{Role: "user", Content: content}}
}

func TestAssistant_ChatCreatesTasks(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"createTask","payload":{"task":"Morning run","time":"07:00"},"response":"Scheduled your run!"}`}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	result, err := assistant.Chat(context.Background(), testUser(), userTurn("I want to run tomorrow morning"))
	if err != nil {
		t.Fatal(err)
	}

	if result.Response != "Scheduled your run!" {
		t.Errorf("expected the envelope response, got %q", result.Response)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Morning run" {
		t.Fatalf("expected one created task, got %+v", result.Tasks)
	}
	if result.Tasks[0].Category != tasks.CategoryFitness {
		t.Errorf("the draft must be completed with heuristics, got category %q", result.Tasks[0].Category)
	}
}

func TestAssistant_ChatConfirmsWhenModelLeavesNoResponse(t *testing.T) {
	completer := &fakeCompleter{reply: `Sure! {"action":"createTask","payload":{"task":"Read","time":"20:00"}} Let me know if you need more.`}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	result, err := assistant.Chat(context.Background(), testUser(), userTurn("remind me to read tonight"))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Read" {
		t.Fatalf("expected one created task, got %+v", result.Tasks)
	}
	if result.Response != "I've added 1 task to your schedule!" {
		t.Errorf("without a response field the reply must be a confirmation, got %q", result.Response)
	}
}

func TestAssistant_ChatConfirmationCountsTasks(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"createTask","payload":[{"task":"One"},{"task":"Two"}]}`}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	result, err := assistant.Chat(context.Background(), testUser(), userTurn("add both"))
	if err != nil {
		t.Fatal(err)
	}

	if result.Response != "I've added 2 tasks to your schedule!" {
		t.Errorf("the confirmation must count the created tasks, got %q", result.Response)
	}
}

func TestAssistant_ChatPassesHistoryThrough(t *testing.T) {
	completer := &fakeCompleter{reply: "Your first exam is on Friday."}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	history := []Message{
		{Role: "user", Content: "I have two exams next week"},
		{Role: "assistant", Content: "Good luck! Which subjects?"},
		{Role: "user", Content: "When is the first one?"},
	}

	_, err := assistant.Chat(context.Background(), testUser(), history)
	if err != nil {
		t.Fatal(err)
	}

	if len(completer.messages) != 4 {
		t.Fatalf("expected the system prompt plus 3 turns, got %d messages", len(completer.messages))
	}
	if completer.messages[0].Role != "system" {
		t.Errorf("the system prompt must come first, got role %q", completer.messages[0].Role)
	}
	for i, turn := range history {
		if completer.messages[i+1] != turn {
			t.Errorf("turn %d must pass through unchanged, got %+v", i, completer.messages[i+1])
		}
	}
}

func TestAssistant_ChatWithoutTasks(t *testing.T) {
	completer := &fakeCompleter{reply: "You have three tasks left today."}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	result, err := assistant.Chat(context.Background(), testUser(), userTurn("How is my day looking?"))
	if err != nil {
		t.Fatal(err)
	}

	if result.Response != "You have three tasks left today." {
		t.Errorf("plain replies must pass through, got %q", result.Response)
	}
	if len(result.Tasks) != 0 || len(creator.created) != 0 {
		t.Error("no envelope means no created tasks")
	}
}

func TestAssistant_ChatSurvivesFailedCreate(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"createTask","payload":{"task":"Doomed"},"response":"Done!"}`}
	creator := &fakeTaskCreator{err: errors.New("database down")}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	result, err := assistant.Chat(context.Background(), testUser(), userTurn("add a task"))
	if err != nil {
		t.Fatalf("a failed create must not fail the chat: %v", err)
	}

	if len(result.Tasks) != 0 {
		t.Errorf("a failed create must not show up in the result, got %+v", result.Tasks)
	}
}

func TestAssistant_CreateTasksFallsBackToHeuristics(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("api unreachable")}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	created, err := assistant.CreateTasks(context.Background(), testUser(), "Study for the exam at 18:00")
	if err != nil {
		t.Fatal(err)
	}

	if len(created) != 1 || created[0].Title != "Study for the exam at 18:00" {
		t.Fatalf("the description must become a single task title, got %+v", created)
	}
	if created[0].Category != tasks.CategoryStudy || created[0].Time != "18:00" {
		t.Errorf("heuristics must still fill the task: %+v", created[0])
	}
}

func TestAssistant_CreateTasksUsesModelDrafts(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"createTask","payload":[{"task":"Study for the exam","time":"18:00","duration":"1 hour"},{"task":"Pack notes"}]}`}
	creator := &fakeTaskCreator{}
	assistant := NewAssistant(completer, creator, logger.Logger{})

	created, err := assistant.CreateTasks(context.Background(), testUser(), "I need to prepare for my exam")
	if err != nil {
		t.Fatal(err)
	}

	if len(created) != 2 || created[0].Title != "Study for the exam" || created[1].Title != "Pack notes" {
		t.Fatalf("every model draft must become a task, got %+v", created)
	}
	if created[0].Duration != "1 hour" {
		t.Errorf("explicit draft fields must survive: %+v", created[0])
	}
}
