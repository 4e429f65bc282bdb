package tasks

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_PutAndList(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	store.Put(userID, &Task{ID: "1", UserID: userID, Title: "Evening run", Time: "19:00"})
	store.Put(userID, &Task{ID: "2", UserID: userID, Title: "Standup", Time: "09:30"})
	store.Put(userID, &Task{ID: "3", UserID: userID, Title: "Someday"})

	tasks := store.List(userID)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	if tasks[0].Title != "Standup" || tasks[1].Title != "Evening run" || tasks[2].Title != "Someday" {
		t.Errorf("tasks not ordered by clock time: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestStore_CommitStaleRevision(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	task := &Task{ID: "1", UserID: userID, Title: "Draft"}
	revision := store.Put(userID, task)

	newer := *task
	newer.Title = "Final"
	store.Put(userID, &newer)

	confirmed := *task
	confirmed.GoogleEventID = "evt-1"
	if store.Commit(userID, &confirmed, revision) {
		t.Error("commit with a stale revision must be discarded")
	}

	current, _ := store.Get(userID, "1")
	if current.Title != "Final" {
		t.Errorf("expected the newer change to survive, got title %s", current.Title)
	}
}

func TestStore_CommitCurrentRevision(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	task := &Task{ID: "1", UserID: userID, Title: "Draft"}
	revision := store.Put(userID, task)

	confirmed := *task
	confirmed.GoogleEventID = "evt-1"
	if !store.Commit(userID, &confirmed, revision) {
		t.Fatal("commit with the current revision must apply")
	}

	current, _ := store.Get(userID, "1")
	if current.GoogleEventID != "evt-1" {
		t.Errorf("expected event id evt-1, got %q", current.GoogleEventID)
	}
}

func TestStore_RollbackCreate(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	store.Put(userID, &Task{ID: "1", UserID: userID, Title: "Doomed"})
	store.Rollback(userID, "1", nil)

	if _, ok := store.Get(userID, "1"); ok {
		t.Error("rolled back create must remove the task")
	}
}

func TestStore_RollbackEdit(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	original := &Task{ID: "1", UserID: userID, Title: "Original"}
	store.Put(userID, original)

	edited := *original
	edited.Title = "Edited"
	store.Put(userID, &edited)

	store.Rollback(userID, "1", original)

	current, _ := store.Get(userID, "1")
	if current.Title != "Original" {
		t.Errorf("expected the original title back, got %s", current.Title)
	}
}

func TestStore_SetCompleted(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	store.Put(userID, &Task{ID: "1", UserID: userID, Title: "Chore"})

	updated, _, ok := store.SetCompleted(userID, "1", true)
	if !ok {
		t.Fatal("expected the task to exist")
	}
	if !updated.Completed || updated.CompletedAt.IsZero() {
		t.Error("completing a task must set Completed and CompletedAt")
	}

	updated, _, _ = store.SetCompleted(userID, "1", false)
	if updated.Completed || !updated.CompletedAt.IsZero() {
		t.Error("reopening a task must clear Completed and CompletedAt")
	}
}

func TestStore_RemoveReturnsCopy(t *testing.T) {
	store := NewStore()
	userID := primitive.NewObjectID()

	store.Put(userID, &Task{ID: "1", UserID: userID, Title: "Gone", CreatedAt: time.Now()})

	removed, _, ok := store.Remove(userID, "1")
	if !ok || removed.Title != "Gone" {
		t.Fatal("remove must return the removed task")
	}

	if _, ok := store.Get(userID, "1"); ok {
		t.Error("removed task must not linger in the store")
	}
}
