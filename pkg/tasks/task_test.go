package tasks

import "testing"

func TestNewTaskID_UniqueInTightLoops(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 1000; i++ {
		id := NewTaskID()
		if seen[id] {
			t.Fatalf("identifier %q generated twice", id)
		}
		seen[id] = true
	}
}
