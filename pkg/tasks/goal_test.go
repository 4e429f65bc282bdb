package tasks

import (
	"testing"
)

func TestGoal_ApplyProgress(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{"normal increment", 2, 3, 5},
		{"clamped at target", 8, 5, 10},
		{"decrement", 5, -2, 3},
		{"clamped at zero", 1, -4, 0},
		{"zero delta", 4, 0, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			goal := Goal{Title: "Read 10 books", Current: test.current, Target: 10}
			goal.ApplyProgress(test.delta)

			if goal.Current != test.want {
				t.Errorf("expected %d, got %d", test.want, goal.Current)
			}
		})
	}
}
