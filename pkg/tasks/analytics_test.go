package tasks

import (
	"testing"
	"time"
)

func TestComputeAnalytics_Counts(t *testing.T) {
	now := time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "One", Category: CategoryWork, Completed: true, CompletedAt: now},
		{Title: "Two", Category: CategoryWork},
		{Title: "Three", Category: CategoryFitness, Completed: true, CompletedAt: now},
		{Title: "Four", Category: CategoryPersonal},
	}

	analytics := ComputeAnalytics(tasks, now)

	if analytics.Total != 4 || analytics.Completed != 2 || analytics.Pending != 2 {
		t.Errorf("wrong counts: %+v", analytics)
	}
	if analytics.CompletionRate != 0.5 {
		t.Errorf("expected completion rate 0.5, got %f", analytics.CompletionRate)
	}
	if analytics.ByCategory[CategoryWork] != 2 || analytics.ByCategory[CategoryFitness] != 1 {
		t.Errorf("wrong category breakdown: %v", analytics.ByCategory)
	}
}

func TestComputeAnalytics_EmptyList(t *testing.T) {
	analytics := ComputeAnalytics(nil, time.Now())

	if analytics.Total != 0 || analytics.CompletionRate != 0 || analytics.Streak != 0 {
		t.Errorf("empty list must yield zeroes: %+v", analytics)
	}
}

func TestComputeAnalytics_Streak(t *testing.T) {
	now := time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)
	day := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

	tasks := []Task{
		{Title: "Today", Completed: true, CompletedAt: day(0)},
		{Title: "Yesterday", Completed: true, CompletedAt: day(1)},
		{Title: "Two days ago", Completed: true, CompletedAt: day(2)},
		{Title: "Gap", Completed: true, CompletedAt: day(4)},
	}

	analytics := ComputeAnalytics(tasks, now)
	if analytics.Streak != 3 {
		t.Errorf("expected a streak of 3, got %d", analytics.Streak)
	}
}

func TestComputeAnalytics_StreakSurvivesUntilTodayIsOver(t *testing.T) {
	now := time.Date(2022, 3, 10, 8, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "Yesterday", Completed: true, CompletedAt: now.AddDate(0, 0, -1)},
		{Title: "Two days ago", Completed: true, CompletedAt: now.AddDate(0, 0, -2)},
	}

	analytics := ComputeAnalytics(tasks, now)
	if analytics.Streak != 2 {
		t.Errorf("a streak must not break before the day is over, got %d", analytics.Streak)
	}
}

func TestComputeAnalytics_BrokenStreak(t *testing.T) {
	now := time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "Three days ago", Completed: true, CompletedAt: now.AddDate(0, 0, -3)},
	}

	analytics := ComputeAnalytics(tasks, now)
	if analytics.Streak != 0 {
		t.Errorf("a gap of more than a day must reset the streak, got %d", analytics.Streak)
	}
}
