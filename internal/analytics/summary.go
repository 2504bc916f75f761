package analytics

import (
	"github.com/mmeshcher/hydration-system/internal/model"
)

const summaryDays = 7

// WeeklySummary — недельная сводка для отчёта по почте.
type WeeklySummary struct {
	TotalWeek        int64          `json:"total_week"`
	AverageDaily     int64          `json:"average_daily"`
	DaysGoalMet      int            `json:"days_goal_met"`
	BestDay          int64          `json:"best_day"`
	Consistency      int            `json:"consistency"`
	ConsistencyLabel string         `json:"consistency_label"`
	WeeklyGoal       int64          `json:"weekly_goal"`
	GoalPercent      int64          `json:"goal_percent"`
	Remaining        int64          `json:"remaining"`
	MoodCounts       map[string]int `json:"mood_counts"`
	TopMood          string         `json:"top_mood,omitempty"`
	CurrentStreak    int64          `json:"current_streak"`
}

// Summarize строит недельную сводку по записям последних семи дней.
func Summarize(events []model.IntakeEvent, profile model.Profile) WeeklySummary {
	daily := DailyTotals(events)

	s := WeeklySummary{
		WeeklyGoal:    profile.DailyGoalMl * summaryDays,
		MoodCounts:    make(map[string]int),
		CurrentStreak: profile.StreakDays,
	}

	for _, total := range daily {
		s.TotalWeek += total
		if total > s.BestDay {
			s.BestDay = total
		}
		if profile.DailyGoalMl > 0 && total >= profile.DailyGoalMl {
			s.DaysGoalMet++
		}
	}

	s.AverageDaily = round(float64(s.TotalWeek) / summaryDays)
	consistency := float64(s.DaysGoalMet) / summaryDays * 100
	s.Consistency = int(round(consistency))
	s.ConsistencyLabel = consistencyLabel(consistency)

	if s.WeeklyGoal > 0 {
		s.GoalPercent = round(float64(s.TotalWeek) / float64(s.WeeklyGoal) * 100)
	}
	if s.TotalWeek < s.WeeklyGoal {
		s.Remaining = s.WeeklyGoal - s.TotalWeek
	}

	var order []string
	for _, e := range events {
		if e.Mood == "" {
			continue
		}
		if _, ok := s.MoodCounts[e.Mood]; !ok {
			order = append(order, e.Mood)
		}
		s.MoodCounts[e.Mood]++
	}
	for _, mood := range order {
		if s.TopMood == "" || s.MoodCounts[mood] > s.MoodCounts[s.TopMood] {
			s.TopMood = mood
		}
	}

	return s
}

func consistencyLabel(pct float64) string {
	switch {
	case pct > 80:
		return "Excellent!"
	case pct > 60:
		return "Good job!"
	default:
		return "Room for improvement"
	}
}
