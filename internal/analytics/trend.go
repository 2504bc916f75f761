package analytics

import (
	"fmt"

	"github.com/mmeshcher/hydration-system/internal/model"
)

// TrendDirection описывает направление изменения потребления.
type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

const (
	trendThresholdPct   = 10.0
	projectionWindow    = 7
	projectionOptimism  = 1.1
	streakPredictionAdd = 7
)

// Trend сравнивает средний объём второй половины записей с первой.
// Записи должны быть упорядочены по времени.
func Trend(events []model.IntakeEvent) (TrendDirection, error) {
	if len(events) < 2 {
		return TrendInsufficientData, nil
	}

	mid := len(events) / 2
	firstMean := float64(TotalAmount(events[:mid])) / float64(mid)
	secondMean := float64(TotalAmount(events[mid:])) / float64(len(events)-mid)

	if firstMean == 0 {
		return "", ErrDivisionUndefined
	}

	change := (secondMean - firstMean) / firstMean * 100
	switch {
	case change > trendThresholdPct:
		return TrendImproving, nil
	case change < -trendThresholdPct:
		return TrendDeclining, nil
	default:
		return TrendStable, nil
	}
}

// Projection — прогноз потребления на ближайший период.
type Projection struct {
	DailyProjection   int64 `json:"daily_projection"`
	WeeklyProjection  int64 `json:"weekly_projection"`
	MonthlyProjection int64 `json:"monthly_projection"`
	GoalLikelihood    int   `json:"goal_likelihood"`
	StreakPrediction  int64 `json:"streak_prediction"`
}

// Project строит прогноз по последним (не более семи) записям с коэффициентом оптимизма 1.1.
func Project(events []model.IntakeEvent, dailyGoal, currentStreak int64) (Projection, error) {
	if dailyGoal <= 0 {
		return Projection{}, fmt.Errorf("%w: daily goal must be positive", model.ErrInvalidInput)
	}

	recent := events
	if len(recent) > projectionWindow {
		recent = recent[len(recent)-projectionWindow:]
	}

	p := Projection{StreakPrediction: currentStreak}
	if len(recent) == 0 {
		return p, nil
	}

	mean := float64(TotalAmount(recent)) / float64(len(recent))
	p.DailyProjection = round(mean * projectionOptimism)
	p.WeeklyProjection = p.DailyProjection * 7
	p.MonthlyProjection = p.DailyProjection * 30
	p.GoalLikelihood = clampPercent(round(float64(p.DailyProjection) / float64(dailyGoal) * 100))
	if p.DailyProjection >= dailyGoal {
		p.StreakPrediction = currentStreak + streakPredictionAdd
	}

	return p, nil
}

// GoalAchievementRate возвращает процент дней окна, в которые цель была достигнута.
// Знаменатель — periodDays, дни без записей считаются невыполненными.
func GoalAchievementRate(daily map[string]int64, dailyGoal int64, periodDays int) (int, error) {
	if dailyGoal <= 0 || periodDays <= 0 {
		return 0, fmt.Errorf("%w: goal and period must be positive", model.ErrInvalidInput)
	}

	met := 0
	for _, total := range daily {
		if total >= dailyGoal {
			met++
		}
	}

	// Окно 24h может захватить две календарные даты.
	return clampPercent(round(float64(met) / float64(periodDays) * 100)), nil
}

func clampPercent(v int64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
