// Package gamification реализует оценку дневных серий и достижений за объём.
//
// Оценщик не хранит состояние: на вход подаются снимок профиля и объём,
// выпитый за день до новой записи, на выходе — следующий снимок профиля и
// список достижений, которые вызывающая сторона должна сохранить. Сброс
// дневного объёма в полночь выполняет вызывающая сторона.
package gamification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/hydration-system/internal/model"
)

const (
	// GoalStreakIncrement — прирост серии при первом достижении цели за день.
	GoalStreakIncrement int64 = 1
	// GoalPoints — баллы за первое достижение цели за день.
	GoalPoints int64 = 100

	milestoneIcon     = "🎯"
	milestoneCategory = "milestone"
)

// Milestones — фиксированные пороги дневного объёма в порядке возрастания.
var Milestones = []int64{250, 500, 1000, 1500, 2000, 3000, 4000}

// Evaluate применяет новую запись к дневному объёму previousDailyTotal.
// Каждый порог срабатывает только на переходе снизу вверх, поэтому повторная
// подача тех же записей без сброса дневного объёма ничего не начисляет.
func Evaluate(profile model.Profile, previousDailyTotal int64, event model.IntakeEvent) (model.Progress, error) {
	if event.AmountMl <= 0 {
		return model.Progress{}, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}
	if previousDailyTotal < 0 {
		return model.Progress{}, fmt.Errorf("%w: negative daily total", model.ErrInvalidInput)
	}
	if profile.DailyGoalMl <= 0 {
		return model.Progress{}, fmt.Errorf("%w: daily goal must be positive", model.ErrInvalidInput)
	}

	newTotal := previousDailyTotal + event.AmountMl

	progress := model.Progress{
		Profile:    profile,
		DailyTotal: newTotal,
	}

	for _, threshold := range Milestones {
		if crossed(previousDailyTotal, newTotal, threshold) {
			progress.Achievements = append(progress.Achievements, milestoneAchievement(profile.UserID, threshold, event))
		}
	}

	if crossed(previousDailyTotal, newTotal, profile.DailyGoalMl) {
		progress.GoalReached = true
		progress.Profile.StreakDays += GoalStreakIncrement
		progress.Profile.TotalPoints += GoalPoints
	}

	return progress, nil
}

func crossed(before, after, threshold int64) bool {
	return after >= threshold && before < threshold
}

func milestoneAchievement(userID uuid.UUID, threshold int64, event model.IntakeEvent) model.Achievement {
	return model.Achievement{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       fmt.Sprintf("%dml Milestone", threshold),
		Description: fmt.Sprintf("Reached %dml in a day!", threshold),
		Icon:        milestoneIcon,
		Points:      threshold / 100,
		Category:    milestoneCategory,
		EarnedAt:    event.LoggedAt,
	}
}
