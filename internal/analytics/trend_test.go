package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hydration-system/internal/model"
)

func amounts(values ...int64) []model.IntakeEvent {
	events := make([]model.IntakeEvent, 0, len(values))
	for i, v := range values {
		events = append(events, intake(0, i%24, v, model.MethodManual, ""))
	}
	return events
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name   string
		events []model.IntakeEvent
		want   TrendDirection
	}{
		{name: "empty", events: nil, want: TrendInsufficientData},
		{name: "single event", events: amounts(300), want: TrendInsufficientData},
		{name: "improving", events: amounts(200, 200, 300, 300), want: TrendImproving},
		{name: "declining", events: amounts(400, 400, 200, 200), want: TrendDeclining},
		{name: "stable within ten percent", events: amounts(300, 300, 320, 320), want: TrendStable},
		{name: "exactly ten percent is stable", events: amounts(100, 110), want: TrendStable},
		{name: "odd count puts extra event in second half", events: amounts(100, 100, 100), want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Trend(tt.events)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrend_ZeroFirstHalfMean(t *testing.T) {
	events := amounts(300, 300)
	events[0].AmountMl = 0

	_, err := Trend(events)
	assert.ErrorIs(t, err, ErrDivisionUndefined)
}

func TestProject(t *testing.T) {
	p, err := Project(amounts(500, 500, 500, 500), 2000, 3)
	require.NoError(t, err)

	assert.Equal(t, Projection{
		DailyProjection:   550,
		WeeklyProjection:  3850,
		MonthlyProjection: 16500,
		GoalLikelihood:    28,
		StreakPrediction:  3,
	}, p)
}

func TestProject_UsesLastSevenEvents(t *testing.T) {
	p, err := Project(amounts(5000, 5000, 100, 100, 100, 100, 100, 100, 100), 2000, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(110), p.DailyProjection)
}

func TestProject_GoalLikelihoodCapped(t *testing.T) {
	p, err := Project(amounts(3000), 2000, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(3300), p.DailyProjection)
	assert.Equal(t, 100, p.GoalLikelihood)
	assert.Equal(t, int64(11), p.StreakPrediction)
}

func TestProject_Empty(t *testing.T) {
	p, err := Project(nil, 2000, 0)
	require.NoError(t, err)

	assert.Equal(t, Projection{}, p)
}

func TestProject_InvalidGoal(t *testing.T) {
	_, err := Project(amounts(300), 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGoalAchievementRate(t *testing.T) {
	daily := map[string]int64{
		"2024-03-04": 2100,
		"2024-03-05": 1500,
		"2024-03-06": 2000,
	}

	rate, err := GoalAchievementRate(daily, 2000, 7)
	require.NoError(t, err)
	assert.Equal(t, 29, rate)

	rate, err = GoalAchievementRate(daily, 2000, 30)
	require.NoError(t, err)
	assert.Equal(t, 7, rate)

	rate, err = GoalAchievementRate(nil, 2000, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, rate)

	_, err = GoalAchievementRate(daily, 2000, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
