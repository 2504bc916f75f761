package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func first(int) int { return 0 }

func TestChooseContext(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		hour     int
		streak   int64
		want     CoachContext
	}{
		{name: "goal reached", progress: 100, hour: 20, want: CoachGoalReached},
		{name: "afternoon behind", progress: 30, hour: 15, want: CoachBehindSchedule},
		{name: "hour 14 not behind", progress: 30, hour: 14, want: CoachMotivational},
		{name: "weekly streak", progress: 60, hour: 16, streak: 14, want: CoachStreakMilestone},
		{name: "zero streak", progress: 60, hour: 9, streak: 0, want: CoachMotivational},
		{name: "ordinary", progress: 60, hour: 9, streak: 3, want: CoachMotivational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseContext(tt.progress, tt.hour, tt.streak))
		})
	}
}

func TestParseCoachContext(t *testing.T) {
	c, err := ParseCoachContext("")
	require.NoError(t, err)
	assert.Equal(t, CoachMotivational, c)

	c, err = ParseCoachContext("streak_milestone")
	require.NoError(t, err)
	assert.Equal(t, CoachStreakMilestone, c)

	_, err = ParseCoachContext("party")
	assert.Error(t, err)
}

func TestFallbackMessage(t *testing.T) {
	msg := FallbackMessage(CoachGoalReached, first)
	assert.Equal(t, "🎉 Boom! You've crushed your hydration goal! Your cells are throwing a party right now!", msg)

	var gotN int
	last := FallbackMessage(CoachRandom, func(n int) int {
		gotN = n
		return n - 1
	})
	assert.Equal(t, 4, gotN)
	assert.Equal(t, "🤖 Beep boop! Coach reminder: H2O = Happy, Healthy, Outstanding you!", last)

	outOfRange := FallbackMessage(CoachBehindSchedule, func(int) int { return 42 })
	assert.Equal(t, behindScheduleMessages[0], outOfRange)

	assert.Contains(t, motivationalMessages, FallbackMessage(CoachContext("other"), first))
}
