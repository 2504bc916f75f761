package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hydration-system/internal/model"
)

func TestCorrelateMood_TwoMoods(t *testing.T) {
	got := CorrelateMood([]model.IntakeEvent{
		intake(0, 9, 100, model.MethodManual, "sad"),
		intake(0, 10, 300, model.MethodManual, "happy"),
	})

	require.NotNil(t, got)
	assert.Equal(t, "happy", got.StrongestCorrelation.Mood)
	assert.Equal(t, int64(300), got.StrongestCorrelation.AverageIntake)
	assert.Equal(t, "You drink 200ml more on average when feeling happy vs sad", got.Insight)
}

func TestCorrelateMood_AveragesAndFrequency(t *testing.T) {
	got := CorrelateMood([]model.IntakeEvent{
		intake(0, 8, 250, model.MethodManual, "calm"),
		intake(0, 9, 251, model.MethodManual, "calm"),
		intake(0, 10, 900, model.MethodManual, ""),
		intake(0, 11, 100, model.MethodManual, "tired"),
	})

	require.NotNil(t, got)
	assert.Equal(t, []MoodIntake{
		{Mood: "calm", AverageIntake: 251, Frequency: 2},
		{Mood: "tired", AverageIntake: 100, Frequency: 1},
	}, got.AllCorrelations)
}

func TestCorrelateMood_SingleMood(t *testing.T) {
	got := CorrelateMood([]model.IntakeEvent{
		intake(0, 8, 250, model.MethodManual, "focused"),
		intake(0, 9, 350, model.MethodManual, "focused"),
	})

	require.NotNil(t, got)
	assert.Equal(t, "Most of your logged moods are focused", got.Insight)
}

func TestCorrelateMood_NoMoods(t *testing.T) {
	assert.Nil(t, CorrelateMood(nil))
	assert.Nil(t, CorrelateMood([]model.IntakeEvent{intake(0, 8, 250, model.MethodManual, "")}))
}
