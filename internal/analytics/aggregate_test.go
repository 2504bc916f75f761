package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hydration-system/internal/model"
)

var testDay = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC) // понедельник

func intake(dayOffset, hour int, amount int64, method model.Method, mood string) model.IntakeEvent {
	return model.IntakeEvent{
		ID:       uuid.New(),
		AmountMl: amount,
		LoggedAt: testDay.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour),
		Method:   method,
		Mood:     mood,
	}
}

func sampleEvents() []model.IntakeEvent {
	return []model.IntakeEvent{
		intake(0, 8, 250, model.MethodManual, "happy"),
		intake(0, 9, 500, model.MethodVoice, ""),
		intake(0, 14, 300, model.MethodManual, "tired"),
		intake(1, 8, 400, model.MethodManual, ""),
		intake(1, 20, 750, model.MethodPhoto, "happy"),
	}
}

func TestAggregate_SumsAgree(t *testing.T) {
	events := sampleEvents()
	agg := Aggregate(events)

	var hourlySum, dailySum, methodSum, weekdaySum int64
	for _, v := range agg.Hourly {
		hourlySum += v
	}
	for _, v := range agg.Daily {
		dailySum += v
	}
	for _, v := range agg.Methods {
		methodSum += v
	}
	for _, v := range agg.Weekdays {
		weekdaySum += v
	}

	assert.Equal(t, int64(2200), agg.Total)
	assert.Equal(t, agg.Total, hourlySum)
	assert.Equal(t, agg.Total, dailySum)
	assert.Equal(t, agg.Total, methodSum)
	assert.Equal(t, agg.Total, weekdaySum)
}

func TestAggregate_Buckets(t *testing.T) {
	agg := Aggregate(sampleEvents())

	assert.Equal(t, int64(650), agg.Hourly[8])
	assert.Equal(t, int64(500), agg.Hourly[9])
	assert.Equal(t, int64(1050), agg.Daily["2024-03-04"])
	assert.Equal(t, int64(1150), agg.Daily["2024-03-05"])
	assert.Equal(t, int64(1050), agg.Weekdays["Monday"])
	assert.Equal(t, int64(1150), agg.Weekdays["Tuesday"])
	assert.Equal(t, int64(950), agg.Methods[model.MethodManual])
	assert.Equal(t, []int{8, 9, 14, 20}, agg.ActiveHours)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)

	assert.Zero(t, agg.Total)
	assert.Equal(t, [24]int64{}, agg.Hourly)
	assert.Empty(t, agg.Daily)
	assert.Empty(t, agg.Methods)
	assert.Empty(t, agg.ActiveHours)
	assert.Equal(t, [24]int64{}, CumulativeTimeline(agg.Hourly))
}

func TestCumulativeTimeline(t *testing.T) {
	timeline := CumulativeTimeline(HourlyTotals(sampleEvents()))

	assert.Equal(t, int64(0), timeline[7])
	assert.Equal(t, int64(650), timeline[8])
	assert.Equal(t, int64(1150), timeline[9])
	assert.Equal(t, int64(1450), timeline[14])
	assert.Equal(t, int64(2200), timeline[23])
}

func TestMethodShare(t *testing.T) {
	require.Equal(t, 0, MethodShare(100, 0))
	assert.Equal(t, 33, MethodShare(1, 3))
	assert.Equal(t, 67, MethodShare(2, 3))
	assert.Equal(t, 50, MethodShare(1, 2))
}
