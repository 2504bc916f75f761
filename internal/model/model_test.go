package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		days    int
		wantErr bool
	}{
		{in: "", want: Period7d, days: 7},
		{in: "24h", want: Period24h, days: 1},
		{in: "7d", want: Period7d, days: 7},
		{in: "30d", want: Period30d, days: 30},
		{in: "1y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.days, p.Days())
		})
	}
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

	from, to := Period24h.Range(now)
	assert.Equal(t, now.Add(-24*time.Hour), from)
	assert.Equal(t, now, to)

	from, _ = Period30d.Range(now)
	assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), from)
}

func TestDayBounds(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 20:00 UTC 3 марта — уже 4 марта в Токио.
	start, end := DayBounds(time.Date(2024, time.March, 3, 20, 0, 0, 0, time.UTC), tokyo)

	assert.True(t, start.Equal(time.Date(2024, time.March, 4, 0, 0, 0, 0, tokyo)))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestProfileSettingsValidate(t *testing.T) {
	assert.NoError(t, ProfileSettings{DailyGoalMl: 2000, Timezone: "Europe/Lisbon"}.Validate())
	assert.ErrorIs(t, ProfileSettings{DailyGoalMl: 0}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, ProfileSettings{DailyGoalMl: 2000, Timezone: "Nowhere/City"}.Validate(), ErrInvalidInput)
}

func TestProfileLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Profile{}.Location())
	assert.Equal(t, time.UTC, Profile{Timezone: "bogus"}.Location())
	assert.Equal(t, "Europe/Lisbon", Profile{Timezone: "Europe/Lisbon"}.Location().String())
}

func TestMethodValid(t *testing.T) {
	assert.True(t, MethodVoice.Valid())
	assert.False(t, Method("fax").Valid())
}
