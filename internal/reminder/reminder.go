// Package reminder выбирает вид напоминания о воде и собирает его содержимое.
//
// Содержимое возвращается в структурированном виде; вёрстку письма выполняет
// отправитель.
package reminder

import (
	"fmt"
	"math"
)

// Kind — вид напоминания.
type Kind string

const (
	KindGentle         Kind = "gentle"
	KindUrgent         Kind = "urgent"
	KindWeatherHot     Kind = "weather_hot"
	KindBehindSchedule Kind = "behind_schedule"
)

const (
	urgentAfterHour   = 18
	urgentProgressPct = 50
	hotTemperatureC   = 25
	behindAfterHour   = 12
	behindProgressPct = 25
)

// Classify выбирает вид напоминания по часу, прогрессу в процентах и температуре воздуха.
// temperatureC равен nil, если погода неизвестна.
func Classify(hour int, progressPct float64, temperatureC *float64) Kind {
	switch {
	case hour > urgentAfterHour && progressPct < urgentProgressPct:
		return KindUrgent
	case temperatureC != nil && *temperatureC > hotTemperatureC:
		return KindWeatherHot
	case progressPct < behindProgressPct && hour > behindAfterHour:
		return KindBehindSchedule
	default:
		return KindGentle
	}
}

// ShouldRemind сообщает, нужно ли напоминание: после достижения цели оно не отправляется.
func ShouldRemind(todayTotal, dailyGoal int64) bool {
	return dailyGoal > 0 && todayTotal < dailyGoal
}

// ProgressPercent возвращает долю выполнения дневной цели в процентах.
func ProgressPercent(todayTotal, dailyGoal int64) float64 {
	if dailyGoal <= 0 {
		return 0
	}
	return float64(todayTotal) / float64(dailyGoal) * 100
}

// Facts — данные пользователя, на основе которых собирается напоминание.
type Facts struct {
	Name         string
	TodayTotal   int64
	DailyGoal    int64
	Streak       int64
	TemperatureC *float64
}

// Content — структурированное содержимое напоминания.
type Content struct {
	Kind      Kind     `json:"kind"`
	Subject   string   `json:"subject"`
	Headline  string   `json:"headline"`
	Lines     []string `json:"lines"`
	Progress  int64    `json:"progress"`
	Remaining int64    `json:"remaining"`
}

// Compose собирает содержимое напоминания указанного вида.
func Compose(kind Kind, f Facts) Content {
	var c Content
	switch kind {
	case KindUrgent:
		c = urgent(f)
	case KindWeatherHot:
		c = weatherHot(f)
	case KindBehindSchedule:
		c = behindSchedule(f)
	default:
		kind = KindGentle
		c = gentle(f)
	}

	c.Kind = kind
	c.Progress = progress(f)
	c.Remaining = remaining(f)
	return c
}

func gentle(f Facts) Content {
	return Content{
		Subject:  "💧 Friendly hydration reminder!",
		Headline: fmt.Sprintf("Hey %s! 👋", displayName(f)),
		Lines: []string{
			"Just a gentle reminder to stay hydrated today!",
			fmt.Sprintf("%dml of %dml (%d%%)", f.TodayTotal, f.DailyGoal, progress(f)),
			fmt.Sprintf("%dml to go!", remaining(f)),
			"Keep up the great work! 🌟",
		},
	}
}

func urgent(f Facts) Content {
	return Content{
		Subject:  "🚨 Your hydration needs attention!",
		Headline: "Hydration Alert! 🚨",
		Lines: []string{
			fmt.Sprintf("Hey %s, the day is almost over and you're at %d%% of your goal.", displayName(f), progress(f)),
			fmt.Sprintf("You still need %dml to reach your %dml goal!", remaining(f), f.DailyGoal),
			fmt.Sprintf("Don't break your %d-day streak! 🔥 Grab a glass of water right now!", f.Streak),
		},
	}
}

func weatherHot(f Facts) Content {
	var temp float64
	if f.TemperatureC != nil {
		temp = *f.TemperatureC
	}
	return Content{
		Subject:  fmt.Sprintf("☀️ It's %.0f°C - Time to hydrate!", temp),
		Headline: "Hot Weather Alert! ☀️",
		Lines: []string{
			fmt.Sprintf("It's %.0f°C outside - perfect weather for extra hydration!", temp),
			fmt.Sprintf("You're at %d%% of your goal. In hot weather, you might need even more water.", progress(f)),
			"Hot weather tip: add some electrolytes to replace what you lose through sweat!",
		},
	}
}

func behindSchedule(f Facts) Content {
	return Content{
		Subject:  "⏰ Your hydration is running behind schedule",
		Headline: fmt.Sprintf("Hey %s, let's catch up!", displayName(f)),
		Lines: []string{
			fmt.Sprintf("It's past noon and you're only at %d%% of your goal.", progress(f)),
			fmt.Sprintf("A couple of glasses now will cover a good part of the %dml left.", remaining(f)),
		},
	}
}

func displayName(f Facts) string {
	if f.Name == "" {
		return "there"
	}
	return f.Name
}

func progress(f Facts) int64 {
	return int64(math.Round(ProgressPercent(f.TodayTotal, f.DailyGoal)))
}

func remaining(f Facts) int64 {
	if f.TodayTotal >= f.DailyGoal {
		return 0
	}
	return f.DailyGoal - f.TodayTotal
}
