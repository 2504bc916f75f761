package analytics

import (
	"sort"
	"time"

	"github.com/mmeshcher/hydration-system/internal/model"
)

const (
	peakHoursLimit = 3
	gapThreshold   = 3
)

// HourAmount — объём за час суток.
type HourAmount struct {
	Hour   int   `json:"hour"`
	Amount int64 `json:"amount"`
}

// MethodAmount — объём и доля способа записи.
type MethodAmount struct {
	Method     model.Method `json:"method"`
	Amount     int64        `json:"amount"`
	Percentage int          `json:"percentage"`
}

// DayAmount — объём за день недели.
type DayAmount struct {
	Day    string `json:"day"`
	Amount int64  `json:"amount"`
}

// Patterns описывает привычки пользователя за окно.
type Patterns struct {
	PeakHours        []HourAmount   `json:"peak_hours"`
	PreferredMethods []MethodAmount `json:"preferred_methods"`
	BestDays         []DayAmount    `json:"best_days"`
	Gaps             []int          `json:"gaps"`
}

// AnalyzePatterns строит сводку привычек по агрегатам.
func AnalyzePatterns(agg Aggregates) Patterns {
	return Patterns{
		PeakHours:        PeakHours(agg.Hourly),
		PreferredMethods: PreferredMethods(agg.Methods, agg.Total),
		BestDays:         BestWeekdays(agg.Weekdays),
		Gaps:             ActivityGaps(agg.ActiveHours),
	}
}

// PeakHours возвращает до трёх часов с наибольшим объёмом; при равенстве раньше идёт меньший час.
func PeakHours(hourly [24]int64) []HourAmount {
	hours := make([]HourAmount, 0, len(hourly))
	for h, amount := range hourly {
		if amount > 0 {
			hours = append(hours, HourAmount{Hour: h, Amount: amount})
		}
	}

	// hours уже упорядочены по возрастанию часа, стабильная сортировка сохраняет этот порядок при равенстве.
	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Amount > hours[j].Amount
	})

	if len(hours) > peakHoursLimit {
		hours = hours[:peakHoursLimit]
	}
	return hours
}

// PreferredMethods сортирует способы записи по убыванию объёма.
func PreferredMethods(methods map[model.Method]int64, grand int64) []MethodAmount {
	res := make([]MethodAmount, 0, len(methods))
	for m, amount := range methods {
		res = append(res, MethodAmount{
			Method:     m,
			Amount:     amount,
			Percentage: MethodShare(amount, grand),
		})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Amount != res[j].Amount {
			return res[i].Amount > res[j].Amount
		}
		return res[i].Method < res[j].Method
	})
	return res
}

// BestWeekdays сортирует дни недели по убыванию объёма; при равенстве — в календарном порядке.
func BestWeekdays(weekdays map[string]int64) []DayAmount {
	res := make([]DayAmount, 0, len(weekdays))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if amount, ok := weekdays[d.String()]; ok {
			res = append(res, DayAmount{Day: d.String(), Amount: amount})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Amount > res[j].Amount
	})
	return res
}

// ActivityGaps возвращает часы, с которых начинается перерыв длиннее трёх часов.
// activeHours должны быть отсортированы по возрастанию.
func ActivityGaps(activeHours []int) []int {
	gaps := make([]int, 0)
	for i := 0; i+1 < len(activeHours); i++ {
		if activeHours[i+1]-activeHours[i] > gapThreshold {
			gaps = append(gaps, activeHours[i]+1)
		}
	}
	return gaps
}
