// Package analytics реализует агрегацию записей о потреблении воды, анализ
// привычек, прогнозы, рекомендации и корреляцию с настроением.
//
// Все функции пакета чистые: они работают только с переданными данными и не
// выполняют ввод-вывод.
package analytics

import (
	"errors"
	"math"
	"sort"

	"github.com/mmeshcher/hydration-system/internal/model"
)

// ErrDivisionUndefined возвращается, если средний объём первой половины записей равен нулю.
var ErrDivisionUndefined = errors.New("division undefined: zero first-half mean")

// DateLayout — формат ключа дневных сумм.
const DateLayout = "2006-01-02"

// Aggregates содержит все суммы по набору записей.
type Aggregates struct {
	Total       int64
	Hourly      [24]int64
	Daily       map[string]int64
	Methods     map[model.Method]int64
	Weekdays    map[string]int64
	ActiveHours []int
}

// Aggregate вычисляет все суммы за один вызов.
func Aggregate(events []model.IntakeEvent) Aggregates {
	return Aggregates{
		Total:       TotalAmount(events),
		Hourly:      HourlyTotals(events),
		Daily:       DailyTotals(events),
		Methods:     MethodTotals(events),
		Weekdays:    WeekdayTotals(events),
		ActiveHours: ActiveHours(events),
	}
}

// TotalAmount возвращает общий объём записей.
func TotalAmount(events []model.IntakeEvent) int64 {
	var total int64
	for _, e := range events {
		total += e.AmountMl
	}
	return total
}

// HourlyTotals суммирует объём по часу записи (0–23) по местному времени метки.
func HourlyTotals(events []model.IntakeEvent) [24]int64 {
	var hourly [24]int64
	for _, e := range events {
		hourly[e.LoggedAt.Hour()] += e.AmountMl
	}
	return hourly
}

// CumulativeTimeline строит накопительную шкалу: элемент i равен объёму с 0 по i-й час включительно.
func CumulativeTimeline(hourly [24]int64) [24]int64 {
	var timeline [24]int64
	var acc int64
	for i, v := range hourly {
		acc += v
		timeline[i] = acc
	}
	return timeline
}

// DailyTotals суммирует объём по календарной дате записи.
func DailyTotals(events []model.IntakeEvent) map[string]int64 {
	daily := make(map[string]int64)
	for _, e := range events {
		daily[e.LoggedAt.Format(DateLayout)] += e.AmountMl
	}
	return daily
}

// MethodTotals суммирует объём по способу записи.
func MethodTotals(events []model.IntakeEvent) map[model.Method]int64 {
	methods := make(map[model.Method]int64)
	for _, e := range events {
		methods[e.Method] += e.AmountMl
	}
	return methods
}

// MethodShare возвращает округлённую долю amount в grand в процентах; при нулевом grand — 0.
func MethodShare(amount, grand int64) int {
	if grand == 0 {
		return 0
	}
	return int(round(float64(amount) / float64(grand) * 100))
}

// WeekdayTotals суммирует объём по названию дня недели.
func WeekdayTotals(events []model.IntakeEvent) map[string]int64 {
	weekdays := make(map[string]int64)
	for _, e := range events {
		weekdays[e.LoggedAt.Weekday().String()] += e.AmountMl
	}
	return weekdays
}

// ActiveHours возвращает отсортированный список часов, в которые была хотя бы одна запись.
func ActiveHours(events []model.IntakeEvent) []int {
	var seen [24]bool
	for _, e := range events {
		seen[e.LoggedAt.Hour()] = true
	}

	hours := make([]int, 0, 24)
	for h, ok := range seen {
		if ok {
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)
	return hours
}

// round округляет половину вверх.
func round(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
