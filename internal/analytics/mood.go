package analytics

import (
	"fmt"
	"sort"

	"github.com/mmeshcher/hydration-system/internal/model"
)

// MoodIntake — средний объём порции при определённом настроении.
type MoodIntake struct {
	Mood          string `json:"mood"`
	AverageIntake int64  `json:"average_intake"`
	Frequency     int    `json:"frequency"`
}

// MoodCorrelation сопоставляет настроение с объёмом потребления.
type MoodCorrelation struct {
	StrongestCorrelation MoodIntake   `json:"strongest_correlation"`
	AllCorrelations      []MoodIntake `json:"all_correlations"`
	Insight              string       `json:"insight"`
}

// CorrelateMood анализирует записи с меткой настроения. Если таких записей нет, возвращает nil.
func CorrelateMood(events []model.IntakeEvent) *MoodCorrelation {
	type acc struct {
		total int64
		count int
	}

	var order []string
	byMood := make(map[string]*acc)
	for _, e := range events {
		if e.Mood == "" {
			continue
		}
		a, ok := byMood[e.Mood]
		if !ok {
			a = &acc{}
			byMood[e.Mood] = a
			order = append(order, e.Mood)
		}
		a.total += e.AmountMl
		a.count++
	}

	if len(order) == 0 {
		return nil
	}

	all := make([]MoodIntake, 0, len(order))
	for _, mood := range order {
		a := byMood[mood]
		all = append(all, MoodIntake{
			Mood:          mood,
			AverageIntake: round(float64(a.total) / float64(a.count)),
			Frequency:     a.count,
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].AverageIntake > all[j].AverageIntake
	})

	top := all[0]
	insight := fmt.Sprintf("Most of your logged moods are %s", top.Mood)
	if len(all) > 1 {
		bottom := all[len(all)-1]
		insight = fmt.Sprintf(
			"You drink %dml more on average when feeling %s vs %s",
			top.AverageIntake-bottom.AverageIntake, top.Mood, bottom.Mood,
		)
	}

	return &MoodCorrelation{
		StrongestCorrelation: top,
		AllCorrelations:      all,
		Insight:              insight,
	}
}
