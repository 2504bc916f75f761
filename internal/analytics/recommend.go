package analytics

import (
	"fmt"

	"github.com/mmeshcher/hydration-system/internal/model"
)

// Priority описывает важность рекомендации.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation — одна подсказка пользователю.
type Recommendation struct {
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// RecommendationInput содержит уже вычисленные показатели, по которым работают правила.
type RecommendationInput struct {
	DailyAverage float64
	DailyGoal    int64
	Gaps         []int
	Methods      map[model.Method]int64
}

const goalShortfallRatio = 0.8

type recommendationRule func(in RecommendationInput) (Recommendation, bool)

// Порядок правил определяет порядок рекомендаций в ответе.
var recommendationRules = []recommendationRule{
	goalRule,
	gapRule,
	methodRule,
}

// Recommend применяет правила по порядку; несработавшее правило ничего не добавляет.
func Recommend(in RecommendationInput) []Recommendation {
	res := make([]Recommendation, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if rec, ok := rule(in); ok {
			res = append(res, rec)
		}
	}
	return res
}

func goalRule(in RecommendationInput) (Recommendation, bool) {
	if in.DailyAverage >= float64(in.DailyGoal)*goalShortfallRatio {
		return Recommendation{}, false
	}

	deficit := round(float64(in.DailyGoal) - in.DailyAverage)
	return Recommendation{
		Type:     "goal",
		Priority: PriorityHigh,
		Title:    "Increase Daily Intake",
		Message: fmt.Sprintf(
			"You're averaging %dml daily. Try adding %dml more to reach your goal consistently.",
			round(in.DailyAverage), deficit,
		),
		Action: "Set more frequent reminders",
	}, true
}

func gapRule(in RecommendationInput) (Recommendation, bool) {
	if len(in.Gaps) == 0 {
		return Recommendation{}, false
	}

	return Recommendation{
		Type:     "timing",
		Priority: PriorityMedium,
		Title:    "Fill the Gaps",
		Message: fmt.Sprintf(
			"You tend to drink less water between %d:00. Try setting a reminder for this time.",
			in.Gaps[0],
		),
		Action: "Schedule reminder",
	}, true
}

func methodRule(in RecommendationInput) (Recommendation, bool) {
	if len(in.Methods) != 1 {
		return Recommendation{}, false
	}
	if _, ok := in.Methods[model.MethodManual]; !ok {
		return Recommendation{}, false
	}

	return Recommendation{
		Type:     "method",
		Priority: PriorityLow,
		Title:    "Try Voice Logging",
		Message:  "Voice logging can make tracking more convenient and fun! Give it a try.",
		Action:   "Enable voice features",
	}, true
}
