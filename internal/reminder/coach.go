package reminder

import "fmt"

// CoachContext — повод для сообщения тренера.
type CoachContext string

const (
	CoachGoalReached     CoachContext = "goal_reached"
	CoachBehindSchedule  CoachContext = "behind_schedule"
	CoachStreakMilestone CoachContext = "streak_milestone"
	CoachMotivational    CoachContext = "motivational"
	CoachRandom          CoachContext = "random"
)

// ParseCoachContext разбирает повод; пустая строка означает motivational.
func ParseCoachContext(s string) (CoachContext, error) {
	switch c := CoachContext(s); c {
	case "":
		return CoachMotivational, nil
	case CoachGoalReached, CoachBehindSchedule, CoachStreakMilestone, CoachMotivational, CoachRandom:
		return c, nil
	}
	return "", fmt.Errorf("unknown coach context %q", s)
}

// ChooseContext выбирает повод по прогрессу дня, текущему часу и длине серии.
func ChooseContext(progressPct float64, hour int, streak int64) CoachContext {
	switch {
	case progressPct >= 100:
		return CoachGoalReached
	case hour > 14 && progressPct < 50:
		return CoachBehindSchedule
	case streak > 0 && streak%7 == 0:
		return CoachStreakMilestone
	default:
		return CoachMotivational
	}
}

// FallbackMessage возвращает заготовленное сообщение для повода.
// pick получает размер набора и возвращает индекс в диапазоне [0, n).
func FallbackMessage(ctx CoachContext, pick func(n int) int) string {
	pool := messagePool(ctx)
	i := pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

func messagePool(ctx CoachContext) []string {
	switch ctx {
	case CoachGoalReached:
		return goalReachedMessages
	case CoachBehindSchedule:
		return behindScheduleMessages
	case CoachStreakMilestone:
		return streakMilestoneMessages
	case CoachRandom:
		return randomMessages
	default:
		return motivationalMessages
	}
}

var goalReachedMessages = []string{
	"🎉 Boom! You've crushed your hydration goal! Your cells are throwing a party right now!",
	"💧 Goal achieved! You're officially a hydration legend today!",
	"🏆 Daily goal: SMASHED! Your kidneys are sending you a thank you card!",
	"✨ Hydration master level unlocked! Keep this energy tomorrow!",
}

var behindScheduleMessages = []string{
	"🤔 Hmm, your water bottle is looking lonely... maybe give it some attention?",
	"⏰ Time check: Your hydration is running behind schedule. Let's catch up!",
	"💦 Your body is sending subtle hints (like thirst). Maybe listen to it?",
	"🚨 Hydration alert! You're falling behind, but it's never too late to catch up!",
}

var streakMilestoneMessages = []string{
	"🔥 Streak on fire! You're building some serious hydration habits!",
	"⚡ Consistency level: LEGENDARY! Your streak is impressive!",
	"🎯 Another day, another hydration victory! Keep the streak alive!",
	"💪 Your dedication to hydration is inspiring! Streak power activated!",
}

var motivationalMessages = []string{
	"💧 Every sip is a step towards better health. You've got this!",
	"🌊 Think of it as giving your body the premium fuel it deserves!",
	"✨ Hydration isn't just drinking water, it's self-care in liquid form!",
	"🚀 Your future self will thank you for every drop you drink today!",
}

var randomMessages = []string{
	"💡 Fun fact: Your brain is 75% water. Feed it well!",
	"🌱 You're literally watering your internal garden. How zen is that?",
	"🎭 Plot twist: The secret to glowing skin might just be... water!",
	"🤖 Beep boop! Coach reminder: H2O = Happy, Healthy, Outstanding you!",
}
