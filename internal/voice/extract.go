// Package voice извлекает объём выпитого из расшифровки голосовой команды.
package voice

import (
	"math"
	"regexp"
	"strconv"
)

const (
	mlPerLiter  = 1000
	mlPerCup    = 250
	mlPerBottle = 500

	// Границы правдоподобной порции для числа без единиц измерения.
	fallbackMin = 50
	fallbackMax = 5000
)

type rule struct {
	pattern *regexp.Regexp
	extract func(match []string) float64
}

const number = `(\d+(?:\.\d+)?)`

// Правила проверяются по порядку, побеждает первое совпадение.
var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)` + number + `\s*(?:ml|mls|milliliters?|millilitres?)\b`),
		extract: func(m []string) float64 { return parseNumber(m[1], 0) },
	},
	{
		pattern: regexp.MustCompile(`(?i)` + number + `\s*(?:l|liters?|litres?)\b`),
		extract: func(m []string) float64 { return parseNumber(m[1], 0) * mlPerLiter },
	},
	{
		pattern: regexp.MustCompile(`(?i)(?:` + number + `\s*|\b)(?:cups?|glass(?:es)?)\b`),
		extract: func(m []string) float64 { return parseNumber(m[1], 1) * mlPerCup },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:water\s+)?bottles?\b`),
		extract: func([]string) float64 { return mlPerBottle },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:cup|glass)\b`),
		extract: func([]string) float64 { return mlPerCup },
	},
}

var standaloneNumber = regexp.MustCompile(`\d+`)

// Extract возвращает объём в миллилитрах или 0, если объём не распознан.
// Ноль означает, что пользователя нужно переспросить.
func Extract(transcript string) int64 {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(transcript); m != nil {
			return toMl(r.extract(m))
		}
	}

	raw := standaloneNumber.FindString(transcript)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < fallbackMin || n > fallbackMax {
		return 0
	}
	return n
}

func parseNumber(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func toMl(v float64) int64 {
	// Значения вне int64 не представимы.
	if math.IsNaN(v) || v <= 0 || v >= math.MaxInt64 {
		return 0
	}
	return int64(math.Round(v))
}
