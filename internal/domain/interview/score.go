package interview

import (
	"regexp"
	"strconv"
)

// DefaultScore is substituted when no score can be extracted from
// evaluator output.
const DefaultScore = 7.0

// ValidationThreshold gates the validator: only sections scoring strictly
// below it are validated.
const ValidationThreshold = 7.0

// Evaluator output carries the score either as "Confidence Score: N" /
// "confidence: N" or as a bare "N/10". The first matching pattern wins.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)confidence(?:\s+score)?\s*[:=]\s*(-?[0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(-?[0-9]+(?:\.[0-9]+)?)\s*/\s*10`),
}

// ExtractScore pulls a confidence score out of free-form evaluator text.
// The second return value reports whether a score pattern actually matched;
// when it is false the returned value is DefaultScore. A matched value is
// clamped to [0, 10].
func ExtractScore(text string) (float64, bool) {
	for _, pat := range scorePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return ClampScore(v), true
	}
	return DefaultScore, false
}

// ClampScore limits a score to the valid [0, 10] range.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
