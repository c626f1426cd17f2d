package ai

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
)

var digitRun = regexp.MustCompile(`\d+`)

// ParseScore extracts a validated integer score from free-form provider output.
// The first run of digits wins, even when several numbers appear ("8/10" yields 8).
// Values outside [0, maxScore] are clamped with a warning.
func ParseScore(raw string, maxScore int, logger zerolog.Logger) (int, error) {
	match := digitRun.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoScoreFound, raw)
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoScoreFound, raw)
	}

	if score < 0 {
		logger.Warn().Int("score", score).Msg("negative score from provider, clamping to 0")
		return 0, nil
	}

	if score > maxScore {
		logger.Warn().Int("score", score).Int("max_score", maxScore).Msg("score exceeds maximum, capping")
		return maxScore, nil
	}

	return score, nil
}
