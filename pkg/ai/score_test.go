package ai

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseScorePlainNumber(t *testing.T) {
	score, err := ParseScore("7", 10, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 7, score)
}

func TestParseScoreTakesFirstNumber(t *testing.T) {
	cases := map[string]int{
		"8/10":                   8,
		"Score: 8 out of 10":     8,
		"I would give this a 9.": 9,
		"  3  ":                  3,
	}

	for raw, expected := range cases {
		score, err := ParseScore(raw, 10, zerolog.Nop())
		require.NoError(t, err, "input %q", raw)
		require.Equal(t, expected, score, "input %q", raw)
	}
}

func TestParseScoreNoDigits(t *testing.T) {
	_, err := ParseScore("I cannot grade this submission.", 10, zerolog.Nop())
	require.ErrorIs(t, err, ErrNoScoreFound)
}

func TestParseScoreClampsAboveMax(t *testing.T) {
	score, err := ParseScore("15", 10, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 10, score)
}

func TestParseScoreAlwaysWithinRange(t *testing.T) {
	inputs := []string{"0", "5", "10", "11", "100", "Score: 42", "1000/10"}
	for _, raw := range inputs {
		score, err := ParseScore(raw, 10, zerolog.Nop())
		require.NoError(t, err, "input %q", raw)
		require.GreaterOrEqual(t, score, 0, "input %q", raw)
		require.LessOrEqual(t, score, 10, "input %q", raw)
	}
}
