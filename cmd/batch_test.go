package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wildperudo/agent"
	"wildperudo/experiments"
)

func TestParseMatchUps(t *testing.T) {
	matchUps, err := parseMatchUps([]string{"zero:first", "Random:improved"})
	require.NoError(t, err)
	require.Equal(t, []experiments.MatchUp{
		{A: agent.KindZeroOrder, B: agent.KindFirstOrder},
		{A: agent.KindRandom, B: agent.KindImproved},
	}, matchUps)

	matchUps, err = parseMatchUps(nil)
	require.NoError(t, err)
	require.Empty(t, matchUps)

	_, err = parseMatchUps([]string{"zero"})
	require.Error(t, err)

	_, err = parseMatchUps([]string{"zero:oracle"})
	require.Error(t, err)
}

func TestCommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"play", "batch", "serve"})
}
