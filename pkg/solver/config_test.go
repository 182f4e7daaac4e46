package solver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solverforge/solverforge/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "solverforge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigParsesDeclaredKeys(t *testing.T) {
	path := writeConfig(t, `
[termination]
seconds_spent_limit = 30
step_count_limit = 1000
best_score_limit = "0hard/-5soft"

[construction_heuristic]
type = "first_fit"

[local_search]
acceptor = "hill_climbing"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.SecondsSpentLimit)
	assert.Equal(t, int64(1000), cfg.StepCountLimit)
	assert.Equal(t, FirstFit, cfg.ConstructionHeuristic)
	assert.Equal(t, HillClimbing, cfg.Acceptor)
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `
[termination]
seconds_spent_limit = 30
typo_key = 1
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestLoadConfigRejectsUnknownAcceptor(t *testing.T) {
	path := writeConfig(t, `
[local_search]
acceptor = "quantum_annealing"
`)
	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrUnknownAcceptor)
}

func TestLoadConfigEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
[termination]
seconds_spent_limit = 30
`)
	t.Setenv("SOLVERFORGE_TERMINATION_SECONDS_SPENT_LIMIT", "99")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 99*time.Second, cfg.SecondsSpentLimit)
}

func TestBuildTerminationComposesConfiguredLimits(t *testing.T) {
	cfg := &Config{StepCountLimit: 5, BestScoreLimit: "0hard/0soft"}
	term, err := cfg.BuildTermination(score.HardSoftScore{}, 0)
	require.NoError(t, err)
	assert.True(t, term.ShouldTerminate(SolveState{StepCount: 5, BestScore: score.HardSoftScore{}}))
	assert.False(t, term.ShouldTerminate(SolveState{StepCount: 1, BestScore: score.HardSoftScore{Hard: -1}}))
}
