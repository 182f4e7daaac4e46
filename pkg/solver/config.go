package solver

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/solverforge/solverforge/pkg/score"
	"github.com/spf13/viper"
)

// ConstructionHeuristicKind is the closed enumeration of construction
// heuristic names the config grammar accepts (SPEC_FULL.md §4.6).
type ConstructionHeuristicKind string

const (
	FirstFit ConstructionHeuristicKind = "first_fit"
	BestFit  ConstructionHeuristicKind = "best_fit"
)

// AcceptorKind is the closed enumeration of local-search acceptor names.
type AcceptorKind string

const (
	HillClimbing                AcceptorKind = "hill_climbing"
	LateAcceptance              AcceptorKind = "late_acceptance"
	SimulatedAnnealing          AcceptorKind = "simulated_annealing"
	TabuSearch                  AcceptorKind = "tabu_search"
	GreatDeluge                 AcceptorKind = "great_deluge"
	StepCountingHillClimbing    AcceptorKind = "step_counting_hill_climbing"
	DiversifiedLateAcceptance   AcceptorKind = "diversified_late_acceptance"
)

func validConstructionHeuristic(name string) bool {
	switch ConstructionHeuristicKind(name) {
	case FirstFit, BestFit:
		return true
	default:
		return false
	}
}

func validAcceptor(name string) bool {
	switch AcceptorKind(name) {
	case HillClimbing, LateAcceptance, SimulatedAnnealing, TabuSearch,
		GreatDeluge, StepCountingHillClimbing, DiversifiedLateAcceptance:
		return true
	default:
		return false
	}
}

// rawConfig mirrors the TOML grammar from spec §6 exactly, field for field,
// so BurntSushi/toml's MetaData.Undecoded can report any key this struct
// does not declare.
type rawConfig struct {
	Termination struct {
		SecondsSpentLimit           int    `toml:"seconds_spent_limit"`
		UnimprovedSecondsSpentLimit int    `toml:"unimproved_seconds_spent_limit"`
		StepCountLimit              int    `toml:"step_count_limit"`
		BestScoreLimit              string `toml:"best_score_limit"`
	} `toml:"termination"`
	ConstructionHeuristic struct {
		Type string `toml:"type"`
	} `toml:"construction_heuristic"`
	LocalSearch struct {
		Acceptor string `toml:"acceptor"`
	} `toml:"local_search"`
}

// Config is the parsed, validated solver configuration.
type Config struct {
	SecondsSpentLimit           time.Duration
	UnimprovedSecondsSpentLimit time.Duration
	StepCountLimit              int64
	BestScoreLimit              string

	ConstructionHeuristic ConstructionHeuristicKind
	Acceptor              AcceptorKind
}

// LoadConfig decodes a TOML config file per spec §6, hard-erroring on any
// key rawConfig does not declare, then overlays environment variables of
// the form SOLVERFORGE_TERMINATION_SECONDS_SPENT_LIMIT via viper. Viper
// only overlays keys rawConfig already declared, so the unknown-key check
// is never weakened by the overlay.
func LoadConfig(path string) (*Config, error) {
	var raw rawConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, parseError(0, 0, err.Error())
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, parseError(0, 0, "unknown config key: "+undecoded[0].String())
	}

	v := viper.New()
	v.SetEnvPrefix("SOLVERFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"termination.seconds_spent_limit",
		"termination.unimproved_seconds_spent_limit",
		"termination.step_count_limit",
		"termination.best_score_limit",
		"construction_heuristic.type",
		"local_search.acceptor",
	} {
		_ = v.BindEnv(key)
	}
	if v.IsSet("termination.seconds_spent_limit") {
		raw.Termination.SecondsSpentLimit = v.GetInt("termination.seconds_spent_limit")
	}
	if v.IsSet("termination.unimproved_seconds_spent_limit") {
		raw.Termination.UnimprovedSecondsSpentLimit = v.GetInt("termination.unimproved_seconds_spent_limit")
	}
	if v.IsSet("termination.step_count_limit") {
		raw.Termination.StepCountLimit = v.GetInt("termination.step_count_limit")
	}
	if v.IsSet("termination.best_score_limit") {
		raw.Termination.BestScoreLimit = v.GetString("termination.best_score_limit")
	}
	if v.IsSet("construction_heuristic.type") {
		raw.ConstructionHeuristic.Type = v.GetString("construction_heuristic.type")
	}
	if v.IsSet("local_search.acceptor") {
		raw.LocalSearch.Acceptor = v.GetString("local_search.acceptor")
	}

	cfg := &Config{
		SecondsSpentLimit:           time.Duration(raw.Termination.SecondsSpentLimit) * time.Second,
		UnimprovedSecondsSpentLimit: time.Duration(raw.Termination.UnimprovedSecondsSpentLimit) * time.Second,
		StepCountLimit:              int64(raw.Termination.StepCountLimit),
		BestScoreLimit:              raw.Termination.BestScoreLimit,
		ConstructionHeuristic:       ConstructionHeuristicKind(raw.ConstructionHeuristic.Type),
		Acceptor:                    AcceptorKind(raw.LocalSearch.Acceptor),
	}
	if cfg.ConstructionHeuristic != "" && !validConstructionHeuristic(string(cfg.ConstructionHeuristic)) {
		return nil, unknownConstructionHeuristic(string(cfg.ConstructionHeuristic))
	}
	if cfg.Acceptor != "" && !validAcceptor(string(cfg.Acceptor)) {
		return nil, unknownAcceptor(string(cfg.Acceptor))
	}
	return cfg, nil
}

// BuildTermination composes the configured wall-clock/step/best-score
// limits into a single Termination, AnyOf-combined (spec §4.6). like is
// used to parse BestScoreLimit in the caller's score kind; scale is only
// consulted for decimal score kinds.
func (c *Config) BuildTermination(like score.Score, scale int32) (Termination, error) {
	var terms []Termination
	if c.SecondsSpentLimit > 0 {
		terms = append(terms, SecondsSpentLimit(c.SecondsSpentLimit))
	}
	if c.UnimprovedSecondsSpentLimit > 0 {
		terms = append(terms, UnimprovedSecondsSpentLimit(c.UnimprovedSecondsSpentLimit))
	}
	if c.StepCountLimit > 0 {
		terms = append(terms, StepCountLimit(c.StepCountLimit))
	}
	if c.BestScoreLimit != "" {
		limit, err := score.Parse(like.Kind(), c.BestScoreLimit, scale)
		if err != nil {
			return nil, err
		}
		terms = append(terms, BestScoreLimit(limit))
	}
	return AnyOf(terms...), nil
}
