package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solverforge/solverforge/pkg/score"
	"github.com/solverforge/solverforge/pkg/solver"
)

func newSolveCmd() *cobra.Command {
	var (
		domainName string
		configPath string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a named example problem domain and print its telemetry",
		Long: `solverforge solve runs one of the registered example domains
(n-queens-4, n-queens-8, employee-scheduling-minimal) through a construction
heuristic and a local-search phase, then prints the final Telemetry report.

  $ solverforge solve --domain n-queens-8 --format yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(domainName, configPath, format)
		},
	}
	cmd.Flags().StringVarP(&domainName, "domain", "D", "", "example domain to solve (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a solverforge.toml termination/phase config")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "telemetry output format: yaml or json")
	if err := cmd.MarkFlagRequired("domain"); err != nil {
		log.Fatal("solverforge: failed to mark `domain` flag required")
	}
	return cmd
}

func runSolve(domainName, configPath, format string) error {
	registry := domains()
	build, ok := registry[domainName]
	if !ok {
		names := make([]string, 0, len(registry))
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("solverforge: unknown domain %q (known: %s)", domainName, strings.Join(names, ", "))
	}
	d := build()

	dir, err := d.build()
	if err != nil {
		return err
	}

	term, err := loadTermination(configPath)
	if err != nil {
		return err
	}

	constructor := solver.FirstFitConstructor{
		ClassIdx: d.classIdx,
		VarIdx:   d.varIdx,
		Values:   func() []int { return d.values },
	}
	local := solver.LocalSearchPhase{
		Selector: &cycleSelector{d: d},
		Acceptor: solver.HillClimbingAcceptor{},
	}

	manager := solver.NewSolverManager()
	id := manager.Submit(dir, []solver.Phase{constructor, local}, term)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := manager.Result(ctx, id)
	if err != nil {
		return err
	}

	log.WithField("domain", domainName).WithField("feasible", result.Feasible).Info("solve finished")
	return printTelemetry(result.Telemetry, format)
}

func loadTermination(configPath string) (solver.Termination, error) {
	if configPath == "" {
		return solver.StepCountLimit(10_000), nil
	}
	cfg, err := solver.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.BuildTermination(score.HardSoftScore{}, 0)
}

func printTelemetry(t solver.Telemetry, format string) error {
	switch strings.ToLower(format) {
	case "yaml":
		out, err := yaml.Marshal(t)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "json":
		return printJSON(t)
	default:
		return fmt.Errorf("solverforge: unknown format %q (want yaml or json)", format)
	}
	return nil
}
