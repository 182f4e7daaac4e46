package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var domainName string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the initial per-constraint score breakdown for a named domain",
		Long: `solverforge analyze builds a named domain's initial working
solution, computes its score once, and prints the per-constraint breakdown
that Director.Analyze reports — no search is run.

  $ solverforge analyze --domain n-queens-4
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(domainName)
		},
	}
	cmd.Flags().StringVarP(&domainName, "domain", "D", "", "example domain to analyze (required)")
	if err := cmd.MarkFlagRequired("domain"); err != nil {
		panic(err)
	}
	return cmd
}

func runAnalyze(domainName string) error {
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

	total, err := dir.CalculateScore()
	if err != nil {
		return err
	}
	fmt.Printf("total: %s\n", total.String())

	breakdown := dir.Analyze()
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, breakdown[name].String())
	}
	return nil
}
