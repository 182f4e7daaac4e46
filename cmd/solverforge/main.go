// Command solverforge is the CLI driver around pkg/solver: it loads a
// configuration file and applies its termination limits, runs one of the
// example problem domains with a fixed first-fit construction phase and
// hill-climbing local search, and prints the resulting Telemetry.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solverforge",
		Short: "solverforge",
		Long:  "A CLI driver for the SolverForge constraint-based optimization engine.",

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("solverforge: command failed")
		os.Exit(1)
	}
}
