package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func main() {
	var flags runFlags

	rootCmd := &cobra.Command{
		Use:           "communities",
		Short:         "Multilevel community detection over generated graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&flags.objective, "objective", "", "Override the objective: modularity or linearity")
	rootCmd.PersistentFlags().BoolVar(&flags.expand, "expand", false, "Grow the final communities into an overlapping cover")
	rootCmd.PersistentFlags().IntVar(&flags.maxLevels, "max-levels", 0, "Override the level cap (0 keeps the configured value)")

	var (
		cliques    int
		cliqueSize int
	)
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run both objectives on a ring of cliques",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, flags, cliques, cliqueSize)
		},
	}
	benchCmd.Flags().IntVar(&cliques, "cliques", 8, "Number of cliques in the ring")
	benchCmd.Flags().IntVar(&cliqueSize, "size", 5, "Nodes per clique")

	var planted plantedFlags
	plantedCmd := &cobra.Command{
		Use:   "planted",
		Short: "Detect communities in a planted partition graph and compare with the plant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanted(cmd, flags, planted)
		},
	}
	planted.register(plantedCmd)

	var scored plantedFlags
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Score the planted partition and the detected one with every quality function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, flags, scored)
		},
	}
	scored.register(scoreCmd)

	var (
		generator string
		explored  plantedFlags
	)
	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the dendrogram of a detection run interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, flags, generator, explored)
		},
	}
	exploreCmd.Flags().StringVar(&generator, "generator", "planted", "Graph generator: ring or planted")
	explored.register(exploreCmd)

	var (
		swept   plantedFlags
		runs    int
		workers int
	)
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Detect communities in planted graphs over consecutive seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, flags, swept, runs, workers)
		},
	}
	swept.register(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "Number of seeds, starting at --seed")
	sweepCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Concurrent runs")

	rootCmd.AddCommand(benchCmd, plantedCmd, scoreCmd, exploreCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

type plantedFlags struct {
	groups int
	size   int
	pIn    float64
	pOut   float64
	seed   int64
}

func (p *plantedFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.groups, "groups", 4, "Number of planted groups")
	cmd.Flags().IntVar(&p.size, "size", 25, "Nodes per group")
	cmd.Flags().Float64Var(&p.pIn, "p-in", 0.4, "Edge probability inside a group")
	cmd.Flags().Float64Var(&p.pOut, "p-out", 0.02, "Edge probability across groups")
	cmd.Flags().Int64Var(&p.seed, "seed", 1, "Random seed")
}
