package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

type runFlags struct {
	configPath string
	objective  string
	expand     bool
	maxLevels  int
}

// loadConfig reads the config file, if any, and applies command line
// overrides. Overrides are validated again.
func loadConfig(cmd *cobra.Command, flags runFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("objective") {
		cfg.Objective = flags.objective
	}
	if cmd.Flags().Changed("expand") {
		cfg.Expand = flags.expand
	}
	if cmd.Flags().Changed("max-levels") {
		cfg.MaxLevels = flags.maxLevels
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detect runs the optimiser on g with the options described by cfg
func detect(cfg *config.Config, registry *metrics.Registry, g *graph.Graph) (*algorithms.CommunityDetectionResult, error) {
	opts, err := cfg.Options(cfg.Logger(os.Stderr), registry)
	if err != nil {
		return nil, err
	}
	return algorithms.DetectCommunities(g, opts)
}

func runBench(cmd *cobra.Command, flags runFlags, cliques, size int) error {
	if cliques < 1 || size < 1 {
		return fmt.Errorf("cliques and size must be positive, got %d and %d", cliques, size)
	}
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	g := graph.RingOfCliques(cliques, size)
	registry := metrics.NewRegistry()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Ring of %d cliques of %d nodes", cliques, size)))
	fmt.Fprintln(out, renderGraphStats(g))

	for _, objective := range []string{algorithms.KindModularity.String(), algorithms.KindLinearity.String()} {
		run := *cfg
		run.Objective = objective
		result, err := detect(&run, registry, g)
		if err != nil {
			return fmt.Errorf("%s: %w", objective, err)
		}
		fmt.Fprintln(out, renderResult(result))
	}
	return nil
}

func runPlanted(cmd *cobra.Command, flags runFlags, p plantedFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	g, truth, err := plantedGraph(p)
	if err != nil {
		return err
	}

	result, err := detect(cfg, metrics.NewRegistry(), g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Planted partition: %d groups of %d", p.groups, p.size)))
	fmt.Fprintln(out, renderGraphStats(g))
	fmt.Fprintln(out, renderResult(result))
	fmt.Fprintln(out, renderRecovery(purity(result.NodeCommunity, truth), purity(truth, result.NodeCommunity)))
	return nil
}

func runScore(cmd *cobra.Command, flags runFlags, p plantedFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	g, truth, err := plantedGraph(p)
	if err != nil {
		return err
	}

	result, err := detect(cfg, metrics.NewRegistry(), g)
	if err != nil {
		return err
	}

	params := cfg.LinearityParams()

	plantedRow, err := scorePartition(g, "planted", truth, params)
	if err != nil {
		return err
	}
	detectedRow, err := scorePartition(g, "detected", result.NodeCommunity, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Quality of %d planted groups of %d", p.groups, p.size)))
	fmt.Fprintln(out, renderScores([]scoreRow{plantedRow, detectedRow}))
	return nil
}

func plantedGraph(p plantedFlags) (*graph.Graph, algorithms.Partition, error) {
	if p.groups < 1 || p.size < 1 {
		return nil, nil, fmt.Errorf("groups and size must be positive, got %d and %d", p.groups, p.size)
	}
	if p.pIn < 0 || p.pIn > 1 || p.pOut < 0 || p.pOut > 1 {
		return nil, nil, fmt.Errorf("probabilities must lie in [0, 1], got p-in %g and p-out %g", p.pIn, p.pOut)
	}

	g := graph.PlantedPartition(p.groups, p.size, p.pIn, p.pOut, p.seed)
	truth := make(algorithms.Partition, g.NodeCount())
	for _, id := range g.Nodes() {
		truth[id] = int(id) / p.size
	}
	return g, truth, nil
}
