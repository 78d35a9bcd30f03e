package algorithms

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Defaults applied by DefaultLouvainOptions and to zero option values
const (
	DefaultEpsilon                    = 1e-8
	DefaultLabelPropagationIterations = 20
)

// SeedStrategy chooses the level 0 partition when none is supplied
type SeedStrategy int

const (
	// SeedNone starts from singleton communities
	SeedNone SeedStrategy = iota
	// SeedLabelPropagation starts from the label propagation communities
	SeedLabelPropagation
)

// String returns the configuration name of the strategy
func (s SeedStrategy) String() string {
	switch s {
	case SeedNone:
		return "none"
	case SeedLabelPropagation:
		return "label_propagation"
	default:
		return "unknown"
	}
}

// ParseSeedStrategy converts a configuration name to a SeedStrategy
func ParseSeedStrategy(name string) (SeedStrategy, error) {
	switch name {
	case "", "none":
		return SeedNone, nil
	case "label_propagation":
		return SeedLabelPropagation, nil
	default:
		return SeedNone, invalidParameter("parse", "seed", "unknown strategy %q", name)
	}
}

// LouvainOptions configures the multilevel optimiser
type LouvainOptions struct {
	Objective ObjectiveSpec

	// Epsilon is the minimal score improvement that keeps a sweep or a level
	// going. Zero selects DefaultEpsilon.
	Epsilon float64

	// MaxLevels caps the number of dendrogram levels; 0 means unbounded.
	MaxLevels int

	// InitialPartition seeds level 0. It must cover every node; community ids
	// are arbitrary and renumbered densely.
	InitialPartition Partition

	Seed                       SeedStrategy
	LabelPropagationIterations int

	// Expand grows the final communities into an overlapping cover
	Expand bool
	// ExpandParams weights the expansion gain. Zero value selects the
	// linearity weights of Objective, or {1, 1, 0} under modularity.
	ExpandParams LinearityParams

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// DefaultLouvainOptions returns modularity optimisation with no logging and
// no metrics.
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Objective:                  ModularityObjective(),
		Epsilon:                    DefaultEpsilon,
		LabelPropagationIterations: DefaultLabelPropagationIterations,
		Logger:                     logging.NewNopLogger(),
	}
}

// normalized fills zero values with defaults
func (o LouvainOptions) normalized() LouvainOptions {
	o.Epsilon = validation.DefaultOr(o.Epsilon, DefaultEpsilon)
	o.LabelPropagationIterations = validation.DefaultOr(o.LabelPropagationIterations, DefaultLabelPropagationIterations)
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.ExpandParams == (LinearityParams{}) {
		if o.Objective.Kind == KindLinearity {
			o.ExpandParams = o.Objective.Linearity
		} else {
			o.ExpandParams = LinearityParams{A: 1, B: 1}
		}
	}
	return o
}

// Validate checks the options after defaults are applied
func (o LouvainOptions) Validate() error {
	o = o.normalized()
	err := validation.NewConfigValidator("LouvainOptions").
		PositiveFloat("Epsilon", o.Epsilon).
		NonNegative("MaxLevels", o.MaxLevels).
		When(o.Seed == SeedLabelPropagation, func(cv *validation.ConfigValidator) {
			cv.MinInt("LabelPropagationIterations", o.LabelPropagationIterations, 1)
			cv.Custom("Seed", func() error {
				if o.InitialPartition != nil {
					return ErrInvalidParameter
				}
				return nil
			})
		}).
		Custom("Objective", o.Objective.Validate).
		When(o.Expand, func(cv *validation.ConfigValidator) {
			cv.Custom("ExpandParams", o.ExpandParams.Validate)
		}).
		Validate()
	if err != nil {
		return NewError("validate").Field("options").Context("%v", err).Cause(ErrInvalidParameter).Err()
	}
	return nil
}

// initialAssignment resolves the level 0 partition, nil meaning singletons
func initialAssignment(g *graph.Graph, opts LouvainOptions) ([]int, error) {
	switch {
	case opts.InitialPartition != nil:
		assignment, err := toAssignment("initial partition", g, opts.InitialPartition)
		if err != nil {
			return nil, err
		}
		dense, _ := renumber(assignment)
		return dense, nil
	case opts.Seed == SeedLabelPropagation:
		labels := propagateLabels(g, opts.LabelPropagationIterations)
		dense, _ := renumber(labels)
		return dense, nil
	default:
		return nil, nil
	}
}

// GenerateDendrogram runs local search and coarsening until a level improves
// the score by less than Epsilon. The terminal level is always appended.
func GenerateDendrogram(g *graph.Graph, opts LouvainOptions) (*DendrogramResult, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, invalidGraph("dendrogram", "graph has no nodes")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	logger := opts.Logger

	obj, err := opts.Objective.bind(g)
	if err != nil {
		return nil, err
	}

	initial, err := initialAssignment(g, opts)
	if err != nil {
		return nil, err
	}
	acc, err := NewAccounting(g, initial)
	if err != nil {
		return nil, err
	}

	current := g
	score := obj.Score(acc)
	result := &DendrogramResult{
		Objective:    obj.Name(),
		InitialScore: score,
	}

	for level := 0; ; level++ {
		timer := logging.StartTimer(logger, "level converged", logging.DendrogramLevel(level), logging.Nodes(current.NodeCount()))

		stats := localSearch(acc, obj, opts.Epsilon)
		dense, k := renumber(acc.Assignment())
		result.Dendrogram = append(result.Dendrogram, fromAssignment(current, dense))

		next := obj.Score(acc)
		improvement := next - score
		done := improvement < opts.Epsilon || (opts.MaxLevels > 0 && level+1 >= opts.MaxLevels)

		var coarse *graph.Graph
		if !done {
			coarse = coarsen(current, dense, k)
		}

		elapsed := timer.EndWithLevel(logging.DebugLevel,
			logging.Communities(k),
			logging.Sweeps(stats.sweeps),
			logging.Moves(stats.moves),
			logging.Score(next),
		)
		result.Levels = append(result.Levels, LevelStats{
			Level:       level,
			Nodes:       current.NodeCount(),
			Communities: k,
			Sweeps:      stats.sweeps,
			Moves:       stats.moves,
			Score:       next,
			Duration:    elapsed,
		})
		if opts.Metrics != nil {
			opts.Metrics.RecordLevel(obj.Name(), current.NodeCount(), stats.sweeps, stats.moves, elapsed)
		}

		score = next
		if done {
			break
		}

		current = coarse
		if acc, err = NewAccounting(current, nil); err != nil {
			return nil, NewError("dendrogram").Level(level + 1).Cause(err).Err()
		}
	}

	result.Score = score
	return result, nil
}

// PartitionAtLevel composes levels 0..level, mapping every original node to
// its community at that level.
func (d Dendrogram) PartitionAtLevel(level int) (Partition, error) {
	if level < 0 || level >= len(d) {
		return nil, invalidParameter("partition at level", "level", "%d outside [0, %d)", level, len(d))
	}
	out := make(Partition, len(d[0]))
	for id, c := range d[0] {
		out[id] = c
	}
	for l := 1; l <= level; l++ {
		for id, c := range out {
			next, ok := d[l][graph.NodeID(c)]
			if !ok {
				return nil, NewError("partition at level").Level(l).
					Context("community %d of node %d missing", c, id).
					Cause(ErrInvalidParameter).Err()
			}
			out[id] = next
		}
	}
	return out, nil
}

// Flatten maps every original node to its community at the last level
func (d Dendrogram) Flatten() (Partition, error) {
	if len(d) == 0 {
		return Partition{}, nil
	}
	return d.PartitionAtLevel(len(d) - 1)
}

// DetectCommunities optimises the objective, flattens the dendrogram and
// reports the final communities.
func DetectCommunities(g *graph.Graph, opts LouvainOptions) (*CommunityDetectionResult, error) {
	opts = opts.normalized()
	runID := uuid.NewString()
	objective := opts.Objective.Name()

	logger := opts.Logger.With(logging.RunID(runID), logging.Objective(objective))
	opts.Logger = logger
	start := time.Now()

	result, err := detect(g, opts)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("community detection failed", logging.Error(err), logging.Latency(elapsed))
		if opts.Metrics != nil {
			opts.Metrics.RecordRun(objective, metrics.StatusError, elapsed, 0)
		}
		return nil, err
	}
	result.RunID = runID

	logger.Info("community detection finished",
		logging.Int("levels", len(result.Levels)),
		logging.Communities(len(result.Communities)),
		logging.Score(result.Score),
		logging.Float64("modularity", result.Modularity),
		logging.Latency(elapsed),
	)
	if opts.Metrics != nil {
		opts.Metrics.RecordRun(objective, metrics.StatusSuccess, elapsed, result.Score)
	}
	return result, nil
}

func detect(g *graph.Graph, opts LouvainOptions) (*CommunityDetectionResult, error) {
	dr, err := GenerateDendrogram(g, opts)
	if err != nil {
		return nil, err
	}
	flat, err := dr.Dendrogram.Flatten()
	if err != nil {
		return nil, err
	}

	assignment, err := toAssignment("detect", g, flat)
	if err != nil {
		return nil, err
	}
	dense, _ := renumber(assignment)
	partition := fromAssignment(g, dense)

	result := &CommunityDetectionResult{
		Objective:     dr.Objective,
		Communities:   listCommunities(g, dense),
		Score:         dr.Score,
		NodeCommunity: partition,
		Dendrogram:    dr.Dendrogram,
		Levels:        dr.Levels,
	}
	if g.TotalWeight() > 0 {
		if result.Modularity, err = PartitionModularity(g, partition); err != nil {
			return nil, err
		}
	}

	if opts.Expand {
		start := time.Now()
		cover, admitted, err := expandCover(g, CoverFromPartition(partition), opts.ExpandParams)
		if err != nil {
			return nil, err
		}
		result.Cover = DeduplicateCover(cover, DefaultOverlap)
		opts.Logger.Debug("communities expanded",
			logging.Int("admitted", admitted),
			logging.Int("cover_size", result.Cover.Len()),
		)
		if opts.Metrics != nil {
			opts.Metrics.RecordExpansion(admitted, time.Since(start))
		}
	}
	return result, nil
}
