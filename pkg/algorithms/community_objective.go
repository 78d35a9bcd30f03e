package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// ObjectiveKind selects the quality function optimised by the driver
type ObjectiveKind int

const (
	// KindModularity is Newman-Girvan modularity
	KindModularity ObjectiveKind = iota
	// KindLinearity is a·I − b·E − c·S
	KindLinearity
)

// String returns the configuration name of the objective
func (k ObjectiveKind) String() string {
	switch k {
	case KindModularity:
		return "modularity"
	case KindLinearity:
		return "linearity"
	default:
		return "unknown"
	}
}

// LinearityParams weights internal density (A), external density (B) and
// community count (C). All weights must be non-negative.
type LinearityParams struct {
	A float64
	B float64
	C float64
}

// Validate checks that every weight is finite and non-negative
func (p LinearityParams) Validate() error {
	err := validation.NewConfigValidator("LinearityParams").
		NonNegativeFloat("A", p.A).
		NonNegativeFloat("B", p.B).
		NonNegativeFloat("C", p.C).
		Validate()
	if err != nil {
		return NewError("validate").Field("linearity").Context("%v", err).Cause(ErrInvalidParameter).Err()
	}
	return nil
}

// ObjectiveSpec is the tagged objective selection. Linearity is only read
// when Kind is KindLinearity.
type ObjectiveSpec struct {
	Kind      ObjectiveKind
	Linearity LinearityParams
}

// ModularityObjective selects modularity
func ModularityObjective() ObjectiveSpec {
	return ObjectiveSpec{Kind: KindModularity}
}

// LinearityObjective selects linearity with the given weights
func LinearityObjective(p LinearityParams) ObjectiveSpec {
	return ObjectiveSpec{Kind: KindLinearity, Linearity: p}
}

// Name returns the configuration name of the objective
func (s ObjectiveSpec) Name() string {
	return s.Kind.String()
}

// Validate checks the objective selection and its parameters
func (s ObjectiveSpec) Validate() error {
	switch s.Kind {
	case KindModularity:
		return nil
	case KindLinearity:
		return s.Linearity.Validate()
	default:
		return invalidParameter("validate", "objective", "unknown kind %d", int(s.Kind))
	}
}

// bind resolves the selection into a strategy for g
func (s ObjectiveSpec) bind(g *graph.Graph) (Objective, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	L := g.TotalWeight()
	switch s.Kind {
	case KindLinearity:
		return linearity{params: s.Linearity, total: L}, nil
	default:
		if L == 0 {
			return nil, invalidGraph("modularity", "total edge weight is zero")
		}
		return modularity{total: L}, nil
	}
}

// Objective scores an accounting state and prices single-node moves.
//
// Gain is evaluated while node is detached (after Accounting.Remove) and
// returns the change of the objective caused by inserting node into
// community with weightInto edge weight to its members. Gains are only
// compared with each other, never with Score.
type Objective interface {
	Name() string
	Score(acc *Accounting) float64
	Gain(acc *Accounting, node, community int, weightInto float64) float64
}

type modularity struct {
	total float64
}

func (modularity) Name() string { return KindModularity.String() }

func (m modularity) Score(acc *Accounting) float64 {
	twoL := 2 * m.total
	q := 0.0
	for c := range acc.size {
		if acc.size[c] == 0 {
			continue
		}
		d := acc.degreeSum[c] / twoL
		q += acc.internal[c]/m.total - d*d
	}
	return q
}

// Gain is L·ΔQ, which ranks candidates exactly as ΔQ does.
func (m modularity) Gain(acc *Accounting, node, community int, weightInto float64) float64 {
	return weightInto - acc.degreeSum[community]*acc.g.DegreeAt(node)/(2*m.total)
}

type linearity struct {
	params LinearityParams
	total  float64
}

func (linearity) Name() string { return KindLinearity.String() }

func (l linearity) value(ideal, exists, internal float64, communities int) float64 {
	I := 1.0
	if ideal != 0 {
		I = exists / ideal
	}
	E := 0.0
	if l.total != 0 {
		E = (l.total - internal) / l.total
	}
	return l.params.A*I - l.params.B*E - l.params.C*float64(communities)
}

func (l linearity) Score(acc *Accounting) float64 {
	return l.value(acc.idealSum, acc.existsSum, acc.internalSum, acc.nonEmpty)
}

// Gain recomputes the global score after the hypothetical insertion. Only
// the destination community changes; the source contribution was already
// replaced when the node was removed.
func (l linearity) Gain(acc *Accounting, node, community int, weightInto float64) float64 {
	added := weightInto + acc.g.LoopAt(node)

	s := float64(acc.size[community])
	ns := s + float64(acc.g.SizeAt(node))

	ideal := acc.idealSum - s*(s-1) + ns*(ns-1)

	exists := acc.existsSum - acc.exists(community)
	if ns > 1 {
		exists += 2 * (acc.internal[community] + added)
	}

	communities := acc.nonEmpty
	if acc.size[community] == 0 {
		communities++
	}

	after := l.value(ideal, exists, acc.internalSum+added, communities)
	return after - l.Score(acc)
}
