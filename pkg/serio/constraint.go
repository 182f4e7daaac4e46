package serio

import "github.com/solverforge/solverforge/pkg/score"

// Constraint pairs a stable name with the terminal node that accumulates
// its running score contribution, per SPEC_FULL.md §4.4.
type Constraint struct {
	Name string
	node *ScoringNode
}

// Score returns this constraint's current contribution.
func (c *Constraint) Score() score.Score { return c.node.Score() }

// ConstraintSet is the registered collection of constraints that make up a
// solver's score function. Names must be unique (SPEC_FULL.md §4.4) so the
// per-constraint breakdown Director.Analyze returns is unambiguous.
type ConstraintSet struct {
	zero        score.Score
	byName      map[string]*Constraint
	order       []string
}

// NewConstraintSet builds an empty set whose total score starts at zero,
// using like to determine the score kind (and bendable arity) in play.
func NewConstraintSet(like score.Score) *ConstraintSet {
	return &ConstraintSet{zero: score.Zero(like), byName: make(map[string]*Constraint)}
}

// Add registers a constraint under name, rejecting a duplicate name with
// ErrDuplicateConstraint.
func (s *ConstraintSet) Add(name string, node *ScoringNode) (*Constraint, error) {
	if _, exists := s.byName[name]; exists {
		return nil, duplicateConstraint(name)
	}
	c := &Constraint{Name: name, node: node}
	s.byName[name] = c
	s.order = append(s.order, name)
	return c, nil
}

// Get returns the named constraint, or nil if not registered.
func (s *ConstraintSet) Get(name string) *Constraint { return s.byName[name] }

// Names returns constraint names in registration order.
func (s *ConstraintSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// TotalScore sums every constraint's current contribution. Mismatched
// score kinds across constraints surface as IncompatibleScoreKindsError,
// since the score algebra never silently interoperates across kinds.
func (s *ConstraintSet) TotalScore() (score.Score, error) {
	total := s.zero
	for _, name := range s.order {
		next, err := total.Add(s.byName[name].node.Score())
		if err != nil {
			return nil, err
		}
		total = next
	}
	return total, nil
}

// Breakdown returns each constraint's current contribution keyed by name,
// the per-constraint breakdown Director.Analyze returns.
func (s *ConstraintSet) Breakdown() map[string]score.Score {
	out := make(map[string]score.Score, len(s.byName))
	for name, c := range s.byName {
		out[name] = c.Score()
	}
	return out
}
