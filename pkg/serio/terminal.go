package serio

import "github.com/solverforge/solverforge/pkg/score"

// ScoringNode is a terminal stream endpoint (spec §4.3: penalize/reward/
// impact). It has no downstream; instead it accumulates a running Score
// contribution by calling weightFn once per matching tuple and adding (or,
// for penalize, subtracting) the result, then reports the new running total
// to onChange so the owning Constraint/director can recompute the overall
// score without a full recompute.
type ScoringNode struct {
	weightFn func(Tuple) (score.Score, error)
	negate   bool
	total    score.Score
	onChange func(score.Score)
	onError  func(error)
}

func newScoringNode(zero score.Score, negate bool, weightFn func(Tuple) (score.Score, error), onChange func(score.Score), onError func(error)) *ScoringNode {
	return &ScoringNode{weightFn: weightFn, negate: negate, total: zero, onChange: onChange, onError: onError}
}

// Penalize builds a terminal node that subtracts weightFn(tuple) from the
// constraint's running score for every currently-matching tuple.
func Penalize(upstream Node, zero score.Score, weightFn func(Tuple) (score.Score, error), onChange func(score.Score), onError func(error)) *ScoringNode {
	n := newScoringNode(zero, true, weightFn, onChange, onError)
	upstream.Subscribe(n.receive)
	return n
}

// Reward builds a terminal node that adds weightFn(tuple) to the
// constraint's running score for every currently-matching tuple.
func Reward(upstream Node, zero score.Score, weightFn func(Tuple) (score.Score, error), onChange func(score.Score), onError func(error)) *ScoringNode {
	n := newScoringNode(zero, false, weightFn, onChange, onError)
	upstream.Subscribe(n.receive)
	return n
}

// Impact builds a terminal node that adds weightFn(tuple) to the running
// score as-is (weightFn may itself return a negative score, unlike
// Penalize/Reward which always apply a fixed sign).
func Impact(upstream Node, zero score.Score, weightFn func(Tuple) (score.Score, error), onChange func(score.Score), onError func(error)) *ScoringNode {
	n := newScoringNode(zero, false, weightFn, onChange, onError)
	upstream.Subscribe(n.receive)
	return n
}

// Score returns the current running contribution of this terminal node.
func (n *ScoringNode) Score() score.Score { return n.total }

func (n *ScoringNode) receive(d Delta) {
	w, err := n.weightFn(d.Tuple)
	if err != nil {
		if n.onError != nil {
			n.onError(err)
		}
		return
	}
	if n.negate {
		w, err = w.Negate()
		if err != nil {
			if n.onError != nil {
				n.onError(err)
			}
			return
		}
	}
	if !d.Insert {
		w, err = w.Negate()
		if err != nil {
			if n.onError != nil {
				n.onError(err)
			}
			return
		}
	}
	sum, err := n.total.Add(w)
	if err != nil {
		if n.onError != nil {
			n.onError(err)
		}
		return
	}
	n.total = sum
	if n.onChange != nil {
		n.onChange(n.total)
	}
}
