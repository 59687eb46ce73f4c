package scoring

// Rung is one entry of a threshold ladder: a boundary paired with the
// value assigned when the boundary matches.
type Rung[T any] struct {
	Bound float64
	Value T
}

// Ladder is an ordered threshold table evaluated top-down, first match
// wins. Direction decides how a rung matches:
//
//   - descending (default): the first rung with input >= Bound wins,
//     rungs ordered by decreasing Bound (レーティング、ROE など下限判定)
//   - ascending: the first rung with input < Bound wins, rungs ordered
//     by increasing Bound (PER倍率、PBR など上限判定)
//
// All scorers in this package and the domain analyzers share this one
// lookup instead of duplicating if/else chains.
type Ladder[T any] struct {
	Rungs     []Rung[T]
	Fallback  T
	Ascending bool
	// Exclusive makes a descending ladder match with strict > instead
	// of >= (ROE・利益率などの判定)。Ascending ladders are always strict.
	Exclusive bool
}

// Lookup returns the value of the first matching rung, or the fallback
// when no rung matches.
func (l Ladder[T]) Lookup(input float64) T {
	for _, r := range l.Rungs {
		switch {
		case l.Ascending && input < r.Bound:
			return r.Value
		case !l.Ascending && l.Exclusive && input > r.Bound:
			return r.Value
		case !l.Ascending && !l.Exclusive && input >= r.Bound:
			return r.Value
		}
	}
	return l.Fallback
}

// ScoreSignal pairs a numeric score with an optional signal template.
// Signal == "" means the rung is unremarkable and emits nothing.
type ScoreSignal struct {
	Score  float64
	Signal string
}
