package scoring

// Rating is a discrete investment recommendation band
type Rating struct {
	Label string
	Icon  string
	Rank  int // 0 = Strong Sell ... 4 = Strong Buy, for ordering
}

// ratingLadder maps a total score onto a rating. Boundaries are
// inclusive lower bounds, first match wins.
// ⭐ SSOT: レーティング境界はここだけで定義する
var ratingLadder = Ladder[Rating]{
	Rungs: []Rung[Rating]{
		{Bound: 80, Value: Rating{Label: "Strong Buy", Icon: "🟢", Rank: 4}},
		{Bound: 60, Value: Rating{Label: "Buy", Icon: "🔵", Rank: 3}},
		{Bound: 40, Value: Rating{Label: "Hold", Icon: "⚪", Rank: 2}},
		{Bound: 20, Value: Rating{Label: "Sell", Icon: "🟠", Rank: 1}},
	},
	Fallback: Rating{Label: "Strong Sell", Icon: "🔴", Rank: 0},
}

// RatingFor returns the rating band for a 0~100 total score
func RatingFor(total float64) Rating {
	return ratingLadder.Lookup(total)
}
