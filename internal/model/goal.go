package model

// Goal is a savings or payoff target the user contributes toward.
type Goal struct {
	Label        string
	Code         string // short badge, e.g. "JP", "SV"
	Keyword      string // income descriptions containing this auto-contribute
	ID           int64
	PlanPerMonth float64
	Current      float64
	Target       float64
	AutoPercent  float64 // fraction of matching income auto-applied, 0 disables
}

// Percent returns contribution progress as a whole percentage, capped at 100.
func (g *Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	p := int(g.Current / g.Target * 100)
	if p > 100 {
		p = 100
	}
	return p
}

// GoalContribution records one application of funds to a goal, so an
// import batch that auto-contributed can be reversed later.
type GoalContribution struct {
	ID      int64
	GoalID  int64
	BatchID string
	Amount  float64
}
