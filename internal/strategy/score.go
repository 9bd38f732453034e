// Package strategy holds the pure decision arithmetic: contract scoring,
// cost estimation and ship valuation. No I/O, no shared state.
package strategy

import (
	"sort"
	"time"

	"github.com/freydema/spacetrader-agent/internal/model"
)

// Sentinel scores for contracts that must never be selected.
const (
	ScoreExpired      = -1000.0
	ScoreOverCapacity = -500.0
	ScoreUnprofitable = -100.0
)

// EstimateCost approximates the credits needed to fulfill a contract:
// a flat per-unit goods price plus 10% of the payment for fuel and
// overhead. Intentionally crude; callers must not assume accuracy.
func EstimateCost(c *model.Contract) int64 {
	goodsCost := int64(c.TotalUnitsRequired()) * 100
	overhead := c.Terms.TotalPayment() / 10
	return goodsCost + overhead
}

// Score ranks a contract's profitability. Higher is better; any negative
// score means the contract must not be taken. The positive branch combines
// profit density (profit per unit), profit margin, and time pressure
// normalized against one day.
func Score(c *model.Contract, cargoCapacity int, estimatedCost int64, now time.Time) float64 {
	if c.IsExpired(now) {
		return ScoreExpired
	}
	unitsNeeded := c.TotalRemainingUnits()
	if unitsNeeded > cargoCapacity {
		return ScoreOverCapacity
	}
	profit := c.Terms.TotalPayment() - estimatedCost
	if profit <= 0 {
		return ScoreUnprofitable
	}

	profitPerUnit := float64(profit) / float64(max(1, unitsNeeded))
	profitMargin := float64(profit) / float64(max64(1, c.Terms.TotalPayment()))

	timeRemaining := c.Terms.Deadline.Sub(now).Seconds()
	timeFactor := timeRemaining / 86400
	if timeFactor > 1 {
		timeFactor = 1
	}

	return profitPerUnit * profitMargin * timeFactor * 100
}

// Ranked pairs a contract with its score and cost estimate.
type Ranked struct {
	Contract      *model.Contract
	Score         float64
	EstimatedCost int64
}

// Rank scores every contract and sorts descending. The sort is stable so
// equal scores keep their input order; the first element wins ties.
func Rank(contracts []model.Contract, cargoCapacity int, now time.Time) []Ranked {
	ranked := make([]Ranked, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		cost := EstimateCost(c)
		ranked[i] = Ranked{
			Contract:      c,
			Score:         Score(c, cargoCapacity, cost, now),
			EstimatedCost: cost,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// SelectContract returns the best-scoring contract, or nil when none scores
// above zero.
func SelectContract(contracts []model.Contract, cargoCapacity int, now time.Time) *Ranked {
	ranked := Rank(contracts, cargoCapacity, now)
	if len(ranked) == 0 || ranked[0].Score <= 0 {
		return nil
	}
	return &ranked[0]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
