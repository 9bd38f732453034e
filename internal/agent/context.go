package agent

import (
	"time"

	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/model"
)

// StrategyParams are the tunable decision thresholds.
type StrategyParams struct {
	// SafetyCreditReserve is the balance the agent never spends below.
	SafetyCreditReserve int64
	// FleetExpansionThreshold is the minimum balance before considering
	// a ship purchase when contracts outsize the fleet.
	FleetExpansionThreshold int64
	// AcquireCooldown suppresses acquisition retries after a failure.
	AcquireCooldown time.Duration
	// MaxShips caps the fleet size.
	MaxShips int
	// MinProfitMargin is the minimum acceptable profit/payment ratio.
	MinProfitMargin float64
}

// DefaultStrategyParams mirrors the config defaults.
func DefaultStrategyParams() StrategyParams {
	return StrategyParams{
		SafetyCreditReserve:     10000,
		FleetExpansionThreshold: 50000,
		AcquireCooldown:         time.Hour,
		MaxShips:                5,
		MinProfitMargin:         0.1,
	}
}

// RunContext is the shared mutable state of one agent run. It is owned by
// the controller and touched only from the controller goroutine; every
// state handler reads and mutates it through that single thread.
type RunContext struct {
	Client   api.Client
	Agent    *model.AgentSnapshot
	Contract *model.Contract
	Ships    []model.Ship
	Metrics  model.PerformanceMetrics
	Strategy StrategyParams

	// Acquisition failure markers, consulted by the negotiator cooldown.
	LastAcquireAttempt time.Time
	AcquireFailed      bool

	// ContractAcceptedAt feeds the completion-time metric.
	ContractAcceptedAt time.Time
}

// NewRunContext creates a run context around a client.
func NewRunContext(client api.Client, params StrategyParams) *RunContext {
	return &RunContext{Client: client, Strategy: params}
}

// TotalCargoCapacity sums cargo capacity across the fleet.
func (r *RunContext) TotalCargoCapacity() int {
	total := 0
	for _, ship := range r.Ships {
		total += ship.Cargo.Capacity
	}
	return total
}

// LargestShipCapacity returns the biggest single ship's cargo capacity.
func (r *RunContext) LargestShipCapacity() int {
	largest := 0
	for _, ship := range r.Ships {
		if ship.Cargo.Capacity > largest {
			largest = ship.Cargo.Capacity
		}
	}
	return largest
}

// Credits returns the latest known balance, zero before the first refresh.
func (r *RunContext) Credits() int64 {
	if r.Agent == nil {
		return 0
	}
	return r.Agent.Credits
}

// SpendableCredits is the balance above the safety reserve.
func (r *RunContext) SpendableCredits() int64 {
	return r.Credits() - r.Strategy.SafetyCreditReserve
}

// HasSufficientCredits reports whether an amount fits above the reserve.
func (r *RunContext) HasSufficientCredits(amount int64) bool {
	if r.Agent == nil {
		return false
	}
	return r.SpendableCredits() >= amount
}

// ShipAt returns the index of a ship at the waypoint, or -1.
func (r *RunContext) ShipAt(waypointSymbol string) int {
	for i, ship := range r.Ships {
		if ship.Nav.WaypointSymbol == waypointSymbol {
			return i
		}
	}
	return -1
}

// ShipCarrying returns the index of a ship holding the trade good, or -1.
func (r *RunContext) ShipCarrying(tradeSymbol string) int {
	for i, ship := range r.Ships {
		if ship.Cargo.ItemUnits(tradeSymbol) > 0 {
			return i
		}
	}
	return -1
}

// AcquireRecentlyFailed reports whether a failed acquisition attempt is
// still inside the cooldown window.
func (r *RunContext) AcquireRecentlyFailed(now time.Time) bool {
	if !r.AcquireFailed {
		return false
	}
	return now.Sub(r.LastAcquireAttempt) <= r.Strategy.AcquireCooldown
}

// MarkAcquireFailure records a failed acquisition attempt.
func (r *RunContext) MarkAcquireFailure(now time.Time) {
	r.LastAcquireAttempt = now
	r.AcquireFailed = true
}

// ClearAcquireFailure resets the failure markers after a success.
func (r *RunContext) ClearAcquireFailure() {
	r.AcquireFailed = false
}
