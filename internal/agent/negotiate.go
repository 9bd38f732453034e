package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/freydema/spacetrader-agent/internal/model"
	"github.com/freydema/spacetrader-agent/internal/strategy"
)

// handleNegotiateContract filters the open contracts by capability and
// affordability, scores the survivors, and picks the best positive-scoring
// one. When nothing survives the handler diagnoses the dominant blocker and
// either waits for better terms or routes into fleet expansion.
func (c *Controller) handleNegotiateContract(ctx context.Context) (State, error) {
	contracts, err := c.run.Client.ListContracts()
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("list contracts: %w", err)
	}

	now := time.Now()
	candidates := make([]model.Contract, 0, len(contracts))
	for _, ct := range contracts {
		if ct.Accepted || ct.Fulfilled || ct.IsExpired(now) {
			continue
		}
		candidates = append(candidates, ct)
	}
	if len(candidates) == 0 {
		log.Printf("[INFO] no contracts available, waiting %s", delayNoContracts)
		c.sleep(ctx, delayNoContracts)
		return StateNegotiateContract, nil
	}

	capacity := c.run.TotalCargoCapacity()
	largestShip := c.run.LargestShipCapacity()
	spendable := c.run.SpendableCredits()

	// A contract whose total outsizes the fleet is out of reach; a single
	// delivery bigger than any one ship is still workable in multiple trips,
	// so only the total counts against capability.
	viable := make([]model.Contract, 0, len(candidates))
	capacityBlocked := 0
	shipSizeBlocked := 0
	budgetBlocked := 0
	for i := range candidates {
		ct := &candidates[i]
		if ct.TotalRemainingUnits() > capacity {
			capacityBlocked++
			if ct.LargestDelivery() > largestShip {
				shipSizeBlocked++
			}
			continue
		}
		if strategy.EstimateCost(ct) > spendable {
			budgetBlocked++
			continue
		}
		viable = append(viable, *ct)
	}

	if len(viable) == 0 {
		canExpand := capacityBlocked >= budgetBlocked &&
			c.run.Credits() > c.run.Strategy.FleetExpansionThreshold &&
			!c.run.AcquireRecentlyFailed(now)
		if canExpand {
			log.Printf("[INFO] %d contracts blocked on fleet capacity (%d units, %d also outsize the biggest ship), acquiring resources",
				capacityBlocked, capacity, shipSizeBlocked)
			return StateAcquireResources, nil
		}
		log.Printf("[INFO] no suitable contracts (%d capacity-blocked, %d budget-blocked), waiting %s",
			capacityBlocked, budgetBlocked, delayNoSuitable)
		c.sleep(ctx, delayNoSuitable)
		return StateNegotiateContract, nil
	}

	ranked := strategy.Rank(viable, capacity, now)
	best := ranked[0]
	if best.Score <= 0 {
		log.Printf("[INFO] no profitable contracts among %d viable candidates, waiting %s",
			len(viable), delayNoContracts)
		c.sleep(ctx, delayNoContracts)
		return StateNegotiateContract, nil
	}

	payment := best.Contract.Terms.TotalPayment()
	margin := float64(payment-best.EstimatedCost) / float64(payment)
	if margin < c.run.Strategy.MinProfitMargin {
		log.Printf("[INFO] best contract %s margin %.2f below minimum %.2f, waiting %s",
			best.Contract.ID, margin, c.run.Strategy.MinProfitMargin, delayNoContracts)
		c.sleep(ctx, delayNoContracts)
		return StateNegotiateContract, nil
	}

	log.Printf("[INFO] selected contract %s (score %.1f, estimated cost %d)",
		best.Contract.ID, best.Score, best.EstimatedCost)
	c.run.Contract = best.Contract
	return StateAcceptContract, nil
}
