package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/freydema/spacetrader-agent/internal/metrics"
	"github.com/freydema/spacetrader-agent/internal/model"
	"github.com/freydema/spacetrader-agent/internal/notifier"
	"github.com/freydema/spacetrader-agent/internal/recorder"
	"github.com/freydema/spacetrader-agent/internal/strategy"
)

const waypointPageLimit = 20

// handleAcquireResources grows the fleet when contracts outsize it. It scans
// the headquarters system for shipyards, picks the best value offering the
// budget allows, and buys it from whichever ship is already at the vendor.
// Every failure mode sets the cooldown markers so negotiation does not come
// straight back here.
func (c *Controller) handleAcquireResources(ctx context.Context) (State, error) {
	if c.run.Agent == nil {
		return StateErrorRecovery, fmt.Errorf("no agent snapshot, cannot acquire")
	}
	now := time.Now()

	if len(c.run.Ships) >= c.run.Strategy.MaxShips {
		log.Printf("[INFO] fleet already at cap of %d ships, not expanding", c.run.Strategy.MaxShips)
		c.run.MarkAcquireFailure(now)
		return StateNegotiateContract, nil
	}
	if c.run.Credits() < c.run.Strategy.FleetExpansionThreshold {
		log.Printf("[INFO] %d credits below expansion threshold %d, not expanding",
			c.run.Credits(), c.run.Strategy.FleetExpansionThreshold)
		c.run.MarkAcquireFailure(now)
		return StateNegotiateContract, nil
	}

	system := model.SystemFromWaypoint(c.run.Agent.Headquarters)
	yardWaypoints, err := c.findShipyardWaypoints(system)
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("scan system %s for shipyards: %w", system, err)
	}
	if len(yardWaypoints) == 0 {
		log.Printf("[WARN] no shipyards in system %s, waiting %s", system, delayNoShipyards)
		c.run.MarkAcquireFailure(now)
		c.sleep(ctx, delayNoShipyards)
		return StateNegotiateContract, nil
	}

	yards := make([]model.Shipyard, 0, len(yardWaypoints))
	for _, wp := range yardWaypoints {
		yard, err := c.run.Client.GetShipyard(system, wp.Symbol)
		if err != nil {
			log.Printf("[WARN] fetch shipyard %s: %v", wp.Symbol, err)
			continue
		}
		if yard.HasStock() {
			yards = append(yards, *yard)
		}
	}
	if len(yards) == 0 {
		log.Printf("[WARN] shipyards in %s have no stock, waiting %s", system, delayNoStock)
		c.run.MarkAcquireFailure(now)
		c.sleep(ctx, delayNoStock)
		return StateNegotiateContract, nil
	}

	budget := c.run.SpendableCredits()
	minCapacity := strategy.TargetCapacity(c.run.TotalCargoCapacity()) - c.run.TotalCargoCapacity()
	offering := strategy.SelectOffering(yards, budget, minCapacity)
	if offering == nil {
		// Relax the capacity bar before giving up; any extra hauler helps.
		offering = strategy.SelectOffering(yards, budget, 1)
	}
	if offering == nil {
		log.Printf("[WARN] no affordable offering within budget %d, waiting %s", budget, delayNoOffering)
		c.run.MarkAcquireFailure(now)
		c.sleep(ctx, delayNoOffering)
		return StateNegotiateContract, nil
	}

	// Purchasing requires a ship docked at the vendor waypoint.
	idx := c.run.ShipAt(offering.Waypoint)
	if idx < 0 {
		c.dispatchToVendor(offering.Waypoint)
		c.sleep(ctx, delayNoOffering)
		return StateNegotiateContract, nil
	}

	result, err := c.run.Client.PurchaseShip(offering.Listing.Type, offering.Waypoint)
	if err != nil {
		log.Printf("[WARN] purchase %s at %s failed: %v, waiting %s",
			offering.Listing.Type, offering.Waypoint, err, delayNoOffering)
		c.sleep(ctx, delayNoOffering)
		return StateNegotiateContract, nil
	}

	c.run.Ships = append(c.run.Ships, *result.Ship)
	if result.Agent != nil {
		c.run.Agent = result.Agent
	}
	c.run.ClearAcquireFailure()
	metrics.ShipPurchases.Inc()

	log.Printf("[INFO] purchased %s (%s) at %s for %d credits, fleet now %d ships / %d cargo units",
		result.Ship.Symbol, offering.Listing.Type, offering.Waypoint,
		offering.Listing.PurchasePrice, len(c.run.Ships), c.run.TotalCargoCapacity())

	if err := c.rec.RecordShipPurchase(&recorder.ShipPurchase{
		ShipSymbol:    result.Ship.Symbol,
		ShipType:      offering.Listing.Type,
		Waypoint:      offering.Waypoint,
		Price:         offering.Listing.PurchasePrice,
		CargoCapacity: offering.Listing.CargoCapacity,
	}); err != nil {
		log.Printf("[ERROR] record ship purchase: %v", err)
	}
	c.notify(ctx, notifier.FormatShipPurchase(result.Ship.Symbol, offering.Listing.Type,
		offering.Listing.PurchasePrice, offering.Listing.CargoCapacity, c.run.Credits()))

	c.refuelDockedShips()

	// The optimistic append above may miss server-side details; re-read.
	if ships, err := c.run.Client.ListShips(); err == nil {
		c.run.Ships = ships
	} else {
		log.Printf("[WARN] refresh fleet after purchase: %v", err)
	}
	return StateNegotiateContract, nil
}

// findShipyardWaypoints pages through the system's waypoints and keeps the
// ones carrying the shipyard trait.
func (c *Controller) findShipyardWaypoints(system string) ([]model.Waypoint, error) {
	var found []model.Waypoint
	for page := 1; ; page++ {
		waypoints, total, err := c.run.Client.ListWaypoints(system, page, waypointPageLimit)
		if err != nil {
			return nil, err
		}
		for _, wp := range waypoints {
			if wp.HasTrait(model.TraitShipyard) {
				found = append(found, wp)
			}
		}
		if len(waypoints) < waypointPageLimit || page*waypointPageLimit >= total {
			break
		}
	}
	return found, nil
}

// dispatchToVendor sends the first idle ship toward the vendor waypoint.
// Navigation is not awaited; the next acquisition pass finds the ship in
// place once it arrives.
func (c *Controller) dispatchToVendor(waypoint string) {
	for i := range c.run.Ships {
		ship := &c.run.Ships[i]
		if ship.Nav.IsInTransit() || ship.Fuel.Current <= 0 {
			continue
		}
		if ship.Nav.IsDocked() {
			if err := c.run.Client.OrbitShip(ship.Symbol); err != nil {
				log.Printf("[WARN] orbit %s: %v", ship.Symbol, err)
				continue
			}
		}
		if err := c.run.Client.NavigateShip(ship.Symbol, waypoint); err != nil {
			log.Printf("[WARN] navigate %s to %s: %v", ship.Symbol, waypoint, err)
			continue
		}
		log.Printf("[INFO] dispatched %s to vendor %s", ship.Symbol, waypoint)
		return
	}
	log.Printf("[WARN] no idle ship available to reach vendor %s", waypoint)
}

// refuelDockedShips tops up any docked ship running low. Opportunistic;
// failures are logged and skipped.
func (c *Controller) refuelDockedShips() {
	for i := range c.run.Ships {
		ship := &c.run.Ships[i]
		if !ship.Nav.IsDocked() || !ship.Fuel.NeedsRefuel() {
			continue
		}
		if err := c.run.Client.RefuelShip(ship.Symbol); err != nil {
			log.Printf("[WARN] refuel %s: %v", ship.Symbol, err)
			continue
		}
		ship.Fuel.Current = ship.Fuel.Capacity
		log.Printf("[INFO] refueled %s", ship.Symbol)
	}
}
