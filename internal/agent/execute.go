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
)

// handleAcceptContract accepts the selected contract. Acceptance is
// idempotent: a contract already marked accepted skips straight to planning.
func (c *Controller) handleAcceptContract(ctx context.Context) (State, error) {
	ct := c.run.Contract
	if ct == nil {
		log.Printf("[WARN] no contract selected, renegotiating")
		return StateNegotiateContract, nil
	}
	if ct.Accepted {
		return StatePlanFulfillment, nil
	}

	result, err := c.run.Client.AcceptContract(ct.ID)
	if err != nil {
		log.Printf("[WARN] accept contract %s failed: %v, renegotiating", ct.ID, err)
		c.run.Contract = nil
		return StateNegotiateContract, nil
	}

	c.run.Contract = result.Contract
	if result.Agent != nil {
		c.run.Agent = result.Agent
	}
	c.run.ContractAcceptedAt = time.Now()

	log.Printf("[INFO] accepted contract %s: %d on accept, %d on fulfill",
		result.Contract.ID, result.Contract.Terms.PaymentOnAccepted,
		result.Contract.Terms.PaymentOnFulfilled)

	if err := c.rec.RecordContractEvent(&recorder.ContractEvent{
		EventType:  "accepted",
		ContractID: result.Contract.ID,
		Payment:    result.Contract.Terms.PaymentOnAccepted,
		Units:      result.Contract.TotalUnitsRequired(),
	}); err != nil {
		log.Printf("[ERROR] record contract acceptance: %v", err)
	}
	c.notify(ctx, notifier.FormatContractAccepted(result.Contract, c.run.Credits()))

	return StatePlanFulfillment, nil
}

// handlePlanFulfillment checks whether the fleet can hold the remaining
// units in one pass. When it cannot, acquisition runs first.
func (c *Controller) handlePlanFulfillment() (State, error) {
	ct := c.run.Contract
	if ct == nil {
		return StateNegotiateContract, nil
	}

	remaining := ct.TotalRemainingUnits()
	capacity := c.run.TotalCargoCapacity()
	if remaining > capacity {
		log.Printf("[INFO] contract %s needs %d units but fleet holds %d, acquiring",
			ct.ID, remaining, capacity)
		return StateAcquireResources, nil
	}
	log.Printf("[INFO] contract %s fits the fleet: %d units across %d capacity",
		ct.ID, remaining, capacity)
	return StateExecuteContract, nil
}

// handleExecuteContract procures goods for the next outstanding delivery.
// A ship already carrying the goods moves on to delivery; otherwise an idle
// ship with space buys as many units as it can hold.
func (c *Controller) handleExecuteContract(ctx context.Context) (State, error) {
	ct := c.run.Contract
	if ct == nil {
		return StateNegotiateContract, nil
	}
	if ct.IsExpired(time.Now()) {
		return c.failContract("expired during execution")
	}

	delivery, ok := ct.NextDelivery()
	if !ok {
		return StateCompleteContract, nil
	}

	if c.run.ShipCarrying(delivery.TradeSymbol) >= 0 {
		return StateDeliverGoods, nil
	}

	// Pick a ship able to buy. In-transit ships cannot trade.
	idx := -1
	for i, ship := range c.run.Ships {
		if ship.Nav.IsInTransit() {
			continue
		}
		if ship.Cargo.AvailableSpace() > 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Printf("[INFO] all ships busy or full, waiting %s", delayShipBusy)
		c.sleep(ctx, delayShipBusy)
		return StateExecuteContract, nil
	}

	ship := &c.run.Ships[idx]
	if !ship.Nav.IsDocked() {
		if err := c.run.Client.DockShip(ship.Symbol); err != nil {
			return StateErrorRecovery, fmt.Errorf("dock %s: %w", ship.Symbol, err)
		}
		ship.Nav.Status = model.NavDocked
	}

	units := delivery.RemainingUnits()
	if space := ship.Cargo.AvailableSpace(); units > space {
		units = space
	}
	result, err := c.run.Client.PurchaseCargo(ship.Symbol, delivery.TradeSymbol, units)
	if err != nil {
		log.Printf("[WARN] buy %d %s with %s failed: %v, waiting %s",
			units, delivery.TradeSymbol, ship.Symbol, err, delayNoSuitable)
		c.sleep(ctx, delayNoSuitable)
		return StateExecuteContract, nil
	}
	if result.Cargo != nil {
		ship.Cargo = *result.Cargo
	}
	if result.Agent != nil {
		c.run.Agent = result.Agent
	}
	log.Printf("[INFO] %s bought %d %s, cargo %d/%d",
		ship.Symbol, units, delivery.TradeSymbol, ship.Cargo.Units, ship.Cargo.Capacity)
	return StateDeliverGoods, nil
}

// handleDeliverGoods moves the carrying ship to the destination and hands
// over the goods. Ships still in transit poll until arrival.
func (c *Controller) handleDeliverGoods(ctx context.Context) (State, error) {
	ct := c.run.Contract
	if ct == nil {
		return StateNegotiateContract, nil
	}
	delivery, ok := ct.NextDelivery()
	if !ok {
		return StateCompleteContract, nil
	}

	idx := c.run.ShipCarrying(delivery.TradeSymbol)
	if idx < 0 {
		// Goods evaporated (sold, jettisoned, or a stale snapshot); buy again.
		return StateExecuteContract, nil
	}
	ship := &c.run.Ships[idx]

	if ship.Nav.IsInTransit() {
		log.Printf("[INFO] %s in transit to %s, waiting %s",
			ship.Symbol, ship.Nav.WaypointSymbol, delayAwaitArrival)
		c.sleep(ctx, delayAwaitArrival)
		if err := c.refreshShip(idx); err != nil {
			return StateErrorRecovery, fmt.Errorf("refresh ship %s: %w", ship.Symbol, err)
		}
		return StateDeliverGoods, nil
	}

	if !ship.IsAtWaypoint(delivery.DestinationSymbol) {
		if ship.Nav.IsDocked() {
			if err := c.run.Client.OrbitShip(ship.Symbol); err != nil {
				return StateErrorRecovery, fmt.Errorf("orbit %s: %w", ship.Symbol, err)
			}
			ship.Nav.Status = model.NavInOrbit
		}
		if err := c.run.Client.NavigateShip(ship.Symbol, delivery.DestinationSymbol); err != nil {
			return StateErrorRecovery, fmt.Errorf("navigate %s to %s: %w",
				ship.Symbol, delivery.DestinationSymbol, err)
		}
		ship.Nav.Status = model.NavInTransit
		ship.Nav.WaypointSymbol = delivery.DestinationSymbol
		log.Printf("[INFO] %s en route to %s", ship.Symbol, delivery.DestinationSymbol)
		c.sleep(ctx, delayAwaitArrival)
		return StateDeliverGoods, nil
	}

	if !ship.Nav.IsDocked() {
		if err := c.run.Client.DockShip(ship.Symbol); err != nil {
			return StateErrorRecovery, fmt.Errorf("dock %s: %w", ship.Symbol, err)
		}
		ship.Nav.Status = model.NavDocked
	}

	held := ship.Cargo.ItemUnits(delivery.TradeSymbol)
	units := delivery.RemainingUnits()
	if held < units {
		units = held
	}
	result, err := c.run.Client.DeliverCargo(ct.ID, ship.Symbol, delivery.TradeSymbol, units)
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("deliver %d %s: %w", units, delivery.TradeSymbol, err)
	}
	if result.Contract != nil {
		c.run.Contract = result.Contract
		ct = result.Contract
	}
	if result.Cargo != nil {
		ship.Cargo = *result.Cargo
	}
	log.Printf("[INFO] %s delivered %d %s to %s, contract %d/%d units",
		ship.Symbol, units, delivery.TradeSymbol, delivery.DestinationSymbol,
		ct.TotalUnitsRequired()-ct.TotalRemainingUnits(), ct.TotalUnitsRequired())

	if ct.AllDeliveriesCompleted() {
		return StateCompleteContract, nil
	}
	return StateExecuteContract, nil
}

// handleCompleteContract fulfills the contract and books the profit.
func (c *Controller) handleCompleteContract(ctx context.Context) (State, error) {
	ct := c.run.Contract
	if ct == nil {
		return StateNegotiateContract, nil
	}
	if !ct.AllDeliveriesCompleted() {
		log.Printf("[WARN] contract %s not fully delivered, resuming execution", ct.ID)
		return StateExecuteContract, nil
	}

	creditsBefore := c.run.Credits()
	result, err := c.run.Client.FulfillContract(ct.ID)
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("fulfill contract %s: %w", ct.ID, err)
	}
	if result.Agent != nil {
		c.run.Agent = result.Agent
	}

	// Profit counts both payment legs: the fulfillment delta observed here
	// plus the acceptance payment banked earlier.
	profit := c.run.Credits() - creditsBefore + ct.Terms.PaymentOnAccepted
	completionTime := time.Since(c.run.ContractAcceptedAt)
	if c.run.ContractAcceptedAt.IsZero() {
		completionTime = 0
	}
	c.run.Metrics.RecordCompletion(profit, completionTime)
	metrics.ContractsCompleted.Inc()

	log.Printf("[INFO] fulfilled contract %s: profit %d, completed in %s, balance %d",
		ct.ID, profit, completionTime.Round(time.Second), c.run.Credits())

	if err := c.rec.RecordContractEvent(&recorder.ContractEvent{
		EventType:  "fulfilled",
		ContractID: ct.ID,
		Payment:    ct.Terms.TotalPayment(),
		Profit:     profit,
		Units:      ct.TotalUnitsRequired(),
	}); err != nil {
		log.Printf("[ERROR] record contract fulfillment: %v", err)
	}
	c.notify(ctx, notifier.FormatContractFulfilled(ct, profit, c.run.Credits()))

	c.run.Contract = nil
	c.run.ContractAcceptedAt = time.Time{}
	return StateEvaluatePerformance, nil
}

// failContract books a failed contract and returns to negotiation.
func (c *Controller) failContract(reason string) (State, error) {
	ct := c.run.Contract
	log.Printf("[WARN] contract %s failed: %s", ct.ID, reason)
	c.run.Metrics.RecordFailure()
	metrics.ContractsFailed.Inc()
	if err := c.rec.RecordContractEvent(&recorder.ContractEvent{
		EventType:  "failed",
		ContractID: ct.ID,
		Note:       reason,
	}); err != nil {
		log.Printf("[ERROR] record contract failure: %v", err)
	}
	c.run.Contract = nil
	c.run.ContractAcceptedAt = time.Time{}
	return StateNegotiateContract, nil
}

// refreshShip re-reads one ship's open-world state from the fleet listing.
func (c *Controller) refreshShip(idx int) error {
	ships, err := c.run.Client.ListShips()
	if err != nil {
		return err
	}
	symbol := c.run.Ships[idx].Symbol
	for _, s := range ships {
		if s.Symbol == symbol {
			c.run.Ships[idx] = s
			return nil
		}
	}
	return fmt.Errorf("ship %s missing from fleet listing", symbol)
}
