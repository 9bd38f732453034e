package agent

import (
	"context"
	"fmt"
	"log"
	"time"
)

// handleInitialize pulls the agent profile once and hands over to the
// assessment step, which owns all further refreshes.
func (c *Controller) handleInitialize() (State, error) {
	agent, err := c.run.Client.GetAgent()
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("fetch agent profile: %w", err)
	}
	c.run.Agent = agent
	log.Printf("[INFO] agent %s ready: %d credits, headquarters %s",
		agent.Symbol, agent.Credits, agent.Headquarters)
	return StateAssessSituation, nil
}

// handleAssessSituation refreshes agent, fleet and contracts, then routes
// based on whether an active contract exists and how far along it is.
func (c *Controller) handleAssessSituation() (State, error) {
	agent, err := c.run.Client.GetAgent()
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("refresh agent: %w", err)
	}
	c.run.Agent = agent

	ships, err := c.run.Client.ListShips()
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("list ships: %w", err)
	}
	c.run.Ships = ships

	if len(ships) == 0 {
		return StateErrorRecovery, fmt.Errorf("fleet is empty, cannot operate")
	}

	contracts, err := c.run.Client.ListContracts()
	if err != nil {
		return StateErrorRecovery, fmt.Errorf("list contracts: %w", err)
	}

	now := time.Now()
	c.run.Contract = nil
	for i := range contracts {
		ct := &contracts[i]
		if ct.Accepted && !ct.Fulfilled && !ct.IsExpired(now) {
			c.run.Contract = ct
			break
		}
	}

	if c.run.Contract == nil {
		log.Printf("[INFO] no active contract, fleet of %d ships, %d credits",
			len(ships), agent.Credits)
		return StateNegotiateContract, nil
	}

	ct := c.run.Contract
	log.Printf("[INFO] active contract %s: %d/%d units delivered",
		ct.ID, ct.TotalUnitsRequired()-ct.TotalRemainingUnits(), ct.TotalUnitsRequired())
	if ct.AllDeliveriesCompleted() {
		return StateCompleteContract, nil
	}
	return StateExecuteContract, nil
}

// handleEvaluatePerformance logs the running totals, persists a snapshot
// and loops back for the next contract.
func (c *Controller) handleEvaluatePerformance() (State, error) {
	m := &c.run.Metrics
	elapsed := time.Since(c.startedAt)
	log.Printf("[INFO] performance: %d completed, %d failed, %d credits earned, %.2f contracts/hour",
		m.ContractsCompleted, m.ContractsFailed, m.CreditsEarned, m.Efficiency(elapsed))

	if err := c.rec.RecordPerformance(c.performanceSnapshot()); err != nil {
		log.Printf("[ERROR] record performance: %v", err)
	}
	return StateAssessSituation, nil
}

// handleErrorRecovery pauses before re-assessing so a persistent fault does
// not turn into a hot loop against the API.
func (c *Controller) handleErrorRecovery(ctx context.Context) (State, error) {
	log.Printf("[WARN] recovering, waiting %s before reassessing", c.recoveryDelay)
	c.sleep(ctx, c.recoveryDelay)
	return StateAssessSituation, nil
}
