package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/freydema/spacetrader-agent/internal/metrics"
	"github.com/freydema/spacetrader-agent/internal/notifier"
	"github.com/freydema/spacetrader-agent/internal/recorder"
)

// Fixed waits used by the state handlers.
const (
	delayNoContracts  = 10 * time.Second
	delayNoSuitable   = 30 * time.Second
	delayNoShipyards  = time.Minute
	delayNoStock      = 5 * time.Minute
	delayNoOffering   = 30 * time.Second
	delayShipBusy     = 10 * time.Second
	delayAwaitArrival = 10 * time.Second
)

// Status is a read-only snapshot of the controller for the status endpoint
// and the periodic reporter. The run context itself never leaves the
// controller goroutine; this copy is the only thing other goroutines see.
type Status struct {
	State              string    `json:"state"`
	AgentSymbol        string    `json:"agent_symbol"`
	Credits            int64     `json:"credits"`
	FleetSize          int       `json:"fleet_size"`
	CargoCapacity      int       `json:"cargo_capacity"`
	ContractID         string    `json:"contract_id,omitempty"`
	ContractsCompleted int       `json:"contracts_completed"`
	ContractsFailed    int       `json:"contracts_failed"`
	CreditsEarned      int64     `json:"credits_earned"`
	Errors             int       `json:"errors"`
	AvgCompletionSecs  float64   `json:"avg_completion_secs"`
	StartedAt          time.Time `json:"started_at"`
	UptimeSeconds      float64   `json:"uptime_seconds"`
}

// Options tune the controller loop timing.
type Options struct {
	IterationPause time.Duration
	RecoveryDelay  time.Duration
}

// Controller owns the current state and drives the agent loop, dispatching
// each iteration to the handler for the current state and applying the
// returned transition. Handler failures never escape the loop; they are
// converted into an ERROR_RECOVERY transition.
type Controller struct {
	run   *RunContext
	rec   recorder.Recorder
	notif notifier.Notifier
	state State

	iterationPause time.Duration
	recoveryDelay  time.Duration
	startedAt      time.Time

	// sleep is injectable so tests run without real waits.
	sleep func(ctx context.Context, d time.Duration)

	mu     sync.Mutex
	status Status
}

// NewController creates a controller in the INITIALIZE state.
func NewController(run *RunContext, rec recorder.Recorder, notif notifier.Notifier, opts Options) *Controller {
	if opts.IterationPause == 0 {
		opts.IterationPause = time.Second
	}
	if opts.RecoveryDelay == 0 {
		opts.RecoveryDelay = 5 * time.Second
	}
	return &Controller{
		run:            run,
		rec:            rec,
		notif:          notif,
		state:          StateInitialize,
		iterationPause: opts.IterationPause,
		recoveryDelay:  opts.RecoveryDelay,
		sleep:          sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Run executes the agent loop until the context is cancelled. Shutdown is
// observed only between iterations; the current handler always completes.
func (c *Controller) Run(ctx context.Context) {
	c.startedAt = time.Now()
	log.Printf("[INFO] agent loop starting in state %s", c.state)

	for {
		select {
		case <-ctx.Done():
			c.logSummary()
			return
		default:
		}

		next := c.step(ctx)
		c.transition(next)
		c.updateStatus()

		// Bound the API call rate independent of per-call rate limiting.
		c.sleep(ctx, c.iterationPause)
	}
}

// step runs the current state's handler. Errors and panics both become an
// ERROR_RECOVERY transition; the loop itself never fails.
func (c *Controller) step(ctx context.Context) (next State) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] panic in state %s: %v", c.state, r)
			c.run.Metrics.RecordError()
			metrics.HandlerErrors.Inc()
			next = StateErrorRecovery
		}
	}()

	next, err := c.dispatch(ctx)
	if err != nil {
		log.Printf("[ERROR] state %s failed: %v", c.state, err)
		c.run.Metrics.RecordError()
		metrics.HandlerErrors.Inc()
		return StateErrorRecovery
	}
	if !next.IsValid() {
		log.Printf("[ERROR] state %s returned unknown next state %q", c.state, next)
		return StateErrorRecovery
	}
	return next
}

func (c *Controller) dispatch(ctx context.Context) (State, error) {
	switch c.state {
	case StateInitialize:
		return c.handleInitialize()
	case StateAssessSituation:
		return c.handleAssessSituation()
	case StateNegotiateContract:
		return c.handleNegotiateContract(ctx)
	case StateAcceptContract:
		return c.handleAcceptContract(ctx)
	case StatePlanFulfillment:
		return c.handlePlanFulfillment()
	case StateAcquireResources:
		return c.handleAcquireResources(ctx)
	case StateExecuteContract:
		return c.handleExecuteContract(ctx)
	case StateDeliverGoods:
		return c.handleDeliverGoods(ctx)
	case StateCompleteContract:
		return c.handleCompleteContract(ctx)
	case StateEvaluatePerformance:
		return c.handleEvaluatePerformance()
	case StateErrorRecovery:
		return c.handleErrorRecovery(ctx)
	default:
		return StateErrorRecovery, fmt.Errorf("no handler for state %s", c.state)
	}
}

// transition applies the next state, logging and recording only real changes.
func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	log.Printf("[INFO] state transition: %s -> %s", c.state, next)
	metrics.StateTransitions.WithLabelValues(string(c.state), string(next)).Inc()
	if err := c.rec.RecordTransition(&recorder.StateTransition{From: string(c.state), To: string(next)}); err != nil {
		log.Printf("[ERROR] record transition: %v", err)
	}
	c.state = next
}

// State returns the current state. Only safe from the controller goroutine;
// other goroutines use Status().
func (c *Controller) State() State { return c.state }

// Status returns a copy of the latest published snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) updateStatus() {
	s := Status{
		State:              string(c.state),
		Credits:            c.run.Credits(),
		FleetSize:          len(c.run.Ships),
		CargoCapacity:      c.run.TotalCargoCapacity(),
		ContractsCompleted: c.run.Metrics.ContractsCompleted,
		ContractsFailed:    c.run.Metrics.ContractsFailed,
		CreditsEarned:      c.run.Metrics.CreditsEarned,
		Errors:             c.run.Metrics.Errors,
		AvgCompletionSecs:  c.run.Metrics.AverageCompletionTime.Seconds(),
		StartedAt:          c.startedAt,
		UptimeSeconds:      time.Since(c.startedAt).Seconds(),
	}
	if c.run.Agent != nil {
		s.AgentSymbol = c.run.Agent.Symbol
	}
	if c.run.Contract != nil {
		s.ContractID = c.run.Contract.ID
	}

	metrics.Credits.Set(float64(s.Credits))
	metrics.FleetSize.Set(float64(s.FleetSize))
	metrics.CargoCapacity.Set(float64(s.CargoCapacity))

	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// performanceSnapshot captures the current totals for the recorder.
func (c *Controller) performanceSnapshot() *recorder.PerformanceSnapshot {
	m := &c.run.Metrics
	return &recorder.PerformanceSnapshot{
		ContractsCompleted: m.ContractsCompleted,
		ContractsFailed:    m.ContractsFailed,
		CreditsEarned:      m.CreditsEarned,
		Errors:             m.Errors,
		Credits:            c.run.Credits(),
		FleetSize:          len(c.run.Ships),
		CargoCapacity:      c.run.TotalCargoCapacity(),
		AvgCompletionSecs:  m.AverageCompletionTime.Seconds(),
	}
}

// logSummary emits the final performance summary on shutdown.
func (c *Controller) logSummary() {
	elapsed := time.Since(c.startedAt)
	m := &c.run.Metrics
	log.Println("[INFO] === PERFORMANCE SUMMARY ===")
	log.Printf("[INFO] contracts completed: %d", m.ContractsCompleted)
	log.Printf("[INFO] contracts failed: %d", m.ContractsFailed)
	log.Printf("[INFO] credits earned: %d", m.CreditsEarned)
	log.Printf("[INFO] errors encountered: %d", m.Errors)
	log.Printf("[INFO] elapsed: %s", elapsed.Round(time.Second))
	log.Printf("[INFO] throughput: %.2f contracts/hour", m.Efficiency(elapsed))
}

// notify delivers a milestone message, tolerating notifier failures.
func (c *Controller) notify(ctx context.Context, text string) {
	if c.notif == nil {
		return
	}
	if err := c.notif.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
