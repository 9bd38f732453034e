package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/model"
	"github.com/freydema/spacetrader-agent/internal/notifier"
	"github.com/freydema/spacetrader-agent/internal/recorder"
)

// testController builds a controller around a mock client with sleeps
// captured instead of executed.
func testController(mock *api.MockClient) (*Controller, *[]time.Duration) {
	run := NewRunContext(mock, DefaultStrategyParams())
	c := NewController(run, recorder.NewNoopRecorder(), notifier.NewNoopNotifier(), Options{})
	sleeps := &[]time.Duration{}
	c.sleep = func(_ context.Context, d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return c, sleeps
}

func testShip(symbol, waypoint string, capacity int) model.Ship {
	return model.Ship{
		Symbol: symbol,
		Nav: model.Nav{
			SystemSymbol:   model.SystemFromWaypoint(waypoint),
			WaypointSymbol: waypoint,
			Status:         model.NavInOrbit,
		},
		Cargo: model.Cargo{Capacity: capacity},
		Fuel:  model.Fuel{Current: 100, Capacity: 100},
	}
}

func TestStepConvertsHandlerErrorToRecovery(t *testing.T) {
	mock := &api.MockClient{Err: errors.New("api down")}
	c, _ := testController(mock)
	c.state = StateAssessSituation

	next := c.step(context.Background())
	if next != StateErrorRecovery {
		t.Fatalf("next = %s, want %s", next, StateErrorRecovery)
	}
	if c.run.Metrics.Errors != 1 {
		t.Errorf("error count = %d, want 1", c.run.Metrics.Errors)
	}
}

func TestStepContainsPanics(t *testing.T) {
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.state = StateInitialize
	c.run.Client = nil // nil interface call panics inside the handler

	next := c.step(context.Background())
	if next != StateErrorRecovery {
		t.Fatalf("next = %s, want %s", next, StateErrorRecovery)
	}
	if c.run.Metrics.Errors != 1 {
		t.Errorf("error count = %d, want 1", c.run.Metrics.Errors)
	}
}

func TestStepRejectsUnknownState(t *testing.T) {
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.state = State("BOGUS")

	next := c.step(context.Background())
	if next != StateErrorRecovery {
		t.Fatalf("next = %s, want %s", next, StateErrorRecovery)
	}
}

func TestRecoveryWaitsThenReassesses(t *testing.T) {
	mock := &api.MockClient{}
	c, sleeps := testController(mock)
	c.state = StateErrorRecovery

	next := c.step(context.Background())
	if next != StateAssessSituation {
		t.Fatalf("next = %s, want %s", next, StateAssessSituation)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != c.recoveryDelay {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, c.recoveryDelay)
	}
}

func TestTransitionOnlyRecordsChanges(t *testing.T) {
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.state = StateAssessSituation

	c.transition(StateAssessSituation)
	if c.state != StateAssessSituation {
		t.Fatalf("state changed on self-transition")
	}
	c.transition(StateNegotiateContract)
	if c.state != StateNegotiateContract {
		t.Fatalf("state = %s, want %s", c.state, StateNegotiateContract)
	}
}

func TestStatusSnapshotReflectsRunContext(t *testing.T) {
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.startedAt = time.Now()
	c.run.Agent = &model.AgentSnapshot{Symbol: "TRADER", Credits: 75000}
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)}
	c.run.Metrics.RecordCompletion(5000, 10*time.Minute)
	c.updateStatus()

	s := c.Status()
	if s.AgentSymbol != "TRADER" || s.Credits != 75000 {
		t.Errorf("agent fields = %s/%d, want TRADER/75000", s.AgentSymbol, s.Credits)
	}
	if s.FleetSize != 1 || s.CargoCapacity != 40 {
		t.Errorf("fleet fields = %d/%d, want 1/40", s.FleetSize, s.CargoCapacity)
	}
	if s.ContractsCompleted != 1 || s.CreditsEarned != 5000 {
		t.Errorf("metrics fields = %d/%d, want 1/5000", s.ContractsCompleted, s.CreditsEarned)
	}
}
