package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/model"
)

func richAgent() *model.AgentSnapshot {
	return &model.AgentSnapshot{
		Symbol:       "TRADER",
		Credits:      120000,
		Headquarters: "X1-AA-1",
	}
}

func TestAcquireNoShipyardsBacksOff(t *testing.T) {
	mock := &api.MockClient{
		Agent: richAgent(),
		Waypoints: []model.Waypoint{
			{Symbol: "X1-AA-1", Traits: []string{"MARKETPLACE"}},
			{Symbol: "X1-AA-2", Traits: []string{"ASTEROID_FIELD"}},
		},
	}
	c, sleeps := testController(mock)
	c.run.Agent = mock.Agent
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if !c.run.AcquireFailed {
		t.Error("failure marker not set")
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != delayNoShipyards {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, delayNoShipyards)
	}
}

func TestAcquireEmptyShipyardsBackOffLonger(t *testing.T) {
	mock := &api.MockClient{
		Agent: richAgent(),
		Waypoints: []model.Waypoint{
			{Symbol: "X1-AA-5", Traits: []string{model.TraitShipyard}},
		},
		Shipyards: map[string]*model.Shipyard{
			"X1-AA-5": {WaypointSymbol: "X1-AA-5", SystemSymbol: "X1-AA"},
		},
	}
	c, sleeps := testController(mock)
	c.run.Agent = mock.Agent
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if !c.run.AcquireFailed {
		t.Error("failure marker not set")
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != delayNoStock {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, delayNoStock)
	}
}

func TestAcquireBelowThresholdSkipsExpansion(t *testing.T) {
	mock := &api.MockClient{Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 20000, Headquarters: "X1-AA-1"}}
	c, _ := testController(mock)
	c.run.Agent = mock.Agent
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if !c.run.AcquireFailed {
		t.Error("failure marker not set")
	}
	for _, call := range mock.Calls {
		if strings.HasPrefix(call, "ListWaypoints") {
			t.Errorf("scanned waypoints despite being under the threshold: %v", mock.Calls)
		}
	}
}

func TestAcquirePurchaseFailureLeavesStateUntouched(t *testing.T) {
	mock := &api.MockClient{
		Agent: richAgent(),
		Waypoints: []model.Waypoint{
			{Symbol: "X1-AA-5", Traits: []string{model.TraitShipyard}},
		},
		Shipyards: map[string]*model.Shipyard{
			"X1-AA-5": {
				WaypointSymbol: "X1-AA-5",
				SystemSymbol:   "X1-AA",
				Listings: []model.ShipListing{
					{Type: "SHIP_LIGHT_HAULER", PurchasePrice: 80000, CargoCapacity: 80},
				},
			},
		},
		// PurchaseShipResult left nil: the purchase comes back without a
		// ship payload and must not mutate the fleet or balance.
	}
	c, sleeps := testController(mock)
	c.run.Agent = mock.Agent
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-5", 40)}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if len(c.run.Ships) != 1 {
		t.Errorf("fleet size = %d, want 1", len(c.run.Ships))
	}
	if c.run.Credits() != 120000 {
		t.Errorf("credits = %d, want 120000 untouched", c.run.Credits())
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != delayNoOffering {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, delayNoOffering)
	}
}

func TestAcquireBuysWhenShipAtVendor(t *testing.T) {
	newShip := testShip("TRADER-2", "X1-AA-5", 80)
	mock := &api.MockClient{
		Agent: richAgent(),
		Waypoints: []model.Waypoint{
			{Symbol: "X1-AA-5", Traits: []string{model.TraitShipyard}},
		},
		Shipyards: map[string]*model.Shipyard{
			"X1-AA-5": {
				WaypointSymbol: "X1-AA-5",
				SystemSymbol:   "X1-AA",
				Listings: []model.ShipListing{
					{Type: "SHIP_LIGHT_HAULER", PurchasePrice: 80000, CargoCapacity: 80},
				},
			},
		},
		PurchaseShipResult: &api.PurchaseShipResult{
			Ship:  &newShip,
			Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 40000, Headquarters: "X1-AA-1"},
		},
	}
	// The fleet listing reflects the purchase when the handler re-reads it.
	mock.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-5", 40), newShip}
	c, _ := testController(mock)
	c.run.Agent = mock.Agent
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-5", 40)}
	c.run.AcquireFailed = true

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if len(c.run.Ships) != 2 {
		t.Fatalf("fleet size = %d, want 2", len(c.run.Ships))
	}
	if c.run.Ships[1].Symbol != "TRADER-2" {
		t.Errorf("new ship = %s, want TRADER-2", c.run.Ships[1].Symbol)
	}
	if c.run.Credits() != 40000 {
		t.Errorf("credits = %d, want 40000 after purchase", c.run.Credits())
	}
	if c.run.AcquireFailed {
		t.Error("failure marker not cleared after success")
	}
}

func TestAcquireDispatchesShipTowardVendor(t *testing.T) {
	mock := &api.MockClient{
		Agent: richAgent(),
		Waypoints: []model.Waypoint{
			{Symbol: "X1-AA-5", Traits: []string{model.TraitShipyard}},
		},
		Shipyards: map[string]*model.Shipyard{
			"X1-AA-5": {
				WaypointSymbol: "X1-AA-5",
				SystemSymbol:   "X1-AA",
				Listings: []model.ShipListing{
					{Type: "SHIP_LIGHT_HAULER", PurchasePrice: 80000, CargoCapacity: 80},
				},
			},
		},
	}
	c, _ := testController(mock)
	c.run.Agent = mock.Agent
	docked := testShip("TRADER-1", "X1-AA-1", 40)
	docked.Nav.Status = model.NavDocked
	c.run.Ships = []model.Ship{docked}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}

	var orbited, navigated bool
	for _, call := range mock.Calls {
		switch call {
		case "OrbitShip:TRADER-1":
			orbited = true
		case "NavigateShip:TRADER-1:X1-AA-5":
			navigated = true
		}
	}
	if !orbited || !navigated {
		t.Errorf("calls = %v, want orbit then navigate to the vendor", mock.Calls)
	}
}

func TestAcquireRespectsFleetCap(t *testing.T) {
	mock := &api.MockClient{Agent: richAgent()}
	c, _ := testController(mock)
	c.run.Agent = mock.Agent
	for i := 0; i < c.run.Strategy.MaxShips; i++ {
		c.run.Ships = append(c.run.Ships, testShip("TRADER-1", "X1-AA-1", 40))
	}

	next, err := c.handleAcquireResources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("API touched despite fleet cap: %v", mock.Calls)
	}
}
