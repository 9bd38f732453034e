package agent

import (
	"context"
	"testing"
	"time"

	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/model"
)

func TestAcceptIsIdempotent(t *testing.T) {
	accepted := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.run.Contract = &accepted

	next, err := c.handleAcceptContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatePlanFulfillment {
		t.Errorf("next = %s, want %s", next, StatePlanFulfillment)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("API touched for an already accepted contract: %v", mock.Calls)
	}
}

func TestAcceptFailureRenegotiates(t *testing.T) {
	pending := testContract("C-1", false, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	mock := &api.MockClient{} // AcceptResult nil: acceptance fails
	c, _ := testController(mock)
	c.run.Contract = &pending

	next, err := c.handleAcceptContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if c.run.Contract != nil {
		t.Errorf("failed contract kept: %+v", c.run.Contract)
	}
}

func TestAcceptRecordsContractAndTimestamp(t *testing.T) {
	pending := testContract("C-1", false, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	acceptedCopy := pending
	acceptedCopy.Accepted = true
	mock := &api.MockClient{
		AcceptResult: &api.AcceptResult{
			Contract: &acceptedCopy,
			Agent:    &model.AgentSnapshot{Symbol: "TRADER", Credits: 110000},
		},
	}
	c, _ := testController(mock)
	c.run.Contract = &pending

	next, err := c.handleAcceptContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatePlanFulfillment {
		t.Errorf("next = %s, want %s", next, StatePlanFulfillment)
	}
	if !c.run.Contract.Accepted {
		t.Error("contract not replaced with accepted version")
	}
	if c.run.Credits() != 110000 {
		t.Errorf("credits = %d, want 110000 after acceptance payment", c.run.Credits())
	}
	if c.run.ContractAcceptedAt.IsZero() {
		t.Error("acceptance timestamp not set")
	}
}

func TestPlanRoutesOnCapacity(t *testing.T) {
	tests := []struct {
		name     string
		units    int
		capacity int
		want     State
	}{
		{"fits", 30, 40, StateExecuteContract},
		{"exact fit", 40, 40, StateExecuteContract},
		{"outsizes fleet", 100, 40, StateAcquireResources},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := testContract("C-1", true, false,
				model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: tt.units})
			mock := &api.MockClient{}
			c, _ := testController(mock)
			c.run.Contract = &ct
			c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", tt.capacity)}

			next, err := c.handlePlanFulfillment()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tt.want {
				t.Errorf("next = %s, want %s", next, tt.want)
			}
		})
	}
}

func TestExecuteBuysRemainingUnitsCappedBySpace(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 10})
	mock := &api.MockClient{
		PurchaseCargoResult: &api.PurchaseCargoResult{
			Cargo: &model.Cargo{
				Capacity:  40,
				Units:     20,
				Inventory: []model.CargoItem{{Symbol: "IRON_ORE", Units: 20}},
			},
			Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 95000},
		},
	}
	c, _ := testController(mock)
	c.run.Contract = &ct
	c.run.Ships = []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)}

	next, err := c.handleExecuteContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateDeliverGoods {
		t.Errorf("next = %s, want %s", next, StateDeliverGoods)
	}

	var bought bool
	for _, call := range mock.Calls {
		if call == "PurchaseCargo:TRADER-1:IRON_ORE:20" {
			bought = true
		}
	}
	if !bought {
		t.Errorf("calls = %v, want purchase of the 20 remaining units", mock.Calls)
	}
	if c.run.Ships[0].Cargo.Units != 20 {
		t.Errorf("cargo units = %d, want 20", c.run.Ships[0].Cargo.Units)
	}
}

func TestExecuteSkipsPurchaseWhenGoodsAboard(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.run.Contract = &ct
	ship := testShip("TRADER-1", "X1-AA-1", 40)
	ship.Cargo.Units = 30
	ship.Cargo.Inventory = []model.CargoItem{{Symbol: "IRON_ORE", Units: 30}}
	c.run.Ships = []model.Ship{ship}

	next, err := c.handleExecuteContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateDeliverGoods {
		t.Errorf("next = %s, want %s", next, StateDeliverGoods)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("API touched when goods already aboard: %v", mock.Calls)
	}
}

func TestExecuteExpiredContractFails(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	ct.Terms.Deadline = time.Now().Add(-time.Hour)
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.run.Contract = &ct

	next, err := c.handleExecuteContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if c.run.Metrics.ContractsFailed != 1 {
		t.Errorf("failed count = %d, want 1", c.run.Metrics.ContractsFailed)
	}
	if c.run.Contract != nil {
		t.Errorf("expired contract kept: %+v", c.run.Contract)
	}
}

func TestDeliverAtDestinationHandsOverGoods(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	delivered := ct
	delivered.Terms.Deliveries = []model.Delivery{
		{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 30},
	}
	mock := &api.MockClient{
		DeliverResult: &api.DeliverResult{
			Contract: &delivered,
			Cargo:    &model.Cargo{Capacity: 40},
		},
	}
	c, _ := testController(mock)
	c.run.Contract = &ct
	ship := testShip("TRADER-1", "X1-AA-2", 40)
	ship.Cargo.Units = 30
	ship.Cargo.Inventory = []model.CargoItem{{Symbol: "IRON_ORE", Units: 30}}
	c.run.Ships = []model.Ship{ship}

	next, err := c.handleDeliverGoods(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateCompleteContract {
		t.Errorf("next = %s, want %s", next, StateCompleteContract)
	}

	var docked, deliveredCall bool
	for _, call := range mock.Calls {
		switch call {
		case "DockShip:TRADER-1":
			docked = true
		case "DeliverCargo:C-1:TRADER-1:IRON_ORE:30":
			deliveredCall = true
		}
	}
	if !docked || !deliveredCall {
		t.Errorf("calls = %v, want dock then deliver 30 units", mock.Calls)
	}
	if c.run.Ships[0].Cargo.Units != 0 {
		t.Errorf("cargo units = %d, want 0 after handover", c.run.Ships[0].Cargo.Units)
	}
}

func TestDeliverNavigatesWhenAway(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30})
	mock := &api.MockClient{}
	c, sleeps := testController(mock)
	c.run.Contract = &ct
	ship := testShip("TRADER-1", "X1-AA-1", 40)
	ship.Cargo.Units = 30
	ship.Cargo.Inventory = []model.CargoItem{{Symbol: "IRON_ORE", Units: 30}}
	c.run.Ships = []model.Ship{ship}

	next, err := c.handleDeliverGoods(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateDeliverGoods {
		t.Errorf("next = %s, want self-loop %s", next, StateDeliverGoods)
	}

	var navigated bool
	for _, call := range mock.Calls {
		if call == "NavigateShip:TRADER-1:X1-AA-2" {
			navigated = true
		}
	}
	if !navigated {
		t.Errorf("calls = %v, want navigation to X1-AA-2", mock.Calls)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != delayAwaitArrival {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, delayAwaitArrival)
	}
}

func TestCompleteBooksProfitFromBothPaymentLegs(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 30})
	fulfilled := ct
	fulfilled.Fulfilled = true
	mock := &api.MockClient{
		FulfillResult: &api.FulfillResult{
			Contract: &fulfilled,
			Agent:    &model.AgentSnapshot{Symbol: "TRADER", Credits: 140000},
		},
	}
	c, _ := testController(mock)
	c.run.Agent = &model.AgentSnapshot{Symbol: "TRADER", Credits: 100000}
	c.run.Contract = &ct
	c.run.ContractAcceptedAt = time.Now().Add(-30 * time.Minute)

	next, err := c.handleCompleteContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateEvaluatePerformance {
		t.Errorf("next = %s, want %s", next, StateEvaluatePerformance)
	}

	// 40000 fulfillment delta plus the 10000 acceptance payment.
	if c.run.Metrics.LastContractProfit != 50000 {
		t.Errorf("profit = %d, want 50000", c.run.Metrics.LastContractProfit)
	}
	if c.run.Metrics.ContractsCompleted != 1 {
		t.Errorf("completed count = %d, want 1", c.run.Metrics.ContractsCompleted)
	}
	if c.run.Contract != nil {
		t.Errorf("contract not cleared: %+v", c.run.Contract)
	}
}

func TestCompleteGuardsUnfinishedDeliveries(t *testing.T) {
	ct := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 10})
	mock := &api.MockClient{}
	c, _ := testController(mock)
	c.run.Contract = &ct

	next, err := c.handleCompleteContract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateExecuteContract {
		t.Errorf("next = %s, want %s", next, StateExecuteContract)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("fulfillment attempted with deliveries outstanding: %v", mock.Calls)
	}
}
