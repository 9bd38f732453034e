package agent

import (
	"testing"
	"time"

	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/model"
)

func testContract(id string, accepted, fulfilled bool, deliveries ...model.Delivery) model.Contract {
	return model.Contract{
		ID:            id,
		FactionSymbol: "COSMIC",
		Type:          model.ContractProcurement,
		Accepted:      accepted,
		Fulfilled:     fulfilled,
		Terms: model.Terms{
			Deadline:           time.Now().Add(48 * time.Hour),
			PaymentOnAccepted:  10000,
			PaymentOnFulfilled: 40000,
			Deliveries:         deliveries,
		},
	}
}

func TestAssessEmptyFleetIsAnError(t *testing.T) {
	mock := &api.MockClient{Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 100000}}
	c, _ := testController(mock)

	next, err := c.handleAssessSituation()
	if err == nil {
		t.Fatal("expected an error for an empty fleet")
	}
	if next != StateErrorRecovery {
		t.Errorf("next = %s, want %s", next, StateErrorRecovery)
	}
}

func TestAssessAdoptsActiveContract(t *testing.T) {
	active := testContract("C-1", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 10})
	mock := &api.MockClient{
		Agent:     &model.AgentSnapshot{Symbol: "TRADER", Credits: 100000, Headquarters: "X1-AA-1"},
		Ships:     []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)},
		Contracts: []model.Contract{testContract("C-0", false, false), active},
	}
	c, _ := testController(mock)

	next, err := c.handleAssessSituation()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateExecuteContract {
		t.Errorf("next = %s, want %s", next, StateExecuteContract)
	}
	if c.run.Contract == nil || c.run.Contract.ID != "C-1" {
		t.Errorf("adopted contract = %+v, want C-1", c.run.Contract)
	}
}

func TestAssessFullyDeliveredContractGoesToCompletion(t *testing.T) {
	done := testContract("C-2", true, false,
		model.Delivery{TradeSymbol: "IRON_ORE", DestinationSymbol: "X1-AA-2", UnitsRequired: 30, UnitsFulfilled: 30})
	mock := &api.MockClient{
		Agent:     &model.AgentSnapshot{Symbol: "TRADER", Credits: 100000},
		Ships:     []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)},
		Contracts: []model.Contract{done},
	}
	c, _ := testController(mock)

	next, err := c.handleAssessSituation()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateCompleteContract {
		t.Errorf("next = %s, want %s", next, StateCompleteContract)
	}
}

func TestAssessWithoutContractNegotiates(t *testing.T) {
	mock := &api.MockClient{
		Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 100000},
		Ships: []model.Ship{testShip("TRADER-1", "X1-AA-1", 40)},
	}
	c, _ := testController(mock)
	c.run.Contract = &model.Contract{ID: "STALE"}

	next, err := c.handleAssessSituation()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateNegotiateContract {
		t.Errorf("next = %s, want %s", next, StateNegotiateContract)
	}
	if c.run.Contract != nil {
		t.Errorf("stale contract kept: %+v", c.run.Contract)
	}
}

func TestInitializeFetchesAgent(t *testing.T) {
	mock := &api.MockClient{Agent: &model.AgentSnapshot{Symbol: "TRADER", Credits: 150000}}
	c, _ := testController(mock)

	next, err := c.handleInitialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateAssessSituation {
		t.Errorf("next = %s, want %s", next, StateAssessSituation)
	}
	if c.run.Credits() != 150000 {
		t.Errorf("credits = %d, want 150000", c.run.Credits())
	}
}
