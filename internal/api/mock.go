package api

import (
	"fmt"

	"github.com/freydema/spacetrader-agent/internal/model"
)

// MockClient returns controllable fixed data for development and testing.
// Zero-value fields answer with empty results; Err short-circuits every call.
type MockClient struct {
	Agent     *model.AgentSnapshot
	Ships     []model.Ship
	Contracts []model.Contract
	Waypoints []model.Waypoint
	Shipyards map[string]*model.Shipyard

	AcceptResult        *AcceptResult
	FulfillResult       *FulfillResult
	DeliverResult       *DeliverResult
	PurchaseShipResult  *PurchaseShipResult
	PurchaseCargoResult *PurchaseCargoResult

	Err             error
	PurchaseShipErr error
	ShipyardErr     error

	Calls []string
}

func (m *MockClient) record(call string) {
	m.Calls = append(m.Calls, call)
}

func (m *MockClient) GetAgent() (*model.AgentSnapshot, error) {
	m.record("GetAgent")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Agent == nil {
		return &model.AgentSnapshot{}, nil
	}
	snapshot := *m.Agent
	return &snapshot, nil
}

func (m *MockClient) ListShips() ([]model.Ship, error) {
	m.record("ListShips")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.Ship(nil), m.Ships...), nil
}

func (m *MockClient) ListContracts() ([]model.Contract, error) {
	m.record("ListContracts")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.Contract(nil), m.Contracts...), nil
}

func (m *MockClient) AcceptContract(contractID string) (*AcceptResult, error) {
	m.record("AcceptContract:" + contractID)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.AcceptResult == nil {
		return nil, fmt.Errorf("accept contract %s: %w", contractID, ErrMissingPayload)
	}
	return m.AcceptResult, nil
}

func (m *MockClient) FulfillContract(contractID string) (*FulfillResult, error) {
	m.record("FulfillContract:" + contractID)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.FulfillResult == nil {
		return nil, fmt.Errorf("fulfill contract %s: %w", contractID, ErrMissingPayload)
	}
	return m.FulfillResult, nil
}

func (m *MockClient) DeliverCargo(contractID, shipSymbol, tradeSymbol string, units int) (*DeliverResult, error) {
	m.record(fmt.Sprintf("DeliverCargo:%s:%s:%s:%d", contractID, shipSymbol, tradeSymbol, units))
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DeliverResult == nil {
		return nil, fmt.Errorf("deliver for contract %s: %w", contractID, ErrMissingPayload)
	}
	return m.DeliverResult, nil
}

func (m *MockClient) ListWaypoints(systemSymbol string, page, limit int) ([]model.Waypoint, int, error) {
	m.record(fmt.Sprintf("ListWaypoints:%s:%d", systemSymbol, page))
	if m.Err != nil {
		return nil, 0, m.Err
	}
	start := (page - 1) * limit
	if start >= len(m.Waypoints) {
		return nil, len(m.Waypoints), nil
	}
	end := start + limit
	if end > len(m.Waypoints) {
		end = len(m.Waypoints)
	}
	return m.Waypoints[start:end], len(m.Waypoints), nil
}

func (m *MockClient) GetShipyard(systemSymbol, waypointSymbol string) (*model.Shipyard, error) {
	m.record("GetShipyard:" + waypointSymbol)
	if m.ShipyardErr != nil {
		return nil, m.ShipyardErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	yard, ok := m.Shipyards[waypointSymbol]
	if !ok {
		return nil, fmt.Errorf("get shipyard %s: %w", waypointSymbol, ErrMissingPayload)
	}
	return yard, nil
}

func (m *MockClient) PurchaseShip(shipType, waypointSymbol string) (*PurchaseShipResult, error) {
	m.record(fmt.Sprintf("PurchaseShip:%s:%s", shipType, waypointSymbol))
	if m.PurchaseShipErr != nil {
		return nil, m.PurchaseShipErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.PurchaseShipResult == nil || m.PurchaseShipResult.Ship == nil {
		return nil, fmt.Errorf("purchase ship %s: %w", shipType, ErrMissingPayload)
	}
	return m.PurchaseShipResult, nil
}

func (m *MockClient) PurchaseCargo(shipSymbol, tradeSymbol string, units int) (*PurchaseCargoResult, error) {
	m.record(fmt.Sprintf("PurchaseCargo:%s:%s:%d", shipSymbol, tradeSymbol, units))
	if m.Err != nil {
		return nil, m.Err
	}
	if m.PurchaseCargoResult == nil {
		return nil, fmt.Errorf("purchase cargo on %s: %w", shipSymbol, ErrMissingPayload)
	}
	return m.PurchaseCargoResult, nil
}

func (m *MockClient) OrbitShip(shipSymbol string) error {
	m.record("OrbitShip:" + shipSymbol)
	return m.Err
}

func (m *MockClient) DockShip(shipSymbol string) error {
	m.record("DockShip:" + shipSymbol)
	return m.Err
}

func (m *MockClient) NavigateShip(shipSymbol, waypointSymbol string) error {
	m.record(fmt.Sprintf("NavigateShip:%s:%s", shipSymbol, waypointSymbol))
	return m.Err
}

func (m *MockClient) RefuelShip(shipSymbol string) error {
	m.record("RefuelShip:" + shipSymbol)
	return m.Err
}
