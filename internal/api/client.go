package api

import "github.com/freydema/spacetrader-agent/internal/model"

// AcceptResult carries the updated contract and agent after acceptance.
type AcceptResult struct {
	Contract *model.Contract
	Agent    *model.AgentSnapshot
}

// FulfillResult carries the updated contract and agent after fulfillment.
type FulfillResult struct {
	Contract *model.Contract
	Agent    *model.AgentSnapshot
}

// DeliverResult carries the updated contract and the delivering ship's cargo.
type DeliverResult struct {
	Contract *model.Contract
	Cargo    *model.Cargo
}

// PurchaseShipResult carries the new ship and updated agent after a purchase.
type PurchaseShipResult struct {
	Ship  *model.Ship
	Agent *model.AgentSnapshot
}

// PurchaseCargoResult carries the updated cargo and agent after buying goods.
type PurchaseCargoResult struct {
	Cargo *model.Cargo
	Agent *model.AgentSnapshot
}

// Client defines the remote operations the agent needs. The production
// implementation talks to the SpaceTraders API; tests use MockClient.
type Client interface {
	GetAgent() (*model.AgentSnapshot, error)
	ListShips() ([]model.Ship, error)
	ListContracts() ([]model.Contract, error)

	AcceptContract(contractID string) (*AcceptResult, error)
	FulfillContract(contractID string) (*FulfillResult, error)
	DeliverCargo(contractID, shipSymbol, tradeSymbol string, units int) (*DeliverResult, error)

	ListWaypoints(systemSymbol string, page, limit int) ([]model.Waypoint, int, error)
	GetShipyard(systemSymbol, waypointSymbol string) (*model.Shipyard, error)

	PurchaseShip(shipType, waypointSymbol string) (*PurchaseShipResult, error)
	PurchaseCargo(shipSymbol, tradeSymbol string, units int) (*PurchaseCargoResult, error)
	OrbitShip(shipSymbol string) error
	DockShip(shipSymbol string) error
	NavigateShip(shipSymbol, waypointSymbol string) error
	RefuelShip(shipSymbol string) error
}
