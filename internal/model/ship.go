package model

// NavStatus is a ship's navigation state.
type NavStatus string

const (
	NavInTransit NavStatus = "IN_TRANSIT"
	NavInOrbit   NavStatus = "IN_ORBIT"
	NavDocked    NavStatus = "DOCKED"
)

// refuelThreshold is the fuel fraction below which a ship needs refueling.
const refuelThreshold = 25.0

// Nav holds a ship's position and navigation state.
type Nav struct {
	SystemSymbol   string
	WaypointSymbol string
	Status         NavStatus
	FlightMode     string
}

func (n Nav) IsInTransit() bool { return n.Status == NavInTransit }
func (n Nav) IsDocked() bool    { return n.Status == NavDocked }
func (n Nav) IsInOrbit() bool   { return n.Status == NavInOrbit }

// CargoItem is one stack of goods in a ship's hold.
type CargoItem struct {
	Symbol string
	Name   string
	Units  int
}

// Cargo is a ship's hold. Invariant: Units <= Capacity.
type Cargo struct {
	Capacity  int
	Units     int
	Inventory []CargoItem
}

// AvailableSpace returns the free cargo units.
func (c Cargo) AvailableSpace() int {
	return c.Capacity - c.Units
}

// ItemUnits returns how many units of a good the hold carries.
func (c Cargo) ItemUnits(symbol string) int {
	for _, item := range c.Inventory {
		if item.Symbol == symbol {
			return item.Units
		}
	}
	return 0
}

// Fuel tracks a ship's fuel level.
type Fuel struct {
	Current  int
	Capacity int
}

// Percentage returns the fuel level as 0-100.
func (f Fuel) Percentage() float64 {
	if f.Capacity == 0 {
		return 0
	}
	return float64(f.Current) / float64(f.Capacity) * 100
}

// NeedsRefuel reports whether the fuel level is below 25%.
func (f Fuel) NeedsRefuel() bool {
	return f.Percentage() < refuelThreshold
}

// Ship is an owned vessel. Value object, replaced when fleet data is
// refreshed, except for the optimistic append right after a purchase.
type Ship struct {
	Symbol string
	Role   string
	Nav    Nav
	Cargo  Cargo
	Fuel   Fuel
}

// IsAtWaypoint reports whether the ship is stationary at the waypoint.
func (s Ship) IsAtWaypoint(waypointSymbol string) bool {
	return s.Nav.WaypointSymbol == waypointSymbol && !s.Nav.IsInTransit()
}
