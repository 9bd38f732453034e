package model

// TraitShipyard marks a waypoint offering ships for purchase.
const TraitShipyard = "SHIPYARD"

// Waypoint is a location within a system.
type Waypoint struct {
	Symbol       string
	SystemSymbol string
	Type         string
	Traits       []string
}

// HasTrait reports whether the waypoint advertises the given trait.
func (w Waypoint) HasTrait(trait string) bool {
	for _, t := range w.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// ShipListing is one purchasable vessel in a shipyard's live inventory.
type ShipListing struct {
	Type          string
	Name          string
	PurchasePrice int64
	CargoCapacity int
}

// Shipyard is a vendor location with its current stock.
type Shipyard struct {
	WaypointSymbol string
	SystemSymbol   string
	Listings       []ShipListing
}

// HasStock reports whether the shipyard currently offers any vessel.
func (y Shipyard) HasStock() bool {
	return len(y.Listings) > 0
}
