package strategy

import "github.com/freydema/spacetrader-agent/internal/model"

// Offering is a purchasable ship together with the shipyard selling it.
type Offering struct {
	Listing  model.ShipListing
	Waypoint string
}

// TargetCapacity returns the cargo capacity the fleet should grow toward:
// at least 60 units, or 20 more than it currently has.
func TargetCapacity(currentCapacity int) int {
	target := currentCapacity + 20
	if target < 60 {
		target = 60
	}
	return target
}

// SelectOffering picks the purchasable ship maximizing cargo capacity per
// credit among those within budget and meeting the minimum additional
// capacity. Zero-cargo vessels (surveyors) are rejected outright. Ties keep
// the first-encountered offering.
func SelectOffering(yards []model.Shipyard, budget int64, minCapacity int) *Offering {
	var best *Offering
	bestValue := 0.0

	for _, yard := range yards {
		for _, listing := range yard.Listings {
			if listing.PurchasePrice > budget {
				continue
			}
			if listing.CargoCapacity <= 0 {
				continue
			}
			if listing.CargoCapacity < minCapacity {
				continue
			}
			price := listing.PurchasePrice
			if price < 1 {
				price = 1
			}
			value := float64(listing.CargoCapacity) / float64(price)
			if value > bestValue {
				best = &Offering{Listing: listing, Waypoint: yard.WaypointSymbol}
				bestValue = value
			}
		}
	}
	return best
}
