package api

import (
	"time"

	"github.com/freydema/spacetrader-agent/internal/model"
)

// Wire shapes for the SpaceTraders v2 JSON API. Every response wraps its
// payload in a "data" envelope; list responses add a "meta" block.

type meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type agentPayload struct {
	AccountID       string `json:"accountId"`
	Symbol          string `json:"symbol"`
	Headquarters    string `json:"headquarters"`
	Credits         int64  `json:"credits"`
	StartingFaction string `json:"startingFaction"`
	ShipCount       int    `json:"shipCount"`
}

func (p *agentPayload) toModel() *model.AgentSnapshot {
	return &model.AgentSnapshot{
		AccountID:       p.AccountID,
		Symbol:          p.Symbol,
		Headquarters:    p.Headquarters,
		Credits:         p.Credits,
		StartingFaction: p.StartingFaction,
		ShipCount:       p.ShipCount,
	}
}

type deliveryPayload struct {
	TradeSymbol       string `json:"tradeSymbol"`
	DestinationSymbol string `json:"destinationSymbol"`
	UnitsRequired     int    `json:"unitsRequired"`
	UnitsFulfilled    int    `json:"unitsFulfilled"`
}

type contractPayload struct {
	ID            string `json:"id"`
	FactionSymbol string `json:"factionSymbol"`
	Type          string `json:"type"`
	Terms         struct {
		Deadline time.Time `json:"deadline"`
		Payment  struct {
			OnAccepted  int64 `json:"onAccepted"`
			OnFulfilled int64 `json:"onFulfilled"`
		} `json:"payment"`
		Deliver []deliveryPayload `json:"deliver"`
	} `json:"terms"`
	Accepted   bool      `json:"accepted"`
	Fulfilled  bool      `json:"fulfilled"`
	Expiration time.Time `json:"expiration"`
}

func (p *contractPayload) toModel() *model.Contract {
	deliveries := make([]model.Delivery, len(p.Terms.Deliver))
	for i, d := range p.Terms.Deliver {
		deliveries[i] = model.Delivery{
			TradeSymbol:       d.TradeSymbol,
			DestinationSymbol: d.DestinationSymbol,
			UnitsRequired:     d.UnitsRequired,
			UnitsFulfilled:    d.UnitsFulfilled,
		}
	}
	return &model.Contract{
		ID:            p.ID,
		FactionSymbol: p.FactionSymbol,
		Type:          model.ContractType(p.Type),
		Terms: model.Terms{
			Deadline:           p.Terms.Deadline,
			PaymentOnAccepted:  p.Terms.Payment.OnAccepted,
			PaymentOnFulfilled: p.Terms.Payment.OnFulfilled,
			Deliveries:         deliveries,
		},
		Accepted:   p.Accepted,
		Fulfilled:  p.Fulfilled,
		Expiration: p.Expiration,
	}
}

type cargoPayload struct {
	Capacity  int `json:"capacity"`
	Units     int `json:"units"`
	Inventory []struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
		Units  int    `json:"units"`
	} `json:"inventory"`
}

func (p *cargoPayload) toModel() *model.Cargo {
	inventory := make([]model.CargoItem, len(p.Inventory))
	for i, item := range p.Inventory {
		inventory[i] = model.CargoItem{Symbol: item.Symbol, Name: item.Name, Units: item.Units}
	}
	return &model.Cargo{Capacity: p.Capacity, Units: p.Units, Inventory: inventory}
}

type shipPayload struct {
	Symbol       string `json:"symbol"`
	Registration struct {
		Role string `json:"role"`
	} `json:"registration"`
	Nav struct {
		SystemSymbol   string `json:"systemSymbol"`
		WaypointSymbol string `json:"waypointSymbol"`
		Status         string `json:"status"`
		FlightMode     string `json:"flightMode"`
	} `json:"nav"`
	Cargo cargoPayload `json:"cargo"`
	Fuel  struct {
		Current  int `json:"current"`
		Capacity int `json:"capacity"`
	} `json:"fuel"`
}

func (p *shipPayload) toModel() *model.Ship {
	return &model.Ship{
		Symbol: p.Symbol,
		Role:   p.Registration.Role,
		Nav: model.Nav{
			SystemSymbol:   p.Nav.SystemSymbol,
			WaypointSymbol: p.Nav.WaypointSymbol,
			Status:         model.NavStatus(p.Nav.Status),
			FlightMode:     p.Nav.FlightMode,
		},
		Cargo: *p.Cargo.toModel(),
		Fuel:  model.Fuel{Current: p.Fuel.Current, Capacity: p.Fuel.Capacity},
	}
}

type waypointPayload struct {
	Symbol       string `json:"symbol"`
	SystemSymbol string `json:"systemSymbol"`
	Type         string `json:"type"`
	Traits       []struct {
		Symbol string `json:"symbol"`
	} `json:"traits"`
}

func (p *waypointPayload) toModel() model.Waypoint {
	traits := make([]string, len(p.Traits))
	for i, t := range p.Traits {
		traits[i] = t.Symbol
	}
	return model.Waypoint{
		Symbol:       p.Symbol,
		SystemSymbol: p.SystemSymbol,
		Type:         p.Type,
		Traits:       traits,
	}
}

type shipyardPayload struct {
	Symbol string `json:"symbol"`
	Ships  []struct {
		Type          string `json:"type"`
		Name          string `json:"name"`
		PurchasePrice int64  `json:"purchasePrice"`
		Cargo         struct {
			Capacity int `json:"capacity"`
		} `json:"cargo"`
	} `json:"ships"`
}

func (p *shipyardPayload) toModel(systemSymbol string) *model.Shipyard {
	listings := make([]model.ShipListing, len(p.Ships))
	for i, s := range p.Ships {
		listings[i] = model.ShipListing{
			Type:          s.Type,
			Name:          s.Name,
			PurchasePrice: s.PurchasePrice,
			CargoCapacity: s.Cargo.Capacity,
		}
	}
	return &model.Shipyard{
		WaypointSymbol: p.Symbol,
		SystemSymbol:   systemSymbol,
		Listings:       listings,
	}
}
