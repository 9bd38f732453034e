// Package metrics provides Prometheus instrumentation for the agent.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StateTransitions counts controller transitions, partitioned by edge.
	StateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_state_transitions_total",
		Help: "Total number of state machine transitions",
	}, []string{"from", "to"})

	// ContractsCompleted counts fulfilled contracts.
	ContractsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agent_contracts_completed_total",
		Help: "Total number of contracts fulfilled",
	})

	// ContractsFailed counts contracts that expired or could not be fulfilled.
	ContractsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agent_contracts_failed_total",
		Help: "Total number of contracts failed",
	})

	// HandlerErrors counts handler failures routed to error recovery.
	HandlerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agent_handler_errors_total",
		Help: "Total number of state handler failures",
	})

	// ShipPurchases counts successful ship purchases.
	ShipPurchases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agent_ship_purchases_total",
		Help: "Total number of ships purchased",
	})

	// APIRequests counts SpaceTraders API requests by operation and status.
	// The operation label is a fixed name per call type, never a raw path.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_api_requests_total",
		Help: "Total SpaceTraders API requests",
	}, []string{"operation", "status"})

	// Credits tracks the latest known credit balance.
	Credits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_credits",
		Help: "Current credit balance",
	})

	// FleetSize tracks the number of owned ships.
	FleetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_fleet_size",
		Help: "Number of owned ships",
	})

	// CargoCapacity tracks the total fleet cargo capacity.
	CargoCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_cargo_capacity_units",
		Help: "Total fleet cargo capacity in units",
	})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
