package model

import "time"

// ContractType classifies a contract's task.
type ContractType string

const (
	ContractProcurement ContractType = "PROCUREMENT"
	ContractTransport   ContractType = "TRANSPORT"
	ContractShuttle     ContractType = "SHUTTLE"
)

// ContractStatus is always derived from the flags and deadline, never stored.
type ContractStatus string

const (
	ContractAvailable ContractStatus = "AVAILABLE"
	ContractAccepted  ContractStatus = "ACCEPTED"
	ContractFulfilled ContractStatus = "FULFILLED"
	ContractFailed    ContractStatus = "FAILED"
)

// Delivery is one line-item of a contract's required goods.
type Delivery struct {
	TradeSymbol       string
	DestinationSymbol string
	UnitsRequired     int
	UnitsFulfilled    int
}

// RemainingUnits returns the units still to deliver, never negative.
func (d Delivery) RemainingUnits() int {
	if d.UnitsFulfilled >= d.UnitsRequired {
		return 0
	}
	return d.UnitsRequired - d.UnitsFulfilled
}

// IsCompleted reports whether the required units have been delivered.
func (d Delivery) IsCompleted() bool {
	return d.RemainingUnits() == 0
}

// Terms holds a contract's deadline, payment split and delivery list.
type Terms struct {
	Deadline           time.Time
	PaymentOnAccepted  int64
	PaymentOnFulfilled int64
	Deliveries         []Delivery
}

// TotalPayment is the acceptance payment plus the fulfillment payment.
func (t Terms) TotalPayment() int64 {
	return t.PaymentOnAccepted + t.PaymentOnFulfilled
}

// Contract is a remote-issued task: deliver goods for a payment split
// between acceptance and fulfillment. Value object, replaced on refresh.
type Contract struct {
	ID            string
	FactionSymbol string
	Type          ContractType
	Terms         Terms
	Accepted      bool
	Fulfilled     bool
	Expiration    time.Time
}

// IsExpired reports whether the contract can no longer be worked. The
// expiration instant takes precedence over the terms deadline when set.
func (c *Contract) IsExpired(now time.Time) bool {
	if !c.Expiration.IsZero() {
		return now.After(c.Expiration)
	}
	return now.After(c.Terms.Deadline)
}

// Status derives the contract state from its flags and deadline.
func (c *Contract) Status(now time.Time) ContractStatus {
	switch {
	case c.Fulfilled:
		return ContractFulfilled
	case c.Accepted:
		return ContractAccepted
	case c.IsExpired(now):
		return ContractFailed
	default:
		return ContractAvailable
	}
}

// TotalUnitsRequired sums the required units across all deliveries.
func (c *Contract) TotalUnitsRequired() int {
	total := 0
	for _, d := range c.Terms.Deliveries {
		total += d.UnitsRequired
	}
	return total
}

// TotalRemainingUnits sums the undelivered units across all deliveries.
func (c *Contract) TotalRemainingUnits() int {
	total := 0
	for _, d := range c.Terms.Deliveries {
		total += d.RemainingUnits()
	}
	return total
}

// LargestDelivery returns the biggest single delivery requirement.
func (c *Contract) LargestDelivery() int {
	largest := 0
	for _, d := range c.Terms.Deliveries {
		if d.UnitsRequired > largest {
			largest = d.UnitsRequired
		}
	}
	return largest
}

// NextDelivery returns the first delivery still short of its requirement.
func (c *Contract) NextDelivery() (Delivery, bool) {
	for _, d := range c.Terms.Deliveries {
		if !d.IsCompleted() {
			return d, true
		}
	}
	return Delivery{}, false
}

// AllDeliveriesCompleted reports whether every delivery is fully satisfied.
func (c *Contract) AllDeliveriesCompleted() bool {
	for _, d := range c.Terms.Deliveries {
		if !d.IsCompleted() {
			return false
		}
	}
	return true
}
