package recorder

// StateTransition records one controller transition.
type StateTransition struct {
	From string
	To   string
}

// ContractEvent records an accept, deliver, fulfill or fail action.
type ContractEvent struct {
	EventType  string // "ACCEPT", "DELIVER", "FULFILL", "FAIL"
	ContractID string
	Payment    int64
	Profit     int64
	Units      int
	Note       string
}

// ShipPurchase records a successful vendor purchase.
type ShipPurchase struct {
	ShipSymbol    string
	ShipType      string
	Waypoint      string
	Price         int64
	CargoCapacity int
}

// PerformanceSnapshot records the cumulative counters at a point in time.
type PerformanceSnapshot struct {
	ContractsCompleted int
	ContractsFailed    int
	CreditsEarned      int64
	Errors             int
	Credits            int64
	FleetSize          int
	CargoCapacity      int
	AvgCompletionSecs  float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordTransition(evt *StateTransition) error
	RecordContractEvent(evt *ContractEvent) error
	RecordShipPurchase(evt *ShipPurchase) error
	RecordPerformance(snap *PerformanceSnapshot) error
	Close() error
}
