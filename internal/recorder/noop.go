package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTransition(_ *StateTransition) error      { return nil }
func (n *NoopRecorder) RecordContractEvent(_ *ContractEvent) error     { return nil }
func (n *NoopRecorder) RecordShipPurchase(_ *ShipPurchase) error       { return nil }
func (n *NoopRecorder) RecordPerformance(_ *PerformanceSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
