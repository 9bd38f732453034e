package agent

// State identifies one phase of the contract lifecycle loop. States are
// stable strings so they can be logged and recorded directly.
type State string

const (
	StateInitialize          State = "INITIALIZE"
	StateAssessSituation     State = "ASSESS_SITUATION"
	StateNegotiateContract   State = "NEGOTIATE_CONTRACT"
	StateAcceptContract      State = "ACCEPT_CONTRACT"
	StatePlanFulfillment     State = "PLAN_FULFILLMENT"
	StateAcquireResources    State = "ACQUIRE_RESOURCES"
	StateExecuteContract     State = "EXECUTE_CONTRACT"
	StateDeliverGoods        State = "DELIVER_GOODS"
	StateCompleteContract    State = "COMPLETE_CONTRACT"
	StateEvaluatePerformance State = "EVALUATE_PERFORMANCE"
	StateErrorRecovery       State = "ERROR_RECOVERY"
)

func (s State) String() string { return string(s) }

// IsValid reports whether the state is a recognized state.
func (s State) IsValid() bool {
	switch s {
	case StateInitialize, StateAssessSituation, StateNegotiateContract,
		StateAcceptContract, StatePlanFulfillment, StateAcquireResources,
		StateExecuteContract, StateDeliverGoods, StateCompleteContract,
		StateEvaluatePerformance, StateErrorRecovery:
		return true
	default:
		return false
	}
}
