package model

// ChiefDecision is the first-stage decision taken by the requester's manager.
type ChiefDecision string

const (
	ChiefPending  ChiefDecision = "PENDING"
	ChiefApproved ChiefDecision = "APPROVED"
	ChiefRejected ChiefDecision = "REJECTED"
)

// HRDecision is the second-stage administrative state, independent of the chief decision.
type HRDecision string

const (
	HRPending   HRDecision = "PENDING"
	HRApproved  HRDecision = "APPROVED"
	HRRejected  HRDecision = "REJECTED"
	HRProcessed HRDecision = "PROCESSED"
)

// Valid reports whether d is a known chief decision.
func (d ChiefDecision) Valid() bool {
	switch d {
	case ChiefPending, ChiefApproved, ChiefRejected:
		return true
	}
	return false
}

// Valid reports whether d is a known HR decision.
func (d HRDecision) Valid() bool {
	switch d {
	case HRPending, HRApproved, HRRejected, HRProcessed:
		return true
	}
	return false
}

// chiefTransitions lists the decisions reachable from each chief decision.
// Re-applying the current decision is always allowed.
var chiefTransitions = map[ChiefDecision][]ChiefDecision{
	ChiefPending:  {ChiefApproved, ChiefRejected},
	ChiefApproved: {ChiefRejected},
	ChiefRejected: {ChiefApproved},
}

// CanTransitionTo reports whether a chief may move a request from d to next.
func (d ChiefDecision) CanTransitionTo(next ChiefDecision) bool {
	if d == next {
		return next != ChiefPending
	}
	for _, n := range chiefTransitions[d] {
		if n == next {
			return true
		}
	}
	return false
}

// Final reports whether no further workflow step can change the request.
func (d HRDecision) Final() bool {
	return d == HRProcessed
}

// State is the derived workflow state of a request.
type State string

const (
	StatePending       State = "PENDING"
	StateChiefApproved State = "CHIEF_APPROVED"
	StateChiefRejected State = "CHIEF_REJECTED"
	StateHRProcessed   State = "HR_PROCESSED"
)

// StateOf derives the workflow state from the two decision fields.
func StateOf(chief ChiefDecision, hr HRDecision) State {
	switch {
	case hr == HRProcessed:
		return StateHRProcessed
	case chief == ChiefApproved:
		return StateChiefApproved
	case chief == ChiefRejected:
		return StateChiefRejected
	default:
		return StatePending
	}
}
