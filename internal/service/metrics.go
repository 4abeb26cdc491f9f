package service

import "github.com/prometheus/client_golang/prometheus"

// Transition names recorded by the leave_transitions_total counter.
const (
	TransitionCreate  = "create"
	TransitionUpdate  = "update"
	TransitionDelete  = "delete"
	TransitionApprove = "approve"
	TransitionReject  = "reject"
	TransitionProcess = "process"
)

// NewTransitionCounter registers the leave_transitions_total counter on reg.
func NewTransitionCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	c := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_transitions_total",
			Help: "Total number of successful leave request workflow operations.",
		},
		[]string{"transition"},
	)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
