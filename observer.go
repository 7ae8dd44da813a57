package amisform

import "time"

// Observer receives validation events. Implementations must be safe for
// concurrent use; the metrics package provides a Prometheus-backed one.
type Observer interface {
	// ValidationDone is called once per Validate call.
	ValidationDone(violations int, elapsed time.Duration)
	// ExpressionFailed is called when a conditional gate could not be
	// evaluated. gate is one of requireOn, visibleOn, hiddenOn or rule.
	ExpressionFailed(gate string)
	// RuleFailed is called for every violation produced by a predicate.
	RuleFailed(rule string)
}

type nopObserver struct{}

func (nopObserver) ValidationDone(int, time.Duration) {}
func (nopObserver) ExpressionFailed(string)           {}
func (nopObserver) RuleFailed(string)                 {}
