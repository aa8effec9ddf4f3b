package run

import (
	"context"
	"time"

	"github.com/sage-lang/sage/pkg/eval"
)

// Strategy selects how evaluation steps are interleaved. Both strategies
// compute identical results for terminating programs; they differ only in
// responsiveness and cancellation latency.
type Strategy uint8

// Possible values of Strategy.
const (
	// Preemptive suspends between fine-grained evaluation steps, letting a
	// hosting process stay responsive and cancellation take effect at the
	// next step.
	Preemptive Strategy = iota
	// RunToCompletion never suspends until the program finishes or the
	// recursion detector or a budget aborts it.
	RunToCompletion
)

// HostFn is an externally supplied function exposed to evaluated programs.
type HostFn = eval.HostFn

// Config configures one run.
type Config struct {
	// Chapter is the course level gating which constructs are permitted.
	// Zero means chapter 1.
	Chapter int
	// Strategy selects the interleaving strategy.
	Strategy Strategy
	// HostBindings are registered as immutable bindings visible to the
	// program.
	HostBindings map[string]HostFn
	// StepBudget, if positive, bounds the number of evaluation steps.
	StepBudget int
	// Timeout, if positive, bounds the wall-clock duration of the run.
	// Timeouts are advisory: they take effect at the next suspension point.
	Timeout time.Duration
	// Ctx, if non-nil, cancels the run when done. Cancellation is advisory
	// in the same way timeouts are.
	Ctx context.Context
}

func (cfg *Config) chapter() int {
	if cfg.Chapter <= 0 {
		return 1
	}
	return cfg.Chapter
}
