package run

import (
	"context"
	"errors"
	"runtime"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval"
	"github.com/sage-lang/sage/pkg/parse"
)

// errCancelled unwinds a cancelled run to the scheduler loop. It is mapped
// to the Cancelled outcome, never to Errored.
var errCancelled = errors.New("run cancelled")

// stepper implements eval.Stepper for both strategies. Cancellation and
// budgets are checked only here, at explicit step boundaries, so they are
// advisory by construction.
type stepper struct {
	ctx    context.Context
	src    parse.Source
	diags  *diag.List
	budget int
	steps  int
	// preempt makes the stepper yield the processor and observe ctx between
	// steps. When false the run drains to completion and ctx is never
	// consulted.
	preempt bool
}

func (s *stepper) Step(r diag.Ranging) error {
	s.steps++
	if s.budget > 0 && s.steps > s.budget {
		return s.timeout(r, "Execution exceeded its step budget.")
	}
	if !s.preempt {
		return nil
	}
	select {
	case <-s.ctx.Done():
		if errors.Is(s.ctx.Err(), context.DeadlineExceeded) {
			return s.timeout(r, "Execution exceeded its time budget.")
		}
		return errCancelled
	default:
	}
	runtime.Gosched()
	return nil
}

func (s *stepper) timeout(r diag.Ranging, msg string) error {
	d := diag.New(diag.Timeout, s.src.Name, s.src.Code, r)
	d.Message = msg
	s.diags.Add(d)
	return &eval.Abort{Diag: d}
}
