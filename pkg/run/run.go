// Package run drives a program through parsing, gating and evaluation to a
// terminal outcome. It owns the scheduling strategies and the per-run
// context; it is the surface presentation layers call.
package run

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval"
	"github.com/sage-lang/sage/pkg/gate"
	"github.com/sage-lang/sage/pkg/logutil"
	"github.com/sage-lang/sage/pkg/parse"
)

var logger = logutil.GetLogger("[run] ")

// Context is the per-run state. One Context exists per run and is never
// shared across concurrent runs; the only state runs share is the read-only
// chapter table, rule catalog, and metric collectors.
type Context struct {
	ID      uuid.UUID
	Chapter int
	Diags   *diag.List
}

// Run parses, gates and evaluates source text under the given configuration
// and returns the run's single terminal outcome. Run is safe to call from
// multiple goroutines; every call owns an isolated Context.
func Run(src string, cfg Config) Outcome {
	return runWithID(uuid.New(), src, cfg)
}

func runWithID(id uuid.UUID, src string, cfg Config) Outcome {
	runsStarted.Inc()
	rctx := &Context{ID: id, Chapter: cfg.chapter(), Diags: &diag.List{}}
	source := parse.Source{Name: id.String(), Code: src}

	outcome := execute(rctx, source, cfg)
	runsFinished.WithLabelValues(outcome.Kind.String()).Inc()
	logger.Printf("run %s: %s, %d diagnostics", id, outcome.Kind, len(outcome.Diags))
	return outcome
}

func execute(rctx *Context, source parse.Source, cfg Config) Outcome {
	tree, err := parse.Parse(source, gate.ParserHooks(source, rctx.Diags))
	if err != nil {
		gate.ReportFatal(source, err, rctx.Diags)
		return Outcome{Kind: Errored, Diags: rctx.Diags.Items()}
	}

	validated, _ := gate.Check(tree, rctx.Chapter, rctx.Diags)
	if validated == nil {
		return Outcome{Kind: Errored, Diags: rctx.Diags.Items()}
	}

	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	step := &stepper{
		ctx:     ctx,
		src:     source,
		diags:   rctx.Diags,
		budget:  cfg.StepBudget,
		preempt: cfg.Strategy == Preemptive,
	}

	ev := eval.New(source, rctx.Diags, step)
	for name, fn := range cfg.HostBindings {
		ev.RegisterHost(name, fn)
	}

	value, err := ev.Eval(validated)
	evalSteps.Add(float64(step.steps))
	switch {
	case err == nil:
		return Outcome{Kind: Finished, Value: value, Diags: rctx.Diags.Items()}
	case errors.Is(err, errCancelled):
		d := diag.New(diag.Cancelled, source.Name, source.Code, diag.PointRanging(-1))
		rctx.Diags.Add(d)
		return Outcome{Kind: Cancelled, Diags: rctx.Diags.Items()}
	default:
		return Outcome{Kind: Errored, Diags: rctx.Diags.Items()}
	}
}
