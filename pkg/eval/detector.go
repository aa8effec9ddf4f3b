package eval

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval/vals"
)

// Detection thresholds. The detector is a sampled heuristic over a bounded
// recent window, not a termination proof; these constants trade detection
// latency against false positives on deep but terminating recursion.
const (
	// identicalCallThreshold is the number of consecutive nested calls of
	// the same callee with literally identical arguments that triggers
	// detection.
	identicalCallThreshold = 5
	// monotonicCallThreshold is the number of consecutive nested calls of
	// the same callee whose first numeric argument changes by a constant
	// non-zero delta that triggers detection.
	monotonicCallThreshold = 256
	// recentWindow bounds the retained call history.
	recentWindow = 512
	// maxCallDepth aborts runs whose call stack outgrows every plausible
	// terminating program before either pattern matched.
	maxCallDepth = 100000
	// traceCalls is how many recent calls the diagnostic quotes.
	traceCalls = 3
)

// callRecord describes one application for the detector.
type callRecord struct {
	callee   Callable
	rendered string // e.g. "f(0)"
	num      float64
	hasNum   bool
	depth    int
	r        diag.Ranging
}

// detector observes the evaluator's call-stack operations and recognizes two
// shapes of non-terminating recursion: the same callee applied to repeating
// arguments at increasing depth, and the same callee applied to a numeric
// argument drifting by a constant delta at increasing depth. It fires for
// named functions, anonymous closures, and self-application through
// parameters alike, since it tracks callee identity rather than names.
type detector struct {
	calls *arraystack.Stack

	last         *callRecord
	identicalRun int
	deltaRun     int
	delta        float64
	recent       []*callRecord
}

func newDetector() *detector {
	return &detector{calls: arraystack.New()}
}

func (d *detector) depth() int { return d.calls.Size() }

// push records one application. It returns a non-empty trace when a
// recursion pattern fired; the caller aborts the run.
func (d *detector) push(rec *callRecord) []string {
	rec.depth = d.calls.Size()
	d.calls.Push(rec)

	nested := d.last != nil && d.last.callee == rec.callee && rec.depth > d.last.depth
	if nested {
		if rec.rendered == d.last.rendered {
			d.identicalRun++
		} else {
			d.identicalRun = 1
		}
		if rec.hasNum && d.last.hasNum {
			delta := rec.num - d.last.num
			switch {
			case delta == 0:
				d.deltaRun = 0
			case d.deltaRun > 0 && delta == d.delta:
				d.deltaRun++
			default:
				d.deltaRun = 1
				d.delta = delta
			}
		} else {
			d.deltaRun = 0
		}
	} else {
		d.identicalRun = 1
		d.deltaRun = 0
		d.recent = d.recent[:0]
	}
	d.recent = append(d.recent, rec)
	if len(d.recent) > recentWindow {
		d.recent = d.recent[len(d.recent)-recentWindow:]
	}
	d.last = rec

	if d.identicalRun >= identicalCallThreshold ||
		d.deltaRun >= monotonicCallThreshold-1 {
		return d.trace()
	}
	return nil
}

func (d *detector) pop() {
	d.calls.Pop()
}

// trace returns the most recent calls of the repeating callee, rendered.
func (d *detector) trace() []string {
	n := traceCalls
	if n > len(d.recent) {
		n = len(d.recent)
	}
	trace := make([]string, n)
	for i, rec := range d.recent[len(d.recent)-n:] {
		trace[i] = rec.rendered
	}
	return trace
}

// renderCall renders an application like "f(1, 2)" for detector traces.
func renderCall(callee Callable, args []any) (string, float64, bool) {
	name := "function"
	switch c := callee.(type) {
	case *Closure:
		if c.Name != "" {
			name = c.Name
		}
	case *GoFn:
		name = c.name
	}
	rendered := make([]string, len(args))
	for i, arg := range args {
		rendered[i] = vals.Repr(arg)
	}
	var num float64
	hasNum := false
	if len(args) > 0 {
		num, hasNum = args[0].(float64)
	}
	return name + "(" + strings.Join(rendered, ", ") + ")", num, hasNum
}
