// Package harness runs conformance scenarios against the real engine.
//
// Each scenario opens a fresh in-memory store, executes its steps in order,
// and evaluates its checks against the final state. There is no mocking
// anywhere: refusals come from the engine's own validation, and the traces
// compared against golden files are the engine's durable event log.
package harness

import (
	"context"
	"fmt"

	"github.com/fenlabs/barter/internal/engine"
	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// Result is the outcome of running a scenario.
type Result struct {
	ScenarioName string

	// Failures lists every step/check violation, empty when the scenario
	// passed.
	Failures []string

	// Log is the engine's durable event log after all steps ran.
	Log []ledger.Event
}

// Passed reports whether the scenario ran without violations.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Result) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario against a fresh in-memory engine.
//
// The returned error covers infrastructure problems (store, malformed
// data); scenario violations land in Result.Failures instead.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	defer st.Close()

	eng := engine.New(st)
	ctx := context.Background()
	result := &Result{ScenarioName: scenario.Name}

	for i, step := range scenario.Steps {
		if err := runStep(ctx, eng, i+1, step, result); err != nil {
			return nil, err
		}
	}

	for i, check := range scenario.Checks {
		if err := runCheck(ctx, eng, i+1, check, result); err != nil {
			return nil, err
		}
	}

	// Snapshot the durable log for golden comparison.
	result.Log, err = eng.Log(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}

	return result, nil
}

// runStep executes one operation and reconciles the outcome with the
// step's expect clause.
func runStep(ctx context.Context, eng *engine.Engine, n int, step Step, result *Result) error {
	as := ledger.Principal(step.As)

	var opErr error
	switch step.Op {
	case "issue":
		owner := ledger.Principal(step.Owner)
		if owner == "" {
			owner = as
		}
		data, err := step.payload()
		if err != nil {
			return fmt.Errorf("step %d: %w", n, err)
		}
		_, opErr = eng.Registry.Issue(ctx, as, owner, data)
	case "retract":
		opErr = eng.Registry.Retract(ctx, as, step.Asset)
	case "send":
		recipient := ledger.Principal(step.To) // Public when the step says so
		_, opErr = eng.Offers.Send(ctx, as, recipient, step.Give, step.Want)
	case "cancel":
		opErr = eng.Offers.Cancel(ctx, as, step.Offer)
	case "accept":
		opErr = eng.Offers.Accept(ctx, as, step.Offer)
	case "decline":
		opErr = eng.Offers.Decline(ctx, as, step.Offer)
	default:
		return fmt.Errorf("step %d: unknown op %q", n, step.Op)
	}

	if step.Expect == nil {
		if opErr != nil {
			result.failf("step %d (%s): unexpected error: %v", n, step.Op, opErr)
		}
		return nil
	}

	code := ledger.CodeOf(opErr)
	if opErr == nil {
		result.failf("step %d (%s): expected %s, but the operation succeeded", n, step.Op, step.Expect.Error)
	} else if string(code) != step.Expect.Error {
		result.failf("step %d (%s): expected %s, got %v", n, step.Op, step.Expect.Error, opErr)
	}
	return nil
}
