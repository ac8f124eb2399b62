package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of ledger
// operations driven against a fresh engine, with expected refusals inline
// and final-state checks at the end.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Steps are executed in order against the real engine. A step without
	// an expect clause must succeed; a step with one must fail with the
	// given error code.
	Steps []Step `yaml:"steps"`

	// Checks validate final state after all steps ran.
	Checks []Check `yaml:"checks,omitempty"`
}

// Step is one engine operation.
type Step struct {
	// Op is one of: issue, retract, send, cancel, accept, decline.
	Op string `yaml:"op"`

	// As is the acting principal for the operation.
	As string `yaml:"as"`

	// Owner receives an issued asset; defaults to the acting principal.
	Owner string `yaml:"owner,omitempty"`

	// Data is the issued asset's payload: a 0x-hex literal or raw text.
	Data string `yaml:"data,omitempty"`

	// Asset is the target asset id for retract.
	Asset int64 `yaml:"asset,omitempty"`

	// Offer is the target offer id for cancel/accept/decline.
	Offer int64 `yaml:"offer,omitempty"`

	// To is the recipient for send. Public marks the offer public instead.
	To     string `yaml:"to,omitempty"`
	Public bool   `yaml:"public,omitempty"`

	// Give and Want are the send operation's asset-id lists.
	Give []int64 `yaml:"give,omitempty"`
	Want []int64 `yaml:"want,omitempty"`

	// Expect, when set, requires the step to fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies a required failure for a step.
type Expect struct {
	// Error is the required ledger error code, e.g. OWNERSHIP_MISMATCH.
	Error string `yaml:"error"`
}

// Check validates a piece of final state.
type Check struct {
	// Type is one of: owner, absent, offer_state, inventory, holdings,
	// sent, received.
	Type string `yaml:"type"`

	// Asset is the asset id for owner/absent checks.
	Asset int64 `yaml:"asset,omitempty"`

	// Offer is the offer id for offer_state checks.
	Offer int64 `yaml:"offer,omitempty"`

	// Principal scopes inventory/holdings/sent/received checks. For
	// received, "public" selects the public bucket.
	Principal string `yaml:"principal,omitempty"`

	// Equals is the expected owner (owner) or state (offer_state).
	Equals string `yaml:"equals,omitempty"`

	// IDs is the expected id list for inventory/sent/received checks.
	// Inventory compares as a set; offer lists compare in order.
	IDs []int64 `yaml:"ids,omitempty"`

	// Count is the expected count for holdings checks.
	Count int64 `yaml:"count,omitempty"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // typos in step fields should fail loudly
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarioDir loads every *.yaml scenario under dir, sorted by name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

var validOps = map[string]bool{
	"issue": true, "retract": true, "send": true,
	"cancel": true, "accept": true, "decline": true,
}

var validChecks = map[string]bool{
	"owner": true, "absent": true, "offer_state": true,
	"inventory": true, "holdings": true, "sent": true, "received": true,
}

// Validate checks structural well-formedness before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
		if step.As == "" {
			return fmt.Errorf("step %d: acting principal (as) is required", i+1)
		}
		if step.Op == "send" && step.Public == (step.To != "") {
			return fmt.Errorf("step %d: send needs exactly one of to or public", i+1)
		}
	}
	for i, check := range s.Checks {
		if !validChecks[check.Type] {
			return fmt.Errorf("check %d: unknown type %q", i+1, check.Type)
		}
	}
	return nil
}

// payload decodes a step's data field: 0x-hex literal or raw text.
func (st Step) payload() ([]byte, error) {
	if strings.HasPrefix(st.Data, "0x") || strings.HasPrefix(st.Data, "0X") {
		b, err := hex.DecodeString(st.Data[2:])
		if err != nil {
			return nil, fmt.Errorf("bad hex data %q: %w", st.Data, err)
		}
		return b, nil
	}
	return []byte(st.Data), nil
}
