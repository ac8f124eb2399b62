package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file representation of a scenario run: the
// scenario name plus the engine's durable event log rendered one line per
// event. Lines are "<seq> <event>", so goldens double as readable traces.
type Snapshot struct {
	Scenario string   `json:"scenario"`
	Log      []string `json:"log"`
}

// snapshot builds the golden representation of a result.
func snapshot(result *Result) Snapshot {
	s := Snapshot{Scenario: result.ScenarioName, Log: []string{}}
	for _, ev := range result.Log {
		s.Log = append(s.Log, fmt.Sprintf("%d %s", ev.Seq, ev))
	}
	return s
}

// RunWithGolden executes a scenario, requires it to pass, and compares its
// event-log snapshot against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}
	for _, failure := range result.Failures {
		t.Error(failure)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep "->" readable in move lines
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot(result)); err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	data := buf.Bytes()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
}
