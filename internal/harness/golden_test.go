package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Golden scenarios pin the exact durable event traces for the settlement
// paths that matter most: a clean swap, a swap aborted by a pending-window
// retraction, and a public offer taken by a third party.
func TestGoldenTraces(t *testing.T) {
	for _, name := range []string{
		"swap-settles",
		"retract-aborts-settlement",
		"public-offer",
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)
			RunWithGolden(t, scenario)
		})
	}
}
