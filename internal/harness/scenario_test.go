package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: minimal
steps:
  - op: issue
    as: alice
    data: "0xff"
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Steps, 1)

	data, err := s.Steps[0].payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, data)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, `
name: typo
steps:
  - op: issue
    as: alice
    onwer: bob
`)
	_, err := LoadScenario(path)
	require.Error(t, err, "typoed field names must fail loudly")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		s       Scenario
		wantErr string
	}{
		{
			name:    "missing name",
			s:       Scenario{Steps: []Step{{Op: "issue", As: "a"}}},
			wantErr: "name is required",
		},
		{
			name:    "no steps",
			s:       Scenario{Name: "x"},
			wantErr: "no steps",
		},
		{
			name:    "unknown op",
			s:       Scenario{Name: "x", Steps: []Step{{Op: "swap", As: "a"}}},
			wantErr: "unknown op",
		},
		{
			name:    "missing actor",
			s:       Scenario{Name: "x", Steps: []Step{{Op: "issue"}}},
			wantErr: "as) is required",
		},
		{
			name:    "send without recipient",
			s:       Scenario{Name: "x", Steps: []Step{{Op: "send", As: "a"}}},
			wantErr: "exactly one of to or public",
		},
		{
			name: "send with both recipients",
			s: Scenario{Name: "x", Steps: []Step{
				{Op: "send", As: "a", To: "b", Public: true},
			}},
			wantErr: "exactly one of to or public",
		},
		{
			name: "unknown check",
			s: Scenario{
				Name:   "x",
				Steps:  []Step{{Op: "issue", As: "a"}},
				Checks: []Check{{Type: "balance"}},
			},
			wantErr: "unknown type",
		},
		{
			name: "valid",
			s: Scenario{
				Name:   "x",
				Steps:  []Step{{Op: "send", As: "a", Public: true}},
				Checks: []Check{{Type: "offer_state", Offer: 1, Equals: "PENDING"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestStepPayload_BadHex(t *testing.T) {
	_, err := (Step{Data: "0xzz"}).payload()
	require.Error(t, err)
}
