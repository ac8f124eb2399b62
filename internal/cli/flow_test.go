package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenlabs/barter/internal/ledger"
)

func TestIdentityNew_MintsUniqueIDs(t *testing.T) {
	db := testDB(t)
	first := mustRun(t, db, "identity", "new")
	second := mustRun(t, db, "identity", "new")
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestIssueAndShow(t *testing.T) {
	db := testDB(t)

	out := mustRun(t, db, "issue", "--as", "alice", "--owner", "bob", "--data", "0xabcd")
	assert.Contains(t, out, "issued asset 1 to bob")

	out = mustRun(t, db, "asset", "1")
	assert.Contains(t, out, "owner:   bob")
	assert.Contains(t, out, "emitter: alice")
	assert.Contains(t, out, "data:    0xabcd")

	out = mustRun(t, db, "inventory", "bob")
	assert.Contains(t, out, "bob owns 1 asset(s): [1]")
}

func TestIssue_RequiresCaller(t *testing.T) {
	_, err := run(t, testDB(t), "issue", "--owner", "bob")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRetract_WrongEmitterExitsWithFailure(t *testing.T) {
	db := testDB(t)
	mustRun(t, db, "issue", "--as", "alice", "--owner", "bob")

	out, err := run(t, db, "retract", "--as", "carol", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "UNAUTHORIZED")

	// Asset unchanged.
	out = mustRun(t, db, "asset", "1")
	assert.Contains(t, out, "owner:   bob")
}

func TestOfferFlow_SendAcceptSettles(t *testing.T) {
	db := testDB(t)
	mustRun(t, db, "issue", "--as", "alice")
	mustRun(t, db, "issue", "--as", "bob")

	out := mustRun(t, db, "offer", "send", "--as", "alice", "--to", "bob", "--give", "1", "--want", "2")
	assert.Contains(t, out, "sent offer 1 to bob")

	out = mustRun(t, db, "offer", "show", "1")
	assert.Contains(t, out, "[PENDING]")

	mustRun(t, db, "offer", "accept", "--as", "bob", "1")

	out = mustRun(t, db, "asset", "1")
	assert.Contains(t, out, "owner:   bob")
	out = mustRun(t, db, "asset", "2")
	assert.Contains(t, out, "owner:   alice")
	out = mustRun(t, db, "offer", "show", "1")
	assert.Contains(t, out, "[ACCEPTED]")
}

func TestOfferFlow_CancelThenAcceptFails(t *testing.T) {
	db := testDB(t)
	mustRun(t, db, "offer", "send", "--as", "alice", "--to", "bob")
	mustRun(t, db, "offer", "cancel", "--as", "alice", "1")

	out, err := run(t, db, "offer", "accept", "--as", "bob", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID_STATE")
}

func TestOfferSend_RequiresExactlyOneRecipient(t *testing.T) {
	db := testDB(t)

	_, err := run(t, db, "offer", "send", "--as", "alice")
	require.Error(t, err)

	_, err = run(t, db, "offer", "send", "--as", "alice", "--to", "bob", "--public")
	require.Error(t, err)
}

func TestOfferReceived_PublicBucket(t *testing.T) {
	db := testDB(t)
	mustRun(t, db, "offer", "send", "--as", "alice", "--public", "--give", "1")

	out := mustRun(t, db, "offer", "received", "public")
	assert.Contains(t, out, "[1]")
}

func TestJSONOutput(t *testing.T) {
	db := testDB(t)

	out := mustRun(t, db, "--format", "json", "issue", "--as", "alice", "--owner", "bob")
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	out, err := run(t, db, "--format", "json", "retract", "--as", "carol", "1")
	require.Error(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(ledger.CodeUnauthorized), resp.Error.Code)
}

func TestLog_RecordsLifecycle(t *testing.T) {
	db := testDB(t)
	mustRun(t, db, "issue", "--as", "alice", "--data", "0x01")
	mustRun(t, db, "issue", "--as", "bob")
	mustRun(t, db, "offer", "send", "--as", "alice", "--to", "bob", "--give", "1", "--want", "2")
	mustRun(t, db, "offer", "accept", "--as", "bob", "1")

	out := mustRun(t, db, "log")
	assert.Contains(t, out, "asset 1 issued to alice by alice data=0x01")
	assert.Contains(t, out, "offer 1 created by alice for bob")
	assert.Contains(t, out, "asset 1 moved alice -> bob")
	assert.Contains(t, out, "asset 2 moved bob -> alice")
	assert.Contains(t, out, "offer 1 ACCEPTED")

	// --after skips the issuances.
	out = mustRun(t, db, "log", "--after", "2")
	assert.NotContains(t, out, "issued")
	assert.Contains(t, out, "offer 1 created")
}
