package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fenlabs/barter/internal/ledger"
)

// IssueOptions holds flags for the issue command.
type IssueOptions struct {
	*RootOptions
	Owner string
	Data  string
}

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IssueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new asset",
		Long: `Issue a new asset. The caller (--as) becomes the asset's emitter;
the owner may be any principal. --data takes a 0x-prefixed hex literal or
raw text and is stored opaquely.

Example:
  barter issue --as alice --owner bob --data 0xabcd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "principal that will own the asset (defaults to the caller)")
	cmd.Flags().StringVar(&opts.Data, "data", "", "opaque asset data (0x-hex or raw text)")

	return cmd
}

func runIssue(opts *IssueOptions, cmd *cobra.Command) error {
	as, err := caller(opts.RootOptions)
	if err != nil {
		return err
	}
	owner := ledger.Principal(opts.Owner)
	if owner == "" {
		owner = as
	}
	data, err := parseData(opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --data", err)
	}

	eng, closeStore, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore()

	out := formatter(opts.RootOptions, cmd)
	out.VerboseLog("issuing %d byte(s) of data as %s", len(data), as)
	id, err := eng.Registry.Issue(cmd.Context(), as, owner, data)
	if err != nil {
		return out.OperationError(err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"asset_id": id, "owner": owner, "emitter": as})
	}
	return out.Success(fmt.Sprintf("issued asset %d to %s", id, owner))
}

// parseData interprets a --data flag value: a 0x-prefixed hex literal
// decodes to bytes, anything else is taken verbatim.
func parseData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("bad hex literal %q: %w", s, err)
		}
		return b, nil
	}
	return []byte(s), nil
}
