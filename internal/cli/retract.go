package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRetractCommand creates the retract command.
func NewRetractCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retract <asset-id>",
		Short: "Retract (burn) an asset you emitted",
		Long: `Retract an asset. Only the asset's emitter may retract it; the record
is deleted entirely and the id is never reassigned.

Example:
  barter retract --as alice 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := caller(rootOpts)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "asset id")
			if err != nil {
				return err
			}

			eng, closeStore, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			out := formatter(rootOpts, cmd)
			if err := eng.Registry.Retract(cmd.Context(), as, id); err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				return out.Success(map[string]any{"asset_id": id, "retracted": true})
			}
			return out.Success(fmt.Sprintf("retracted asset %d", id))
		},
	}
}

// parseID parses a positional numeric id argument.
func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", what, s))
	}
	return id, nil
}
