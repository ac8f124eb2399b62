package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fenlabs/barter/internal/ledger"
)

// NewAssetCommand creates the asset lookup command.
func NewAssetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "asset <asset-id>",
		Short: "Show an asset record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			a, err := eng.Registry.Asset(cmd.Context(), id)
			if err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				if !a.Exists() {
					return out.Success(map[string]any{"asset_id": id, "exists": false})
				}
				return out.Success(a)
			}
			if !a.Exists() {
				return out.Success(fmt.Sprintf("asset %d does not exist", id))
			}
			return out.Success(formatAsset(a))
		},
	}
}

// NewInventoryCommand creates the inventory enumeration command.
func NewInventoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory <principal>",
		Short: "List the assets a principal currently owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ledger.Principal(args[0])

			eng, closeStore, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			out := formatter(rootOpts, cmd)
			ids, err := eng.Registry.InventoryOf(cmd.Context(), p)
			if err != nil {
				return out.OperationError(err)
			}
			count, err := eng.Registry.HoldingsOf(cmd.Context(), p)
			if err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				return out.Success(map[string]any{"principal": p, "count": count, "assets": ids})
			}
			return out.Success(fmt.Sprintf("%s owns %d asset(s): %v", p, count, ids))
		},
	}
}

// formatAsset renders an asset record for text output.
func formatAsset(a ledger.Asset) string {
	data := "(empty)"
	if len(a.Data) > 0 {
		data = "0x" + hex.EncodeToString(a.Data)
	}
	return fmt.Sprintf("asset %d\n  owner:   %s\n  emitter: %s\n  data:    %s", a.ID, a.Owner, a.Emitter, data)
}
