package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewIdentityCommand creates the identity command group.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage principal identifiers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Mint a fresh principal identifier",
		Long: `Mint a fresh principal identifier.

Principals are opaque strings the ledger only ever compares for equality.
Any unique, unforgeable string works; this mints a random UUID.

Example:
  barter identity new`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter(rootOpts, cmd).Success(uuid.NewString())
		},
	})

	return cmd
}
