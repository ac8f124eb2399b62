// Package cli implements the barter command tree.
//
// Every state-changing command acts as exactly one principal, supplied via
// the --as flag. The CLI never authenticates anyone - principals are opaque
// identifiers handed to it, the same way the hosting environment would hand
// them to the engine.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fenlabs/barter/internal/engine"
	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB      string
	As      string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the barter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "barter",
		Short: "barter - shared asset ledger and trade offers",
		Long: `A shared ownership ledger for third-party-issued digital assets,
plus peer-to-peer trade offers that settle atomically with no escrow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "barter.db", "path to the ledger database")
	cmd.PersistentFlags().StringVar(&opts.As, "as", "", "principal to act as")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewIdentityCommand(opts))
	cmd.AddCommand(NewIssueCommand(opts))
	cmd.AddCommand(NewRetractCommand(opts))
	cmd.AddCommand(NewAssetCommand(opts))
	cmd.AddCommand(NewInventoryCommand(opts))
	cmd.AddCommand(NewOfferCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openEngine opens the configured database and wraps it in an engine.
// The returned closer must be called when the command is done.
func openEngine(opts *RootOptions) (*engine.Engine, func() error, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return engine.New(st), st.Close, nil
}

// caller returns the acting principal, failing if --as was not supplied.
func caller(opts *RootOptions) (ledger.Principal, error) {
	if opts.As == "" {
		return "", NewExitError(ExitCommandError, "this command requires --as <principal>")
	}
	return ledger.Principal(opts.As), nil
}

// formatter builds the output formatter for a command.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
