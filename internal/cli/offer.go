package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fenlabs/barter/internal/engine"
	"github.com/fenlabs/barter/internal/ledger"
)

// OfferSendOptions holds flags for offer send.
type OfferSendOptions struct {
	*RootOptions
	To     string
	Public bool
	Give   []int64
	Want   []int64
}

// NewOfferCommand creates the offer command group.
func NewOfferCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Create and act on trade offers",
	}

	cmd.AddCommand(newOfferSendCommand(rootOpts))
	cmd.AddCommand(newOfferTransitionCommand(rootOpts, "cancel", "cancelled", "Cancel a pending offer you sent",
		func(eng *engine.Engine, cmd *cobra.Command, as ledger.Principal, id int64) error {
			return eng.Offers.Cancel(cmd.Context(), as, id)
		}))
	cmd.AddCommand(newOfferTransitionCommand(rootOpts, "accept", "accepted", "Accept a pending offer and settle the swap",
		func(eng *engine.Engine, cmd *cobra.Command, as ledger.Principal, id int64) error {
			return eng.Offers.Accept(cmd.Context(), as, id)
		}))
	cmd.AddCommand(newOfferTransitionCommand(rootOpts, "decline", "declined", "Decline a pending offer sent to you",
		func(eng *engine.Engine, cmd *cobra.Command, as ledger.Principal, id int64) error {
			return eng.Offers.Decline(cmd.Context(), as, id)
		}))
	cmd.AddCommand(newOfferShowCommand(rootOpts))
	cmd.AddCommand(newOfferListCommand(rootOpts, "sent", "List offers a principal has sent"))
	cmd.AddCommand(newOfferListCommand(rootOpts, "received", "List offers addressed to a principal"))

	return cmd
}

func newOfferSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OfferSendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a trade offer",
		Long: `Send a trade offer proposing to exchange --give assets for --want
assets. Nothing is validated or locked at creation time; ownership of both
sides is re-checked when the recipient accepts.

Examples:
  barter offer send --as alice --to bob --give 1,2 --want 9
  barter offer send --as alice --public --give 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOfferSend(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "recipient principal")
	cmd.Flags().BoolVar(&opts.Public, "public", false, "make the offer acceptable by anyone")
	cmd.Flags().Int64SliceVar(&opts.Give, "give", nil, "asset ids offered by the sender")
	cmd.Flags().Int64SliceVar(&opts.Want, "want", nil, "asset ids requested in return")

	return cmd
}

func runOfferSend(opts *OfferSendOptions, cmd *cobra.Command) error {
	as, err := caller(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Public == (opts.To != "") {
		return NewExitError(ExitCommandError, "specify exactly one of --to <principal> or --public")
	}
	recipient := ledger.Principal(opts.To) // Public when --public: empty sentinel

	eng, closeStore, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore()

	out := formatter(opts.RootOptions, cmd)
	id, err := eng.Offers.Send(cmd.Context(), as, recipient, opts.Give, opts.Want)
	if err != nil {
		return out.OperationError(err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"offer_id": id})
	}
	to := string(recipient)
	if recipient.IsPublic() {
		to = "(public)"
	}
	return out.Success(fmt.Sprintf("sent offer %d to %s", id, to))
}

// newOfferTransitionCommand builds cancel/accept/decline, which share their
// whole shape apart from the engine call.
func newOfferTransitionCommand(
	rootOpts *RootOptions,
	verb, done, short string,
	run func(eng *engine.Engine, cmd *cobra.Command, as ledger.Principal, id int64) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <offer-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := caller(rootOpts)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "offer id")
			if err != nil {
				return err
			}

			eng, closeStore, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			out := formatter(rootOpts, cmd)
			if err := run(eng, cmd, as, id); err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				return out.Success(map[string]any{"offer_id": id, "state": done})
			}
			return out.Success(fmt.Sprintf("offer %d %s", id, done))
		},
	}
}

func newOfferShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <offer-id>",
		Short: "Show an offer record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "offer id")
			if err != nil {
				return err
			}

			eng, closeStore, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			out := formatter(rootOpts, cmd)
			o, err := eng.Offers.Get(cmd.Context(), id)
			if err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				if !o.Exists() {
					return out.Success(map[string]any{"offer_id": id, "exists": false})
				}
				return out.Success(o)
			}
			if !o.Exists() {
				return out.Success(fmt.Sprintf("offer %d does not exist", id))
			}
			return out.Success(formatOffer(o))
		},
	}
}

func newOfferListCommand(rootOpts *RootOptions, role, short string) *cobra.Command {
	return &cobra.Command{
		Use:   role + " <principal>",
		Short: short,
		Long: short + `.

For received offers, pass "public" to list the open offers anyone may take.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ledger.Principal(args[0])
			if role == "received" && strings.EqualFold(args[0], "public") {
				p = ledger.Public
			}

			eng, closeStore, err := openEngine(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			out := formatter(rootOpts, cmd)
			var ids []int64
			if role == "sent" {
				ids, err = eng.Offers.SentBy(cmd.Context(), p)
			} else {
				ids, err = eng.Offers.ReceivedBy(cmd.Context(), p)
			}
			if err != nil {
				return out.OperationError(err)
			}

			if rootOpts.Format == "json" {
				return out.Success(map[string]any{"principal": p, "offers": ids})
			}
			return out.Success(fmt.Sprintf("%d offer(s): %v", len(ids), ids))
		},
	}
}

// formatOffer renders an offer record for text output.
func formatOffer(o ledger.Offer) string {
	to := string(o.Recipient)
	if o.Recipient.IsPublic() {
		to = "(public)"
	}
	return fmt.Sprintf("offer %d [%s]\n  from: %s\n  to:   %s\n  give: %v\n  want: %v",
		o.ID, o.State, o.Sender, to, o.Give, o.Want)
}
