package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	After int64
	Limit int
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the notification event log",
		Long: `Show the durable notification log: issuances, retractions, ownership
moves and offer lifecycle events, in the order they were committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.After, "after", 0, "only events with seq greater than this")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum events to show (0 = all)")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	eng, closeStore, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore()

	out := formatter(opts.RootOptions, cmd)
	events, err := eng.Log(cmd.Context(), opts.After, opts.Limit)
	if err != nil {
		return out.OperationError(err)
	}
	out.VerboseLog("read %d event(s) after seq %d", len(events), opts.After)

	if opts.Format == "json" {
		return out.Success(events)
	}

	var buf strings.Builder
	for i, ev := range events {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%4d  %s", ev.Seq, ev)
	}
	if len(events) == 0 {
		buf.WriteString("(no events)")
	}
	return out.Success(buf.String())
}
