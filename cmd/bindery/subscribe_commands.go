package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <url-or-work-id>...",
		Short: "Subscribe to one or more works",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}

			var failed int
			for _, entry := range args {
				work, err := mgr.Subscribe(cmd.Context(), entry)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: subscribe %s: %v\n", entry, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s (%s)\n", work.Title, work.WorkID)
			}
			return batchOutcome(failed, len(args))
		},
	}
}

func newUnsubscribeCommand(ctx *commandContext) *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "unsubscribe <url-or-work-id>...",
		Short: "Unsubscribe from one or more works",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}

			var failed int
			for _, entry := range args {
				if err := mgr.Unsubscribe(cmd.Context(), entry, backup); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: unsubscribe %s: %v\n", entry, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unsubscribed %s\n", entry)
			}
			return batchOutcome(failed, len(args))
		},
	}
	cmd.Flags().BoolVarP(&backup, "backup", "b", false, "Park downloaded files under the backup directory instead of deleting them")
	return cmd
}

func newMarkAsNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-as-new <url-or-work-id>...",
		Short: "Reset the downloaded flag on every volume of a work",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}

			var failed int
			for _, entry := range args {
				if err := mgr.MarkAsNew(cmd.Context(), entry); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: mark %s as new: %v\n", entry, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as new\n", entry)
			}
			return batchOutcome(failed, len(args))
		},
	}
}

// batchOutcome converts per-entry warnings into the command's exit status.
// A batch where at least one entry succeeded exits cleanly; the warnings
// are already printed.
func batchOutcome(failed, total int) error {
	if failed == total && total > 0 {
		return fmt.Errorf("all %d entries failed", total)
	}
	return nil
}
