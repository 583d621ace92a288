package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch metadata for every subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.RefreshAll(cmd.Context()); err != nil {
				return err
			}

			st := mgr.Store()
			newWorks, err := st.NewWorks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(newWorks) == 0 {
				fmt.Fprintln(out, "Refresh complete, nothing new.")
				return nil
			}
			fmt.Fprintf(out, "Refresh complete, %d works have new volumes:\n", len(newWorks))
			for i := range newWorks {
				status, err := st.VolumeStatusFor(cmd.Context(), newWorks[i].WorkID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s (%d new)\n", newWorks[i].Title, status.Pending())
			}
			return nil
		},
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download every pending volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			pending, err := mgr.Store().VolumesPendingDownload(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing pending.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloading %d volumes to %s\n",
				len(pending), mgr.Resolver().OutputDir())
			return mgr.DownloadPending(cmd.Context(), skipExisting)
		},
	}
	cmd.Flags().BoolVarP(&skipExisting, "skip-existing", "s", false, "Skip pages whose file already exists")
	return cmd
}
