package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bindery/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var verbosity int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions with new volumes (or all with --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}

			works, err := listWorks(cmd, st, all)
			if err != nil {
				return err
			}
			if len(works) == 0 {
				if all {
					fmt.Fprintln(cmd.OutOrStdout(), "No subscriptions.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing new.")
				}
				return nil
			}
			return renderWorks(cmd, ctx, st, works, verbosity)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include works with nothing pending")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase detail, up to -vvv")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find subscriptions whose title contains a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			works, err := st.SearchByTitle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(works) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			return renderWorks(cmd, ctx, st, works, verbosity)
		},
	}
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase detail, up to -vvv")
	return cmd
}

func listWorks(cmd *cobra.Command, st *store.Store, all bool) ([]store.Work, error) {
	if all {
		return st.AllWorks(cmd.Context())
	}
	return st.NewWorks(cmd.Context())
}

// renderWorks prints the work table. Verbosity grows the output: 0 is
// title and pending count, 1 adds ids and volume totals, 2 adds the site
// URL and description, 3 adds a per-volume listing.
func renderWorks(cmd *cobra.Command, ctx *commandContext, st *store.Store, works []store.Work, verbosity int) error {
	if verbosity > 3 {
		verbosity = 3
	}
	mgr, err := ctx.ensureManager(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	headers := []string{"TITLE", "NEW"}
	aligns := []columnAlignment{alignLeft, alignRight}
	if verbosity >= 1 {
		headers = append(headers, "ID", "VOLUMES")
		aligns = append(aligns, alignLeft, alignRight)
	}
	if verbosity >= 2 {
		headers = append(headers, "URL")
		aligns = append(aligns, alignLeft)
	}

	rows := make([][]string, 0, len(works))
	for i := range works {
		work := &works[i]
		status, err := st.VolumeStatusFor(cmd.Context(), work.WorkID)
		if err != nil {
			return err
		}
		row := []string{work.Title, strconv.Itoa(status.Pending())}
		if verbosity >= 1 {
			row = append(row, work.WorkID,
				fmt.Sprintf("%d/%d", status.Downloaded, status.Total))
		}
		if verbosity >= 2 {
			row = append(row, mgr.WorkURL(work.WorkID))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	if verbosity < 2 {
		return nil
	}
	for i := range works {
		work := &works[i]
		if description := strings.TrimSpace(work.Description); description != "" {
			fmt.Fprintf(out, "\n%s\n  %s\n", work.Title, description)
		}
		if verbosity >= 3 {
			if err := renderVolumes(cmd, st, work); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderVolumes(cmd *cobra.Command, st *store.Store, work *store.Work) error {
	volumes, err := st.VolumesForWork(cmd.Context(), work.WorkID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(volumes))
	for _, volume := range volumes {
		state := "pending"
		switch {
		case volume.Gone && volume.IsDownloaded:
			state = "downloaded, gone from site"
		case volume.Gone:
			state = "gone from site"
		case volume.IsDownloaded:
			state = "downloaded"
		}
		rows = append(rows, []string{volume.VolumeID, volume.Name, state})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s volumes\n%s\n", work.Title,
		renderTable([]string{"ID", "NAME", "STATE"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft}))
	return nil
}
