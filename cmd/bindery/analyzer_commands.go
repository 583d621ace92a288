package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"bindery/internal/analyzer"
)

func newAnalyzerCommand(ctx *commandContext) *cobra.Command {
	analyzerCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Inspect and configure site analyzers",
	}

	analyzerCmd.AddCommand(newAnalyzerListCommand(ctx))
	analyzerCmd.AddCommand(newAnalyzerInfoCommand(ctx))
	analyzerCmd.AddCommand(newAnalyzerEnableCommand(ctx))
	analyzerCmd.AddCommand(newAnalyzerDisableCommand(ctx))
	analyzerCmd.AddCommand(newAnalyzerCustomDataCommand(ctx))

	return analyzerCmd
}

func newAnalyzerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known analyzer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			descriptions, err := mgr.Analyzers(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(descriptions))
			for _, desc := range descriptions {
				state := "enabled"
				if !desc.Enabled {
					state = "disabled"
				}
				rows = append(rows, []string{
					desc.Codename, desc.DisplayName, desc.SiteHost, state,
					formatCustomData(desc.CustomData),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"CODENAME", "NAME", "SITE", "STATE", "CUSTOM DATA"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}

func newAnalyzerInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <codename>",
		Short: "Show one analyzer's help text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			desc, err := mgr.DescribeAnalyzer(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := "enabled"
			if !desc.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "%s (%s) - %s, %s\n", desc.DisplayName, desc.Codename, desc.SiteHost, state)
			if data := formatCustomData(desc.CustomData); data != "" {
				fmt.Fprintf(out, "custom data: %s\n", data)
			}
			if info := strings.TrimSpace(desc.Info); info != "" {
				fmt.Fprintf(out, "\n%s\n", info)
			}
			return nil
		},
	}
}

func newAnalyzerEnableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <codename>",
		Short: "Enable an analyzer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.EnableAnalyzer(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enabled %s\n", args[0])
			return nil
		},
	}
}

func newAnalyzerDisableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <codename>",
		Short: "Disable an analyzer without touching its subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.DisableAnalyzer(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disabled %s\n", args[0])
			return nil
		},
	}
}

func newAnalyzerCustomDataCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "custom-data <codename/key=value,...>",
		Short: "Set an analyzer's custom data (empty pair list clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codename, data, err := analyzer.ParseCustomSpec(args[0])
			if err != nil {
				return err
			}
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.SetAnalyzerCustomData(cmd.Context(), codename, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Custom data for %s updated\n", codename)
			return nil
		},
	}
}

func formatCustomData(data map[string]string) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+data[key])
	}
	return strings.Join(pairs, ",")
}
