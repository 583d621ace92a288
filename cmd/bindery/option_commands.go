package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bindery/internal/store"
)

// Storage-shaping keys must go through `option move` so files follow the
// option change.
var movedOptionKeys = map[string]string{
	store.OptOutputDir: "--output-dir",
	store.OptBackupDir: "--backup-dir",
	store.OptHanMode:   "--han-mode",
}

func newOptionCommand(ctx *commandContext) *cobra.Command {
	optionCmd := &cobra.Command{
		Use:   "option",
		Short: "Read and write runtime options",
	}

	optionCmd.AddCommand(newOptionListCommand(ctx))
	optionCmd.AddCommand(newOptionGetCommand(ctx))
	optionCmd.AddCommand(newOptionSetCommand(ctx))
	optionCmd.AddCommand(newOptionMoveCommand(ctx))

	return optionCmd
}

func newOptionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(store.KnownOptionKeys))
			for _, key := range store.KnownOptionKeys {
				raw, err := st.RawOption(cmd.Context(), key)
				if err != nil {
					return err
				}
				rows = append(rows, []string{key, raw})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"OPTION", "VALUE"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func newOptionGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := st.RawOption(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
}

func newOptionSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]
			if flag, moved := movedOptionKeys[key]; moved {
				return fmt.Errorf("%s changes the storage layout, use: bindery option move %s %s", key, flag, raw)
			}

			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			value, err := parseOptionValue(key, raw)
			if err != nil {
				return err
			}
			if err := st.SetOption(cmd.Context(), key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, raw)
			return nil
		},
	}
}

func newOptionMoveCommand(ctx *commandContext) *cobra.Command {
	var outputDir, backupDir, hanMode string

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Change storage options and move every stored file to match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" && backupDir == "" && hanMode == "" {
				return fmt.Errorf("nothing to move: pass --output-dir, --backup-dir, or --han-mode")
			}
			mgr, err := ctx.ensureManager(cmd.Context())
			if err != nil {
				return err
			}
			if err := mgr.RelocateStorage(cmd.Context(), outputDir, backupDir, hanMode); err != nil {
				return err
			}
			resolver := mgr.Resolver()
			fmt.Fprintf(cmd.OutOrStdout(), "Storage moved: output %s, backup %s\n",
				resolver.OutputDir(), resolver.BackupDir())
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "New output directory")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "New backup directory")
	cmd.Flags().StringVar(&hanMode, "han-mode", "", "Hanzi conversion for file names: off, simplified, or traditional")
	return cmd
}

// parseOptionValue keeps the persisted JSON natural: bools and numbers are
// stored as such, everything else as a string. Keys with a known type reject
// values that do not parse as that type.
func parseOptionValue(key, raw string) (any, error) {
	switch key {
	case store.OptThreads:
		number, err := strconv.Atoi(raw)
		if err != nil || number < 1 {
			return nil, fmt.Errorf("%s needs a positive integer, got %q", key, raw)
		}
		return number, nil
	case store.OptArchiveDownloaded:
		boolean, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s needs true or false, got %q", key, raw)
		}
		return boolean, nil
	}
	if number, err := strconv.Atoi(raw); err == nil {
		return number, nil
	}
	if boolean, err := strconv.ParseBool(raw); err == nil {
		return boolean, nil
	}
	return raw, nil
}
