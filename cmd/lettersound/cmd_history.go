package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/lettersound/internal/config"
	"github.com/verte-zerg/lettersound/internal/store"
)

var (
	historyOut string
	historyYes bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Export, import or clear the answer log",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the answer log as JSON",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVar(&historyOut, "out", "", "output file (default: stdout)")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append answers from an exported JSON log",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryImportCmd,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the answer log",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clearCmd.Flags().BoolVar(&historyYes, "yes", false, "skip the confirmation prompt")

	cmd.AddCommand(exportCmd, importCmd, clearCmd)
	return cmd
}

func withStore(fn func(ctx context.Context, st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(context.Background(), st)
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(ctx context.Context, st *store.Store) error {
		if historyOut == "" {
			return st.ExportHistory(ctx, cmd.OutOrStdout())
		}
		f, err := os.Create(historyOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", historyOut, err)
		}
		if err := st.ExportHistory(ctx, f); err != nil {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close after a failed export.
				_ = cerr
			}
			return fmt.Errorf("failed to export history: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", historyOut, err)
		}
		logErrf("Wrote %s\n", historyOut)
		return nil
	})
}

func runHistoryImportCmd(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return withStore(func(ctx context.Context, st *store.Store) error {
		n, err := st.ImportHistory(ctx, f)
		if err != nil {
			return err
		}
		logErrf("Imported %d answers\n", n)
		return nil
	})
}

func runHistoryClearCmd(_ *cobra.Command, _ []string) error {
	return withStore(func(ctx context.Context, st *store.Store) error {
		n, err := st.CountOutcomes(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			logErrln("History is already empty.")
			return nil
		}
		if !historyYes {
			ok, err := confirmClear(n)
			if err != nil {
				return err
			}
			if !ok {
				logErrln("Kept history.")
				return nil
			}
		}
		if err := st.ClearOutcomes(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		logErrf("Cleared %d answers\n", n)
		return nil
	})
}

func confirmClear(n int) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("refusing to clear history without a terminal; pass --yes")
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Clear all %d logged answers?", n)).
				Description("This cannot be undone.").
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(settingsTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
