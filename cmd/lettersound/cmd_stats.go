package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/config"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/stats"
	"github.com/verte-zerg/lettersound/internal/statsui"
	"github.com/verte-zerg/lettersound/internal/store"
)

const topConfusionLimit = 3

var (
	statsFilter      string
	statsPlain       bool
	statsSymbol      string
	statsSince       string
	statsLast        int
	statsTrendWindow int

	symbolsDifficulty string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFilter, "filter", string(stats.FilterAll), "all, played, weak or strong")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print plain text instead of the TUI")
	cmd.Flags().StringVar(&statsSymbol, "symbol", "", "show details for one letter id")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N answers")
	cmd.Flags().IntVar(&statsTrendWindow, "trend-window", stats.DefaultTrendWindow, "rolling accuracy window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := stats.ParseFilter(statsFilter)
	if err != nil {
		return err
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := stats.ReportConfig{Since: sinceTime, Last: statsLast, TrendWindow: statsTrendWindow}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := loadCatalog(fileCfg)
	if err != nil {
		return err
	}
	symbolID := strings.ToLower(strings.TrimSpace(statsSymbol))
	if symbolID != "" {
		if _, ok := cat.Lookup(symbolID); !ok {
			return fmt.Errorf("unknown letter %q (run: lettersound symbols)", statsSymbol)
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	fd := int(os.Stdout.Fd())
	if statsPlain || !term.IsTerminal(fd) {
		width := 80
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
		return renderPlainStats(cmd.OutOrStdout(), st, cat, cfg, filter, symbolID, width)
	}

	program := tea.NewProgram(statsui.NewModel(st, cat, cfg, filter, symbolID), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, st *store.Store, cat *catalog.Catalog, cfg stats.ReportConfig, filter stats.Filter, symbolID string, width int) error {
	report, err := stats.BuildReport(context.Background(), st, cat, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	trend := stats.Tail(report.Trend, max(1, width-len("Trend: []")))
	if err := stats.RenderSummary(w, report.Snapshot, trend); err != nil {
		return err
	}
	if !report.Snapshot.HasData() {
		return nil
	}
	if symbolID != "" {
		return stats.RenderSymbolDetail(w, report.Snapshot, report.Aggregator.TopConfusions(symbolID, topConfusionLimit), symbolID)
	}
	return stats.RenderSymbolTable(w, report.Snapshot, filter)
}

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List the letter catalog",
		Args:  cobra.NoArgs,
		RunE:  runSymbolsCmd,
	}
	cmd.Flags().StringVar(&symbolsDifficulty, "difficulty", model.TierHard.String(), "highest tier to list")
	return cmd
}

func runSymbolsCmd(cmd *cobra.Command, _ []string) error {
	tier, ok := model.ParseTier(symbolsDifficulty)
	if !ok {
		return fmt.Errorf("--difficulty: %w: %q", catalog.ErrInvalidTier, symbolsDifficulty)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := loadCatalog(fileCfg)
	if err != nil {
		return err
	}
	symbols, err := cat.ListByTier(tier)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range symbols {
		if _, err := fmt.Fprintf(out, "%-4s %-4s %-7s %s\n", s.ID, s.Glyph, s.Tier, s.Category); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
