// Package main provides the CLI entrypoint for lettersound.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lettersound/internal/audio"
	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/config"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/session"
	"github.com/verte-zerg/lettersound/internal/stats"
	"github.com/verte-zerg/lettersound/internal/store"
	"github.com/verte-zerg/lettersound/internal/tui"
)

var defaults = model.DefaultSettings()

var (
	verbose bool

	playRoundSize  int
	playVictory    int
	playDifficulty string
	playSymbols    []string
	playMute       bool
	playVolume     float64
	playFocusWeak  bool
	playWeakTop    int
	playWeakFactor float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lettersound",
		Short:         "TUI letter-sound quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log debug events to the log file")

	rootCmd.Flags().IntVar(&playRoundSize, "round-size", defaults.RoundSize, "letters shown per round (2-5)")
	rootCmd.Flags().IntVar(&playVictory, "victory", defaults.VictoryThreshold, "stars needed to win")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaults.Difficulty.String(), "easy, medium or hard")
	rootCmd.Flags().StringSliceVar(&playSymbols, "symbols", nil, "comma-separated letter ids to practice (default: all)")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "disable sound cues")
	rootCmd.Flags().Float64Var(&playVolume, "volume", defaults.Volume, "sound cue volume (0-1)")
	rootCmd.Flags().BoolVar(&playFocusWeak, "focus-weak", false, "pick weak letters as targets more often")
	rootCmd.Flags().IntVar(&playWeakTop, "weak-top", defaults.WeakTop, "number of weak letters to focus on")
	rootCmd.Flags().Float64Var(&playWeakFactor, "weak-factor", defaults.WeakFactor, "extra weight for weak letters")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSymbolsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "round-size", &playRoundSize, fileCfg.Quiz.RoundSize)
	applyIntConfig(cmd, "victory", &playVictory, fileCfg.Quiz.VictoryThreshold)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Quiz.Difficulty)
	applyStringSliceConfig(cmd, "symbols", &playSymbols, fileCfg.Quiz.Symbols)
	applyFloatConfig(cmd, "volume", &playVolume, fileCfg.Audio.Volume)
	applyBoolConfig(cmd, "focus-weak", &playFocusWeak, fileCfg.Quiz.FocusWeak)
	applyIntConfig(cmd, "weak-top", &playWeakTop, fileCfg.Quiz.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &playWeakFactor, fileCfg.Quiz.WeakFactor)
	if fileCfg.Audio.Enabled != nil && !cmd.Flags().Changed("mute") {
		playMute = !*fileCfg.Audio.Enabled
	}

	settings, err := playSettings()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cat, err := loadCatalog(fileCfg)
	if err != nil {
		return err
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

	ctx := context.Background()
	history, err := st.ListOutcomes(ctx, store.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	agg := stats.NewAggregator(cat, history...)

	engine, weak, err := startEngine(cat, settings, agg,
		session.WithLogger(logger),
		session.WithRecorder(session.Recorders(agg, store.NewRecorder(ctx, st, logger))),
	)
	if err != nil {
		if errors.Is(err, session.ErrEmptyPool) {
			return fmt.Errorf("no letters match --difficulty %s and --symbols; run: lettersound symbols", settings.Difficulty)
		}
		return settingsError(err)
	}
	if settings.FocusWeak && len(weak) == 0 {
		logErrln("no stats available for weak-letter focus yet; picking letters evenly")
	}

	gate := audio.NewGate(newPlayer(fileCfg, logger), logger)
	program := tea.NewProgram(tui.NewModel(engine, agg, gate, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// startEngine builds the engine and draws the first round. The weak set is
// installed before the draw so focus-weak mode applies from the first round.
func startEngine(cat *catalog.Catalog, settings model.Settings, agg *stats.Aggregator, opts ...session.Option) (*session.Engine, map[string]struct{}, error) {
	engine, err := session.New(cat, settings, opts...)
	if err != nil {
		return nil, nil, err
	}
	weak := stats.SelectWeakSymbols(agg.Snapshot(), settings.WeakTop)
	if settings.FocusWeak {
		engine.SetWeakSymbols(weak)
	}
	if err := engine.Start(); err != nil {
		return nil, nil, err
	}
	return engine, weak, nil
}

func playSettings() (model.Settings, error) {
	tier, ok := model.ParseTier(playDifficulty)
	if !ok {
		return model.Settings{}, fmt.Errorf("--difficulty: %w: %q", catalog.ErrInvalidTier, playDifficulty)
	}
	s := model.Settings{
		RoundSize:        playRoundSize,
		VictoryThreshold: playVictory,
		Difficulty:       tier,
		AudioEnabled:     !playMute,
		Volume:           playVolume,
		FocusWeak:        playFocusWeak,
		WeakTop:          playWeakTop,
		WeakFactor:       playWeakFactor,
	}
	if len(playSymbols) > 0 {
		s.EnabledSymbolIDs = normalizeIDs(playSymbols)
	}
	return s, nil
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func settingsError(err error) error {
	var rej *session.RejectionError
	if !errors.As(err, &rej) {
		return err
	}
	lines := []string{"invalid settings:"}
	for _, f := range rej.Fields {
		lines = append(lines, fmt.Sprintf("  --%s %s", f.Field, f.Reason))
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func loadCatalog(fileCfg config.FileConfig) (*catalog.Catalog, error) {
	path := ""
	if fileCfg.Catalog.Path != nil {
		path = *fileCfg.Catalog.Path
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func newPlayer(fileCfg config.FileConfig, logger *slog.Logger) audio.Player {
	var command string
	if fileCfg.Audio.Command != nil {
		command = *fileCfg.Audio.Command
	} else {
		command = audio.DetectCommand()
	}
	if strings.TrimSpace(command) == "" {
		logger.Info("no audio player found; sound cues disabled")
		return audio.NopPlayer{}
	}
	soundsDir := config.DefaultSoundsDir()
	if fileCfg.Audio.SoundsDir != nil {
		soundsDir = *fileCfg.Audio.SoundsDir
	}
	player, err := audio.NewExecPlayer(command, soundsDir)
	if err != nil {
		logger.Warn("invalid audio command; sound cues disabled", "command", command, "err", err)
		return audio.NopPlayer{}
	}
	logger.Debug("audio player", "command", command, "sounds_dir", soundsDir)
	return player
}

// openLogger writes structured logs to the state dir since the TUI owns the terminal.
func openLogger() (*slog.Logger, func(), error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
	return logger, closeFn, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lettersound configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# round-size = %d          # Letters shown per round (2-5)
# victory-threshold = %d   # Stars needed to win
# difficulty = %q      # easy, medium or hard
# symbols = ["a", "m", "s", "t"]  # Letters to practice (default: all)
# focus-weak = false      # Pick weak letters as targets more often
# weak-top = %d            # Number of weak letters to focus on
# weak-factor = %.1f       # Extra weight for weak letters

[audio]
# enabled = true
# volume = %.1f
# command = "afplay -v {volume} {file}"  # Player; {file} and {volume} are substituted
# sounds-dir = %q

[catalog]
# path = "/path/to/letters.toml"  # Custom [[symbol]] catalog (default: built-in letters)
`,
		defaults.RoundSize,
		defaults.VictoryThreshold,
		defaults.Difficulty.String(),
		defaults.WeakTop,
		defaults.WeakFactor,
		defaults.Volume,
		config.DefaultSoundsDir(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
