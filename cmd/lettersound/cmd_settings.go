package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/config"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/session"
)

var (
	accentColor = lipgloss.Color("#C89A3A")
	textColor   = lipgloss.Color("#F0F0F0")
	dimColor    = lipgloss.Color("#6E6E6E")
	okColor     = lipgloss.Color("#52C41A")
)

// settingsForm holds the raw values bound to the form fields.
type settingsForm struct {
	roundSize  int
	victory    string
	difficulty string
	symbols    []string
	audioOn    bool
	volume     string
	focusWeak  bool
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit quiz settings interactively",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
}

func runSettingsCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := loadCatalog(fileCfg)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	current, err := fileCfg.ApplyTo(model.DefaultSettings())
	if err != nil {
		logErrf("%v; starting from defaults\n", err)
		current = model.DefaultSettings()
	}
	engine, err := session.New(cat, current, session.WithLogger(logger))
	if err != nil {
		logErrf("saved settings are invalid (%v); starting from defaults\n", err)
		current = model.DefaultSettings()
		if engine, err = session.New(cat, current, session.WithLogger(logger)); err != nil {
			return err
		}
	}

	values := newSettingsForm(current, cat)
	if err := buildSettingsForm(&values, cat).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("settings form: %w", err)
	}

	update, err := values.update(cat)
	if err != nil {
		return err
	}
	applied, err := engine.UpdateSettings(update)
	if err != nil {
		return settingsError(err)
	}
	if err := config.SaveSettings(path, applied); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logErrf("Saved settings to %s\n", path)
	return nil
}

func newSettingsForm(s model.Settings, cat *catalog.Catalog) settingsForm {
	symbols := s.EnabledSymbolIDs
	if s.AllSymbolsEnabled() {
		for _, sym := range cat.ListAll() {
			symbols = append(symbols, sym.ID)
		}
	}
	return settingsForm{
		roundSize:  s.RoundSize,
		victory:    strconv.Itoa(s.VictoryThreshold),
		difficulty: s.Difficulty.String(),
		symbols:    append([]string(nil), symbols...),
		audioOn:    s.AudioEnabled,
		volume:     strconv.FormatFloat(s.Volume, 'f', -1, 64),
		focusWeak:  s.FocusWeak,
	}
}

// update converts the form into an engine update. Selecting every letter maps to
// the "all letters" setting so new catalog entries stay enabled.
func (f settingsForm) update(cat *catalog.Catalog) (session.SettingsUpdate, error) {
	victory, err := strconv.Atoi(strings.TrimSpace(f.victory))
	if err != nil {
		return session.SettingsUpdate{}, fmt.Errorf("victory threshold: %w", err)
	}
	volume, err := strconv.ParseFloat(strings.TrimSpace(f.volume), 64)
	if err != nil {
		return session.SettingsUpdate{}, fmt.Errorf("volume: %w", err)
	}
	tier, ok := model.ParseTier(f.difficulty)
	if !ok {
		return session.SettingsUpdate{}, fmt.Errorf("difficulty: %w: %q", catalog.ErrInvalidTier, f.difficulty)
	}
	u := session.SettingsUpdate{
		RoundSize:        &f.roundSize,
		VictoryThreshold: &victory,
		Difficulty:       &tier,
		AudioEnabled:     &f.audioOn,
		Volume:           &volume,
		FocusWeak:        &f.focusWeak,
	}
	if coversCatalog(f.symbols, cat) {
		u.AllSymbols = true
	} else {
		ids := append([]string{}, f.symbols...)
		u.EnabledSymbolIDs = &ids
	}
	return u, nil
}

func coversCatalog(ids []string, cat *catalog.Catalog) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, sym := range cat.ListAll() {
		if _, ok := seen[sym.ID]; !ok {
			return false
		}
	}
	return true
}

func buildSettingsForm(f *settingsForm, cat *catalog.Catalog) *huh.Form {
	tierOptions := make([]huh.Option[string], 0, len(model.Tiers))
	for _, t := range model.Tiers {
		tierOptions = append(tierOptions, huh.NewOption(t.String(), t.String()))
	}
	selected := make(map[string]struct{}, len(f.symbols))
	for _, id := range f.symbols {
		selected[id] = struct{}{}
	}
	symbolOptions := make([]huh.Option[string], 0, cat.Len())
	for _, s := range cat.ListAll() {
		_, on := selected[s.ID]
		label := fmt.Sprintf("%s  (%s, %s)", s.Glyph, s.Tier, s.Category)
		symbolOptions = append(symbolOptions, huh.NewOption(label, s.ID).Selected(on))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Letters per round").
				Options(huh.NewOptions(2, 3, 4, 5)...).
				Value(&f.roundSize),
			huh.NewInput().
				Title("Stars to win").
				Value(&f.victory).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(tierOptions...).
				Value(&f.difficulty),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Letters to practice").
				Options(symbolOptions...).
				Value(&f.symbols).
				Height(12).
				Validate(func(ids []string) error {
					if len(ids) < f.roundSize {
						return fmt.Errorf("pick at least %d letters", f.roundSize)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Sound cues").
				Affirmative("On").
				Negative("Off").
				Value(&f.audioOn),
			huh.NewInput().
				Title("Volume (0-1)").
				Value(&f.volume).
				Validate(validateVolume),
			huh.NewConfirm().
				Title("Focus on weak letters").
				Affirmative("Yes").
				Negative("No").
				Value(&f.focusWeak),
		),
	).WithTheme(settingsTheme()).WithShowHelp(false)
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateVolume(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 1 {
		return fmt.Errorf("enter a number between 0 and 1")
	}
	return nil
}

// settingsTheme styles huh forms with the quiz palette.
func settingsTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(okColor)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(textColor)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(textColor).Background(accentColor).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(textColor)
	t.Focused.Description = lipgloss.NewStyle().Foreground(dimColor)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(dimColor)

	return t
}
