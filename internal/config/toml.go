// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/lettersound/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz    QuizConfig    `toml:"quiz"`
	Audio   AudioConfig   `toml:"audio"`
	Catalog CatalogConfig `toml:"catalog"`
}

// QuizConfig maps quiz settings.
type QuizConfig struct {
	RoundSize        *int      `toml:"round-size"`
	VictoryThreshold *int      `toml:"victory-threshold"`
	Difficulty       *string   `toml:"difficulty"`
	Symbols          *[]string `toml:"symbols"`
	FocusWeak        *bool     `toml:"focus-weak"`
	WeakTop          *int      `toml:"weak-top"`
	WeakFactor       *float64  `toml:"weak-factor"`
}

// AudioConfig maps sound cue playback.
type AudioConfig struct {
	Enabled *bool    `toml:"enabled"`
	Volume  *float64 `toml:"volume"`
	// Command is the player invocation; {file} and {volume} are substituted.
	Command   *string `toml:"command"`
	SoundsDir *string `toml:"sounds-dir"`
}

// CatalogConfig points at an optional custom symbol catalog.
type CatalogConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyTo overlays the values present in the file onto base.
func (c FileConfig) ApplyTo(base model.Settings) (model.Settings, error) {
	s := base.Clone()
	q := c.Quiz
	if q.RoundSize != nil {
		s.RoundSize = *q.RoundSize
	}
	if q.VictoryThreshold != nil {
		s.VictoryThreshold = *q.VictoryThreshold
	}
	if q.Difficulty != nil {
		tier, ok := model.ParseTier(*q.Difficulty)
		if !ok {
			return base, fmt.Errorf("unknown difficulty %q in config", *q.Difficulty)
		}
		s.Difficulty = tier
	}
	if q.Symbols != nil {
		s.EnabledSymbolIDs = append([]string{}, (*q.Symbols)...)
	}
	if q.FocusWeak != nil {
		s.FocusWeak = *q.FocusWeak
	}
	if q.WeakTop != nil {
		s.WeakTop = *q.WeakTop
	}
	if q.WeakFactor != nil {
		s.WeakFactor = *q.WeakFactor
	}
	if c.Audio.Enabled != nil {
		s.AudioEnabled = *c.Audio.Enabled
	}
	if c.Audio.Volume != nil {
		s.Volume = *c.Audio.Volume
	}
	return s, nil
}

// SetSettings replaces the quiz section and the audio toggles with s.
// Audio command, sounds dir and catalog path are left alone.
func (c *FileConfig) SetSettings(s model.Settings) {
	difficulty := s.Difficulty.String()
	c.Quiz = QuizConfig{
		RoundSize:        &s.RoundSize,
		VictoryThreshold: &s.VictoryThreshold,
		Difficulty:       &difficulty,
		FocusWeak:        &s.FocusWeak,
		WeakTop:          &s.WeakTop,
		WeakFactor:       &s.WeakFactor,
	}
	if !s.AllSymbolsEnabled() {
		ids := append([]string{}, s.EnabledSymbolIDs...)
		c.Quiz.Symbols = &ids
	}
	c.Audio.Enabled = &s.AudioEnabled
	c.Audio.Volume = &s.Volume
}

// SaveSettings persists s into the config at path, keeping its other sections.
func SaveSettings(path string, s model.Settings) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.SetSettings(s)
	return SaveConfig(path, cfg)
}

// SaveConfig writes cfg to path, replacing the file atomically.
func SaveConfig(path string, cfg FileConfig) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmpFile).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
