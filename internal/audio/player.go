// Package audio plays symbol sound cues through an external command.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrSoundMissing is returned when a sound cue file does not exist.
var ErrSoundMissing = errors.New("sound cue missing")

// Player plays one sound cue at the given volume (0-1).
type Player interface {
	Play(ctx context.Context, soundRef string, volume float64) error
}

// NopPlayer discards every cue.
type NopPlayer struct{}

// Play implements Player.
func (NopPlayer) Play(context.Context, string, float64) error {
	return nil
}

// Placeholders recognised in a player command.
const (
	FilePlaceholder   = "{file}"
	VolumePlaceholder = "{volume}"
)

// knownCommands are tried in order by DetectCommand.
var knownCommands = []string{
	"afplay -v {volume} {file}",
	"paplay {file}",
	"aplay -q {file}",
	"ffplay -nodisp -autoexit -loglevel quiet {file}",
}

// DetectCommand returns the first known player command found on PATH, or "".
func DetectCommand() string {
	for _, candidate := range knownCommands {
		name := strings.Fields(candidate)[0]
		if _, err := exec.LookPath(name); err == nil {
			return candidate
		}
	}
	return ""
}

// ExecPlayer runs an external command per cue.
type ExecPlayer struct {
	argv      []string
	soundsDir string
}

// NewExecPlayer parses command. Relative sound refs resolve against soundsDir.
// The file is appended when command has no {file} placeholder.
func NewExecPlayer(command, soundsDir string) (*ExecPlayer, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("player command is empty")
	}
	hasFile := false
	for _, arg := range argv {
		if strings.Contains(arg, FilePlaceholder) {
			hasFile = true
			break
		}
	}
	if !hasFile {
		argv = append(argv, FilePlaceholder)
	}
	return &ExecPlayer{argv: argv, soundsDir: soundsDir}, nil
}

// Play implements Player. It blocks until the command exits.
func (p *ExecPlayer) Play(ctx context.Context, soundRef string, volume float64) error {
	path := p.resolve(soundRef)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSoundMissing, path)
		}
		return fmt.Errorf("failed to stat sound cue: %w", err)
	}
	args := p.args(path, volume)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("failed to play %s: %w: %s", soundRef, err, msg)
		}
		return fmt.Errorf("failed to play %s: %w", soundRef, err)
	}
	return nil
}

func (p *ExecPlayer) resolve(soundRef string) string {
	if filepath.IsAbs(soundRef) || p.soundsDir == "" {
		return soundRef
	}
	return filepath.Join(p.soundsDir, filepath.FromSlash(soundRef))
}

func (p *ExecPlayer) args(path string, volume float64) []string {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	vol := strconv.FormatFloat(volume, 'f', 2, 64)
	out := make([]string, len(p.argv))
	for i, arg := range p.argv {
		arg = strings.ReplaceAll(arg, FilePlaceholder, path)
		out[i] = strings.ReplaceAll(arg, VolumePlaceholder, vol)
	}
	return out
}
