package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds the window manager's settings.
type Config struct {
	Display        string `yaml:"display"`
	Modifier       string `yaml:"modifier"`
	RaiseKey       string `yaml:"raise_key"`
	MoveButton     int    `yaml:"move_button"`
	ResizeButton   int    `yaml:"resize_button"`
	IgnoreLockMods bool   `yaml:"ignore_lock_mods"`
	VerifyGrabs    bool   `yaml:"verify_grabs"`
	LogLevel       string `yaml:"log_level"`
}

// Modifier names accepted in the modifier setting, mapped to the names the
// X key binding parser understands.
var modifierNames = map[string]string{
	"shift":   "Shift",
	"lock":    "Lock",
	"ctrl":    "Control",
	"control": "Control",
	"alt":     "Mod1",
	"mod1":    "Mod1",
	"mod2":    "Mod2",
	"mod3":    "Mod3",
	"super":   "Mod4",
	"mod4":    "Mod4",
	"mod5":    "Mod5",
}

// DefaultConfig returns Control+F1 to raise, Control+button 1 to move and
// Control+button 3 to resize.
func DefaultConfig() *Config {
	return &Config{
		Display:      "",
		Modifier:     "Control",
		RaiseKey:     "F1",
		MoveButton:   1,
		ResizeButton: 3,
		LogLevel:     "info",
	}
}

// ValidationError points at the setting that failed validation.
type ValidationError struct {
	Path string
	File string
	Line int
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := c.ModifierChord(); err != nil {
		return &ValidationError{Path: "modifier", Err: err}
	}
	if strings.TrimSpace(c.RaiseKey) == "" {
		return &ValidationError{Path: "raise_key", Err: fmt.Errorf("raise_key is required")}
	}
	if strings.Contains(c.RaiseKey, "-") {
		return &ValidationError{Path: "raise_key", Err: fmt.Errorf("raise_key is a single key name, put modifiers in modifier")}
	}
	if c.MoveButton < 1 || c.MoveButton > 5 {
		return &ValidationError{Path: "move_button", Err: fmt.Errorf("move_button must be between 1 and 5")}
	}
	if c.ResizeButton < 1 || c.ResizeButton > 5 {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("resize_button must be between 1 and 5")}
	}
	if c.MoveButton == c.ResizeButton {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("resize_button must differ from move_button")}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: trace, debug, info, warning, error")}
	}
	return nil
}

// ModifierChord normalizes the modifier setting into the "-"-joined form used
// by key and button chords, e.g. "ctrl-alt" becomes "Control-Mod1".
func (c *Config) ModifierChord() (string, error) {
	if strings.TrimSpace(c.Modifier) == "" {
		return "", fmt.Errorf("modifier is required")
	}
	parts := strings.Split(c.Modifier, "-")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		name, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return "", fmt.Errorf("unknown modifier %q", part)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return strings.Join(out, "-"), nil
}
