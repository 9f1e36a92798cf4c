package uigl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultTextSize is the default text size of DefaultSettings.
const DefaultTextSize = 20

// Antialiasing is a multisample antialiasing mode.
type Antialiasing uint8

// Antialiasing modes.
const (
	MSAAx2 Antialiasing = iota + 1
	MSAAx4
	MSAAx8
	MSAAx16
)

// SampleCount returns the number of samples per pixel.
func (a Antialiasing) SampleCount() uint32 {
	switch a {
	case MSAAx2:
		return 2
	case MSAAx4:
		return 4
	case MSAAx8:
		return 8
	case MSAAx16:
		return 16
	default:
		return 0
	}
}

// String returns the configuration name of a, such as "msaa4x".
func (a Antialiasing) String() string {
	if n := a.SampleCount(); n != 0 {
		return fmt.Sprintf("msaa%dx", n)
	}
	return fmt.Sprintf("Antialiasing(%d)", uint8(a))
}

// ParseAntialiasing parses a configuration name such as "msaa4x". Matching
// is case-insensitive.
func ParseAntialiasing(s string) (Antialiasing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "msaa2x":
		return MSAAx2, nil
	case "msaa4x":
		return MSAAx4, nil
	case "msaa8x":
		return MSAAx8, nil
	case "msaa16x":
		return MSAAx16, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAntialiasing, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Antialiasing) UnmarshalText(b []byte) error {
	v, err := ParseAntialiasing(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Antialiasing) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Settings configures a Backend at construction time.
type Settings struct {
	// DefaultFont is the raw data of the default font. When nil, or when it
	// fails to parse, an embedded font is used.
	DefaultFont []byte

	// DefaultTextSize is the text size used by widgets that do not set one.
	DefaultTextSize uint16

	// Antialiasing is nil when multisampling is off.
	Antialiasing *Antialiasing
}

// DefaultSettings returns settings with the embedded font, a text size of
// 20 and no antialiasing.
func DefaultSettings() Settings {
	return Settings{DefaultTextSize: DefaultTextSize}
}

// settingsFile is the TOML form of Settings.
type settingsFile struct {
	DefaultFont     string        `toml:"default_font"`
	DefaultTextSize *uint16       `toml:"default_text_size"`
	Antialiasing    *Antialiasing `toml:"antialiasing"`
}

// LoadSettings reads settings from a TOML file:
//
//	default_font = "fonts/Inter.ttf"  # relative to the settings file
//	default_text_size = 16
//	antialiasing = "msaa4x"
//
// Missing keys keep their DefaultSettings value.
func LoadSettings(path string) (Settings, error) {
	var f settingsFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Settings{}, fmt.Errorf("uigl: load settings %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		Logger().Warn("uigl: unknown settings key", "file", path, "key", key.String())
	}

	s := DefaultSettings()
	if f.DefaultTextSize != nil {
		s.DefaultTextSize = *f.DefaultTextSize
	}
	s.Antialiasing = f.Antialiasing
	if f.DefaultFont != "" {
		fontPath := f.DefaultFont
		if !filepath.IsAbs(fontPath) {
			fontPath = filepath.Join(filepath.Dir(path), fontPath)
		}
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return Settings{}, fmt.Errorf("uigl: read default font: %w", err)
		}
		s.DefaultFont = data
	}
	return s, nil
}
