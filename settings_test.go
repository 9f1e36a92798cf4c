package uigl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseAntialiasing(t *testing.T) {
	tests := []struct {
		in      string
		want    Antialiasing
		samples uint32
		wantErr bool
	}{
		{"msaa2x", MSAAx2, 2, false},
		{"MSAA4x", MSAAx4, 4, false},
		{" msaa8x ", MSAAx8, 8, false},
		{"msaa16x", MSAAx16, 16, false},
		{"msaa3x", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAntialiasing(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAntialiasing) {
					t.Errorf("error = %v, want ErrUnknownAntialiasing", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAntialiasing: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.SampleCount() != tt.samples {
				t.Errorf("SampleCount = %d, want %d", got.SampleCount(), tt.samples)
			}
		})
	}
}

func TestAntialiasingText(t *testing.T) {
	b, err := MSAAx4.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "msaa4x" {
		t.Errorf("MarshalText = %q, want msaa4x", b)
	}

	var a Antialiasing
	if err := a.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if a != MSAAx4 {
		t.Errorf("UnmarshalText = %v, want %v", a, MSAAx4)
	}
	if s := Antialiasing(9).String(); s != "Antialiasing(9)" {
		t.Errorf("String = %q", s)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fonts/ui.ttf", "font bytes")
	path := writeFile(t, dir, "uigl.toml", `
default_font = "fonts/ui.ttf"
default_text_size = 16
antialiasing = "msaa4x"
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !bytes.Equal(s.DefaultFont, []byte("font bytes")) {
		t.Errorf("DefaultFont = %q", s.DefaultFont)
	}
	if s.DefaultTextSize != 16 {
		t.Errorf("DefaultTextSize = %d, want 16", s.DefaultTextSize)
	}
	if s.Antialiasing == nil || *s.Antialiasing != MSAAx4 {
		t.Errorf("Antialiasing = %v, want msaa4x", s.Antialiasing)
	}
	if n := SampleCount(s); n != 4 {
		t.Errorf("SampleCount = %d, want 4", n)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.toml", "# nothing set\nunused = 1\n")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.DefaultFont != nil {
		t.Errorf("DefaultFont = %q, want nil", s.DefaultFont)
	}
	if s.DefaultTextSize != DefaultTextSize {
		t.Errorf("DefaultTextSize = %d, want %d", s.DefaultTextSize, DefaultTextSize)
	}
	if s.Antialiasing != nil {
		t.Errorf("Antialiasing = %v, want nil", *s.Antialiasing)
	}
	if n := SampleCount(s); n != 0 {
		t.Errorf("SampleCount = %d, want 0", n)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown antialiasing", `antialiasing = "fxaa"`},
		{"missing font", `default_font = "missing.ttf"`},
		{"wrong type", `default_text_size = "big"`},
		{"syntax", `default_text_size = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "uigl.toml", tt.content)
			if _, err := LoadSettings(path); err == nil {
				t.Error("LoadSettings succeeded, want error")
			}
		})
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadSettings of a missing file succeeded, want error")
	}
}
