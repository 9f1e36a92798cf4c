package uigl

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/recording"
)

func TestNewCompositorLoaderError(t *testing.T) {
	errNoDisplay := errors.New("no display")

	tests := []struct {
		name   string
		loader Loader
		target error
	}{
		{"nil loader", nil, nil},
		{"failing loader", func() (gpucore.Context, error) { return nil, errNoDisplay }, errNoDisplay},
		{
			"failing shader",
			func() (gpucore.Context, error) {
				return recording.NewRecorder(recording.WithCompileError(errors.New("link"))), nil
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b, err := NewCompositor(DefaultSettings(), tt.loader)
			if !errors.Is(err, ErrGraphicsInitialization) {
				t.Fatalf("error = %v, want ErrGraphicsInitialization", err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want wrapped %v", err, tt.target)
			}
			if c != nil || b != nil {
				t.Error("got non-nil compositor or backend on error")
			}
		})
	}
}

func TestCompositorDraw(t *testing.T) {
	rec := recording.NewRecorder()
	c, b, err := NewCompositor(DefaultSettings(), func() (gpucore.Context, error) { return rec, nil })
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	if c.Context() != rec {
		t.Error("Context does not return the loaded context")
	}
	rec.Reset()

	c.ResizeViewport(640, 480)
	output := Output{
		Primitive:   Quad{Bounds: core.Rect(0, 0, 10, 10), Background: core.White},
		Interaction: InteractionText,
	}
	got, err := c.Draw(b, NewViewport(640, 480, 1), core.RGBA(0.5, 1, 0, 1), output, nil)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got != InteractionText {
		t.Errorf("interaction = %v, want %v", got, InteractionText)
	}

	cmds := rec.Commands()
	if len(cmds) < 3 {
		t.Fatalf("commands = %d, want at least 3", len(cmds))
	}
	vp, ok := cmds[0].(recording.SetViewportCommand)
	if !ok || vp != (recording.SetViewportCommand{Width: 640, Height: 480}) {
		t.Errorf("first command = %#v, want viewport 640x480", cmds[0])
	}
	cl, ok := cmds[1].(recording.ClearCommand)
	if !ok {
		t.Fatalf("second command = %#v, want clear", cmds[1])
	}
	linear := core.RGBA(0.5, 1, 0, 1).IntoLinear()
	want := gputypes.Color{R: float64(linear[0]), G: 1, B: 0, A: 1}
	if cl.Color != want {
		t.Errorf("clear color = %+v, want %+v", cl.Color, want)
	}
	if n := rec.Count(recording.CmdDraw); n != 1 {
		t.Errorf("draws = %d, want 1", n)
	}
}

func TestSampleCount(t *testing.T) {
	msaa := MSAAx8
	tests := []struct {
		name     string
		settings Settings
		want     uint32
	}{
		{"off", DefaultSettings(), 0},
		{"msaa8x", Settings{Antialiasing: &msaa}, 8},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.settings); got != tt.want {
			t.Errorf("%s: SampleCount = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport(1600, 1200, 2)
	if w, h := v.PhysicalSize(); w != 1600 || h != 1200 {
		t.Errorf("PhysicalSize = %dx%d", w, h)
	}
	if got := v.LogicalSize(); got != (core.Size{Width: 800, Height: 600}) {
		t.Errorf("LogicalSize = %v", got)
	}
	if v.Projection() != core.Orthographic(1600, 1200) {
		t.Error("Projection is not the orthographic projection of the physical size")
	}
	if s := v.String(); s != "Viewport(1600x1200 @2)" {
		t.Errorf("String = %q", s)
	}
}
