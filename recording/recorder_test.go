package recording

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/gpucore"
)

func testLayout() gpucore.ProgramLayout {
	return gpucore.ProgramLayout{
		Label: "test",
		Uniforms: []gpucore.UniformDescriptor{
			{Name: "u_Transform", Kind: gpucore.UniformMat4},
			{Name: "u_Scale", Kind: gpucore.UniformFloat},
		},
	}
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		cmd  CommandType
		want string
	}{
		{CmdCreateProgram, "CreateProgram"},
		{CmdSetUniform, "SetUniform"},
		{CmdDraw, "Draw"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestRecorderUniforms(t *testing.T) {
	rec := NewRecorder()
	prog, err := rec.CreateProgram("v", "f", testLayout())
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	loc, ok := rec.UniformLocation(prog, "u_Scale")
	if !ok || loc != 1 {
		t.Fatalf("UniformLocation(u_Scale) = %d, %v", loc, ok)
	}
	if _, ok := rec.UniformLocation(prog, "u_Missing"); ok {
		t.Error("missing uniform resolved")
	}

	rec.UseProgram(prog)
	rec.SetUniform(loc, gpucore.Float(2))

	v, ok := rec.Uniform(prog, "u_Scale")
	if !ok || v.F != 2 {
		t.Errorf("Uniform(u_Scale) = %v, %v", v, ok)
	}
	writes := rec.UniformWrites()
	if len(writes) != 1 || writes[0].Name != "u_Scale" {
		t.Errorf("UniformWrites = %+v", writes)
	}
}

func TestRecorderBuffers(t *testing.T) {
	rec := NewRecorder()
	buf, _ := rec.CreateBuffer(gpucore.BufferDescriptor{Label: "b", Size: 8})

	if err := rec.WriteBuffer(buf, 4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if got := rec.Buffer(buf); !bytes.Equal(got, []byte{0, 0, 0, 0, 1, 2, 3, 4}) {
		t.Errorf("Buffer = %v", got)
	}

	if err := rec.WriteBuffer(buf, 6, []byte{1, 2, 3}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("overflow err = %v, want ErrOutOfBounds", err)
	}
	if err := rec.WriteBuffer(99, 0, nil); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("unknown err = %v, want ErrUnknownBuffer", err)
	}
}

func TestRecorderTextures(t *testing.T) {
	rec := NewRecorder()
	tex, _ := rec.CreateTexture(gpucore.TextureDescriptor{Width: 16, Height: 16, Format: gputypes.TextureFormatR8Unorm})

	if err := rec.WriteTexture(tex, gpucore.Region{X: 8, Y: 8, Width: 8, Height: 8}, make([]byte, 64)); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}
	if err := rec.WriteTexture(tex, gpucore.Region{X: 9, Width: 8, Height: 1}, make([]byte, 8)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}

	rec.DestroyTexture(tex)
	if _, ok := rec.Texture(tex); ok {
		t.Error("destroyed texture still live")
	}
	if err := rec.WriteTexture(tex, gpucore.Region{Width: 1, Height: 1}, []byte{0}); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("err = %v, want ErrUnknownTexture", err)
	}
}

func TestRecorderDrawCopiesState(t *testing.T) {
	rec := NewRecorder()
	if err := rec.Draw(gpucore.Geometry{}, gpucore.PipelineState{}); !errors.Is(err, ErrNoProgram) {
		t.Fatalf("Draw without program: %v", err)
	}

	prog, _ := rec.CreateProgram("v", "f", testLayout())
	rec.UseProgram(prog)

	scissor := &gpucore.Scissor{X: 1, Y: 2, Width: 3, Height: 4}
	if err := rec.Draw(gpucore.Geometry{InstanceCount: 5}, gpucore.PipelineState{Scissor: scissor}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	scissor.X = 100

	draws := rec.Draws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	got, ok := draws[0].Scissor()
	if !ok || got.X != 1 {
		t.Errorf("scissor = %v, %v; recorder must keep its own copy", got, ok)
	}
	if draws[0].Program != prog {
		t.Errorf("program = %d, want %d", draws[0].Program, prog)
	}
}

func TestRecorderInjectedErrors(t *testing.T) {
	compileErr := errors.New("syntax error")
	rec := NewRecorder(WithCompileError(compileErr))
	if _, err := rec.CreateProgram("v", "f", testLayout()); !errors.Is(err, compileErr) {
		t.Errorf("CreateProgram err = %v", err)
	}

	drawErr := errors.New("device lost")
	rec = NewRecorder(WithDrawError(drawErr))
	prog, _ := rec.CreateProgram("v", "f", testLayout())
	rec.UseProgram(prog)
	if err := rec.Draw(gpucore.Geometry{}, gpucore.PipelineState{}); !errors.Is(err, drawErr) {
		t.Errorf("Draw err = %v", err)
	}
}

func TestRecorderResetKeepsResources(t *testing.T) {
	rec := NewRecorder(WithShaderLanguage(gpucore.ShaderLanguageWGSL))
	if rec.ShaderLanguage() != gpucore.ShaderLanguageWGSL {
		t.Errorf("ShaderLanguage = %v", rec.ShaderLanguage())
	}
	buf, _ := rec.CreateBuffer(gpucore.BufferDescriptor{Size: 4})
	_ = rec.WriteBuffer(buf, 0, []byte{9, 9, 9, 9})
	rec.Reset()

	if len(rec.Commands()) != 0 {
		t.Errorf("commands after Reset = %d", len(rec.Commands()))
	}
	if rec.Buffer(buf)[0] != 9 {
		t.Error("Reset dropped buffer contents")
	}
}

func TestRecordingPlayback(t *testing.T) {
	src := NewRecorder()
	prog, _ := src.CreateProgram("v", "f", testLayout())
	buf, _ := src.CreateBuffer(gpucore.BufferDescriptor{Size: 4})
	_ = src.WriteBuffer(buf, 0, []byte{1, 2, 3, 4})
	src.UseProgram(prog)
	loc, _ := src.UniformLocation(prog, "u_Scale")
	src.SetUniform(loc, gpucore.Float(3))
	_ = src.Draw(gpucore.Geometry{VertexBuffers: []gpucore.BufferID{buf}, Range: gpucore.DrawRange{Count: 4}},
		gpucore.PipelineState{})

	// Offset the IDs of the destination so remapping is observable.
	dst := NewRecorder()
	_, _ = dst.CreateBuffer(gpucore.BufferDescriptor{Size: 1})
	_, _ = dst.CreateProgram("x", "y", gpucore.ProgramLayout{})

	if err := src.Finish().Playback(dst); err != nil {
		t.Fatalf("Playback: %v", err)
	}

	draws := dst.Draws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if draws[0].Program != 2 || draws[0].Geometry.VertexBuffers[0] != 2 {
		t.Errorf("ids not remapped: %+v", draws[0])
	}
	if v, ok := dst.Uniform(2, "u_Scale"); !ok || v.F != 3 {
		t.Errorf("uniform = %v, %v", v, ok)
	}
	if got := dst.Buffer(2); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("buffer = %v", got)
	}
}

func TestRecordingPlaybackRejectsForeignResources(t *testing.T) {
	src := NewRecorder()
	buf, _ := src.CreateBuffer(gpucore.BufferDescriptor{Size: 4})
	src.Reset()
	_ = src.WriteBuffer(buf, 0, []byte{1})

	err := src.Finish().Playback(NewRecorder())
	if !errors.Is(err, ErrPlayback) {
		t.Errorf("err = %v, want ErrPlayback", err)
	}
}

func TestWriteTrace(t *testing.T) {
	rec := NewRecorder()
	prog, _ := rec.CreateProgram("v", "f", testLayout())
	rec.UseProgram(prog)
	rec.SetViewport(0, 0, 800, 600)
	_ = rec.Clear(gputypes.Color{A: 1})
	_ = rec.Draw(gpucore.Geometry{Topology: gputypes.PrimitiveTopologyTriangleStrip, Range: gpucore.DrawRange{Count: 4}, InstanceCount: 3},
		gpucore.PipelineState{Scissor: &gpucore.Scissor{Width: 800, Height: 600}})

	var sb strings.Builder
	if err := rec.WriteTrace(&sb); err != nil {
		t.Fatalf("WriteTrace: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"CreateProgram", "SetViewport", "Clear", "instances=3", "scissor=(0, 0, 800, 600)"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("trace lines = %d, want 5", lines)
	}
}
