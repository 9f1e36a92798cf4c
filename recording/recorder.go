package recording

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/gpucore"
)

// Recorder errors.
var (
	// ErrUnknownBuffer is returned when writing to a buffer that was never created.
	ErrUnknownBuffer = errors.New("recording: unknown buffer")

	// ErrUnknownTexture is returned when writing to a texture that does not exist.
	ErrUnknownTexture = errors.New("recording: unknown texture")

	// ErrOutOfBounds is returned when a write exceeds the buffer or texture size.
	ErrOutOfBounds = errors.New("recording: write out of bounds")

	// ErrNoProgram is returned by Draw when no program is bound.
	ErrNoProgram = errors.New("recording: no program bound")
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithShaderLanguage sets the language the recorder reports from
// ShaderLanguage. The default is GLSL.
func WithShaderLanguage(lang gpucore.ShaderLanguage) Option {
	return func(r *Recorder) {
		r.language = lang
	}
}

// WithCompileError makes every CreateProgram call fail with err.
func WithCompileError(err error) Option {
	return func(r *Recorder) {
		r.compileErr = err
	}
}

// WithDrawError makes every Draw call fail with err.
func WithDrawError(err error) Option {
	return func(r *Recorder) {
		r.drawErr = err
	}
}

// Recorder captures gpucore.Context calls as commands.
//
// Besides the command log the Recorder keeps enough state to validate
// calls the way a driver would: buffer contents and sizes, texture sizes,
// the bound program and the last value written to each uniform.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	language   gpucore.ShaderLanguage
	compileErr error
	drawErr    error

	commands []Command

	programs []gpucore.ProgramLayout
	buffers  [][]byte
	textures []*gpucore.TextureDescriptor
	current  gpucore.ProgramID
	uniforms map[gpucore.ProgramID]map[gpucore.UniformLocation]gpucore.UniformValue
}

var _ gpucore.Context = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		commands: make([]Command, 0, 256),
		uniforms: make(map[gpucore.ProgramID]map[gpucore.UniformLocation]gpucore.UniformValue),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ShaderLanguage implements gpucore.Context.
func (r *Recorder) ShaderLanguage() gpucore.ShaderLanguage {
	return r.language
}

// CreateProgram implements gpucore.Context.
func (r *Recorder) CreateProgram(vertex, fragment string, layout gpucore.ProgramLayout) (gpucore.ProgramID, error) {
	if r.compileErr != nil {
		return gpucore.InvalidID, r.compileErr
	}
	r.programs = append(r.programs, layout)
	id := gpucore.ProgramID(len(r.programs))
	r.commands = append(r.commands, CreateProgramCommand{
		Program:  id,
		Vertex:   vertex,
		Fragment: fragment,
		Layout:   layout,
	})
	return id, nil
}

// UniformLocation implements gpucore.Context. Locations are indices into
// the program's declared uniforms.
func (r *Recorder) UniformLocation(program gpucore.ProgramID, name string) (gpucore.UniformLocation, bool) {
	layout, ok := r.program(program)
	if !ok {
		return -1, false
	}
	for i, u := range layout.Uniforms {
		if u.Name == name {
			return gpucore.UniformLocation(i), true
		}
	}
	return -1, false
}

// UseProgram implements gpucore.Context.
func (r *Recorder) UseProgram(program gpucore.ProgramID) {
	r.current = program
	r.commands = append(r.commands, UseProgramCommand{Program: program})
}

// SetUniform implements gpucore.Context.
func (r *Recorder) SetUniform(location gpucore.UniformLocation, value gpucore.UniformValue) {
	var name string
	if layout, ok := r.program(r.current); ok && location >= 0 && int(location) < len(layout.Uniforms) {
		name = layout.Uniforms[location].Name
	}
	values := r.uniforms[r.current]
	if values == nil {
		values = make(map[gpucore.UniformLocation]gpucore.UniformValue)
		r.uniforms[r.current] = values
	}
	values[location] = value
	r.commands = append(r.commands, SetUniformCommand{
		Program:  r.current,
		Location: location,
		Name:     name,
		Value:    value,
	})
}

// CreateBuffer implements gpucore.Context.
func (r *Recorder) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	r.buffers = append(r.buffers, make([]byte, desc.Size))
	id := gpucore.BufferID(len(r.buffers))
	r.commands = append(r.commands, CreateBufferCommand{Buffer: id, Descriptor: desc})
	return id, nil
}

// WriteBuffer implements gpucore.Context.
func (r *Recorder) WriteBuffer(buffer gpucore.BufferID, offset uint64, data []byte) error {
	if buffer == gpucore.InvalidID || int(buffer) > len(r.buffers) {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, buffer)
	}
	dst := r.buffers[buffer-1]
	if offset+uint64(len(data)) > uint64(len(dst)) {
		return fmt.Errorf("%w: %d bytes at %d into buffer %d of %d bytes",
			ErrOutOfBounds, len(data), offset, buffer, len(dst))
	}
	copy(dst[offset:], data)
	r.commands = append(r.commands, WriteBufferCommand{
		Buffer: buffer,
		Offset: offset,
		Data:   slices.Clone(data),
	})
	return nil
}

// CreateTexture implements gpucore.Context.
func (r *Recorder) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	d := desc
	r.textures = append(r.textures, &d)
	id := gpucore.TextureID(len(r.textures))
	r.commands = append(r.commands, CreateTextureCommand{Texture: id, Descriptor: desc})
	return id, nil
}

// WriteTexture implements gpucore.Context.
func (r *Recorder) WriteTexture(texture gpucore.TextureID, region gpucore.Region, data []byte) error {
	desc, ok := r.texture(texture)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, texture)
	}
	if region.X+region.Width > desc.Width || region.Y+region.Height > desc.Height {
		return fmt.Errorf("%w: region %+v in %dx%d texture", ErrOutOfBounds, region, desc.Width, desc.Height)
	}
	r.commands = append(r.commands, WriteTextureCommand{
		Texture: texture,
		Region:  region,
		Data:    slices.Clone(data),
	})
	return nil
}

// DestroyTexture implements gpucore.Context.
func (r *Recorder) DestroyTexture(texture gpucore.TextureID) {
	if _, ok := r.texture(texture); ok {
		r.textures[texture-1] = nil
	}
	r.commands = append(r.commands, DestroyTextureCommand{Texture: texture})
}

// SetViewport implements gpucore.Context.
func (r *Recorder) SetViewport(x, y int32, width, height uint32) {
	r.commands = append(r.commands, SetViewportCommand{X: x, Y: y, Width: width, Height: height})
}

// Clear implements gpucore.Context.
func (r *Recorder) Clear(color gputypes.Color) error {
	r.commands = append(r.commands, ClearCommand{Color: color})
	return nil
}

// Draw implements gpucore.Context.
func (r *Recorder) Draw(geometry gpucore.Geometry, state gpucore.PipelineState) error {
	if r.drawErr != nil {
		return r.drawErr
	}
	if _, ok := r.program(r.current); !ok {
		return ErrNoProgram
	}
	geometry.VertexBuffers = slices.Clone(geometry.VertexBuffers)
	if state.Scissor != nil {
		s := *state.Scissor
		state.Scissor = &s
	}
	if state.Depth != nil {
		d := *state.Depth
		state.Depth = &d
	}
	r.commands = append(r.commands, DrawCommand{
		Program:  r.current,
		Geometry: geometry,
		State:    state,
	})
	return nil
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

// Commands returns the commands recorded since the last Reset.
// The returned slice must not be modified.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Reset drops the command log. Resources, buffer contents and uniform
// values are kept.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Count returns how many commands of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Draws returns the recorded draw calls in order.
func (r *Recorder) Draws() []DrawCommand {
	var draws []DrawCommand
	for _, c := range r.commands {
		if d, ok := c.(DrawCommand); ok {
			draws = append(draws, d)
		}
	}
	return draws
}

// UniformWrites returns the recorded uniform writes in order.
func (r *Recorder) UniformWrites() []SetUniformCommand {
	var writes []SetUniformCommand
	for _, c := range r.commands {
		if u, ok := c.(SetUniformCommand); ok {
			writes = append(writes, u)
		}
	}
	return writes
}

// Buffer returns the current contents of a buffer.
func (r *Recorder) Buffer(id gpucore.BufferID) []byte {
	if id == gpucore.InvalidID || int(id) > len(r.buffers) {
		return nil
	}
	return r.buffers[id-1]
}

// Uniform returns the last value written to a named uniform of a program.
func (r *Recorder) Uniform(program gpucore.ProgramID, name string) (gpucore.UniformValue, bool) {
	loc, ok := r.UniformLocation(program, name)
	if !ok {
		return gpucore.UniformValue{}, false
	}
	v, ok := r.uniforms[program][loc]
	return v, ok
}

// ProgramLabel returns the label of a program's layout.
func (r *Recorder) ProgramLabel(id gpucore.ProgramID) string {
	layout, ok := r.program(id)
	if !ok {
		return ""
	}
	return layout.Label
}

// Texture returns the descriptor of a live texture.
func (r *Recorder) Texture(id gpucore.TextureID) (gpucore.TextureDescriptor, bool) {
	d, ok := r.texture(id)
	if !ok {
		return gpucore.TextureDescriptor{}, false
	}
	return *d, true
}

// Finish returns an immutable snapshot of the recorded commands.
func (r *Recorder) Finish() *Recording {
	return &Recording{commands: slices.Clone(r.commands)}
}

func (r *Recorder) program(id gpucore.ProgramID) (gpucore.ProgramLayout, bool) {
	if id == gpucore.InvalidID || int(id) > len(r.programs) {
		return gpucore.ProgramLayout{}, false
	}
	return r.programs[id-1], true
}

func (r *Recorder) texture(id gpucore.TextureID) (*gpucore.TextureDescriptor, bool) {
	if id == gpucore.InvalidID || int(id) > len(r.textures) {
		return nil, false
	}
	d := r.textures[id-1]
	return d, d != nil
}
