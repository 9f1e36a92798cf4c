package recording

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/gpucore"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one gpucore.Context call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateProgram  CommandType = iota // Compile and link a program
	CmdCreateBuffer                      // Allocate a buffer
	CmdCreateTexture                     // Allocate a texture
	CmdDestroyTexture                    // Release a texture

	// Upload commands
	CmdWriteBuffer  // Copy bytes into a buffer
	CmdWriteTexture // Copy texels into a texture region

	// State commands
	CmdUseProgram  // Bind a program
	CmdSetUniform  // Write a uniform of the bound program
	CmdSetViewport // Set the viewport rectangle

	// Drawing commands
	CmdClear // Clear the framebuffer
	CmdDraw  // Issue a draw call
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdCreateProgram:  "CreateProgram",
	CmdCreateBuffer:   "CreateBuffer",
	CmdCreateTexture:  "CreateTexture",
	CmdDestroyTexture: "DestroyTexture",
	CmdWriteBuffer:    "WriteBuffer",
	CmdWriteTexture:   "WriteTexture",
	CmdUseProgram:     "UseProgram",
	CmdSetUniform:     "SetUniform",
	CmdSetViewport:    "SetViewport",
	CmdClear:          "Clear",
	CmdDraw:           "Draw",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Resource Commands
// --------------------------------------------------------------------------

// CreateProgramCommand records a program creation.
type CreateProgramCommand struct {
	Program  gpucore.ProgramID
	Vertex   string
	Fragment string
	Layout   gpucore.ProgramLayout
}

// Type implements Command.
func (CreateProgramCommand) Type() CommandType { return CmdCreateProgram }

// CreateBufferCommand records a buffer allocation.
type CreateBufferCommand struct {
	Buffer     gpucore.BufferID
	Descriptor gpucore.BufferDescriptor
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// CreateTextureCommand records a texture allocation.
type CreateTextureCommand struct {
	Texture    gpucore.TextureID
	Descriptor gpucore.TextureDescriptor
}

// Type implements Command.
func (CreateTextureCommand) Type() CommandType { return CmdCreateTexture }

// DestroyTextureCommand records a texture release.
type DestroyTextureCommand struct {
	Texture gpucore.TextureID
}

// Type implements Command.
func (DestroyTextureCommand) Type() CommandType { return CmdDestroyTexture }

// --------------------------------------------------------------------------
// Upload Commands
// --------------------------------------------------------------------------

// WriteBufferCommand records a buffer upload. Data is a private copy.
type WriteBufferCommand struct {
	Buffer gpucore.BufferID
	Offset uint64
	Data   []byte
}

// Type implements Command.
func (WriteBufferCommand) Type() CommandType { return CmdWriteBuffer }

// WriteTextureCommand records a texture upload. Data is a private copy.
type WriteTextureCommand struct {
	Texture gpucore.TextureID
	Region  gpucore.Region
	Data    []byte
}

// Type implements Command.
func (WriteTextureCommand) Type() CommandType { return CmdWriteTexture }

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// UseProgramCommand records a program bind.
type UseProgramCommand struct {
	Program gpucore.ProgramID
}

// Type implements Command.
func (UseProgramCommand) Type() CommandType { return CmdUseProgram }

// SetUniformCommand records a uniform write. Name is resolved from the
// program layout so the command can be replayed on another context.
type SetUniformCommand struct {
	Program  gpucore.ProgramID
	Location gpucore.UniformLocation
	Name     string
	Value    gpucore.UniformValue
}

// Type implements Command.
func (SetUniformCommand) Type() CommandType { return CmdSetUniform }

// SetViewportCommand records a viewport change.
type SetViewportCommand struct {
	X, Y          int32
	Width, Height uint32
}

// Type implements Command.
func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// ClearCommand records a framebuffer clear.
type ClearCommand struct {
	Color gputypes.Color
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// DrawCommand records a draw call together with the program bound at the
// time. Scissor and Depth are copied, so the command owns its state.
type DrawCommand struct {
	Program  gpucore.ProgramID
	Geometry gpucore.Geometry
	State    gpucore.PipelineState
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// Scissor returns the scissor rectangle and whether the scissor test was
// enabled.
func (d DrawCommand) Scissor() (gpucore.Scissor, bool) {
	if d.State.Scissor == nil {
		return gpucore.Scissor{}, false
	}
	return *d.State.Scissor, true
}

// String returns a one-line description of the draw.
func (d DrawCommand) String() string {
	g := d.Geometry
	s := fmt.Sprintf("program=%d topology=%s range=%d+%d instances=%d",
		d.Program, g.Topology, g.Range.Start, g.Range.Count, g.Instances())
	if g.Indexed() {
		s += " indexed"
	}
	if g.Texture != gpucore.InvalidID {
		s += fmt.Sprintf(" texture=%d", g.Texture)
	}
	if sc, ok := d.Scissor(); ok {
		s += " scissor=" + sc.String()
	}
	return s
}
