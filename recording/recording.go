package recording

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/uigl/gpucore"
)

// ErrPlayback is returned, wrapped, when a command cannot be replayed.
var ErrPlayback = errors.New("recording: playback failed")

// Recording is an immutable sequence of commands captured by a Recorder.
type Recording struct {
	commands []Command
}

// Commands returns the recorded commands. The returned slice must not be
// modified.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Len returns the number of commands.
func (r *Recording) Len() int {
	return len(r.commands)
}

// Playback replays the recording into ctx.
//
// Resource IDs are remapped to the IDs ctx hands out, and uniform
// locations are re-resolved by name, so the target may be any
// gpucore.Context. Commands referring to resources created before the
// recording started are rejected.
func (r *Recording) Playback(ctx gpucore.Context) error {
	p := player{
		ctx:      ctx,
		programs: make(map[gpucore.ProgramID]gpucore.ProgramID),
		buffers:  make(map[gpucore.BufferID]gpucore.BufferID),
		textures: make(map[gpucore.TextureID]gpucore.TextureID),
	}
	for i, c := range r.commands {
		if err := p.play(c); err != nil {
			return fmt.Errorf("%w: command %d (%s): %w", ErrPlayback, i, c.Type(), err)
		}
	}
	return nil
}

type player struct {
	ctx      gpucore.Context
	programs map[gpucore.ProgramID]gpucore.ProgramID
	buffers  map[gpucore.BufferID]gpucore.BufferID
	textures map[gpucore.TextureID]gpucore.TextureID
	current  gpucore.ProgramID
}

func (p *player) play(c Command) error {
	switch cmd := c.(type) {
	case CreateProgramCommand:
		id, err := p.ctx.CreateProgram(cmd.Vertex, cmd.Fragment, cmd.Layout)
		if err != nil {
			return err
		}
		p.programs[cmd.Program] = id
	case CreateBufferCommand:
		id, err := p.ctx.CreateBuffer(cmd.Descriptor)
		if err != nil {
			return err
		}
		p.buffers[cmd.Buffer] = id
	case CreateTextureCommand:
		id, err := p.ctx.CreateTexture(cmd.Descriptor)
		if err != nil {
			return err
		}
		p.textures[cmd.Texture] = id
	case DestroyTextureCommand:
		id, ok := p.textures[cmd.Texture]
		if !ok {
			return fmt.Errorf("texture %d not recorded", cmd.Texture)
		}
		p.ctx.DestroyTexture(id)
		delete(p.textures, cmd.Texture)
	case WriteBufferCommand:
		id, ok := p.buffers[cmd.Buffer]
		if !ok {
			return fmt.Errorf("buffer %d not recorded", cmd.Buffer)
		}
		return p.ctx.WriteBuffer(id, cmd.Offset, cmd.Data)
	case WriteTextureCommand:
		id, ok := p.textures[cmd.Texture]
		if !ok {
			return fmt.Errorf("texture %d not recorded", cmd.Texture)
		}
		return p.ctx.WriteTexture(id, cmd.Region, cmd.Data)
	case UseProgramCommand:
		id, ok := p.programs[cmd.Program]
		if !ok {
			return fmt.Errorf("program %d not recorded", cmd.Program)
		}
		p.current = id
		p.ctx.UseProgram(id)
	case SetUniformCommand:
		loc, ok := p.ctx.UniformLocation(p.current, cmd.Name)
		if !ok {
			return fmt.Errorf("uniform %q not found", cmd.Name)
		}
		p.ctx.SetUniform(loc, cmd.Value)
	case SetViewportCommand:
		p.ctx.SetViewport(cmd.X, cmd.Y, cmd.Width, cmd.Height)
	case ClearCommand:
		return p.ctx.Clear(cmd.Color)
	case DrawCommand:
		g := cmd.Geometry
		g.VertexBuffers = make([]gpucore.BufferID, len(cmd.Geometry.VertexBuffers))
		for i, b := range cmd.Geometry.VertexBuffers {
			id, ok := p.buffers[b]
			if !ok {
				return fmt.Errorf("vertex buffer %d not recorded", b)
			}
			g.VertexBuffers[i] = id
		}
		if g.Indexed() {
			id, ok := p.buffers[g.IndexBuffer]
			if !ok {
				return fmt.Errorf("index buffer %d not recorded", g.IndexBuffer)
			}
			g.IndexBuffer = id
		}
		if g.Texture != gpucore.InvalidID {
			id, ok := p.textures[g.Texture]
			if !ok {
				return fmt.Errorf("texture %d not recorded", g.Texture)
			}
			g.Texture = id
		}
		return p.ctx.Draw(g, cmd.State)
	default:
		return fmt.Errorf("unsupported command %T", c)
	}
	return nil
}

// WriteTrace writes one line per command to w.
func (r *Recording) WriteTrace(w io.Writer) error {
	return writeTrace(w, r.commands)
}

// WriteTrace writes the commands recorded since the last Reset to w.
func (r *Recorder) WriteTrace(w io.Writer) error {
	return writeTrace(w, r.commands)
}

func writeTrace(w io.Writer, commands []Command) error {
	bw := bufio.NewWriter(w)
	for i, c := range commands {
		fmt.Fprintf(bw, "%4d %-14s %s\n", i, c.Type(), describe(c))
	}
	return bw.Flush()
}

func describe(c Command) string {
	switch cmd := c.(type) {
	case CreateProgramCommand:
		return fmt.Sprintf("id=%d label=%q uniforms=%d buffers=%d",
			cmd.Program, cmd.Layout.Label, len(cmd.Layout.Uniforms), len(cmd.Layout.Buffers))
	case CreateBufferCommand:
		return fmt.Sprintf("id=%d label=%q size=%d", cmd.Buffer, cmd.Descriptor.Label, cmd.Descriptor.Size)
	case CreateTextureCommand:
		return fmt.Sprintf("id=%d label=%q %dx%d %s", cmd.Texture, cmd.Descriptor.Label,
			cmd.Descriptor.Width, cmd.Descriptor.Height, cmd.Descriptor.Format)
	case DestroyTextureCommand:
		return fmt.Sprintf("id=%d", cmd.Texture)
	case WriteBufferCommand:
		return fmt.Sprintf("buffer=%d offset=%d bytes=%d", cmd.Buffer, cmd.Offset, len(cmd.Data))
	case WriteTextureCommand:
		return fmt.Sprintf("texture=%d region=(%d, %d, %d, %d) bytes=%d", cmd.Texture,
			cmd.Region.X, cmd.Region.Y, cmd.Region.Width, cmd.Region.Height, len(cmd.Data))
	case UseProgramCommand:
		return fmt.Sprintf("program=%d", cmd.Program)
	case SetUniformCommand:
		if cmd.Value.Kind == gpucore.UniformFloat {
			return fmt.Sprintf("%s = %g", cmd.Name, cmd.Value.F)
		}
		return fmt.Sprintf("%s = %s", cmd.Name, cmd.Value.Kind)
	case SetViewportCommand:
		return fmt.Sprintf("(%d, %d, %d, %d)", cmd.X, cmd.Y, cmd.Width, cmd.Height)
	case ClearCommand:
		return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
	case DrawCommand:
		return cmd.String()
	default:
		return ""
	}
}
