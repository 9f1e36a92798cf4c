// Package shader loads the uigl GPU programs.
//
// Each program ships as a combined GLSL source, where the vertex and
// fragment stages live in #ifdef VERTEX and #ifdef FRAGMENT blocks of the
// same file, and as a WGSL module with vs_main and fs_main entry points.
// Load picks the dialect the context understands, compiles it and resolves
// every declared uniform by name.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/uigl/gpucore"
)

//go:embed shaders/quad.glsl
var quadGLSL string

//go:embed shaders/quad.wgsl
var quadWGSL string

//go:embed shaders/triangle.glsl
var triangleGLSL string

//go:embed shaders/triangle.wgsl
var triangleWGSL string

//go:embed shaders/glyph.glsl
var glyphGLSL string

//go:embed shaders/glyph.wgsl
var glyphWGSL string

// Shader loading errors.
var (
	// ErrCompile is returned when a program fails to compile or link.
	ErrCompile = errors.New("shader: compile failed")

	// ErrUniformNotFound is returned when a declared uniform cannot be resolved.
	ErrUniformNotFound = errors.New("shader: uniform not found")

	// ErrMissingStage is returned when a combined source lacks a stage block.
	ErrMissingStage = errors.New("shader: missing stage block")
)

// Source is a program in both supported shading languages.
type Source struct {
	Name string
	GLSL string
	WGSL string
}

// Built-in programs.
var (
	Quad     = Source{Name: "quad", GLSL: quadGLSL, WGSL: quadWGSL}
	Triangle = Source{Name: "triangle", GLSL: triangleGLSL, WGSL: triangleWGSL}
	Glyph    = Source{Name: "glyph", GLSL: glyphGLSL, WGSL: glyphWGSL}
)

// Split turns a combined GLSL source into a vertex and a fragment source by
// defining VERTEX or FRAGMENT right after the #version directive.
func Split(source string) (vertex, fragment string, err error) {
	if !strings.Contains(source, "#ifdef VERTEX") {
		return "", "", fmt.Errorf("%w: VERTEX", ErrMissingStage)
	}
	if !strings.Contains(source, "#ifdef FRAGMENT") {
		return "", "", fmt.Errorf("%w: FRAGMENT", ErrMissingStage)
	}

	header, body := "", source
	if strings.HasPrefix(strings.TrimSpace(source), "#version") {
		trimmed := strings.TrimLeft(source, " \t\r\n")
		if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
			header, body = trimmed[:i+1], trimmed[i+1:]
		} else {
			header, body = trimmed+"\n", ""
		}
	}

	return header + "#define VERTEX\n" + body, header + "#define FRAGMENT\n" + body, nil
}

// Program is a compiled program with its uniform locations resolved.
type Program struct {
	ID        gpucore.ProgramID
	name      string
	locations map[string]gpucore.UniformLocation
}

// Load compiles src for ctx and resolves every uniform in layout.
//
// Failures wrap gpucore.ErrGraphicsInitialization: a program that does not
// compile is a bug, not a runtime condition.
func Load(ctx gpucore.Context, src Source, layout gpucore.ProgramLayout) (*Program, error) {
	var vertex, fragment string
	switch ctx.ShaderLanguage() {
	case gpucore.ShaderLanguageWGSL:
		vertex, fragment = src.WGSL, src.WGSL
	default:
		var err error
		vertex, fragment, err = Split(src.GLSL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", gpucore.ErrGraphicsInitialization, src.Name, err)
		}
	}

	if layout.Label == "" {
		layout.Label = src.Name
	}
	id, err := ctx.CreateProgram(vertex, fragment, layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w: %w", gpucore.ErrGraphicsInitialization, src.Name, ErrCompile, err)
	}

	p := &Program{
		ID:        id,
		name:      src.Name,
		locations: make(map[string]gpucore.UniformLocation, len(layout.Uniforms)),
	}
	for _, u := range layout.Uniforms {
		loc, ok := ctx.UniformLocation(id, u.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %w: %s", gpucore.ErrGraphicsInitialization, src.Name, ErrUniformNotFound, u.Name)
		}
		p.locations[u.Name] = loc
	}
	return p, nil
}

// Location returns the resolved location of a uniform declared at load
// time. It panics on unknown names, which can only come from a typo in the
// calling pipeline.
func (p *Program) Location(name string) gpucore.UniformLocation {
	loc, ok := p.locations[name]
	if !ok {
		panic(fmt.Sprintf("shader: %s has no uniform %q", p.name, name))
	}
	return loc
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}
