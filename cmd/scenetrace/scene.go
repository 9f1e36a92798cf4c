package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/uigl"
	"github.com/gogpu/uigl/core"
)

// scene is the YAML form of one frame:
//
//	viewport: {width: 800, height: 600, scale: 2}
//	interaction: pointer
//	overlay: ["frame 1"]
//	primitives:
//	  - quad: {bounds: [10, 10, 200, 40], background: "#3366ff", radius: 4}
//	  - clip:
//	      bounds: [0, 60, 300, 100]
//	      offset: [0, 20]
//	      content:
//	        - text: {content: "Hello", bounds: [10, 70, 280, 30], color: "#fff", size: 20}
type scene struct {
	Viewport    viewportNode `yaml:"viewport"`
	Interaction string       `yaml:"interaction"`
	Overlay     []string     `yaml:"overlay"`
	Primitives  []node       `yaml:"primitives"`
}

type viewportNode struct {
	Width  uint32  `yaml:"width"`
	Height uint32  `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// node holds exactly one primitive.
type node struct {
	Quad      *quadNode      `yaml:"quad"`
	Text      *textNode      `yaml:"text"`
	Mesh      *meshNode      `yaml:"mesh"`
	Clip      *clipNode      `yaml:"clip"`
	Translate *translateNode `yaml:"translate"`
	Group     []node         `yaml:"group"`
	Cached    []node         `yaml:"cached"`
}

type quadNode struct {
	Bounds      []float32 `yaml:"bounds"`
	Background  string    `yaml:"background"`
	Radius      float32   `yaml:"radius"`
	BorderWidth float32   `yaml:"border_width"`
	BorderColor string    `yaml:"border_color"`
}

type textNode struct {
	Content string    `yaml:"content"`
	Bounds  []float32 `yaml:"bounds"`
	Color   string    `yaml:"color"`
	Size    float32   `yaml:"size"`
	HAlign  string    `yaml:"halign"`
	VAlign  string    `yaml:"valign"`
}

type vertexNode struct {
	Position []float32 `yaml:"position"`
	Color    string    `yaml:"color"`
}

type meshNode struct {
	Vertices []vertexNode `yaml:"vertices"`
	Indices  []uint32     `yaml:"indices"`
	Size     []float32    `yaml:"size"`
}

type clipNode struct {
	Bounds  []float32 `yaml:"bounds"`
	Offset  []float32 `yaml:"offset"`
	Content []node    `yaml:"content"`
}

type translateNode struct {
	Translation []float32 `yaml:"translation"`
	Content     []node    `yaml:"content"`
}

// frame is a decoded scene, ready to present.
type frame struct {
	viewport uigl.Viewport
	output   uigl.Output
	overlay  []string
}

var errEmptyNode = errors.New("node has no primitive")

// loadScene reads and decodes the scene file at path.
func loadScene(path string) (frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frame{}, err
	}
	return decodeScene(data)
}

// decodeScene decodes a YAML scene.
func decodeScene(data []byte) (frame, error) {
	var s scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return frame{}, fmt.Errorf("decode scene: %w", err)
	}

	if s.Viewport.Width == 0 || s.Viewport.Height == 0 {
		return frame{}, fmt.Errorf("viewport %dx%d is empty", s.Viewport.Width, s.Viewport.Height)
	}
	if s.Viewport.Scale == 0 {
		s.Viewport.Scale = 1
	}

	interaction, err := parseInteraction(s.Interaction)
	if err != nil {
		return frame{}, err
	}
	primitive, err := group(s.Primitives, "primitives")
	if err != nil {
		return frame{}, err
	}

	return frame{
		viewport: uigl.NewViewport(s.Viewport.Width, s.Viewport.Height, s.Viewport.Scale),
		output:   uigl.Output{Primitive: primitive, Interaction: interaction},
		overlay:  s.Overlay,
	}, nil
}

func group(nodes []node, path string) (uigl.Group, error) {
	g := make(uigl.Group, 0, len(nodes))
	for i, n := range nodes {
		p, err := n.primitive(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		g = append(g, p)
	}
	return g, nil
}

func (n node) primitive(path string) (uigl.Primitive, error) {
	switch {
	case n.Quad != nil:
		return n.Quad.primitive(path + ".quad")
	case n.Text != nil:
		return n.Text.primitive(path + ".text")
	case n.Mesh != nil:
		return n.Mesh.primitive(path + ".mesh")
	case n.Clip != nil:
		bounds, err := rectangle(n.Clip.Bounds, path+".clip.bounds")
		if err != nil {
			return nil, err
		}
		offset, err := vector(n.Clip.Offset, path+".clip.offset")
		if err != nil {
			return nil, err
		}
		content, err := group(n.Clip.Content, path+".clip.content")
		if err != nil {
			return nil, err
		}
		return uigl.Clip{Bounds: bounds, Offset: offset, Content: content}, nil
	case n.Translate != nil:
		translation, err := vector(n.Translate.Translation, path+".translate.translation")
		if err != nil {
			return nil, err
		}
		content, err := group(n.Translate.Content, path+".translate.content")
		if err != nil {
			return nil, err
		}
		return uigl.Translate{Translation: translation, Content: content}, nil
	case n.Group != nil:
		return group(n.Group, path+".group")
	case n.Cached != nil:
		content, err := group(n.Cached, path+".cached")
		if err != nil {
			return nil, err
		}
		return uigl.Cached{Content: content}, nil
	default:
		return nil, fmt.Errorf("%s: %w", path, errEmptyNode)
	}
}

func (q *quadNode) primitive(path string) (uigl.Primitive, error) {
	bounds, err := rectangle(q.Bounds, path+".bounds")
	if err != nil {
		return nil, err
	}
	background, err := parseColor(q.Background, core.Transparent)
	if err != nil {
		return nil, fmt.Errorf("%s.background: %w", path, err)
	}
	border, err := parseColor(q.BorderColor, core.Transparent)
	if err != nil {
		return nil, fmt.Errorf("%s.border_color: %w", path, err)
	}
	return uigl.Quad{
		Bounds:       bounds,
		Background:   background,
		BorderRadius: q.Radius,
		BorderWidth:  q.BorderWidth,
		BorderColor:  border,
	}, nil
}

func (t *textNode) primitive(path string) (uigl.Primitive, error) {
	bounds, err := rectangle(t.Bounds, path+".bounds")
	if err != nil {
		return nil, err
	}
	color, err := parseColor(t.Color, core.Black)
	if err != nil {
		return nil, fmt.Errorf("%s.color: %w", path, err)
	}
	halign, err := parseAlignment(t.HAlign, []uigl.HorizontalAlignment{uigl.AlignLeft, uigl.AlignCenter, uigl.AlignRight})
	if err != nil {
		return nil, fmt.Errorf("%s.halign: %w", path, err)
	}
	valign, err := parseAlignment(t.VAlign, []uigl.VerticalAlignment{uigl.AlignTop, uigl.AlignMiddle, uigl.AlignBottom})
	if err != nil {
		return nil, fmt.Errorf("%s.valign: %w", path, err)
	}
	return uigl.Text{
		Content: t.Content,
		Bounds:  bounds,
		Color:   color,
		Size:    t.Size,
		HAlign:  halign,
		VAlign:  valign,
	}, nil
}

func (m *meshNode) primitive(path string) (uigl.Primitive, error) {
	size, err := floats(m.Size, 2, path+".size")
	if err != nil {
		return nil, err
	}
	vertices := make([]uigl.Vertex2D, len(m.Vertices))
	for i, v := range m.Vertices {
		vpath := fmt.Sprintf("%s.vertices[%d]", path, i)
		pos, err := floats(v.Position, 2, vpath+".position")
		if err != nil {
			return nil, err
		}
		color, err := parseColor(v.Color, core.Black)
		if err != nil {
			return nil, fmt.Errorf("%s.color: %w", vpath, err)
		}
		vertices[i] = uigl.Vertex2D{Position: [2]float32{pos[0], pos[1]}, Color: color.Array()}
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%s.indices[%d]: index %d out of %d vertices", path, i, idx, len(vertices))
		}
	}
	return uigl.Mesh{
		Vertices: vertices,
		Indices:  m.Indices,
		Size:     core.Size{Width: size[0], Height: size[1]},
	}, nil
}

func floats(v []float32, n int, path string) ([]float32, error) {
	if len(v) != n {
		return nil, fmt.Errorf("%s: want %d numbers, got %d", path, n, len(v))
	}
	return v, nil
}

func rectangle(v []float32, path string) (core.Rectangle, error) {
	f, err := floats(v, 4, path)
	if err != nil {
		return core.Rectangle{}, err
	}
	return core.Rect(f[0], f[1], f[2], f[3]), nil
}

// vector decodes an optional [x, y] pair.
func vector(v []float32, path string) (core.Vector, error) {
	if v == nil {
		return core.Vector{}, nil
	}
	f, err := floats(v, 2, path)
	if err != nil {
		return core.Vector{}, err
	}
	return core.Vector{X: f[0], Y: f[1]}, nil
}

// parseColor parses #rgb, #rrggbb or #rrggbbaa. An empty string yields def.
func parseColor(s string, def core.Color) (core.Color, error) {
	if s == "" {
		return def, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return core.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("invalid color %q", s)
	}
	channel := func(shift uint) float32 { return float32((v>>shift)&0xff) / 255 }
	return core.RGBA(channel(24), channel(16), channel(8), channel(0)), nil
}

func parseAlignment[A fmt.Stringer](s string, values []A) (A, error) {
	if s == "" {
		return values[0], nil
	}
	for _, v := range values {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	var zero A
	return zero, fmt.Errorf("unknown alignment %q", s)
}

func parseInteraction(s string) (uigl.Interaction, error) {
	if s == "" {
		return uigl.InteractionIdle, nil
	}
	for i := uigl.InteractionIdle; i <= uigl.InteractionResizingVertically; i++ {
		if strings.EqualFold(s, i.String()) {
			return i, nil
		}
	}
	return uigl.InteractionIdle, fmt.Errorf("unknown interaction %q", s)
}
