package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/uigl"
	"github.com/gogpu/uigl/core"
)

const sampleScene = `
viewport: {width: 800, height: 600, scale: 2}
interaction: Text
overlay: ["frame 1"]
primitives:
  - quad: {bounds: [10, 10, 200, 40], background: "#3366ff", radius: 4}
  - clip:
      bounds: [0, 60, 300, 100]
      offset: [0, 20]
      content:
        - text: {content: "Hello", bounds: [10, 70, 280, 30], color: "#fff", size: 20, halign: center}
  - translate:
      translation: [5, 5]
      content:
        - mesh:
            size: [10, 10]
            vertices:
              - {position: [0, 0], color: "#ff0000"}
              - {position: [10, 0], color: "#00ff0080"}
              - {position: [0, 10]}
            indices: [0, 1, 2]
  - cached:
      - group: [{quad: {bounds: [0, 0, 1, 1]}}]
`

func TestDecodeScene(t *testing.T) {
	f, err := decodeScene([]byte(sampleScene))
	if err != nil {
		t.Fatalf("decodeScene: %v", err)
	}

	if got := f.viewport.String(); got != "Viewport(800x600 @2)" {
		t.Errorf("viewport = %s", got)
	}
	if f.output.Interaction != uigl.InteractionText {
		t.Errorf("interaction = %s, want text", f.output.Interaction)
	}
	if len(f.overlay) != 1 || f.overlay[0] != "frame 1" {
		t.Errorf("overlay = %q", f.overlay)
	}

	root, ok := f.output.Primitive.(uigl.Group)
	if !ok || len(root) != 4 {
		t.Fatalf("root = %#v, want a group of 4", f.output.Primitive)
	}

	quad, ok := root[0].(uigl.Quad)
	if !ok {
		t.Fatalf("root[0] = %T, want Quad", root[0])
	}
	if quad.Bounds != core.Rect(10, 10, 200, 40) || quad.BorderRadius != 4 {
		t.Errorf("quad = %+v", quad)
	}
	if want := core.RGBA(0.2, 0.4, 1, 1); quad.Background != want {
		t.Errorf("background = %+v, want %+v", quad.Background, want)
	}

	clip, ok := root[1].(uigl.Clip)
	if !ok {
		t.Fatalf("root[1] = %T, want Clip", root[1])
	}
	if clip.Offset != (core.Vector{Y: 20}) {
		t.Errorf("clip offset = %+v", clip.Offset)
	}
	text := clip.Content.(uigl.Group)[0].(uigl.Text)
	if text.Content != "Hello" || text.HAlign != uigl.AlignCenter || text.Color != core.White {
		t.Errorf("text = %+v", text)
	}

	translate := root[2].(uigl.Translate)
	mesh := translate.Content.(uigl.Group)[0].(uigl.Mesh)
	if len(mesh.Vertices) != 3 || len(mesh.Indices) != 3 {
		t.Fatalf("mesh = %+v", mesh)
	}
	if got := mesh.Vertices[1].Color[3]; got != float32(0x80)/255 {
		t.Errorf("vertex alpha = %g", got)
	}
	if got := mesh.Vertices[2].Color; got != core.Black.Array() {
		t.Errorf("default vertex color = %v", got)
	}

	if _, ok := root[3].(uigl.Cached); !ok {
		t.Errorf("root[3] = %T, want Cached", root[3])
	}
}

func TestDecodeSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		want  string
	}{
		{"syntax", "viewport: [", "decode scene"},
		{"empty viewport", "viewport: {width: 0, height: 10}", "empty"},
		{"interaction", "viewport: {width: 1, height: 1}\ninteraction: hover", "interaction"},
		{"empty node", "viewport: {width: 1, height: 1}\nprimitives:\n  - {}", "primitives[0]"},
		{"bounds", "viewport: {width: 1, height: 1}\nprimitives:\n  - quad: {bounds: [1, 2]}", "primitives[0].quad.bounds"},
		{"color", "viewport: {width: 1, height: 1}\nprimitives:\n  - quad: {bounds: [0, 0, 1, 1], background: red}", "background"},
		{"alignment", "viewport: {width: 1, height: 1}\nprimitives:\n  - text: {bounds: [0, 0, 1, 1], valign: left}", "valign"},
		{"index", "viewport: {width: 1, height: 1}\nprimitives:\n  - mesh: {size: [1, 1], vertices: [{position: [0, 0]}], indices: [0, 1, 0]}", "out of 1 vertices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeScene([]byte(tt.scene))
			if err == nil {
				t.Fatal("decodeScene succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	_, err := decodeScene([]byte("viewport: {width: 1, height: 1}\nprimitives:\n  - {}"))
	if !errors.Is(err, errEmptyNode) {
		t.Errorf("error = %v, want errEmptyNode", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Color
		wantErr bool
	}{
		{"", core.Transparent, false},
		{"#000", core.Black, false},
		{"ffffff", core.White, false},
		{"#ff000000", core.RGBA(1, 0, 0, 0), false},
		{"#12", core.Color{}, true},
		{"#gggggg", core.Color{}, true},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in, core.Transparent)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestTracer(t *testing.T) {
	var out bytes.Buffer
	tr, err := newTracer(uigl.DefaultSettings(), core.White, &out)
	if err != nil {
		t.Fatalf("newTracer: %v", err)
	}

	f, err := decodeScene([]byte("viewport: {width: 320, height: 240}\nprimitives:\n  - quad: {bounds: [0, 0, 10, 10], background: '#000'}"))
	if err != nil {
		t.Fatalf("decodeScene: %v", err)
	}
	for range 2 {
		if err := tr.trace(f); err != nil {
			t.Fatalf("trace: %v", err)
		}
	}

	trace := out.String()
	for _, want := range []string{"# frame 1: Viewport(320x240 @1), interaction idle, 1 draws", "# frame 2:"} {
		if !strings.Contains(trace, want) {
			t.Errorf("trace does not contain %q:\n%s", want, trace)
		}
	}
	if strings.Contains(trace, "CreateProgram") {
		t.Errorf("frame traces include setup commands:\n%s", trace)
	}
}
