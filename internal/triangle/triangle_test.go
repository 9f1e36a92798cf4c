package triangle

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/recording"
)

func newPipeline(t *testing.T) (*Pipeline, *recording.Recorder) {
	t.Helper()
	rec := recording.NewRecorder()
	p, err := New(rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec.Reset()
	return p, rec
}

func triangleMesh(origin core.Point, clip core.Rectangle) Mesh {
	return Mesh{
		Vertices: []Vertex2D{
			{Position: [2]float32{0, 0}, Color: [4]float32{1, 0, 0, 1}},
			{Position: [2]float32{10, 0}, Color: [4]float32{0, 1, 0, 1}},
			{Position: [2]float32{0, 10}, Color: [4]float32{0, 0, 1, 1}},
		},
		Indices:    []uint32{0, 1, 2},
		Origin:     origin,
		ClipBounds: clip,
	}
}

func readIndices(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

func TestDrawRebasesIndices(t *testing.T) {
	p, rec := newPipeline(t)
	clip := core.Rect(0, 0, 100, 100)
	meshes := []Mesh{
		triangleMesh(core.Pt(0, 0), clip),
		triangleMesh(core.Pt(50, 0), clip),
	}
	if err := p.Draw(rec, 100, core.Identity(), 1, meshes); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	got := readIndices(rec.Buffer(p.indices)[:6*4])
	want := []uint32{0, 1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}

	verts := gpucore.ReadFloats(rec.Buffer(p.vertices)[:6*VertexSize])
	if verts[3*6+2] != 1 || verts[3*6+0] != 0 {
		t.Errorf("second mesh first vertex = %v", verts[18:24])
	}

	draws := rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(draws))
	}
	for i, d := range draws {
		g := d.Geometry
		if !g.Indexed() || g.Topology != gputypes.PrimitiveTopologyTriangleList {
			t.Errorf("draw %d = %s", i, d)
		}
		if g.Range != (gpucore.DrawRange{Start: uint32(i * 3), Count: 3}) {
			t.Errorf("draw %d range = %+v", i, g.Range)
		}
	}
}

func TestDrawTransformPerMesh(t *testing.T) {
	p, rec := newPipeline(t)
	clip := core.Rect(0, 0, 100, 100)
	meshes := []Mesh{
		triangleMesh(core.Pt(5, 5), clip),
		triangleMesh(core.Pt(5, 5), clip),
		triangleMesh(core.Pt(7, 0), clip),
	}
	if err := p.Draw(rec, 100, core.Identity(), 1, meshes); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	writes := rec.UniformWrites()
	if len(writes) != 2 {
		t.Fatalf("uniform writes = %d, want 2", len(writes))
	}
	if writes[0].Value.M[12] != 5 || writes[1].Value.M[12] != 7 {
		t.Errorf("translations = %g, %g", writes[0].Value.M[12], writes[1].Value.M[12])
	}

	rec.Reset()
	if err := p.Draw(rec, 100, core.Identity(), 1, meshes[2:]); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if n := rec.Count(recording.CmdSetUniform); n != 0 {
		t.Errorf("unchanged transform wrote %d uniforms", n)
	}
}

func TestDrawScissor(t *testing.T) {
	tests := []struct {
		name  string
		scale float32
		clip  core.Rectangle
		want  gpucore.Scissor
	}{
		{"unit scale", 1, core.Rect(10, 20, 100, 50), gpucore.Scissor{X: 10, Y: 530, Width: 100, Height: 50}},
		{"scale 2", 2, core.Rect(10, 20, 100, 50), gpucore.Scissor{X: 20, Y: 460, Width: 200, Height: 100}},
		{"fractional snaps", 1, core.Rect(1.5, 2.5, 10.2, 10.2), gpucore.Scissor{X: 1, Y: 600 - (2 + 11), Width: 11, Height: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rec := newPipeline(t)
			if err := p.Draw(rec, 600, core.Identity(), tt.scale, []Mesh{triangleMesh(core.Pt(0, 0), tt.clip)}); err != nil {
				t.Fatalf("Draw: %v", err)
			}
			got, ok := rec.Draws()[0].Scissor()
			if !ok || got != tt.want {
				t.Errorf("scissor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawOverflow(t *testing.T) {
	p, rec := newPipeline(t)
	big := Mesh{Vertices: make([]Vertex2D, VertexBufferSize+1)}
	err := p.Draw(rec, 100, core.Identity(), 1, []Mesh{big})
	if !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf("err = %v, want ErrBufferOverflow", err)
	}
	if len(rec.Commands()) != 0 {
		t.Errorf("overflowing draw recorded %d commands", len(rec.Commands()))
	}

	split := []Mesh{
		{Vertices: make([]Vertex2D, 3), Indices: make([]uint32, IndexBufferSize/2)},
		{Vertices: make([]Vertex2D, 3), Indices: make([]uint32, IndexBufferSize/2)},
	}
	if err := p.Draw(rec, 100, core.Identity(), 1, split); err != nil {
		t.Errorf("exactly full: %v", err)
	}
}

func TestDrawSkipsEmptyMeshes(t *testing.T) {
	p, rec := newPipeline(t)
	meshes := []Mesh{
		{ClipBounds: core.Rect(0, 0, 10, 10)},
		triangleMesh(core.Pt(0, 0), core.Rect(0, 0, 10, 10)),
	}
	if err := p.Draw(rec, 100, core.Identity(), 1, meshes); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	draws := rec.Draws()
	if len(draws) != 1 || draws[0].Geometry.Range.Start != 0 {
		t.Errorf("draws = %v", draws)
	}
}
