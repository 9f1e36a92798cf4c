package core

import (
	"testing"

	"github.com/chewxy/math32"
)

func approxPoint(a, b Point) bool {
	return math32.Abs(a.X-b.X) < 1e-5 && math32.Abs(a.Y-b.Y) < 1e-5
}

func TestOrthographicCorners(t *testing.T) {
	p := Orthographic(800, 600)
	tests := []struct {
		in, want Point
	}{
		{Pt(0, 0), Pt(-1, 1)},
		{Pt(800, 600), Pt(1, -1)},
		{Pt(400, 300), Pt(0, 0)},
	}
	for _, tt := range tests {
		if got := p.Apply(tt.in); !approxPoint(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransformationMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 20).Mul(Scale(2, 2))
	if got := m.Apply(Pt(1, 1)); !approxPoint(got, Pt(12, 22)) {
		t.Errorf("got %v, want (12, 22)", got)
	}

	if Identity().Mul(m) != m || m.Mul(Identity()) != m {
		t.Error("identity is not neutral")
	}
}

func TestProjectionTimesScale(t *testing.T) {
	// A logical point at scale 2 lands where its physical twin does.
	proj := Orthographic(1600, 1200)
	m := proj.Mul(Scale(2, 2))
	if got, want := m.Apply(Pt(400, 300)), proj.Apply(Pt(800, 600)); !approxPoint(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
