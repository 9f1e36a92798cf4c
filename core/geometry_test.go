package core

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestRectangleIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rectangle
		want Rectangle
		ok   bool
	}{
		{"overlap", Rect(0, 0, 100, 100), Rect(50, 50, 100, 100), Rect(50, 50, 50, 50), true},
		{"contained", Rect(0, 0, 100, 100), Rect(10, 20, 30, 40), Rect(10, 20, 30, 40), true},
		{"touching edges", Rect(0, 0, 10, 10), Rect(10, 0, 10, 10), Rectangle{}, false},
		{"disjoint", Rect(0, 0, 10, 10), Rect(20, 20, 5, 5), Rectangle{}, false},
		{"infinite", Rect(0, 0, math32.Inf(1), math32.Inf(1)), Rect(5, 5, 5, 5), Rect(5, 5, 5, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersection(tt.b)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectangleSnap(t *testing.T) {
	tests := []struct {
		r    Rectangle
		want URect
	}{
		{Rect(20, 40, 200, 100), URect{20, 40, 200, 100}},
		{Rect(1.7, 2.2, 10.1, 10.9), URect{1, 2, 11, 11}},
		{Rect(-5, -1, 10, 10), URect{0, 0, 10, 10}},
		{Rect(0, 0, 0, 0), URect{}},
	}
	for _, tt := range tests {
		if got := tt.r.Snap(); got != tt.want {
			t.Errorf("%v.Snap() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestURectFlipY(t *testing.T) {
	r := URect{X: 20, Y: 40, Width: 200, Height: 100}
	x, y, w, h := r.FlipY(1200)
	if x != 20 || y != 1060 || w != 200 || h != 100 {
		t.Errorf("FlipY = (%d, %d, %d, %d), want (20, 1060, 200, 100)", x, y, w, h)
	}

	x, y, _, _ = URect{Width: 10, Height: 600}.FlipY(600)
	if x != 0 || y != 0 {
		t.Errorf("full height FlipY origin = (%d, %d), want (0, 0)", x, y)
	}
}

func TestRectangleContainsAndCenter(t *testing.T) {
	r := Rect(10, 10, 20, 10)
	if c := r.Center(); c != Pt(20, 15) {
		t.Errorf("Center = %v", c)
	}
	if !r.Contains(Pt(10, 10)) || !r.Contains(Pt(30, 20)) {
		t.Error("edges should be inside")
	}
	if r.Contains(Pt(31, 15)) {
		t.Error("point outside reported inside")
	}
}

func TestPointDistance(t *testing.T) {
	if d := Pt(0, 0).Distance(Pt(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if v := Pt(5, 7).Sub(Pt(2, 3)); v != (Vector{3, 4}) {
		t.Errorf("Sub = %v", v)
	}
}
