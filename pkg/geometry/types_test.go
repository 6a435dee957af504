package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitInto(t *testing.T) {
	tests := []struct {
		name string
		src  Size
		dst  Size
		want float64
	}{
		{"landscape into portrait page", Size{1000, 500}, Size{210, 297}, 0.21},
		{"exact fit", Size{210, 297}, Size{210, 297}, 1},
		{"upscale", Size{100, 100}, Size{210, 297}, 2.1},
		{"tall source", Size{100, 400}, Size{210, 297}, 0.7425},
		{"degenerate source", Size{0, 100}, Size{210, 297}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitInto(tt.src, tt.dst)
			if !almostEqual(got, tt.want) {
				t.Errorf("FitInto(%v, %v) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestCenterIn(t *testing.T) {
	got := CenterIn(Size{210, 105}, NewRect(0, 0, 210, 297))
	want := Rect{X: 0, Y: 96, Width: 210, Height: 105}
	if got != want {
		t.Errorf("CenterIn() = %+v, want %+v", got, want)
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 4, 4), NewRect(2, 2, 4, 4)},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 5, 5), NewRect(20, 20, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got != tt.want {
				t.Errorf("Intersect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	if !r.Contains(Point2D{X: 15, Y: 15}) {
		t.Error("Contains() = false for interior point")
	}
	if !r.Contains(Point2D{X: 10, Y: 10}) {
		t.Error("Contains() = false for corner point")
	}
	if r.Contains(Point2D{X: 31, Y: 15}) {
		t.Error("Contains() = true for exterior point")
	}
}

func TestAffineInverseRoundTrip(t *testing.T) {
	transforms := []struct {
		name string
		t    AffineTransform
	}{
		{"identity", Identity()},
		{"translation", Translation(12, -5)},
		{"rotation", Rotation(math.Pi / 3)},
		{"rotation around point", RotationAround(math.Pi/4, 50, 70)},
		{"composed", Translation(3, 4).Compose(Rotation(1.1))},
	}

	p := Point2D{X: 17, Y: 23}
	for _, tt := range transforms {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.t.Inverse()
			if !ok {
				t.Fatal("Inverse() not invertible")
			}
			back := inv.Apply(tt.t.Apply(p))
			if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
				t.Errorf("round trip = %+v, want %+v", back, p)
			}
		})
	}
}

func TestAffineInverseSingular(t *testing.T) {
	singular := AffineTransform{} // zero matrix
	if _, ok := singular.Inverse(); ok {
		t.Error("Inverse() = ok for singular matrix")
	}
}

func TestRotationAroundFixedPoint(t *testing.T) {
	tr := RotationAround(math.Pi/2, 10, 10)
	got := tr.Apply(Point2D{X: 10, Y: 10})
	if !almostEqual(got.X, 10) || !almostEqual(got.Y, 10) {
		t.Errorf("rotation center moved to %+v", got)
	}
}
