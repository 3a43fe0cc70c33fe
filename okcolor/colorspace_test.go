package okcolor

import (
	"image/color"
	"math"
	"testing"
)

func TestFromColorReference(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want Lab
	}{
		{name: "white", c: color.White, want: Lab{L: 1}},
		{name: "black", c: color.Black, want: Lab{}},
		{name: "red", c: color.RGBA{R: 255, A: 255}, want: Lab{L: 0.627955, A: 0.224863, B: 0.125846}},
	}

	for _, tt := range tests {
		got := FromColor(tt.c)
		if math.Abs(got.L-tt.want.L) > 1e-3 || math.Abs(got.A-tt.want.A) > 1e-3 || math.Abs(got.B-tt.want.B) > 1e-3 {
			t.Errorf("%s: FromColor = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestLabRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{
		{R: 12, G: 200, B: 99, A: 255},
		{R: 250, G: 128, B: 0, A: 255},
		{R: 64, G: 64, B: 64, A: 255},
	} {
		got := color.RGBAModel.Convert(FromColor(c)).(color.RGBA)
		for _, d := range []int{int(got.R) - int(c.R), int(got.G) - int(c.G), int(got.B) - int(c.B)} {
			if d < -1 || d > 1 {
				t.Errorf("round trip of %+v gave %+v", c, got)
				break
			}
		}
	}
}

func TestDist2(t *testing.T) {
	a := FromColor(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if d := a.Dist2(a); d != 0 {
		t.Errorf("Dist2 to self = %v, want 0", d)
	}

	near := FromColor(color.RGBA{R: 12, G: 20, B: 30, A: 255})
	far := FromColor(color.RGBA{R: 200, G: 20, B: 30, A: 255})
	if a.Dist2(near) >= a.Dist2(far) {
		t.Errorf("Expected %+v to be closer than %+v", near, far)
	}
}
