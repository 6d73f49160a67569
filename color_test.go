package canvasrender

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}, false},
		{"00ff00", color.RGBA{G: 0xff, A: 0xff}, false},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, false},
		{"#11223344", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, false},
		{" #000000 ", color.RGBA{A: 0xff}, false},
		{"", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMustParseHexColorPanics(t *testing.T) {
	mustPanic(t, "MustParseHexColor", func() { MustParseHexColor("nope") })
}

func TestIsTransparent(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want bool
	}{
		{"nil", nil, true},
		{"zero alpha", color.RGBA{}, true},
		{"opaque", testRed, false},
		{"translucent", color.NRGBA{R: 0xff, A: 1}, false},
	}
	for _, tt := range tests {
		if got := isTransparent(tt.c); got != tt.want {
			t.Errorf("%s: isTransparent = %v, want %v", tt.name, got, tt.want)
		}
	}
}
