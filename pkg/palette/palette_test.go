package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// noisy is a 16x16 image: left half dark red, right half light blue, each
// with small per-pixel variation, and a transparent top row.
func noisy() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 1; y < 16; y++ {
		for x := 0; x < 16; x++ {
			d := uint8((x + y) % 3)
			c := color.NRGBA{R: 180 + d, G: 20 + d, B: 20, A: 255}
			if x >= 8 {
				c = color.NRGBA{R: 60, G: 120 + d, B: 230 - d, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodDominant, false},
		{"dominant", MethodDominant, false},
		{"kmeans", MethodKMeans, false},
		{"median-cut", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtract_InvalidSize(t *testing.T) {
	for _, k := range []int{0, -1, MaxColors + 1} {
		if _, err := Extract(noisy(), k, MethodDominant, 128); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("k=%d: error = %v, want %s", k, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestReduce(t *testing.T) {
	for _, m := range []Method{MethodDominant, MethodKMeans} {
		t.Run(string(m), func(t *testing.T) {
			out, pal, err := Reduce(noisy(), 2, m, 128)
			if err != nil {
				t.Fatalf("Reduce() error: %v", err)
			}
			if len(pal) == 0 || len(pal) > 2 {
				t.Fatalf("palette size = %d, want 1..2", len(pal))
			}

			seen := map[color.NRGBA]bool{}
			for y := 0; y < 16; y++ {
				for x := 0; x < 16; x++ {
					c := out.NRGBAAt(x, y)
					if y == 0 {
						if c.A != 0 {
							t.Fatalf("transparent pixel (%d,0) became %v", x, c)
						}
						continue
					}
					if c.A != 255 {
						t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, c.A)
					}
					seen[c] = true
				}
			}
			if len(seen) > len(pal) {
				t.Errorf("distinct colors = %d, want at most %d", len(seen), len(pal))
			}
		})
	}
}

func TestReduce_SeparatesRegions(t *testing.T) {
	out, _, err := Reduce(noisy(), 2, MethodDominant, 128)
	if err != nil {
		t.Fatal(err)
	}
	left, right := out.NRGBAAt(2, 5), out.NRGBAAt(12, 5)
	if left == right {
		t.Errorf("both halves snapped to %v", left)
	}
	if left.R < left.B {
		t.Errorf("left half snapped to %v, want a red", left)
	}
	if right.B < right.R {
		t.Errorf("right half snapped to %v, want a blue", right)
	}
}

func TestReduce_KeepsTranslucentAlpha(t *testing.T) {
	img := noisy()
	img.SetNRGBA(3, 3, color.NRGBA{R: 181, G: 21, B: 20, A: 200})
	out, _, err := Reduce(img, 2, MethodDominant, 128)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.NRGBAAt(3, 3).A, uint8(200); got != want {
		t.Errorf("alpha = %d, want %d", got, want)
	}
}
