package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"testing"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// halves is a w x h image, red on the left half and blue on the right.
func halves(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"bare", `<svg xmlns="http://www.w3.org/2000/svg"/>`, true},
		{"declaration", "<?xml version=\"1.0\"?>\n<svg/>", true},
		{"leading whitespace", "\n\t <svg/>", true},
		{"bom", "\xef\xbb\xbf<svg/>", true},
		{"doctype", `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "x"><svg/>`, true},
		{"png magic", "\x89PNG\r\n\x1a\n", false},
		{"html", "<html><body></body></html>", false},
		{"text mentioning svg", "hello <svg", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSVG([]byte(tt.src)); got != tt.want {
				t.Errorf("IsSVG(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	out, err := Nearest(halves(40, 20), 10)
	if err != nil {
		t.Fatalf("Nearest() error: %v", err)
	}
	if got, want := out.Bounds().Size(), image.Pt(10, 5); got != want {
		t.Fatalf("size = %v, want %v", got, want)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			want := color.NRGBA{R: 255, A: 255}
			if x >= 5 {
				want = color.NRGBA{B: 255, A: 255}
			}
			if got := out.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNearest_HeightRoundsDown(t *testing.T) {
	out, err := Nearest(halves(30, 20), 20)
	if err != nil {
		t.Fatal(err)
	}
	// 20 * 20 / 30 = 13.33
	if got, want := out.Bounds().Dy(), 13; got != want {
		t.Errorf("height = %d, want %d", got, want)
	}
}

func TestNearest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		img   image.Image
		width int
	}{
		{"zero width", halves(4, 4), 0},
		{"too wide", halves(4, 4), errors.MaxGridSide + 1},
		{"empty source", image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4},
		{"flat source", halves(100, 1), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Nearest(tt.img, tt.width); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Nearest() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestImageRasterizer(t *testing.T) {
	src := encodePNG(t, halves(8, 8))
	img, err := ImageRasterizer{}.Rasterize(context.Background(), src, 4)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	if got, want := img.Bounds().Size(), image.Pt(4, 4); got != want {
		t.Errorf("size = %v, want %v", got, want)
	}
}

func TestImageRasterizer_Errors(t *testing.T) {
	_, err := ImageRasterizer{}.Rasterize(context.Background(), []byte("not an image"), 4)
	if !errors.Is(err, errors.ErrCodeRasterize) {
		t.Errorf("garbage error = %v, want %s", err, errors.ErrCodeRasterize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (ImageRasterizer{}).Rasterize(ctx, encodePNG(t, halves(2, 2)), 2); err == nil {
		t.Error("cancelled context: expected error")
	}
}

func TestAuto(t *testing.T) {
	var calls []string
	fake := func(name string) Rasterizer {
		return Func(func(context.Context, []byte, int) (image.Image, error) {
			calls = append(calls, name)
			return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
		})
	}
	a := Auto{SVG: fake("svg"), Image: fake("image")}

	ctx := context.Background()
	if _, err := a.Rasterize(ctx, []byte("<svg/>"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Rasterize(ctx, encodePNG(t, halves(2, 2)), 1); err != nil {
		t.Fatal(err)
	}
	if got, want := calls, []string{"svg", "image"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("calls = %v, want %v", got, want)
	}

	if _, err := (Auto{}).Rasterize(ctx, []byte("<svg/>"), 1); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("missing backend error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestSVGRasterizer_MissingBinary(t *testing.T) {
	r := &SVGRasterizer{Binary: "blockify-no-such-converter"}
	_, err := r.Rasterize(context.Background(), []byte("<svg/>"), 4)
	if !errors.Is(err, errors.ErrCodeRasterize) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeRasterize)
	}
}

func TestSVGRasterizer(t *testing.T) {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	src := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20">
  <rect x="0" y="0" width="20" height="20" fill="#ff0000"/>
  <rect x="20" y="0" width="20" height="20" fill="#0000ff"/>
</svg>`)

	img, err := (&SVGRasterizer{}).Rasterize(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	if got, want := img.Bounds().Size(), image.Pt(10, 5); got != want {
		t.Errorf("size = %v, want %v", got, want)
	}
	r, _, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 255 || b>>8 != 0 {
		t.Errorf("left pixel not red: r=%d b=%d", r>>8, b>>8)
	}
}
