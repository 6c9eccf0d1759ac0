package palette

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// Method selects how palette colors are extracted.
type Method string

const (
	// MethodDominant uses dominant color extraction. It is deterministic.
	MethodDominant Method = "dominant"
	// MethodKMeans clusters the opaque pixels with k-means. Cluster seeding
	// is random, so repeated runs may pick slightly different colors.
	MethodKMeans Method = "kmeans"
)

// ParseMethod validates s. The empty string selects MethodDominant.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodDominant:
		return MethodDominant, nil
	case MethodKMeans:
		return MethodKMeans, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid palette method: %q (must be dominant or kmeans)", s)
	}
}

func (m Method) String() string { return string(m) }

// Set implements pflag.Value.
func (m *Method) Set(s string) error {
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Method) Type() string { return "method" }

// MaxColors bounds the palette size.
const MaxColors = 64

const maxSamples = 12000

// Extract returns up to k representative colors of the pixels of img whose
// alpha is at least minAlpha.
func Extract(img image.Image, k int, method Method, minAlpha uint8) ([]colorful.Color, error) {
	if k <= 0 || k > MaxColors {
		return nil, errors.New(errors.ErrCodeInvalidInput, "palette size must be between 1 and %d (got %d)", MaxColors, k)
	}
	opaque := opaqueOnly(img, minAlpha)

	switch method {
	case MethodKMeans:
		if p := kmeansPalette(opaque, k); len(p) > 0 {
			return p, nil
		}
		return dominantPalette(opaque, k), nil
	case MethodDominant, "":
		return dominantPalette(opaque, k), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid palette method: %q", string(method))
	}
}

// Reduce snaps every pixel of img with alpha at least minAlpha to its nearest
// palette color in CIE Lab. Alpha is kept; pixels below minAlpha are copied
// unchanged.
func Reduce(img image.Image, k int, method Method, minAlpha uint8) (*image.NRGBA, []colorful.Color, error) {
	pal, err := Extract(img, k, method, minAlpha)
	if err != nil {
		return nil, nil, err
	}

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if len(pal) == 0 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
			}
		}
		return out, nil, nil
	}

	nearest := make(map[color.NRGBA]color.NRGBA)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A >= minAlpha {
				key := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
				snapped, ok := nearest[key]
				if !ok {
					snapped = snap(key, pal)
					nearest[key] = snapped
				}
				c.R, c.G, c.B = snapped.R, snapped.G, snapped.B
			}
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out, pal, nil
}

func snap(c color.NRGBA, pal []colorful.Color) color.NRGBA {
	src, _ := colorful.MakeColor(c)
	best, bestD := 0, math.MaxFloat64
	for i, p := range pal {
		if d := src.DistanceLab(p); d < bestD {
			best, bestD = i, d
		}
	}
	r, g, b := pal[best].Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// opaqueOnly returns img with pixels below minAlpha made fully transparent
// and all others fully opaque, so the extractors only see visible colors.
func opaqueOnly(img image.Image, minAlpha uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < minAlpha {
				continue
			}
			c.A = 255
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out
}

type weighted struct {
	col colorful.Color
	w   float64
}

func dominantPalette(img *image.NRGBA, k int) []colorful.Color {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]weighted, 0, len(found))
	for _, c := range found {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		cands = append(cands, weighted{col: col.Clamped(), w: max(c.Weight, 1e-6)})
	}
	return diverse(cands, k)
}

func kmeansPalette(img *image.NRGBA, k int) []colorful.Color {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	step := 1
	if n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}

	var data clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := img.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			data = append(data, clusters.Coordinates{
				float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255,
			})
		}
	}
	if len(data) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(data, min(max(k*4, k+2), len(data)))
	if err != nil {
		return nil
	}
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	cands := make([]weighted, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		cands = append(cands, weighted{col: col, w: float64(len(c.Observations))})
	}
	return diverse(cands, k)
}

// diverse picks k colors from cands: the heaviest first, then repeatedly the
// candidate farthest in Lab from everything picked so far, favoring heavier
// candidates.
func diverse(cands []weighted, k int) []colorful.Color {
	if len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	maxW := 0.0
	seed := 0
	for i, c := range cands {
		if c.w > maxW {
			maxW, seed = c.w, i
		}
	}

	picked := []int{seed}
	taken := make([]bool, len(cands))
	taken[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if taken[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				nearest = min(nearest, c.col.DistanceLab(cands[p].col))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(c.w/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, p := range picked {
		out[i] = cands[p].col
	}
	return out
}
