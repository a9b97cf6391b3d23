package palette

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// hueBuckets splits the hue circle into 10 degree slices
	hueBuckets = 36

	// maxSamples bounds the pixels inspected per image
	maxSamples = 65536

	// minChroma separates chromatic pixels from greys
	minChroma = 0.12
)

// role is one named color derived from the seed. Lightness differs per
// theme; hue is the seed hue plus HueShift unless FixedHue is set.
type role struct {
	Name     string
	HueShift float64
	FixedHue float64
	Fixed    bool
	// Chroma scales the seed chroma; MinChroma and MaxChroma clamp the result
	Chroma    float64
	MinChroma float64
	MaxChroma float64
	Dark      float64
	Light     float64
}

var roles = []role{
	{Name: "primary", Chroma: 1, MinChroma: 0.35, MaxChroma: 0.9, Dark: 0.80, Light: 0.40},
	{Name: "on_primary", Chroma: 0.3, MaxChroma: 0.25, Dark: 0.20, Light: 0.99},
	{Name: "primary_container", Chroma: 0.5, MinChroma: 0.15, MaxChroma: 0.4, Dark: 0.30, Light: 0.90},
	{Name: "on_primary_container", Chroma: 0.3, MaxChroma: 0.2, Dark: 0.90, Light: 0.10},
	{Name: "secondary", Chroma: 0.5, MinChroma: 0.15, MaxChroma: 0.4, Dark: 0.75, Light: 0.42},
	{Name: "on_secondary", Chroma: 0.2, MaxChroma: 0.15, Dark: 0.20, Light: 0.99},
	{Name: "tertiary", HueShift: 60, Chroma: 0.7, MinChroma: 0.25, MaxChroma: 0.6, Dark: 0.78, Light: 0.42},
	{Name: "on_tertiary", HueShift: 60, Chroma: 0.2, MaxChroma: 0.15, Dark: 0.20, Light: 0.99},
	{Name: "background", Chroma: 0.05, MaxChroma: 0.04, Dark: 0.10, Light: 0.97},
	{Name: "on_background", Chroma: 0.05, MaxChroma: 0.03, Dark: 0.90, Light: 0.12},
	{Name: "surface", Chroma: 0.06, MaxChroma: 0.05, Dark: 0.13, Light: 0.94},
	{Name: "on_surface", Chroma: 0.05, MaxChroma: 0.03, Dark: 0.90, Light: 0.12},
	{Name: "surface_variant", Chroma: 0.1, MaxChroma: 0.08, Dark: 0.30, Light: 0.88},
	{Name: "on_surface_variant", Chroma: 0.1, MaxChroma: 0.08, Dark: 0.80, Light: 0.30},
	{Name: "outline", Chroma: 0.1, MaxChroma: 0.08, Dark: 0.60, Light: 0.50},
	{Name: "error", Fixed: true, FixedHue: 25, MinChroma: 0.6, MaxChroma: 0.6, Dark: 0.80, Light: 0.45},
	{Name: "on_error", Fixed: true, FixedHue: 25, MinChroma: 0.3, MaxChroma: 0.3, Dark: 0.20, Light: 0.99},
}

// Material derives a Material-style scheme from the dominant hue of an image
type Material struct {
	fs types.FS
}

// NewMaterial creates the default Provider, reading images through fsys
func NewMaterial(fsys types.FS) *Material {
	return &Material{fs: fsys}
}

// Derive decodes the PNG, JPEG or GIF at wallpaper and builds the role
// colors for theme as #rrggbb strings.
func (m *Material) Derive(wallpaper string, theme types.Theme) (types.VariableMapping, error) {
	logger := logging.GetLogger("palette")

	if theme != types.ThemeDark && theme != types.ThemeLight {
		return nil, errors.Newf(errors.ErrPaletteExtraction, "unsupported theme %q (expected %q or %q)", theme, types.ThemeDark, types.ThemeLight).
			WithDetail("theme", string(theme))
	}

	data, err := m.fs.ReadFile(wallpaper)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPaletteExtraction, "cannot read wallpaper %s", wallpaper).
			WithDetail("wallpaper", wallpaper)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPaletteExtraction, "cannot decode wallpaper %s", wallpaper).
			WithDetail("wallpaper", wallpaper)
	}

	seed, ok := Seed(img)
	if !ok {
		return nil, errors.Newf(errors.ErrPaletteExtraction, "wallpaper %s has no opaque pixels", wallpaper).
			WithDetail("wallpaper", wallpaper)
	}

	vars := Scheme(seed, theme)
	vars[types.VarWallpaper] = wallpaper
	vars[types.VarTheme] = string(theme)

	logger.Debug().
		Str("wallpaper", wallpaper).
		Str("format", format).
		Str("seed", vars["seed"]).
		Str("theme", string(theme)).
		Msg("Palette derived")
	return vars, nil
}

// Seed picks the representative color of img: the Lab mean of the most
// populated chromatic hue bucket, weighted by chroma. Images without
// chromatic pixels fall back to the mean of all pixels. It returns false
// when every pixel is transparent.
func Seed(img image.Image) (colorful.Color, bool) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return colorful.Color{}, false
	}
	stride := int(math.Ceil(math.Sqrt(float64(total) / maxSamples)))
	if stride < 1 {
		stride = 1
	}

	type bucket struct {
		weight  float64
		l, a, b float64
	}
	var buckets [hueBuckets]bucket
	var all bucket

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, a, b := c.Lab()
			all.weight++
			all.l, all.a, all.b = all.l+l, all.a+a, all.b+b

			h, chroma, _ := c.Hcl()
			if chroma < minChroma {
				continue
			}
			i := int(h/(360.0/hueBuckets)) % hueBuckets
			buckets[i].weight += chroma
			buckets[i].l += l * chroma
			buckets[i].a += a * chroma
			buckets[i].b += b * chroma
		}
	}

	if all.weight == 0 {
		return colorful.Color{}, false
	}

	best := -1
	for i := range buckets {
		if buckets[i].weight > 0 && (best < 0 || buckets[i].weight > buckets[best].weight) {
			best = i
		}
	}
	if best < 0 {
		return colorful.Lab(all.l/all.weight, all.a/all.weight, all.b/all.weight).Clamped(), true
	}

	w := buckets[best].weight
	return colorful.Lab(buckets[best].l/w, buckets[best].a/w, buckets[best].b/w).Clamped(), true
}

// Scheme derives every role from seed for theme
func Scheme(seed colorful.Color, theme types.Theme) types.VariableMapping {
	hue, chroma, _ := seed.Hcl()

	vars := types.VariableMapping{"seed": seed.Hex()}
	for _, r := range roles {
		h := math.Mod(hue+r.HueShift, 360)
		if r.Fixed {
			h = r.FixedHue
		}
		c := clamp(chroma*r.Chroma, r.MinChroma, r.MaxChroma)
		l := r.Dark
		if theme == types.ThemeLight {
			l = r.Light
		}
		vars[r.Name] = inGamut(h, c, l).Hex()
	}
	return vars
}

// inGamut lowers chroma until the color fits sRGB, keeping hue and lightness
func inGamut(h, c, l float64) colorful.Color {
	col := colorful.Hcl(h, c, l)
	for c > 0 && !col.IsValid() {
		c = math.Max(0, c-0.01)
		col = colorful.Hcl(h, c, l)
	}
	return col.Clamped()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
