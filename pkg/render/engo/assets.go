// pkg/render/engo/assets.go
package engo

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orbiter/pkg/entity"
)

// Asset keys for sprites that do not come from an entity image name.
const (
	planetFallback = "planet"
	shipFallback   = "ship"
	dockSprite     = "dock"
	particleSprite = "particle"
)

const (
	planetTextureSize   = 128
	dockTextureSize     = 16
	particleTextureSize = 4
)

var planetPalette = []color.NRGBA{
	{90, 160, 220, 255},
	{210, 170, 100, 255},
	{200, 230, 245, 255},
	{220, 140, 80, 255},
	{130, 190, 120, 255},
	{170, 120, 200, 255},
}

// AssetManager builds the sprite images for the world. There are no image
// files: every named image gets a generated shape. Textures are uploaded by
// Load, which needs a GL context.
type AssetManager struct {
	images   map[string]*image.NRGBA
	textures map[string]common.Drawable
}

// NewAssetManager creates the images for the catalogued ship types and the
// planet images named by the world.
func NewAssetManager(catalogue map[string]entity.ShipType, planets []*entity.Planet) *AssetManager {
	am := &AssetManager{
		images:   make(map[string]*image.NRGBA),
		textures: make(map[string]common.Drawable),
	}

	am.images[shipFallback] = shipImage(32, 20)
	for _, st := range catalogue {
		key := st.Image
		if key == "" {
			key = st.ID
		}
		am.images[key] = shipImage(int(math.Ceil(st.Width)), int(math.Ceil(st.Height)))
	}

	am.images[planetFallback] = discImage(planetTextureSize, planetPalette[0])
	for _, p := range planets {
		key := p.Image
		if key == "" {
			key = p.Type
		}
		if _, ok := am.images[key]; !ok {
			am.images[key] = discImage(planetTextureSize, PlanetColor(key))
		}
	}

	am.images[dockSprite] = frameImage(dockTextureSize)
	am.images[particleSprite] = discImage(particleTextureSize, color.NRGBA{255, 255, 255, 255})
	return am
}

// Load uploads every image as a texture.
func (am *AssetManager) Load() error {
	for key, img := range am.images {
		am.textures[key] = common.NewTextureSingle(common.NewImageObject(img))
	}
	return nil
}

// Image returns the generated image for key, or nil.
func (am *AssetManager) Image(key string) *image.NRGBA {
	return am.images[key]
}

// Drawable returns the texture for key, falling back to fallback. Before
// Load it returns nil.
func (am *AssetManager) Drawable(key, fallback string) common.Drawable {
	if d, ok := am.textures[key]; ok {
		return d
	}
	return am.textures[fallback]
}

// Size returns the pixel size of the image for key or fallback.
func (am *AssetManager) Size(key, fallback string) (float64, float64) {
	img, ok := am.images[key]
	if !ok {
		img = am.images[fallback]
	}
	if img == nil {
		return 1, 1
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// PlanetColor picks a stable palette colour for a planet image or type name.
func PlanetColor(name string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	return planetPalette[h.Sum32()%uint32(len(planetPalette))]
}

func blank(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	return img
}

// shipImage draws a white arrowhead pointing along +x.
func shipImage(w, h int) *image.NRGBA {
	img := blank(w, h)
	b := img.Bounds()
	mid := float64(b.Dy()-1) / 2
	for x := 0; x < b.Dx(); x++ {
		// Half height shrinks linearly from the tail to the nose.
		half := mid * (1 - float64(x)/float64(b.Dx()))
		for y := 0; y < b.Dy(); y++ {
			if math.Abs(float64(y)-mid) <= half+0.5 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func discImage(d int, c color.NRGBA) *image.NRGBA {
	img := blank(d, d)
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// frameImage draws a hollow square, the dock outline.
func frameImage(d int) *image.NRGBA {
	img := blank(d, d)
	for i := 0; i < d; i++ {
		for _, p := range [][2]int{{i, 0}, {i, d - 1}, {0, i}, {d - 1, i}} {
			img.SetNRGBA(p[0], p[1], color.NRGBA{200, 200, 200, 255})
		}
	}
	return img
}
