package smelt

import (
	"fmt"
	"image"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	// Map bitmaps may be PNG or BMP.
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// MapEntry assigns a material and temperature to one bitmap color.
type MapEntry struct {
	Material    string  `yaml:"material"`
	Temperature float32 `yaml:"temperature"`
}

// LoadMapKey reads the hex -> cell mapping for a map bitmap. Hex codes are
// uppercased on load so pack authors can't get the casing wrong.
func LoadMapKey(path string) (map[string]MapEntry, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map key: %w", err)
	}

	var raw map[string]MapEntry
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return nil, fmt.Errorf("parse map key %s: %w", path, err)
	}

	key := make(map[string]MapEntry, len(raw))
	for hex, entry := range raw {
		key[strings.ToUpper(hex)] = entry
	}
	return key, nil
}

// PaintMap overlays the staged world with cells read from a bitmap: every
// pixel whose hex code appears in the key paints its material and
// temperature. The bitmap is clamped to the world dimensions; unknown hex
// codes are left alone and unknown material names are skipped with a
// warning.
func PaintMap(next *NextCtx, matDb *MaterialDb, log Logger, imgPath, keyPath string) error {
	key, err := LoadMapKey(keyPath)
	if err != nil {
		return err
	}

	f, err := os.Open(imgPath)
	if err != nil {
		return fmt.Errorf("open map bitmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode map bitmap %s: %w", imgPath, err)
	}

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	for y := 0; y < min(imgH, next.H); y++ {
		for x := 0; x < min(imgW, next.W); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			hex := fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))

			entry, ok := key[hex]
			if !ok {
				continue
			}

			matId, ok := matDb.GetId(entry.Material)
			if !ok {
				log.Warnf("map key %s references unknown material %q, skipping", hex, entry.Material)
				continue
			}

			next.SetMatId(x, y, matId)
			next.SetTemp(x, y, entry.Temperature)
		}
	}

	return nil
}
