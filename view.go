package smelt

import "github.com/go-gl/mathgl/mgl32"

// ViewMode selects how a snapshot is rasterized for observers.
type ViewMode int32

const (
	// ViewMaterial paints each cell with its material color.
	ViewMaterial ViewMode = iota
	// ViewThermal paints each cell on a cold/hot ramp centered at zero.
	ViewThermal
)

// Frame is one observer payload: the world rasterized to RGBA bytes.
// Pixels is row-major, four bytes per cell.
type Frame struct {
	Tick   uint64 `json:"tick"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	View   string `json:"view"`
	Pixels []byte `json:"pixels"`
}

var (
	thermalCold = mgl32.Vec3{0.13, 0.25, 0.85}
	thermalMid  = mgl32.Vec3{0.06, 0.06, 0.08}
	thermalHot  = mgl32.Vec3{0.95, 0.35, 0.10}
)

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// thermalColor maps a temperature to the ramp. viewRange is the temperature
// magnitude shown at full saturation.
func thermalColor(temp, viewRange float32) mgl32.Vec3 {
	t := mgl32.Clamp(temp/viewRange, -1, 1)
	if t < 0 {
		return lerpVec3(thermalMid, thermalCold, -t)
	}
	return lerpVec3(thermalMid, thermalHot, t)
}

// EncodeFrame rasterizes a snapshot. The snapshot is immutable, so this is
// safe to call from any observer goroutine.
func EncodeFrame(snap *Snapshot, matDb *MaterialDb, mode ViewMode, thermalRange float32, tick uint64) *Frame {
	frame := &Frame{
		Tick:   tick,
		W:      snap.W,
		H:      snap.H,
		Pixels: make([]byte, snap.W*snap.H*4),
	}

	switch mode {
	case ViewThermal:
		frame.View = "thermal"
		for i, temp := range snap.CellTemps {
			c := thermalColor(temp, thermalRange)
			frame.Pixels[i*4+0] = uint8(mgl32.Clamp(c.X(), 0, 1) * 255)
			frame.Pixels[i*4+1] = uint8(mgl32.Clamp(c.Y(), 0, 1) * 255)
			frame.Pixels[i*4+2] = uint8(mgl32.Clamp(c.Z(), 0, 1) * 255)
			frame.Pixels[i*4+3] = 255
		}

	default:
		frame.View = "material"
		for i, id := range snap.CellMatIds {
			mat := matDb.Get(id)
			if mat == nil {
				continue
			}
			frame.Pixels[i*4+0] = mat.ColorRaw[0]
			frame.Pixels[i*4+1] = mat.ColorRaw[1]
			frame.Pixels[i*4+2] = mat.ColorRaw[2]
			frame.Pixels[i*4+3] = mat.ColorRaw[3]
		}
	}

	return frame
}
