package smelt

import "math/rand"

// harmonicMean is the conductance of an edge between two diffusivities.
// A zero-diffusivity neighbor blocks heat flow completely.
func harmonicMean(a, b float32) float32 {
	s := a + b
	if s == 0 {
		return 0
	}
	return (2 * a * b) / s
}

// ThermalDiffusion computes per-cell temperature deltas from the
// temperature differences across cell edges, weighted by per-edge
// conductances. The conductance tables persist between ticks and are
// refreshed incrementally in PostRun from the cells that changed material.
type ThermalDiffusion struct {
	rng *rand.Rand

	w, h int

	// gx holds the conductance of the horizontal edge between (x,y) and
	// (x+1,y); gy the vertical edge between (x,y) and (x,y+1).
	gx []float32
	gy []float32

	delta []float32
}

func NewThermalDiffusion(curr *CurrCtx, seed int64) *ThermalDiffusion {
	w, h := curr.W, curr.H
	matIds := curr.MatIds()
	diffOf := curr.MatDb.DiffusivityLookup()

	m := &ThermalDiffusion{
		rng:   rand.New(rand.NewSource(seed)),
		w:     w,
		h:     h,
		gx:    make([]float32, (w-1)*h),
		gy:    make([]float32, w*(h-1)),
		delta: make([]float32, w*h),
	}

	// Initial state: every edge computed from the current material grid.
	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			i0 := y*w + x
			d0 := diffOf[matIds[i0]]
			d1 := diffOf[matIds[i0+1]]
			m.gx[gxIndex(x, y, w)] = harmonicMean(d0, d1)
		}
	}
	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			i0 := y*w + x
			d0 := diffOf[matIds[i0]]
			d1 := diffOf[matIds[i0+w]]
			m.gy[gyIndex(x, y, w)] = harmonicMean(d0, d1)
		}
	}

	return m
}

func gxIndex(x, y, w int) int { return y*(w-1) + x }
func gyIndex(x, y, w int) int { return y*w + x }

func (m *ThermalDiffusion) Name() string { return "ThermalDiffusion" }

func (m *ThermalDiffusion) ApplyConfig(cfg *Config) error { return nil }

func (m *ThermalDiffusion) Run(curr *CurrCtx) Output {
	w, h := curr.W, curr.H
	temps := curr.Temps()

	delta := m.delta
	for i := range delta {
		delta[i] = 0
	}

	// Missing neighbors contribute nothing: the boundary is open, no
	// exchange. The randomized scan has no effect on the sums; it is kept
	// for parity with the intent-producing modules.
	randIterDir(m.rng, w, h, func(x, y int) {
		i := y*w + x
		t := temps[i]

		var flux float32

		if y > 0 {
			flux += m.gy[gyIndex(x, y-1, w)] * (temps[i-w] - t)
		}
		if y+1 < h {
			flux += m.gy[gyIndex(x, y, w)] * (temps[i+w] - t)
		}
		if x > 0 {
			flux += m.gx[gxIndex(x-1, y, w)] * (temps[i-1] - t)
		}
		if x+1 < w {
			flux += m.gx[gxIndex(x, y, w)] * (temps[i+1] - t)
		}

		delta[i] += flux
	})

	return Output{DeltaTemp: delta}
}

// PostRun refreshes the four edges incident to every changed cell from the
// next-frame material ids. Material changes are the only way a conductance
// can change, so the incremental update is exact.
func (m *ThermalDiffusion) PostRun(post *PostRunCtx, changedCells []int) {
	diffOf := post.MatDb.DiffusivityLookup()
	matIds := post.NextCellMatIds
	for _, i := range changedCells {
		m.updateConductanceLocal(i, diffOf, matIds)
	}
}

func (m *ThermalDiffusion) updateConductanceLocal(i int, diffOf []float32, matIds []MaterialId) {
	w, h := m.w, m.h
	x, y := i%w, i/w
	d := diffOf[matIds[i]]

	if y > 0 {
		dn := diffOf[matIds[i-w]]
		m.gy[gyIndex(x, y-1, w)] = harmonicMean(d, dn)
	}
	if y+1 < h {
		ds := diffOf[matIds[i+w]]
		m.gy[gyIndex(x, y, w)] = harmonicMean(d, ds)
	}
	if x > 0 {
		dw := diffOf[matIds[i-1]]
		m.gx[gxIndex(x-1, y, w)] = harmonicMean(d, dw)
	}
	if x+1 < w {
		de := diffOf[matIds[i+1]]
		m.gx[gxIndex(x, y, w)] = harmonicMean(d, de)
	}
}
