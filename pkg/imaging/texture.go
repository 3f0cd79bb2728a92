package imaging

import (
	"image"

	"github.com/helmcode/triage-ai/pkg/model"
)

// Canny hysteresis thresholds on the L1 gradient magnitude.
const (
	cannyLow  = 50
	cannyHigh = 150
)

// tan(22.5°) and tan(67.5°) split gradient directions into four sectors.
const (
	tan22 = 0.41421356237309503
	tan67 = 2.414213562373095
)

// grayPlane is an 8-bit single channel image stored row-major.
type grayPlane struct {
	w, h int
	pix  []uint8
}

func (g *grayPlane) at(x, y int) uint8 {
	return g.pix[y*g.w+x]
}

// clampedAt reads with replicated borders.
func (g *grayPlane) clampedAt(x, y int) int {
	x = min(max(x, 0), g.w-1)
	y = min(max(y, 0), g.h-1)
	return int(g.pix[y*g.w+x])
}

// grayscale applies the BT.601 luma weights in 14-bit fixed point.
func grayscale(img *image.RGBA) *grayPlane {
	b := img.Bounds()
	g := &grayPlane{w: b.Dx(), h: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < g.h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < g.w; x++ {
			r, gr, bl := int(row[x*4]), int(row[x*4+1]), int(row[x*4+2])
			g.pix[y*g.w+x] = uint8((r*4899 + gr*9617 + bl*1868 + 8192) >> 14)
		}
	}
	return g
}

func textureStats(g *grayPlane) model.TextureStats {
	n := float64(len(g.pix))
	var sum, sum2 float64
	for _, p := range g.pix {
		f := float64(p)
		sum += f
		sum2 += f * f
	}
	mean := sum / n
	variance := sum2/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	edges := 0
	for _, e := range canny(g, cannyLow, cannyHigh) {
		if e {
			edges++
		}
	}
	density := float64(edges) / n * 100

	return model.TextureStats{
		Variance:    variance,
		EdgeDensity: density,
		Smoothness:  100 - density,
	}
}

// canny returns an edge mask using 3x3 Sobel gradients, non-maximum
// suppression and hysteresis between low and high.
func canny(g *grayPlane, low, high int) []bool {
	w, h := g.w, g.h
	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]int, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, t, tr := g.clampedAt(x-1, y-1), g.clampedAt(x, y-1), g.clampedAt(x+1, y-1)
			l, r := g.clampedAt(x-1, y), g.clampedAt(x+1, y)
			bl, bm, br := g.clampedAt(x-1, y+1), g.clampedAt(x, y+1), g.clampedAt(x+1, y+1)

			dx := (tr + 2*r + br) - (tl + 2*l + bl)
			dy := (bl + 2*bm + br) - (tl + 2*t + tr)
			i := y*w + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	// magnitude outside the image is zero
	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}
			ax, ay := float64(abs(gx[i])), float64(abs(gy[i]))

			var keep bool
			switch {
			case ay < ax*tan22:
				keep = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tan67:
				keep = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (gx[i] < 0) != (gy[i] < 0) {
					s = -1
				}
				keep = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !keep {
				continue
			}
			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	out := make([]bool, w*h)
	for i, s := range state {
		out[i] = s == strong
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
