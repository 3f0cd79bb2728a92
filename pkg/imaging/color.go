package imaging

import (
	"image"
	"math"

	"github.com/helmcode/triage-ai/pkg/model"
)

// Red hue band in 8-bit HSV (hue 0..179).
const (
	redHueMax = 10
	redSatMin = 50
	redValMin = 50
)

// hsv converts an 8-bit RGB triple to 8-bit HSV with hue halved into 0..179,
// saturation and value in 0..255.
func hsv(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	maxC := max(ri, gi, bi)
	minC := min(ri, gi, bi)
	diff := maxC - minC

	v = uint8(maxC)
	if maxC == 0 {
		return 0, 0, v
	}
	s = uint8(math.Floor(255*float64(diff)/float64(maxC) + 0.5))
	if diff == 0 {
		return 0, s, v
	}

	var hp int
	switch maxC {
	case ri:
		hp = gi - bi
	case gi:
		hp = bi - ri + 2*diff
	default:
		hp = ri - gi + 4*diff
	}
	hv := int(math.Floor(30*float64(hp)/float64(diff) + 0.5))
	if hv < 0 {
		hv += 180
	}
	if hv >= 180 {
		hv -= 180
	}
	return uint8(hv), s, v
}

func isRed(h, s, v uint8) bool {
	return h <= redHueMax && s >= redSatMin && v >= redValMin
}

func colorStats(img *image.RGBA) model.ColorStats {
	b := img.Bounds()
	n := float64(b.Dx() * b.Dy())

	var sumH, sumS, sumV, sumH2 float64
	red := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+3]
			h, s, v := hsv(p[0], p[1], p[2])
			fh := float64(h)
			sumH += fh
			sumH2 += fh * fh
			sumS += float64(s)
			sumV += float64(v)
			if isRed(h, s, v) {
				red++
			}
		}
	}

	meanH := sumH / n
	return model.ColorStats{
		MeanHue:         meanH,
		MeanSaturation:  sumS / n,
		MeanBrightness:  sumV / n,
		RedPercentage:   float64(red) / n * 100,
		ColorUniformity: math.Sqrt(math.Max(sumH2/n-meanH*meanH, 0)),
	}
}
