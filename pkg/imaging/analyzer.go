// Package imaging derives color, texture and shape statistics from an image
// and combines them into a severity score with a fixed additive rule.
package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/rules"
)

const (
	findingInflammation = "Possible inflammation or irritation detected"
	findingTexture      = "Irregular texture patterns observed"
	findingShape        = "Irregular shape characteristics noted"
	findingColoration   = "Non-uniform coloration detected"
	findingNone         = "No significant abnormalities detected in basic analysis"
)

// Analyzer scores images. It only reads its rules and is safe for concurrent use.
type Analyzer struct {
	rules *rules.ImageRules
}

func New(r *rules.Rules) *Analyzer {
	return &Analyzer{rules: &r.Images}
}

// AnalyzeBytes decodes data and analyzes the result. On any decode failure it
// returns both the error and a failure analysis that forces professional
// review, so callers always have something to show.
func (a *Analyzer) AnalyzeBytes(data []byte, imageType model.ImageType) (*model.ImageAnalysis, error) {
	img, _, err := Decode(data, a.rules.MaxPixels)
	if err != nil {
		return a.Failure(imageType, err), err
	}
	return a.Analyze(img, imageType)
}

// Analyze computes features for an already decoded image.
func (a *Analyzer) Analyze(img image.Image, imageType model.ImageType) (*model.ImageAnalysis, error) {
	if img == nil || img.Bounds().Empty() {
		err := &DecodeError{Kind: ErrEmptyImage}
		return a.Failure(imageType, err), err
	}

	rgba := a.prepare(img)
	gray := grayscale(rgba)

	cs := colorStats(rgba)
	texture := textureStats(gray)
	shape := shapeStats(gray)

	severity := a.severity(cs, texture, shape)
	b := rgba.Bounds()
	return &model.ImageAnalysis{
		ImageType:       imageType,
		Categories:      a.categories(imageType),
		Width:           b.Dx(),
		Height:          b.Dy(),
		Color:           &cs,
		Texture:         &texture,
		Shape:           &shape,
		Severity:        severity,
		Findings:        a.findings(cs, texture, shape),
		Recommendations: a.recommendations(severity),
		Confidence:      math.Min(a.rules.MaxConfidence, math.Max(a.rules.MinConfidence, severity*10)),
		RequiresReview:  severity > a.rules.ReviewAbove,
	}, nil
}

// Failure builds the result reported when an image cannot be analyzed.
func (a *Analyzer) Failure(imageType model.ImageType, err error) *model.ImageAnalysis {
	return &model.ImageAnalysis{
		ImageType:       imageType,
		Recommendations: append([]string(nil), a.rules.Recommendations.Failure...),
		Confidence:      0,
		RequiresReview:  true,
		Error:           "Image analysis failed: " + err.Error(),
	}
}

// prepare copies img into an opaque RGBA buffer, scaling it down so the width
// does not exceed MaxWidth.
func (a *Analyzer) prepare(img image.Image) *image.RGBA {
	src := opaque(img)
	w, h := ScaledSize(src.Bounds().Dx(), src.Bounds().Dy(), a.rules.MaxWidth)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// opaque drops the alpha channel and keeps the straight (non-premultiplied)
// color of every pixel, so transparent regions keep their stored RGB values.
func opaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// ScaledSize returns the dimensions after shrinking width to maxWidth while
// preserving the aspect ratio. Images already narrow enough are unchanged.
func ScaledSize(width, height, maxWidth int) (int, int) {
	if width <= maxWidth {
		return width, height
	}
	scale := float64(maxWidth) / float64(width)
	h := int(float64(height) * scale)
	if h < 1 {
		h = 1
	}
	return maxWidth, h
}

func (a *Analyzer) severity(c model.ColorStats, t model.TextureStats, s model.ShapeStats) float64 {
	r := a.rules.Severity
	var score float64
	if c.RedPercentage > r.RedPercentage.Above {
		score += r.RedPercentage.Points
	}
	if c.ColorUniformity > r.HueStdDev.Above {
		score += r.HueStdDev.Points
	}
	if t.Variance > r.TextureVariance.Above {
		score += r.TextureVariance.Points
	}
	if t.EdgeDensity > r.EdgeDensity.Above {
		score += r.EdgeDensity.Points
	}
	if s.Irregularity > r.Irregularity.Above {
		score += r.Irregularity.Points
	}
	if float64(s.ContourCount) > r.ContourCount.Above {
		score += r.ContourCount.Points
	}
	return model.ClampSeverity(score)
}

func (a *Analyzer) findings(c model.ColorStats, t model.TextureStats, s model.ShapeStats) []string {
	f := a.rules.Findings
	var out []string
	if c.RedPercentage > f.RedPercentage {
		out = append(out, findingInflammation)
	}
	if t.Variance > f.TextureVariance {
		out = append(out, findingTexture)
	}
	if s.Irregularity > f.Irregularity {
		out = append(out, findingShape)
	}
	if c.ColorUniformity > f.HueStdDev {
		out = append(out, findingColoration)
	}
	if len(out) == 0 {
		out = append(out, findingNone)
	}
	return out
}

func (a *Analyzer) recommendations(severity float64) []string {
	r := a.rules.Recommendations
	var src []string
	switch {
	case severity >= r.SevereAt:
		src = r.Severe
	case severity >= r.ModerateAt:
		src = r.Moderate
	default:
		src = r.Mild
	}
	return append([]string(nil), src...)
}

func (a *Analyzer) categories(t model.ImageType) []string {
	return append([]string(nil), a.rules.Categories[t]...)
}
