package imaging

import (
	"image"
	"math"

	"github.com/helmcode/triage-ai/pkg/model"
)

// Moore neighbourhood, clockwise (y grows downwards) starting from west.
var moore = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// shapeStats finds the external contours of the non-zero pixels of g and
// measures the largest one.
func shapeStats(g *grayPlane) model.ShapeStats {
	contours := externalContours(g)

	var largestArea, perimeter float64
	best := -1
	for i, c := range contours {
		if a := polygonArea(c); best < 0 || a > largestArea {
			best, largestArea = i, a
		}
	}
	if best >= 0 {
		perimeter = arcLength(contours[best])
	}

	var circularity float64
	if perimeter > 0 {
		circularity = 4 * math.Pi * largestArea / (perimeter * perimeter)
	}
	irregularity := 1.0
	if circularity > 0 {
		irregularity = 1 - circularity
	}

	return model.ShapeStats{
		ContourCount: len(contours),
		LargestArea:  largestArea,
		Circularity:  circularity,
		Irregularity: irregularity,
	}
}

// externalContours returns the traced boundary of every 8-connected
// foreground component that is not enclosed by another component.
func externalContours(g *grayPlane) [][]image.Point {
	w, h := g.w, g.h
	fg := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && g.at(x, y) != 0
	}

	outside := outsideBackground(g)
	labels := make([]int, w*h)
	var contours [][]image.Point
	next := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !fg(x, y) || labels[y*w+x] != 0 {
				continue
			}
			next++
			if !labelComponent(g, x, y, next, labels, outside) {
				continue
			}
			// (x, y) is the first pixel of the component in raster order, so
			// its west neighbour is background.
			contours = append(contours, traceBoundary(fg, image.Pt(x, y), 4*w*h+8))
		}
	}
	return contours
}

// outsideBackground marks zero pixels 4-connected to the image border.
func outsideBackground(g *grayPlane) []bool {
	w, h := g.w, g.h
	out := make([]bool, w*h)
	var stack []int
	push := func(x, y int) {
		i := y*w + x
		if g.pix[i] == 0 && !out[i] {
			out[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return out
}

// labelComponent floods the 8-connected component at (sx, sy) with label and
// reports whether it is external: touching the image border or the outside
// background.
func labelComponent(g *grayPlane, sx, sy, label int, labels []int, outside []bool) bool {
	w, h := g.w, g.h
	external := false
	stack := []int{sy*w + sx}
	labels[sy*w+sx] = label

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			external = true
		}
		for _, d := range moore {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if g.pix[j] == 0 {
				// only edge-adjacent background separates inside from outside
				if (d.X == 0 || d.Y == 0) && outside[j] {
					external = true
				}
				continue
			}
			if labels[j] == 0 {
				labels[j] = label
				stack = append(stack, j)
			}
		}
	}
	return external
}

// traceBoundary follows the outer boundary of the component containing start
// with Moore-neighbour tracing, taking at most maxSteps steps. start must be
// the component's first pixel in raster order.
func traceBoundary(fg func(x, y int) bool, start image.Point, maxSteps int) []image.Point {
	contour := []image.Point{start}
	cur := start
	back := 0 // direction from cur to the background pixel we entered from

	for step := 0; step < maxSteps; step++ {
		found := -1
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			p := cur.Add(moore[d])
			if fg(p.X, p.Y) {
				found = d
				break
			}
		}
		if found < 0 {
			break // isolated pixel
		}

		nextPt := cur.Add(moore[found])
		if cur == start && len(contour) > 1 && nextPt == contour[1] {
			break
		}

		// the background pixel checked just before found, seen from nextPt
		prev := cur.Add(moore[(found+7)%8])
		back = directionTo(nextPt, prev)
		cur = nextPt
		contour = append(contour, cur)
	}

	if n := len(contour); n > 1 && contour[n-1] == contour[0] {
		contour = contour[:n-1]
	}
	return contour
}

func directionTo(from, to image.Point) int {
	d := to.Sub(from)
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return 0
}

// polygonArea is the shoelace area of a closed polygon.
func polygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var s int
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		s += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(s)) / 2
}

// arcLength is the perimeter of a closed polygon.
func arcLength(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var l float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		l += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return l
}
