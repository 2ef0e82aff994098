package preprocess

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sort"
)

// ErrEmptyImage indicates an all-background image: with no foreground pixels
// the enclosing rectangle, and therefore the skew angle, is undefined.
var ErrEmptyImage = errors.New("image has no foreground pixels")

var grayWhite = color.Gray{Y: 255}

// Deskew binarizes a grayscale image, estimates the dominant rotation angle
// from the minimum-area rectangle enclosing the foreground, and rotates the
// binarized image about its center so the dominant text direction is
// horizontal. It returns the rotated mask and the applied angle in degrees.
func Deskew(gray *image.Gray) (*image.Gray, float64, error) {
	mask := Binarize(gray)

	points := foregroundPoints(mask)
	if len(points) == 0 {
		return nil, 0, ErrEmptyImage
	}

	raw := minAreaRectAngle(convexHull(points))
	angle := normalizeAngle(raw)

	return rotateGray(mask, angle), angle, nil
}

type point struct {
	x, y float64
}

// foregroundPoints collects, per row, the leftmost and rightmost foreground
// pixels. The convex hull of those extremes equals the hull of the full
// foreground set: a hull vertex is always an extreme of its row.
func foregroundPoints(mask *image.Gray) []point {
	bounds := mask.Bounds()
	points := make([]point, 0, 2*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		left, right := -1, -1
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				if left < 0 {
					left = x
				}
				right = x
			}
		}
		if left < 0 {
			continue
		}
		points = append(points, point{float64(left), float64(y)})
		if right != left {
			points = append(points, point{float64(right), float64(y)})
		}
	}
	return points
}

// convexHull computes the hull with Andrew's monotone chain, returned in
// counter-clockwise order without the repeated first point.
func convexHull(points []point) []point {
	if len(points) <= 2 {
		return points
	}

	sorted := make([]point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x != sorted[j].x {
			return sorted[i].x < sorted[j].x
		}
		return sorted[i].y < sorted[j].y
	})

	cross := func(o, a, b point) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}

	hull := make([]point, 0, 2*len(sorted))
	for _, p := range sorted { // lower chain
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- { // upper chain
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// minAreaRectAngle finds the orientation of the minimum-area rotated
// rectangle enclosing the hull. Each hull edge is a candidate side; for the
// winning edge the angle is reported in the [-90, 0) degree convention, with
// -90 meaning axis-aligned.
func minAreaRectAngle(hull []point) float64 {
	if len(hull) < 2 {
		return -90
	}

	bestArea := math.Inf(1)
	bestTheta := 0.0

	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		theta := math.Atan2(b.y-a.y, b.x-a.x)
		cos, sin := math.Cos(theta), math.Sin(theta)

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.x*cos + p.y*sin
			v := -p.x*sin + p.y*cos
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestTheta = theta * 180 / math.Pi
		}
	}

	// A rectangle has no intrinsic long side: reduce the edge angle modulo
	// 90 into [-90, 0)
	raw := math.Mod(bestTheta, 90)
	if raw >= 0 {
		raw -= 90
	}
	return raw
}

// normalizeAngle resolves the modulo-90 ambiguity of the raw rectangle angle
// by always picking the smallest-magnitude rotation that brings the dominant
// text direction to horizontal. Assumes document text is closer to
// horizontal than vertical.
func normalizeAngle(raw float64) float64 {
	if raw < -45 {
		return -(90 + raw)
	}
	return -raw
}

// rotateGray rotates an image about its center by the given angle using
// bicubic resampling. Pixels rotated in from outside the frame replicate the
// nearest edge pixel rather than introducing black borders.
func rotateGray(src *image.Gray, angleDeg float64) *image.Gray {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(bounds)

	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx := float64(bounds.Min.X) + float64(width-1)/2
	cy := float64(bounds.Min.Y) + float64(height-1)/2

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := float64(y) - cy
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) - cx
			sx := cx + dx*cos + dy*sin
			sy := cy - dx*sin + dy*cos
			dst.SetGray(x, y, color.Gray{Y: sampleBicubic(src, sx, sy)})
		}
	}
	return dst
}

// sampleBicubic interpolates the source at fractional coordinates with a
// Catmull-Rom kernel over a 4x4 neighborhood, clamping coordinates to the
// image bounds (edge replication).
func sampleBicubic(src *image.Gray, sx, sy float64) uint8 {
	bounds := src.Bounds()
	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	var sum, weightSum float64
	for j := -1; j <= 2; j++ {
		wy := cubicWeight(float64(j) - fy)
		if wy == 0 {
			continue
		}
		py := clampInt(y0+j, bounds.Min.Y, bounds.Max.Y-1)
		for i := -1; i <= 2; i++ {
			wx := cubicWeight(float64(i) - fx)
			if wx == 0 {
				continue
			}
			px := clampInt(x0+i, bounds.Min.X, bounds.Max.X-1)
			w := wx * wy
			sum += w * float64(src.GrayAt(px, py).Y)
			weightSum += w
		}
	}
	if weightSum == 0 {
		return 0
	}
	value := sum / weightSum
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value + 0.5)
}

// cubicWeight is the Catmull-Rom kernel (a = -0.5)
func cubicWeight(d float64) float64 {
	const a = -0.5
	d = math.Abs(d)
	switch {
	case d <= 1:
		return (a+2)*d*d*d - (a+3)*d*d + 1
	case d < 2:
		return a*d*d*d - 5*a*d*d + 8*a*d - 4*a
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
