package quality

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Report carries non-fatal quality observations about a source image. The
// pipeline never rejects an image for quality; the report is surfaced to the
// caller as advisory warnings.
type Report struct {
	LaplacianVariance float64  `json:"laplacian_variance"`
	Brightness        float64  `json:"brightness"`
	Blurry            bool     `json:"blurry"`
	TooDark           bool     `json:"too_dark"`
	TooBright         bool     `json:"too_bright"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Inspector computes quality metrics on grayscale images
type Inspector struct {
	blurThreshold   float64
	darkThreshold   float64
	brightThreshold float64
}

// NewInspector creates an inspector with default thresholds
func NewInspector() *Inspector {
	return &Inspector{
		blurThreshold:   100,
		darkThreshold:   80,
		brightThreshold: 220,
	}
}

// Inspect measures blur (Laplacian variance) and average brightness
func (in *Inspector) Inspect(gray *image.Gray) Report {
	report := Report{
		LaplacianVariance: laplacianVariance(gray),
		Brightness:        averageBrightness(gray),
	}
	report.Blurry = report.LaplacianVariance < in.blurThreshold
	report.TooDark = report.Brightness < in.darkThreshold
	report.TooBright = report.Brightness > in.brightThreshold

	if report.Blurry {
		report.Warnings = append(report.Warnings, "image appears blurry; recognition accuracy may suffer")
	}
	if report.TooDark {
		report.Warnings = append(report.Warnings, "image is very dark")
	}
	if report.TooBright {
		report.Warnings = append(report.Warnings, "image is very bright")
	}
	return report
}

// laplacianVariance applies the [0 1 0; 1 -4 1; 0 1 0] kernel to interior
// pixels and returns the variance of the responses. Low variance indicates
// few sharp edges, i.e. a blurry image.
func laplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	responses := make([]float64, 0, (width-2)*(height-2))
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)
			responses = append(responses, -4*center+top+bottom+left+right)
		}
	}
	return stat.Variance(responses, nil)
}

func averageBrightness(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			total += float64(gray.GrayAt(x, y).Y)
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
