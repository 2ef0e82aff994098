package preprocess

import (
	"image"
	"image/draw"
)

// ToGray converts any image to 8-bit grayscale
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// Binarize thresholds a grayscale image with Otsu's method. Pixels strictly
// above the threshold become foreground (255), the rest background (0).
func Binarize(gray *image.Gray) *image.Gray {
	threshold := otsuThreshold(histogram(gray))

	bounds := gray.Bounds()
	mask := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				mask.SetGray(x, y, grayWhite)
			}
		}
	}
	return mask
}

func histogram(gray *image.Gray) [256]int {
	var hist [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}
	return hist
}

// otsuThreshold picks the global threshold minimizing intra-class intensity
// variance, equivalently maximizing the between-class variance.
func otsuThreshold(hist [256]int) uint8 {
	total := 0
	for _, count := range hist {
		total += count
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for level, count := range hist {
		sum += float64(level) * float64(count)
	}

	var sumBackground, weightBackground float64
	var bestVariance float64
	var bestThreshold uint8

	for level := 0; level < 256; level++ {
		weightBackground += float64(hist[level])
		if weightBackground == 0 {
			continue
		}
		weightForeground := float64(total) - weightBackground
		if weightForeground == 0 {
			break
		}
		sumBackground += float64(level) * float64(hist[level])

		meanBackground := sumBackground / weightBackground
		meanForeground := (sum - sumBackground) / weightForeground
		meanDiff := meanBackground - meanForeground

		variance := weightBackground * weightForeground * meanDiff * meanDiff
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = uint8(level)
		}
	}
	return bestThreshold
}
