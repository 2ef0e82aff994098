package preprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestOtsuThresholdBimodal(t *testing.T) {
	// Half the pixels dark, half bright: the threshold must fall between the
	// two modes so binarization separates them
	gray := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := uint8(50)
			if x >= 10 {
				v = 200
			}
			gray.SetGray(x, y, color.Gray{Y: v})
		}
	}

	threshold := otsuThreshold(histogram(gray))
	if threshold < 50 || threshold >= 200 {
		t.Errorf("otsuThreshold = %d, want in [50, 200)", threshold)
	}

	mask := Binarize(gray)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := uint8(0)
			if x >= 10 {
				want = 255
			}
			if got := mask.GrayAt(x, y).Y; got != want {
				t.Fatalf("mask at (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestOtsuThresholdUniformImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8)) // all zero
	if threshold := otsuThreshold(histogram(gray)); threshold != 0 {
		t.Errorf("otsuThreshold on uniform image = %d, want 0", threshold)
	}

	mask := Binarize(gray)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if mask.GrayAt(x, y).Y != 0 {
				t.Fatal("uniform dark image must produce an empty mask")
			}
		}
	}
}

func TestToGrayPreservesGrayInput(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if ToGray(gray) != gray {
		t.Error("ToGray should return *image.Gray inputs unchanged")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	rgba.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	converted := ToGray(rgba)
	if converted.GrayAt(1, 1).Y < 250 {
		t.Errorf("white pixel converted to %d, want near 255", converted.GrayAt(1, 1).Y)
	}
}
