package preprocess

import (
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go-doc-recognizer/internal/quality"
)

func writeTestImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

func TestNormalizeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	gray := image.NewGray(image.Rect(0, 0, 200, 200))
	drawBar(gray, -12, 150, 10)
	src := writeTestImage(t, dir, "skewed.png", gray)
	dest := filepath.Join(dir, "preprocessed_skewed.png")

	p := NewPipeline(quality.NewInspector())
	report, err := p.Normalize(src, dest)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if math.Abs(report.Angle-12) > 2.0 {
		t.Errorf("report.Angle = %.2f, want 12 ± 2.0", report.Angle)
	}
	if report.Width != 200 || report.Height != 200 {
		t.Errorf("report dimensions = %dx%d, want 200x200", report.Width, report.Height)
	}
	if report.Quality == nil {
		t.Error("expected a quality advisory from the inspector")
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("normalized image missing: %v", err)
	}
	defer f.Close()
	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	if out.Bounds().Dx() != 400 || out.Bounds().Dy() != 400 {
		t.Errorf("normalized dimensions = %dx%d, want 400x400 (2x upsample)",
			out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestNormalizeBlankImage(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "blank.png", image.NewGray(image.Rect(0, 0, 100, 100)))
	dest := filepath.Join(dir, "preprocessed_blank.png")

	p := NewPipeline(nil)
	_, err := p.Normalize(src, dest)
	if !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("Normalize() error = %v, want ErrEmptyImage", err)
	}

	// No partial artifact may be left behind
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file must not exist after a failed run")
	}
}

func TestNormalizeCorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "preprocessed_broken.png")

	p := NewPipeline(nil)
	_, err := p.Normalize(src, dest)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Normalize() error = %v, want ErrDecode", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file must not exist after a failed run")
	}
}

func TestNormalizeMissingSource(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(nil)
	_, err := p.Normalize(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.png"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Normalize() error = %v, want ErrDecode", err)
	}
}

func TestNormalizeUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	gray := image.NewGray(image.Rect(0, 0, 60, 60))
	drawBar(gray, 0, 40, 6)
	src := writeTestImage(t, dir, "ok.png", gray)

	p := NewPipeline(nil)
	_, err := p.Normalize(src, filepath.Join(dir, "missing-subdir", "out.png"))
	if err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrEmptyImage) {
		t.Errorf("write failure misclassified: %v", err)
	}
}
