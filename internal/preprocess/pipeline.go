package preprocess

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/disintegration/imaging"

	"go-doc-recognizer/internal/quality"
)

// ErrDecode indicates the source file could not be read or decoded as an image
var ErrDecode = errors.New("cannot decode image")

// Report describes one normalization run. The measured angle is observable
// for logging and diagnostics but is not part of the persisted artifact.
type Report struct {
	Angle   float64
	Width   int
	Height  int
	Quality *quality.Report
}

// Pipeline composes the skew corrector and the enhancer into a single
// transform from a raw image file to a normalized image file.
type Pipeline struct {
	inspector *quality.Inspector
}

// NewPipeline creates a preprocessing pipeline. The inspector is optional;
// when nil no quality advisory is produced.
func NewPipeline(inspector *quality.Inspector) *Pipeline {
	return &Pipeline{inspector: inspector}
}

// Normalize loads the source image, deskews and enhances it, and writes the
// result to destPath. The destination file appears only after the full
// pipeline succeeds: output is staged in a temporary file and renamed into
// place, so a failure at any stage leaves no partial artifact behind.
func (p *Pipeline) Normalize(sourcePath, destPath string) (*Report, error) {
	img, err := loadImage(sourcePath)
	if err != nil {
		return nil, err
	}

	gray := ToGray(img)
	report := &Report{
		Width:  gray.Bounds().Dx(),
		Height: gray.Bounds().Dy(),
	}
	if p.inspector != nil {
		q := p.inspector.Inspect(gray)
		report.Quality = &q
	}

	rotated, angle, err := Deskew(gray)
	if err != nil {
		return nil, err
	}
	report.Angle = angle

	if err := writeAtomic(destPath, Enhance(rotated)); err != nil {
		return nil, err
	}
	return report, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// writeAtomic encodes the image in the format implied by the destination
// extension and renames a fully written temporary file into place.
func writeAtomic(destPath string, img image.Image) error {
	format, err := imaging.FormatFromFilename(destPath)
	if err != nil {
		return fmt.Errorf("unsupported output format for %s: %w", filepath.Base(destPath), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".normalize-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode normalized image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flush normalized image: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish normalized image: %w", err)
	}
	return nil
}
