package recognizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TextRecognizer is the external recognition capability: given a normalized
// image, return its text grouped into reading-order lines.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]string, error)
	Close() error
}

// TesseractRecognizer wraps a single long-lived gosseract client. Language
// models are loaded once at construction; the client is not safe for
// concurrent use and holds a large in-memory model, so invocations are
// serialized to bound peak memory.
type TesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractRecognizer constructs the recognizer with the given language
// hints (e.g. "eng", "rus").
func NewTesseractRecognizer(languages []string) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set languages %v: %w", languages, err)
		}
	}
	return &TesseractRecognizer{client: client}, nil
}

// Recognize runs OCR on the image at the given path, grouping detected text
// into paragraph-level lines in visual reading order.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_PARA)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	raw := make([]string, 0, len(boxes))
	for _, box := range boxes {
		raw = append(raw, box.Word)
	}
	return ParagraphLines(raw), nil
}

// Close releases the underlying engine
func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
