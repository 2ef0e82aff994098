package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrStoreUnavailable indicates an artifact area could not be created
var ErrStoreUnavailable = errors.New("artifact store unavailable")

// ArtifactStore manages the three on-disk artifact areas of one recognition
// request: the raw upload, the normalized intermediate, and the extracted
// text. All areas are addressed by the same per-request identifier.
type ArtifactStore interface {
	// NewID returns a fresh random identifier, independent of any
	// caller-supplied filename.
	NewID() string

	// SaveUpload writes the raw upload as <id>.<ext> and returns its path.
	SaveUpload(ctx context.Context, id, ext string, r io.Reader) (string, error)

	// NormalizedPath returns the destination path for the normalized
	// intermediate, preprocessed_<id>.<ext>. The pipeline writes it.
	NormalizedPath(id, ext string) string

	// SaveResult writes the extracted text as <id>.txt and returns its path.
	SaveResult(ctx context.Context, id, text string) (string, error)

	// UploadName and ResultName return the artifact file names used to build
	// caller-facing references.
	UploadName(id, ext string) string
	ResultName(id string) string
}

// LocalStore implements ArtifactStore on the local filesystem
type LocalStore struct {
	uploadDir       string
	preprocessedDir string
	resultsDir      string
}

// NewLocalStore creates the three artifact areas if they do not exist
func NewLocalStore(uploadDir, preprocessedDir, resultsDir string) (*LocalStore, error) {
	for _, dir := range []string{uploadDir, preprocessedDir, resultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return &LocalStore{
		uploadDir:       uploadDir,
		preprocessedDir: preprocessedDir,
		resultsDir:      resultsDir,
	}, nil
}

// NewID returns a uuid4-derived hex identifier. Storage keys never derive
// from untrusted filenames, which rules out collisions and path traversal.
func (s *LocalStore) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *LocalStore) UploadName(id, ext string) string {
	return fmt.Sprintf("%s.%s", id, ext)
}

func (s *LocalStore) ResultName(id string) string {
	return fmt.Sprintf("%s.txt", id)
}

func (s *LocalStore) NormalizedPath(id, ext string) string {
	return filepath.Join(s.preprocessedDir, fmt.Sprintf("preprocessed_%s.%s", id, ext))
}

func (s *LocalStore) SaveUpload(ctx context.Context, id, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.uploadDir, s.UploadName(id, ext))
	if err := writeAtomic(path, r); err != nil {
		return "", fmt.Errorf("save upload %s: %w", id, err)
	}
	return path, nil
}

func (s *LocalStore) SaveResult(ctx context.Context, id, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.resultsDir, s.ResultName(id))
	if err := writeAtomic(path, strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("save result %s: %w", id, err)
	}
	return path, nil
}

// writeAtomic stages content in a temporary file and renames it into place,
// so a later pipeline stage never observes a partially written artifact.
func writeAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
