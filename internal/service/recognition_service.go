package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-doc-recognizer/internal/errors"
	"go-doc-recognizer/internal/logger"
	"go-doc-recognizer/internal/observer"
	"go-doc-recognizer/internal/preprocess"
	"go-doc-recognizer/internal/recognizer"
	"go-doc-recognizer/internal/storage"
	"go-doc-recognizer/pkg/models"
	"go-doc-recognizer/pkg/validation"
)

// URL prefixes under which the transport layer serves the artifact areas
const (
	UploadURLPrefix  = "/static/uploads/"
	ResultsURLPrefix = "/static/results/"
)

// RecognitionService drives one upload through the pipeline:
// validate -> store -> preprocess -> recognize -> persist -> respond.
type RecognitionService interface {
	Process(ctx context.Context, upload models.Upload) (*models.RecognitionResponse, error)
}

// Normalizer is the preprocessing pipeline contract consumed by the service
type Normalizer interface {
	Normalize(sourcePath, destPath string) (*preprocess.Report, error)
}

type recognitionService struct {
	validator  *validation.FilenameValidator
	store      storage.ArtifactStore
	pipeline   Normalizer
	recognizer recognizer.TextRecognizer
	archiver   storage.Archiver
	events     *observer.Publisher
}

// NewRecognitionService wires the orchestrator from its collaborators
func NewRecognitionService(
	validator *validation.FilenameValidator,
	store storage.ArtifactStore,
	pipeline Normalizer,
	textRecognizer recognizer.TextRecognizer,
	archiver storage.Archiver,
	events *observer.Publisher,
) RecognitionService {
	return &recognitionService{
		validator:  validator,
		store:      store,
		pipeline:   pipeline,
		recognizer: textRecognizer,
		archiver:   archiver,
		events:     events,
	}
}

// Process runs the pipeline as an explicit linear state machine. Every stage
// failure is terminal for the request: there is no retry, no fallback, and
// the error always records which stage failed.
func (s *recognitionService) Process(ctx context.Context, upload models.Upload) (*models.RecognitionResponse, error) {
	start := time.Now()
	s.events.Notify(ctx, observer.PipelineEvent{EventType: observer.UploadReceived})

	// Received -> Validated
	if strings.TrimSpace(upload.Filename) == "" || upload.Content == nil {
		return nil, s.fail(ctx, "", apperrors.NewValidationError("no file selected", nil))
	}
	ext, ok := s.validator.Extension(upload.Filename)
	if !ok {
		return nil, s.fail(ctx, "", apperrors.NewValidationError("unsupported file type", nil))
	}

	// Validated -> Stored: fresh random identifier, independent of the
	// caller-supplied filename
	id := s.store.NewID()
	storedPath, err := s.store.SaveUpload(ctx, id, ext, upload.Content)
	if err != nil {
		return nil, s.fail(ctx, id, apperrors.NewStorageError("failed to save uploaded file", err))
	}
	s.events.Notify(ctx, observer.PipelineEvent{EventType: observer.UploadStored, RequestID: id})

	// Stored -> Preprocessed
	normalizedPath := s.store.NormalizedPath(id, ext)
	report, err := s.pipeline.Normalize(storedPath, normalizedPath)
	if err != nil {
		return nil, s.fail(ctx, id, classifyPreprocessError(err))
	}
	logger.WithFields(logrus.Fields{
		"request_id": id,
		"skew_angle": report.Angle,
	}).Info("Detected skew angle")
	s.events.Notify(ctx, observer.PipelineEvent{
		EventType: observer.ImagePreprocessed,
		RequestID: id,
		Metadata:  map[string]interface{}{"skew_angle": report.Angle},
	})

	// Preprocessed -> Recognized
	lines, err := s.recognizer.Recognize(ctx, normalizedPath)
	if err != nil {
		return nil, s.fail(ctx, id, apperrors.NewRecognitionError("text recognition failed", err))
	}
	if !recognizer.HasText(lines) {
		// Distinct from success with empty output: the caller must know
		// recognition yielded nothing usable
		return nil, s.fail(ctx, id, apperrors.NewEmptyResultError("no text could be recognized; try a different image"))
	}
	text := recognizer.JoinLines(lines)
	s.events.Notify(ctx, observer.PipelineEvent{EventType: observer.TextRecognized, RequestID: id})

	// Recognized -> Persisted
	if _, err := s.store.SaveResult(ctx, id, text); err != nil {
		return nil, s.fail(ctx, id, apperrors.NewPersistError("failed to save recognized text", err))
	}
	s.archiveResult(ctx, id, text)

	elapsed := time.Since(start)
	s.events.Notify(ctx, observer.PipelineEvent{
		EventType: observer.ResultPersisted,
		RequestID: id,
		Duration:  elapsed,
	})

	// Persisted -> Responded
	response := &models.RecognitionResponse{
		ID:                id,
		FileURL:           UploadURLPrefix + s.store.UploadName(id, ext),
		Text:              text,
		DownloadURL:       ResultsURLPrefix + s.store.ResultName(id),
		Lines:             lines,
		SkewAngle:         report.Angle,
		Quality:           report.Quality,
		ProcessingTimeSec: elapsed.Seconds(),
	}
	if expected := strings.TrimSpace(upload.ExpectedText); expected != "" {
		response.Accuracy = buildAccuracyReport(expected, text)
	}
	return response, nil
}

// classifyPreprocessError maps pipeline sentinels onto the error taxonomy
func classifyPreprocessError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, preprocess.ErrDecode):
		return apperrors.NewDecodeError("uploaded file is not a readable image", err)
	case errors.Is(err, preprocess.ErrEmptyImage):
		return apperrors.NewEmptyImageError("image contains no detectable content", err)
	}
	return apperrors.NewPreprocessingError("image preprocessing failed", err)
}

// archiveResult is best-effort: failures are logged, never surfaced
func (s *recognitionService) archiveResult(ctx context.Context, id, text string) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, s.store.ResultName(id), []byte(text)); err != nil {
		logger.WithError(err).WithField("request_id", id).Warn("Result archival failed")
	}
}

// fail records the terminal failure of a request, logging internal faults
// with full context and user-correctable ones tersely
func (s *recognitionService) fail(ctx context.Context, id string, appErr *apperrors.AppError) error {
	s.events.Notify(ctx, observer.PipelineEvent{
		EventType:  observer.RequestFailed,
		RequestID:  id,
		Stage:      appErr.Stage,
		ErrMessage: appErr.Message,
	})

	entry := logger.WithFields(logrus.Fields{
		"request_id": id,
		"stage":      appErr.Stage,
		"type":       appErr.Type,
	})
	if appErr.UserCorrectable() {
		entry.Warn(appErr.Message)
	} else {
		entry.WithError(appErr.Cause).Error(appErr.Message)
	}
	return appErr
}
