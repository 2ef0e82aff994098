package container

import (
	"fmt"
	"net/http"

	"go-doc-recognizer/internal/config"
	"go-doc-recognizer/internal/logger"
	"go-doc-recognizer/internal/observer"
	"go-doc-recognizer/internal/preprocess"
	"go-doc-recognizer/internal/quality"
	"go-doc-recognizer/internal/recognizer"
	"go-doc-recognizer/internal/service"
	"go-doc-recognizer/internal/storage"
	"go-doc-recognizer/internal/transport"
	"go-doc-recognizer/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	store      *storage.LocalStore
	recognizer recognizer.TextRecognizer
	metrics    *observer.MetricsObserver
	service    service.RecognitionService
	handler    http.Handler
}

// NewContainer builds the dependency graph
func NewContainer(cfg *config.Config) (*Container, error) {
	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PreprocessedDir, cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	var archiver storage.Archiver = storage.NoopArchiver{}
	if cfg.ArchiveEnabled() {
		archiver, err = storage.NewAzureArchiver(cfg.ArchiveAccountName, cfg.ArchiveAccountKey, cfg.ArchiveContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archiver: %w", err)
		}
	}

	textRecognizer, err := recognizer.NewTesseractRecognizer(cfg.OCRLanguages)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recognizer: %w", err)
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewPublisher(
		observer.NewLoggingObserver(logger.Logger),
		metrics,
	)

	pipeline := preprocess.NewPipeline(quality.NewInspector())
	svc := service.NewRecognitionService(
		validation.NewFilenameValidator(),
		store,
		pipeline,
		textRecognizer,
		archiver,
		events,
	)
	handler := transport.NewHandler(svc, metrics, cfg)

	return &Container{
		config:     cfg,
		store:      store,
		recognizer: textRecognizer,
		metrics:    metrics,
		service:    svc,
		handler:    handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the recognition engine
func (c *Container) Close() error {
	return c.recognizer.Close()
}
