package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-doc-recognizer/internal/errors"
)

// EventType identifies a pipeline lifecycle event
type EventType string

const (
	// UploadReceived when a request enters the pipeline
	UploadReceived EventType = "upload_received"
	// UploadStored when the raw upload is written under its identifier
	UploadStored EventType = "upload_stored"
	// ImagePreprocessed when normalization completes
	ImagePreprocessed EventType = "image_preprocessed"
	// TextRecognized when the engine returns usable text
	TextRecognized EventType = "text_recognized"
	// ResultPersisted when the extracted text is written to the results store
	ResultPersisted EventType = "result_persisted"
	// RequestFailed when any stage terminates the request
	RequestFailed EventType = "request_failed"
)

// PipelineEvent describes one lifecycle event of a recognition request
type PipelineEvent struct {
	EventType  EventType              `json:"event_type"`
	Timestamp  time.Time              `json:"timestamp"`
	RequestID  string                 `json:"request_id,omitempty"`
	Stage      apperrors.Stage        `json:"stage,omitempty"`
	Duration   time.Duration          `json:"duration,omitempty"`
	ErrMessage string                 `json:"error_message,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Observer receives pipeline events
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	Name() string
}

// Publisher fans events out to registered observers
type Publisher struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewPublisher(observers ...Observer) *Publisher {
	return &Publisher{observers: observers}
}

// Subscribe registers an additional observer
func (p *Publisher) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// Notify delivers the event to every observer, stamping the time if unset
func (p *Publisher) Notify(ctx context.Context, event PipelineEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.observers {
		o.OnEvent(ctx, event)
	}
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) Name() string { return "logging_observer" }

func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"request_id": event.RequestID,
	}
	if event.Stage != "" {
		fields["stage"] = event.Stage
	}
	if event.Duration > 0 {
		fields["duration_ms"] = event.Duration.Milliseconds()
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case RequestFailed:
		fields["error"] = event.ErrMessage
		o.logger.WithFields(fields).Error("Recognition request failed")
	case ResultPersisted:
		o.logger.WithFields(fields).Info("Recognition result persisted")
	default:
		o.logger.WithFields(fields).Debug("Pipeline event")
	}
}

// MetricsObserver aggregates counters across requests
type MetricsObserver struct {
	mu             sync.RWMutex
	received       int64
	persisted      int64
	failed         int64
	failedByStage  map[apperrors.Stage]int64
	totalDuration  time.Duration
	timedResponses int64
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{failedByStage: make(map[apperrors.Stage]int64)}
}

func (o *MetricsObserver) Name() string { return "metrics_observer" }

func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case UploadReceived:
		o.received++
	case ResultPersisted:
		o.persisted++
		if event.Duration > 0 {
			o.totalDuration += event.Duration
			o.timedResponses++
		}
	case RequestFailed:
		o.failed++
		if event.Stage != "" {
			o.failedByStage[event.Stage]++
		}
	}
}

// Metrics is a point-in-time counter snapshot
type Metrics struct {
	Received       int64                     `json:"received"`
	Persisted      int64                     `json:"persisted"`
	Failed         int64                     `json:"failed"`
	FailedByStage  map[apperrors.Stage]int64 `json:"failed_by_stage"`
	AvgDurationSec float64                   `json:"avg_duration_sec"`
}

// Snapshot returns a copy of the current counters
func (o *MetricsObserver) Snapshot() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	byStage := make(map[apperrors.Stage]int64, len(o.failedByStage))
	for stage, count := range o.failedByStage {
		byStage[stage] = count
	}
	m := Metrics{
		Received:      o.received,
		Persisted:     o.persisted,
		Failed:        o.failed,
		FailedByStage: byStage,
	}
	if o.timedResponses > 0 {
		m.AvgDurationSec = o.totalDuration.Seconds() / float64(o.timedResponses)
	}
	return m
}
