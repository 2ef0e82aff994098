package models

import (
	"io"

	"go-doc-recognizer/internal/quality"
)

// Upload is one caller-submitted document photo entering the pipeline
type Upload struct {
	// Filename as claimed by the caller; used only for extension validation,
	// never for storage keys
	Filename string
	Content  io.Reader

	// ExpectedText, when non-empty, requests an accuracy report comparing
	// the recognized text against this reference
	ExpectedText string
}

// RecognitionResponse is the success response of one recognition request
type RecognitionResponse struct {
	ID          string `json:"id"`
	FileURL     string `json:"file_url"`
	Text        string `json:"text"`
	DownloadURL string `json:"download_url"`

	// Lines is the recognizer's reading-order output before joining
	Lines []string `json:"lines"`

	// SkewAngle is the measured and corrected rotation in degrees
	SkewAngle float64 `json:"skew_angle"`

	Quality  *quality.Report `json:"quality,omitempty"`
	Accuracy *AccuracyReport `json:"accuracy,omitempty"`

	ProcessingTimeSec float64 `json:"processing_time_sec"`
}

// AccuracyReport compares recognized text to caller-provided expected text
type AccuracyReport struct {
	ExpectedText string  `json:"expected_text"`
	CER          float64 `json:"cer"`
	WER          float64 `json:"wer"`
	MatchScore   float64 `json:"match_score"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}
