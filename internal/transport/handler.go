package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-doc-recognizer/internal/config"
	apperrors "go-doc-recognizer/internal/errors"
	"go-doc-recognizer/internal/logger"
	"go-doc-recognizer/internal/observer"
	"go-doc-recognizer/internal/service"
	"go-doc-recognizer/pkg/models"
)

// uploadFieldName is the multipart form field carrying the document image
const uploadFieldName = "file"

// NewHandler builds the HTTP surface: upload endpoint, health, metrics,
// and static serving of the artifact areas.
func NewHandler(svc service.RecognitionService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxUploadSize))

	r.GET("/health", healthCheck)
	r.GET("/metrics", metricsSnapshot(metrics))
	r.POST("/upload", recognizeUpload(svc, cfg))

	r.Static("/static/uploads", cfg.UploadDir)
	r.Static("/static/preprocessed", cfg.PreprocessedDir)
	r.Static("/static/results", cfg.ResultsDir)

	return r
}

func recognizeUpload(svc service.RecognitionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing recognition request")

		fileHeader, err := c.FormFile(uploadFieldName)
		if err != nil {
			respondError(c, apperrors.NewValidationError("no file part in request", err))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, apperrors.NewValidationError("unreadable file part", err))
			return
		}
		defer file.Close()

		upload := models.Upload{
			Filename:     fileHeader.Filename,
			Content:      file,
			ExpectedText: c.PostForm("expected_text"),
		}

		response, err := svc.Process(ctx, upload)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":         response.ID,
			"filename":           fileHeader.Filename,
			"skew_angle":         response.SkewAngle,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Recognition completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func metricsSnapshot(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	body := models.ErrorResponse{Error: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		body.Stage = string(appErr.Stage)
	}
	c.AbortWithStatusJSON(code, body)
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
