package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flybeeper/track-analyzer/internal/analysis"
	"github.com/flybeeper/track-analyzer/internal/ingest"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// TrackAnalyzer конвейер анализа, используемый обработчиками
type TrackAnalyzer interface {
	Analyze(track *models.Track) (*analysis.Result, error)
	AnalyzeBatch(ctx context.Context, tracks []*models.Track, workers int) ([]*analysis.Result, error)
	Config() *analysis.Config
}

// RESTHandler обработчик REST API endpoints
type RESTHandler struct {
	analyzer  TrackAnalyzer
	parser    *ingest.Parser
	logger    *utils.Logger
	maxUpload int64
	workers   int
	timeout   time.Duration
}

// NewRESTHandler создает новый REST handler
func NewRESTHandler(analyzer TrackAnalyzer, logger *utils.Logger, maxUpload int64, workers int) *RESTHandler {
	return &RESTHandler{
		analyzer:  analyzer,
		parser:    ingest.NewParser(logger),
		logger:    logger,
		maxUpload: maxUpload,
		workers:   workers,
		timeout:   30 * time.Second,
	}
}

// AnalyzeTrack анализирует загруженный трек
// POST /api/v1/analyze?format=gpx|geojson (тело запроса или multipart поле file)
func (h *RESTHandler) AnalyzeTrack(c *gin.Context) {
	uploads, err := h.readUploads(c, false)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	upload := uploads[0]
	track, err := h.parser.Parse(upload.body(), upload.format)
	upload.release()
	if err != nil {
		h.respondParseError(c, upload.name, err)
		return
	}
	if track.Name == "" {
		track.Name = upload.name
	}

	result, err := h.analyzer.Analyze(track)
	if err != nil {
		h.logger.WithError(err).WithField("track", track.Name).Error("Failed to analyze track")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "analysis_failed",
			"message": "Failed to analyze track",
		})
		return
	}

	h.respond(c, http.StatusOK, analysis.NewReport(result))

	h.logger.WithFields(map[string]interface{}{
		"analysis_id": result.ID,
		"track":       track.Name,
		"format":      upload.format,
		"points":      result.PointsCount,
		"diagnostics": len(result.Diagnostics),
	}).Info("Analyze request completed")
}

// AnalyzeBatch анализирует несколько треков одним запросом
// POST /api/v1/analyze/batch (multipart, несколько полей file)
func (h *RESTHandler) AnalyzeBatch(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	uploads, err := h.readUploads(c, true)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	tracks := make([]*models.Track, len(uploads))
	for i, upload := range uploads {
		track, err := h.parser.Parse(upload.body(), upload.format)
		upload.release()
		if err != nil {
			releaseAll(uploads[i+1:])
			h.respondParseError(c, upload.name, err)
			return
		}
		if track.Name == "" {
			track.Name = upload.name
		}
		tracks[i] = track
	}

	results, err := h.analyzer.AnalyzeBatch(ctx, tracks, h.workers)
	if err != nil {
		h.logger.WithError(err).WithField("tracks", len(tracks)).Error("Failed to analyze batch")
		status, code := http.StatusInternalServerError, "analysis_failed"
		if errors.Is(err, context.DeadlineExceeded) {
			status, code = http.StatusGatewayTimeout, "timeout"
		}
		c.JSON(status, gin.H{
			"code":    code,
			"message": "Failed to analyze tracks",
		})
		return
	}

	reports := make([]*analysis.Report, len(results))
	for i, r := range results {
		reports[i] = analysis.NewReport(r)
	}
	h.respond(c, http.StatusOK, gin.H{"results": reports})

	h.logger.WithField("tracks", len(tracks)).Info("Batch analyze request completed")
}

// GetConfig возвращает активные пороги анализа
// GET /api/v1/config
func (h *RESTHandler) GetConfig(c *gin.Context) {
	h.respond(c, http.StatusOK, configToJSON(h.analyzer.Config()))
}

func (h *RESTHandler) respondUploadError(c *gin.Context, err error) {
	var uerr *uploadError
	if errors.As(err, &uerr) {
		c.JSON(uerr.status, gin.H{
			"code":    uerr.code,
			"message": uerr.message,
		})
		return
	}

	h.logger.WithError(err).Error("Failed to read upload")
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "invalid_upload",
		"message": "Failed to read uploaded track",
	})
}

func (h *RESTHandler) respondParseError(c *gin.Context, name string, err error) {
	h.logger.WithError(err).WithField("file", name).Warn("Failed to parse track")

	code := "invalid_track"
	if errors.Is(err, ingest.ErrNoPoints) {
		code = "no_points"
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"code":    code,
		"message": err.Error(),
	})
}

// respond отдает ответ в JSON или, по заголовку Accept, в protobuf (google.protobuf.Struct)
func (h *RESTHandler) respond(c *gin.Context, status int, v interface{}) {
	if !wantsProtobuf(c) {
		c.JSON(status, v)
		return
	}

	data, err := marshalProtobuf(v)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal protobuf")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "marshal_error",
			"message": "Failed to serialize response",
		})
		return
	}
	c.Data(status, protobufContentType, data)
}
