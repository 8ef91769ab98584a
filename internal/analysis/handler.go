package analysis

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/extract"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/telemetry"
)

const (
	maxUploadBytes = 5 << 20
	maxTextBytes   = 1 << 20
)

// Handler wires the analysis endpoints to the pipeline service.
type Handler struct {
	Svc     *Service
	Store   object.ObjectStore
	Tracker *metrics.Tracker
}

// NewHandler constructs a Handler. tracker may be nil when stats are not
// collected.
func NewHandler(svc *Service, store object.ObjectStore, tracker *metrics.Tracker) *Handler {
	return &Handler{Svc: svc, Store: store, Tracker: tracker}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.POST("/analyze", h.analyzeFile)
	rg.POST("/analyze/text", h.analyzeText)
	rg.POST("/validate", h.validateText)
	rg.GET("/stats", h.stats)
	rg.GET("/companies", h.companies)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{
		"status":           "ok",
		"companies_loaded": h.Svc.Profiles().Len(),
		"models_loaded":    h.Svc.ModelsLoaded(),
	})
}

func (h *Handler) analyzeFile(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusBadRequest, "validation_error", "file field is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 5 MiB limit", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !extract.Supported(mimeType, fileHeader.Filename) {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF, DOCX and plain text resumes are accepted", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload", nil)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	storageKey, _, storedMime, err := h.Store.Save(ctx, fileHeader.Filename, file)
	if err != nil {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		return
	}
	defer func() {
		if err := h.Store.Delete(ctx, storageKey); err != nil {
			telemetry.Error("upload.cleanup_failed", map[string]any{
				"storage_key": storageKey,
				"error":       err.Error(),
			})
		}
	}()

	text, err := extract.ExtractText(ctx, h.Store, storageKey, storedMime, fileHeader.Filename)
	if err != nil {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from the document", nil)
		return
	}

	report, err := h.Svc.Analyze(ctx, text)
	if err != nil {
		h.trackRequest("analyze", start, "error")
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		return
	}
	report.FileName = fileHeader.Filename

	h.writeReport(c, "analyze", start, report)
}

func (h *Handler) analyzeText(c *gin.Context) {
	start := time.Now()

	text, ok := h.readText(c)
	if !ok {
		h.trackRequest("analyze_text", start, "error")
		return
	}

	report, err := h.Svc.Analyze(c.Request.Context(), text)
	if err != nil {
		h.trackRequest("analyze_text", start, "error")
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		return
	}

	h.writeReport(c, "analyze_text", start, report)
}

func (h *Handler) validateText(c *gin.Context) {
	start := time.Now()

	text, ok := h.readText(c)
	if !ok {
		h.trackRequest("validate", start, "error")
		return
	}

	result := h.Svc.ValidateOnly(text)
	h.trackRequest("validate", start, "success")
	respond.OK(c, result)
}

func (h *Handler) stats(c *gin.Context) {
	if h.Tracker == nil {
		respond.OK(c, metrics.Stats{})
		return
	}
	respond.OK(c, h.Tracker.Snapshot())
}

func (h *Handler) companies(c *gin.Context) {
	names := h.Svc.Profiles().Names()
	respond.OK(c, gin.H{
		"companies": names,
		"count":     len(names),
	})
}

// textRequest accepts either a JSON body {"text": ...} or a raw text body.
type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) readText(c *gin.Context) (string, bool) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "application/json") {
		var req textRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return "", false
		}
		if strings.TrimSpace(req.Text) == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
			return "", false
		}
		return req.Text, true
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTextBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read request body", nil)
		return "", false
	}
	if len(raw) > maxTextBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "text_too_large", "text body exceeds the 1 MiB limit", nil)
		return "", false
	}
	if strings.TrimSpace(string(raw)) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return "", false
	}
	return string(raw), true
}

func (h *Handler) writeReport(c *gin.Context, endpoint string, start time.Time, report Report) {
	if !report.Valid() {
		h.trackRequest(endpoint, start, "rejected")
		respond.JSON(c, http.StatusBadRequest, report)
		return
	}
	h.trackRequest(endpoint, start, "success")
	respond.OK(c, report)
}

func (h *Handler) trackRequest(endpoint string, start time.Time, status string) {
	if h.Tracker == nil {
		return
	}
	h.Tracker.TrackRequest(endpoint, time.Since(start), status, nil)
}
