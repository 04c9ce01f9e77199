package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/domain/entities"
	"github.com/vocamed/scriba/usecase"
)

// Handler wires the pipeline services onto the HTTP surface.
type Handler struct {
	documents     *usecase.DocumentService
	transcription *usecase.TranscriptionService
	extraction    *usecase.ExtractionService
	logger        *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	documents *usecase.DocumentService,
	transcription *usecase.TranscriptionService,
	extraction *usecase.ExtractionService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		documents:     documents,
		transcription: transcription,
		extraction:    extraction,
		logger:        logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "scriba",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/documents", h.registerDocument)
	v1.GET("/documents/:id", h.getDocument)

	v1.POST("/documents/:id/transcript", h.runTranscription)
	v1.GET("/documents/:id/transcript", h.getTranscriptStatus)

	v1.POST("/documents/:id/record", h.runExtraction)
	v1.GET("/documents/:id/record", h.getExtractionStatus)

	// Live status updates until the watched stage reaches a terminal state
	e.GET("/ws/documents/:id/status", h.watchStatus)
}

func (h *Handler) registerDocument(c echo.Context) error {
	var req RegisterDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	var meta *entities.AudioMetadata
	if req.Duration != 0 || req.FileSize != 0 || req.MimeType != "" {
		meta = &entities.AudioMetadata{
			Duration: req.Duration,
			FileSize: req.FileSize,
			MimeType: req.MimeType,
		}
	}

	document, err := h.documents.Register(c.Request().Context(), req.AudioRef, meta)
	if err != nil {
		h.logger.Error("Failed to register document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to register document",
		})
	}

	return c.JSON(http.StatusCreated, RegisterDocumentResponse{
		DocumentID: document.ID.Hex(),
		CreatedAt:  document.CreatedAt,
	})
}

func (h *Handler) getDocument(c echo.Context) error {
	document, err := h.documents.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	if document == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
		})
	}
	return c.JSON(http.StatusOK, document)
}

func (h *Handler) runTranscription(c echo.Context) error {
	documentID := c.Param("id")

	transcript, err := h.transcription.Run(c.Request().Context(), documentID)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, TranscriptionResponse{
		DocumentID: documentID,
		Transcript: transcript,
	})
}

func (h *Handler) runExtraction(c echo.Context) error {
	documentID := c.Param("id")

	var req RunExtractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	record, err := h.extraction.Run(c.Request().Context(), documentID, req.Specialization)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, ExtractionResponse{
		DocumentID:       documentID,
		StructuredRecord: record,
	})
}

func (h *Handler) getTranscriptStatus(c echo.Context) error {
	view, err := h.documents.TranscriptStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	if view == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
		})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) getExtractionStatus(c echo.Context) error {
	view, err := h.documents.ExtractionStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	if view == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
		})
	}
	return c.JSON(http.StatusOK, view)
}

// errorResponse maps the pipeline error taxonomy onto HTTP codes. Upstream
// failures surface verbatim; precondition failures carry the actionable
// message.
func (h *Handler) errorResponse(c echo.Context, err error) error {
	var serviceErr *entities.ServiceError
	var unparsable *entities.UnparsableOutputError
	var validation *entities.SchemaValidationError

	switch {
	case errors.Is(err, entities.ErrDocumentNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
		})
	case errors.Is(err, entities.ErrMissingAudio):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "missing_audio",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrTranscriptMissing):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "transcript_missing",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrStageBusy):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "stage_busy",
			Message: err.Error(),
		})
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "schema_validation_failed",
			Message: "Generator output failed schema validation",
			Details: validation.Violations,
		})
	case errors.As(err, &unparsable):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "unparsable_output",
			Message: unparsable.Error(),
		})
	case errors.As(err, &serviceErr):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   serviceErr.Service + "_service_error",
			Message: serviceErr.Message,
		})
	default:
		h.logger.Error("Unhandled pipeline error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Unexpected error",
		})
	}
}
