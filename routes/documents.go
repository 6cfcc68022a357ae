package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"document-chat-platform/internal/config"
	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/logger"
	"document-chat-platform/internal/queue"
	"document-chat-platform/internal/store"
	"document-chat-platform/models"
	"document-chat-platform/services"
	"document-chat-platform/utils"
)

// SetupDocumentRoutes registers upload, list and delete endpoints. When a
// queue client is provided and async processing is enabled, uploads are
// enqueued instead of processed inline.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, documents *services.DocumentService, queueClient *asynq.Client) {
	group := router.Group("/api/documents")

	group.POST("/upload", handleUpload(cfg, documents, queueClient))
	group.GET("", handleList(documents))
	group.DELETE("/:id", handleDelete(documents))
}

func handleUpload(cfg *config.Config, documents *services.DocumentService, queueClient *asynq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithBadRequest(c, "File size exceeds maximum limit", gin.H{"max_size": cfg.MaxFileSize})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}
		defer file.Close()

		if header.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File size exceeds maximum limit", gin.H{"max_size": cfg.MaxFileSize})
			return
		}

		// Sanity-check the magic bytes before accepting the body.
		headerBuf := make([]byte, 5)
		if _, err := io.ReadFull(file, headerBuf); err != nil {
			utils.RespondWithBadRequest(c, "Cannot read file header", nil)
			return
		}
		if string(headerBuf[:4]) != "%PDF" && strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			utils.RespondWithBadRequest(c, "File does not appear to be a valid PDF", nil)
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}

		doc, err := documents.SaveUpload(c.Request.Context(), header.Filename, file)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedFormat) {
				utils.RespondWithBadRequest(c, "Only PDF files are supported", gin.H{"filename": header.Filename})
				return
			}
			logger.Error("upload failed", "filename", header.Filename, "error", err)
			utils.RespondWithInternalError(c, "Failed to save upload", nil)
			return
		}

		if cfg.AsyncProcessing && queueClient != nil {
			task, err := queue.NewDocumentProcessTask(doc.ID)
			if err == nil {
				info, enqErr := queueClient.Enqueue(task)
				if enqErr == nil {
					c.JSON(http.StatusAccepted, models.UploadResponse{
						Success:    true,
						Message:    "Upload accepted, processing in background",
						DocumentID: doc.ID,
						Filename:   doc.Filename,
						TaskID:     info.ID,
					})
					return
				}
				err = enqErr
			}
			// Queue unavailable: fall through to inline processing.
			logger.Warn("failed to enqueue document, processing inline", "document_id", doc.ID, "error", err)
		}

		doc, err = documents.Process(c.Request.Context(), doc.ID)
		if err != nil {
			respondProcessingError(c, doc, err)
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Success:    true,
			Message:    "Document processed successfully",
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			NumChunks:  doc.NumChunks,
		})
	}
}

func respondProcessingError(c *gin.Context, doc models.Document, err error) {
	if unavailable, ok := embedding.AsUnavailable(err); ok {
		var message string
		switch unavailable.Reason {
		case embedding.ReasonQuota:
			message = "Embedding quota exceeded. The document was saved and will be retried automatically."
		case embedding.ReasonRateLimit:
			message = "Embedding provider is rate limiting requests. Please try again in a moment."
		default:
			message = "Embedding provider is unreachable. The document was saved and will be retried automatically."
		}
		utils.RespondWithUnavailable(c, message, gin.H{"document_id": doc.ID, "reason": unavailable.Reason})
		return
	}
	if errors.Is(err, services.ErrExtractionFailure) {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"extraction_failed",
			"Could not extract text from the PDF. The document might be empty or image-based.",
			gin.H{"document_id": doc.ID})
		return
	}
	logger.Error("document processing failed", "document_id", doc.ID, "error", err)
	utils.RespondWithInternalError(c, "Failed to process document", gin.H{"document_id": doc.ID})
}

func handleList(documents *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := documents.List(c.Request.Context())
		if err != nil {
			logger.Error("failed to list documents", "error", err)
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		if docs == nil {
			docs = []models.Document{}
		}
		c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
	}
}

func handleDelete(documents *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := documents.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Document not found")
				return
			}
			logger.Error("failed to delete document", "document_id", id, "error", err)
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Document deleted"})
	}
}
