package http

import (
	"errors"
	"io"
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

type UploadHandler struct {
	uploadUseCase usecase.UploadUseCase
	maxBytes      int64
	logger        *logger.Logger
}

func NewUploadHandler(uploadUseCase usecase.UploadUseCase, maxBytes int64, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// Upload godoc
// @Summary      Upload a media file
// @Description  Streams one file to storage and returns its public URL. Images and videos are watermarked in the background; the URL serves the original until then.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image, video or other file"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	// The body is read part by part so large videos never sit in memory.
	reader, err := c.Request.MultipartReader()
	if err != nil {
		badRequest(c, "Expected multipart/form-data")
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			badRequest(c, "File is required")
			return
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, h.logger, err, "Failed to upload file")
				return
			}
			badRequest(c, "Malformed multipart body")
			return
		}

		if part.FormName() != uploadField || part.FileName() == "" {
			part.Close()
			continue
		}

		asset, err := h.uploadUseCase.Accept(c.Request.Context(), actorFrom(c).UserID, part, part.FileName())
		part.Close()
		if err != nil {
			respondError(c, h.logger, err, "Failed to upload file")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":              asset.URL,
			"type":             asset.Kind,
			"id":               asset.ID,
			"watermark_status": asset.WatermarkStatus,
		})
		return
	}
}
