// ===============================
// FILE: internal/handlers/api/v1/uploads/uploads_controller.go
// ===============================

package uploads

import (
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"go.uber.org/zap"
)

// maxMultipartMemory caps how much of an upload is buffered in memory
// before spilling to a temp file.
const maxMultipartMemory = 10 << 20

// UploadController handles asset upload endpoints. Uploaded files back
// badge images and template backgrounds.
type UploadController struct {
	files           services.FileService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewUploadController creates an upload controller.
func NewUploadController(files services.FileService, logger *zap.Logger, responseBuilder *response.Builder) *UploadController {
	return &UploadController{
		files:           files,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Upload handles POST /api/v1/uploads
//
// Expects a multipart form with the asset under the "file" field.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("request must be multipart/form-data", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("missing 'file' form field", err))
		return
	}
	defer file.Close()

	publicPath, err := c.files.Save(r.Context(), header.Filename, file)
	if err != nil {
		if !services.IsValidationError(err) {
			c.logger.Error("upload failed",
				zap.String("filename", header.Filename),
				zap.Error(err),
			)
		}
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("file uploaded via API",
		zap.String("filename", header.Filename),
		zap.String("path", publicPath),
		zap.Int64("size", header.Size),
	)

	c.responseBuilder.WriteCreated(w, r, map[string]interface{}{
		"path": publicPath,
	})
}
