package handlers

import (
	"context"
	"net/http"

	"github.com/medimart/medi-server/services"
	"github.com/medimart/medi-server/services/storage"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// PresignUploadRequest describes an image the client wants to upload
type PresignUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Purpose     string `json:"purpose,omitempty" validate:"omitempty,oneof=product category advertisement"`
}

// Presigner signs upload URLs
type Presigner interface {
	PresignUpload(ctx context.Context, req storage.UploadRequest) (*storage.Upload, error)
}

// UploadHandler hands out presigned image upload URLs
type UploadHandler struct {
	presigner Presigner
	logger    *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. A nil presigner answers 503.
func NewUploadHandler(presigner Presigner, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		presigner: presigner,
		logger:    logger,
	}
}

// HandlePresign handles POST /uploads/presign
func (h *UploadHandler) HandlePresign(w http.ResponseWriter, r *http.Request) {
	if h.presigner == nil {
		HandleServiceError(w, services.ErrUploadsDisabled, h.logger)
		return
	}

	var req PresignUploadRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	upload, err := h.presigner.PresignUpload(r.Context(), storage.UploadRequest(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, upload))
}
