package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medimart/medi-server/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPresigner struct {
	got storage.UploadRequest
}

func (s *stubPresigner) PresignUpload(ctx context.Context, req storage.UploadRequest) (*storage.Upload, error) {
	s.got = req
	return &storage.Upload{
		URL:       "https://bucket.s3.amazonaws.com/products/abc.png?X-Amz-Signature=sig",
		Method:    http.MethodPut,
		ObjectKey: "products/abc.png",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func TestUploadHandler(t *testing.T) {
	t.Run("uploads disabled", func(t *testing.T) {
		h := NewUploadHandler(nil, zap.NewNop())
		w := httptest.NewRecorder()
		h.HandlePresign(w, newRequest(t, http.MethodPost, "/uploads/presign", map[string]string{
			"filename": "a.png", "content_type": "image/png",
		}, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("presigns upload", func(t *testing.T) {
		p := &stubPresigner{}
		h := NewUploadHandler(p, zap.NewNop())
		w := httptest.NewRecorder()
		h.HandlePresign(w, newRequest(t, http.MethodPost, "/uploads/presign", map[string]string{
			"filename": "a.png", "content_type": "image/png", "purpose": "product",
		}, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var upload storage.Upload
		decodeData(t, w, &upload)
		assert.Equal(t, "products/abc.png", upload.ObjectKey)
		assert.Equal(t, "product", p.got.Purpose)
	})

	t.Run("unknown purpose", func(t *testing.T) {
		h := NewUploadHandler(&stubPresigner{}, zap.NewNop())
		w := httptest.NewRecorder()
		h.HandlePresign(w, newRequest(t, http.MethodPost, "/uploads/presign", map[string]string{
			"filename": "a.png", "content_type": "image/png", "purpose": "avatar",
		}, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
