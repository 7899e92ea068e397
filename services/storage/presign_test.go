package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()
	p, err := NewPresigner(context.Background(), config.StorageConfig{
		Bucket:          "medi-images",
		Region:          "us-east-1",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
	}, zap.NewNop())
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestPresigner_PresignUpload(t *testing.T) {
	p := newTestPresigner(t)

	upload, err := p.PresignUpload(context.Background(), UploadRequest{
		Filename:    "Napa.PNG",
		ContentType: "image/png",
		Purpose:     "product",
	})

	require.NoError(t, err)
	assert.Equal(t, "PUT", upload.Method)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "products/"))
	assert.True(t, strings.HasSuffix(upload.ObjectKey, ".png"))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC), upload.ExpiresAt)

	u, err := url.Parse(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/medi-images/"+upload.ObjectKey, u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresigner_UnknownPurposeUsesMisc(t *testing.T) {
	p := newTestPresigner(t)

	upload, err := p.PresignUpload(context.Background(), UploadRequest{Filename: "x.jpg", ContentType: "image/jpeg"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "misc/"))
}

func TestPresigner_RejectsNonImages(t *testing.T) {
	p := newTestPresigner(t)

	_, err := p.PresignUpload(context.Background(), UploadRequest{Filename: "run.sh", ContentType: "text/x-shellscript"})

	assert.True(t, services.IsValidationError(err))
}

func TestNewPresigner_DefaultTTL(t *testing.T) {
	p := newTestPresigner(t)
	assert.Equal(t, DefaultPresignTTL, p.ttl)
}
