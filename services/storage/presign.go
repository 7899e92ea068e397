// Package storage hands out presigned S3 upload URLs for product, category and advertisement images.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// DefaultPresignTTL is how long an upload URL stays valid when none is configured
const DefaultPresignTTL = 15 * time.Minute

// Folders images are grouped under
var folders = map[string]string{
	"product":       "products",
	"category":      "categories",
	"advertisement": "advertisements",
}

// UploadRequest describes the file the client wants to upload
type UploadRequest struct {
	Filename    string
	ContentType string
	Purpose     string
}

// Upload is a presigned PUT the client performs directly against the bucket
type Upload struct {
	URL       string            `json:"upload_url"`
	Method    string            `json:"method"`
	ObjectKey string            `json:"object_key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Presigner signs S3 PUT requests
type Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewPresigner builds an S3 presign client from cfg. Static credentials are used when set,
// the default AWS credential chain otherwise.
func NewPresigner(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	return &Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// PresignUpload returns a URL the client can PUT the image to
func (p *Presigner) PresignUpload(ctx context.Context, req UploadRequest) (*Upload, error) {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "only image uploads are allowed", nil).
			WithDetail("content_type", req.ContentType)
	}

	folder, ok := folders[req.Purpose]
	if !ok {
		folder = "misc"
	}
	key := path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(req.Filename)))

	signed, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, services.WrapExternal(services.ErrObjectStorage.Message, err)
	}

	headers := make(map[string]string, len(signed.SignedHeader))
	for name, values := range signed.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	p.logger.Debug("upload presigned", zap.String("object_key", key), zap.Duration("ttl", p.ttl))

	return &Upload{
		URL:       signed.URL,
		Method:    signed.Method,
		ObjectKey: key,
		Headers:   headers,
		ExpiresAt: p.now().UTC().Add(p.ttl),
	}, nil
}
