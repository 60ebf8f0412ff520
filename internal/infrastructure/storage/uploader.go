package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"recipe-finder/internal/infrastructure/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured 物件儲存未設定
var ErrNotConfigured = errors.New("object storage not configured")

// Uploader 上傳檔案並回傳公開 URL
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

// objectPutter minio.Client 的最小介面，方便測試
type objectPutter interface {
	PutObject(ctx context.Context, bucket, objectName string, data []byte, contentType string) error
}

type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) PutObject(ctx context.Context, bucket, objectName string, data []byte, contentType string) error {
	_, err := w.client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// S3Uploader 上傳到 S3 相容儲存
type S3Uploader struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

// Upload 上傳並回傳公開 URL
func (u *S3Uploader) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	if err := u.client.PutObject(ctx, u.bucket, objectName, data, contentType); err != nil {
		return "", fmt.Errorf("upload object to storage: %w", err)
	}
	return u.publicURL(objectName), nil
}

// publicURL {base}/{object}，object 各段做 path escape
func (u *S3Uploader) publicURL(objectName string) string {
	segments := strings.Split(objectName, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(u.publicBaseURL, "/") + "/" + strings.Join(segments, "/")
}

// NoopUploader 未設定儲存時使用，上傳一律失敗
type NoopUploader struct{}

// Upload 回傳 ErrNotConfigured
func (NoopUploader) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	return "", ErrNotConfigured
}

// NewUploader 依設定建立 Uploader，未啟用時回傳 NoopUploader
func NewUploader(cfg config.StorageConfig) (Uploader, error) {
	if !cfg.Enabled {
		return NoopUploader{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3Uploader{
		client:        &minioClientWrapper{client: client},
		bucket:        cfg.Bucket,
		publicBaseURL: base,
	}, nil
}
