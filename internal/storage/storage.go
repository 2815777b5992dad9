package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// ImageStore 保存帖子图片
type ImageStore interface {
	Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	URL(objectName string) string
}

// ObjectName 生成 posts/<uuid><ext>
func ObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "posts/" + uuid.NewString() + ext
}

// MinIOStore S3 兼容存储
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStore{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(cfg.PublicURL, "/")}, nil
}

// EnsureBucket 启动时创建 bucket
func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}
	logger.Info("bucket created", zap.String("bucket", m.bucket))
	return nil
}

func (m *MinIOStore) Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.Error("image upload failed", zap.Error(err), zap.String("object", objectName), zap.Int64("size", size))
		return err
	}
	logger.Debug("image uploaded", zap.String("object", objectName), zap.Int64("size", size))
	return nil
}

func (m *MinIOStore) Delete(ctx context.Context, objectName string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		logger.Warn("image delete failed", zap.Error(err), zap.String("object", objectName))
		return err
	}
	return nil
}

// URL 公开访问地址；bucket 需配置为匿名可读
func (m *MinIOStore) URL(objectName string) string {
	return m.publicURL + "/" + objectName
}
