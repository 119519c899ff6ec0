package storage

import (
	"context"
	"io"
	"time"

	infraMinio "vidstream/internal/infra/minio"

	"github.com/minio/minio-go/v7"
)

// MinioBackend 对象存储后端，存储键的 kind 前缀对应 bucket 名
type MinioBackend struct{}

func NewMinioBackend() *MinioBackend {
	return &MinioBackend{}
}

func (b *MinioBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	bucket, object, err := SplitKey(key)
	if err != nil {
		return err
	}
	_, err = infraMinio.UploadFile(ctx, bucket, object, r, size, contentType)
	return err
}

func (b *MinioBackend) Remove(ctx context.Context, key string) error {
	bucket, object, err := SplitKey(key)
	if err != nil {
		return err
	}
	return infraMinio.RemoveFile(ctx, bucket, object)
}

// Open 返回的 *minio.Object 实现了 Read/Seek/Close，可直接交给 http.ServeContent
func (b *MinioBackend) Open(ctx context.Context, key string) (File, time.Time, error) {
	bucket, object, err := SplitKey(key)
	if err != nil {
		return nil, time.Time{}, err
	}

	obj, err := infraMinio.Get().GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, time.Time{}, err
	}

	// Stat 同时确认对象存在，避免 ServeContent 阶段才发现 404
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, time.Time{}, err
	}

	return obj, info.LastModified, nil
}
