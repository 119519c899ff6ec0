package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 存储键按用途分前缀：videos/<uuid>.<ext>、thumbnails/<uuid>.<ext>。
// local 后端映射为根目录下的相对路径，minio 后端映射为 bucket/object。
const (
	KindVideo     = "videos"
	KindThumbnail = "thumbnails"
)

// File 可随机读取的媒体对象，交给 http.ServeContent 做 Range 响应
type File interface {
	io.ReadSeekCloser
}

// Backend 媒体二进制存储后端
type Backend interface {
	// Save 按给定键写入对象；失败时不留下半成品
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Remove 删除对象（上传失败清理、不存在时不报错）
	Remove(ctx context.Context, key string) error
	// Open 打开对象用于读取/Range 响应，返回对象和最后修改时间
	Open(ctx context.Context, key string) (File, time.Time, error)
}

// NewKey 生成一个新的存储键：<kind>/<uuid><ext>
func NewKey(kind, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}

// SplitKey 拆分存储键为用途前缀和对象名
func SplitKey(key string) (kind, object string, err error) {
	idx := strings.IndexByte(key, '/')
	if idx <= 0 || idx == len(key)-1 {
		return "", "", fmt.Errorf("invalid storage key: %q", key)
	}
	return key[:idx], key[idx+1:], nil
}
