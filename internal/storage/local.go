package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"vidstream/pkg/logger"

	"go.uber.org/zap"
)

// LocalBackend 本地磁盘存储，默认后端
type LocalBackend struct {
	root string
}

// NewLocalBackend 创建本地存储后端并准备好各用途子目录
func NewLocalBackend(root string) (*LocalBackend, error) {
	for _, kind := range []string{KindVideo, KindThumbnail} {
		dir := filepath.Join(root, kind)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	logger.Info("Local storage backend ready", zap.String("root", root))
	return &LocalBackend{root: root}, nil
}

func (b *LocalBackend) path(key string) (string, error) {
	kind, object, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	// 对象名由 uuid 生成，这里再挡一道路径穿越
	if filepath.Base(object) != object {
		return "", fmt.Errorf("invalid object name: %q", object)
	}
	return filepath.Join(b.root, kind, object), nil
}

// Save 先写临时文件再原子重命名，失败时不留下半成品
func (b *LocalBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dst, err := b.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// Remove 删除对象，不存在视为成功
func (b *LocalBackend) Remove(ctx context.Context, key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Open 打开对象用于读取，os.File 天然支持 Seek
func (b *LocalBackend) Open(ctx context.Context, key string) (File, time.Time, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, time.Time{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, err
	}

	return f, info.ModTime(), nil
}
