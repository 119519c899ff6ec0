package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"vidstream/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestNewKey(t *testing.T) {
	key := NewKey(KindVideo, "My Clip.MP4")

	kind, object, err := SplitKey(key)
	if err != nil {
		t.Fatalf("SplitKey(%q) failed: %v", key, err)
	}
	if kind != KindVideo {
		t.Errorf("kind = %q, want %q", kind, KindVideo)
	}
	if !strings.HasSuffix(object, ".mp4") {
		t.Errorf("object %q should keep lowercased extension", object)
	}
	if strings.Contains(object, "My Clip") {
		t.Errorf("object %q must not contain the original file name", object)
	}

	if NewKey(KindVideo, "a.mp4") == NewKey(KindVideo, "a.mp4") {
		t.Error("two keys for the same name must differ")
	}
}

func TestSplitKeyInvalid(t *testing.T) {
	for _, key := range []string{"", "noslash", "/leading", "trailing/"} {
		if _, _, err := SplitKey(key); err == nil {
			t.Errorf("SplitKey(%q) should fail", key)
		}
	}
}

func TestLocalBackendRoundTrip(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend failed: %v", err)
	}

	ctx := context.Background()
	key := NewKey(KindVideo, "clip.mp4")
	content := "fake video bytes"

	if err := backend.Save(ctx, key, strings.NewReader(content), int64(len(content)), "video/mp4"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	file, modTime, err := backend.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	if modTime.IsZero() {
		t.Error("modTime should be set")
	}

	got, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}

	// Seek 支持是 Range 响应的前提
	if _, err := file.Seek(5, io.SeekStart); err != nil {
		t.Errorf("Seek failed: %v", err)
	}
}

func TestLocalBackendRemove(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend failed: %v", err)
	}

	ctx := context.Background()
	key := NewKey(KindThumbnail, "cover.jpg")

	if err := backend.Save(ctx, key, strings.NewReader("img"), 3, "image/jpeg"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := backend.Remove(ctx, key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, _, err := backend.Open(ctx, key); err == nil {
		t.Error("Open after Remove should fail")
	}

	// 重复删除不报错
	if err := backend.Remove(ctx, key); err != nil {
		t.Errorf("Remove of missing object should succeed, got %v", err)
	}
}

func TestLocalBackendRejectsTraversal(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend failed: %v", err)
	}

	ctx := context.Background()
	if err := backend.Save(ctx, "videos/../../etc/passwd", strings.NewReader("x"), 1, ""); err == nil {
		t.Error("Save with path traversal in object name should fail")
	}
	if _, _, err := backend.Open(ctx, "videos/../secret"); err == nil {
		t.Error("Open with path traversal in object name should fail")
	}
}
