package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"vidstream/internal/api/middleware"
	"vidstream/internal/config"
	"vidstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Logger = zap.NewNop()

	// 上传校验需要 storage 配置
	f, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		panic(err)
	}
	_, _ = f.WriteString("app:\n  name: vidstream-test\nstorage:\n  max_file_size: 1024\njwt:\n  secret: test-secret\n  expire_hours: 1\n")
	f.Close()
	if _, err := config.Load(f.Name()); err != nil {
		panic(err)
	}
	os.Remove(f.Name())

	os.Exit(m.Run())
}

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: "upload.bin", Header: h, Size: size}
}

func TestCheckUploadFile(t *testing.T) {
	const maxSize = 1024

	tests := []struct {
		name       string
		fh         *multipart.FileHeader
		typePrefix string
		allowed    []string
		wantReject bool
	}{
		{"video ok", fileHeader("video/mp4", 100), "video/", nil, false},
		{"image ok", fileHeader("image/jpeg", 100), "image/", nil, false},
		{"wrong main type", fileHeader("text/plain", 100), "video/", nil, true},
		{"image where video expected", fileHeader("image/png", 100), "video/", nil, true},
		{"missing content type", fileHeader("", 100), "video/", nil, true},
		{"over size limit", fileHeader("video/mp4", maxSize + 1), "video/", nil, true},
		{"exactly at limit", fileHeader("video/mp4", maxSize), "video/", nil, false},
		{"allowlist hit", fileHeader("video/mp4", 100), "video/", []string{"video/mp4", "video/webm"}, false},
		{"allowlist miss", fileHeader("video/x-flv", 100), "video/", []string{"video/mp4", "video/webm"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := checkUploadFile(tt.fh, tt.typePrefix, tt.allowed, maxSize)
			if tt.wantReject && msg == "" {
				t.Error("file should be rejected")
			}
			if !tt.wantReject && msg != "" {
				t.Errorf("file should be accepted, got %q", msg)
			}
		})
	}
}

func TestCheckUploadFileNoSizeLimit(t *testing.T) {
	if msg := checkUploadFile(fileHeader("video/mp4", 1<<40), "video/", nil, 0); msg != "" {
		t.Errorf("zero max size disables the limit, got %q", msg)
	}
}

// newUploadRouter 带身份注入的上传路由；被拒请求不会触到 service
func newUploadRouter() *gin.Engine {
	h := NewVideoHandler(nil)
	r := gin.New()
	r.POST("/api/v1/videos", func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, int64(1))
		h.Upload(c)
	})
	return r
}

// uploadRequest 构造一个带视频文件的 multipart 上传请求
func uploadRequest(t *testing.T, videoSize int) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("title", "clip")
	_ = mw.WriteField("category", "music")

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="video"; filename="clip.mp4"`)
	h.Set("Content-Type", "video/mp4")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), videoSize)); err != nil {
		t.Fatalf("write video part failed: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadRejectsOversizeBody(t *testing.T) {
	// 请求体远超 上限(2*max_file_size+1MB)，解析应中途截断
	r := newUploadRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, 2<<20))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("too large")) {
		t.Errorf("body = %s, want a too-large rejection", w.Body.String())
	}
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	// 请求体在整体上限内，但视频文件超出 max_file_size
	r := newUploadRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, 2048))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("file too large")) {
		t.Errorf("body = %s, want the per-file size rejection", w.Body.String())
	}
}
