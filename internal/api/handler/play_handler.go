package handler

import (
	"net/http"
	"path/filepath"

	"vidstream/internal/api/dto"
	"vidstream/internal/api/middleware"
	"vidstream/internal/api/response"
	"vidstream/internal/service"
	"vidstream/internal/storage"
	"vidstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PlayHandler struct {
	playService *service.PlayService
	store       storage.Backend
}

func NewPlayHandler(playService *service.PlayService, store storage.Backend) *PlayHandler {
	return &PlayHandler{playService: playService, store: store}
}

// viewerID 可选认证下的观看者 ID，匿名为 nil
func viewerID(c *gin.Context) *int64 {
	if uid, ok := middleware.GetCurrentUserID(c); ok {
		return &uid
	}
	return nil
}

// serveObject 从存储后端读出对象并按 HTTP 语义下发，Range 请求由 ServeContent 处理
func (h *PlayHandler) serveObject(c *gin.Context, key, contentType string) {
	file, modTime, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		logger.Error("Open stored object failed", zap.String("key", key), zap.Error(err))
		response.NotFound(c, "media file not found")
		return
	}
	defer file.Close()

	if contentType != "" {
		c.Header("Content-Type", contentType)
	}
	http.ServeContent(c.Writer, c.Request, filepath.Base(key), modTime, file)
}

// Stream 视频流
// @Summary 播放视频
// @Description 返回视频媒体流，支持 Range 分段请求；私有视频仅作者或管理员
// @Tags 播放
// @Produce octet-stream
// @Param id path int true "视频 ID"
// @Success 200 "媒体流"
// @Success 206 "分段媒体流"
// @Failure 404 {object} response.Response "视频不存在"
// @Router /play/{id}/stream [get]
func (h *PlayHandler) Stream(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	v, err := h.playService.GetPlayable(videoID, viewerID(c))
	if err != nil {
		handleVideoError(c, err, "stream video")
		return
	}

	h.serveObject(c, v.MediaKey, v.MimeType)
}

// Thumbnail 视频封面
// @Summary 视频封面
// @Description 返回视频封面图，无封面时 404
// @Tags 播放
// @Produce octet-stream
// @Param id path int true "视频 ID"
// @Success 200 "封面图"
// @Failure 404 {object} response.Response "封面不存在"
// @Router /play/{id}/thumbnail [get]
func (h *PlayHandler) Thumbnail(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	v, err := h.playService.GetPlayable(videoID, viewerID(c))
	if err != nil {
		handleVideoError(c, err, "get thumbnail")
		return
	}

	if v.ThumbnailKey == "" {
		response.NotFound(c, "thumbnail not found")
		return
	}

	h.serveObject(c, v.ThumbnailKey, "")
}

// Metadata 播放元数据
// @Summary 播放元数据
// @Description 返回播放所需的元数据，不增加观看数
// @Tags 播放
// @Produce json
// @Param id path int true "视频 ID"
// @Success 200 {object} response.Response{data=dto.VideoMetadata} "查询成功"
// @Failure 404 {object} response.Response "视频不存在"
// @Router /play/{id}/metadata [get]
func (h *PlayHandler) Metadata(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	meta, err := h.playService.Metadata(videoID, viewerID(c))
	if err != nil {
		handleVideoError(c, err, "get metadata")
		return
	}

	response.OK(c, "ok", meta)
}

// GetProgress 查询播放进度
// @Summary 查询播放进度
// @Description 返回当前用户在该视频上保存的播放位置，无记录时位置为 0
// @Tags 播放
// @Produce json
// @Param id path int true "视频 ID"
// @Success 200 {object} response.Response{data=dto.ProgressData} "查询成功"
// @Failure 401 {object} response.Response "未认证"
// @Failure 404 {object} response.Response "视频不存在"
// @Security BearerAuth
// @Router /play/{id}/progress [get]
func (h *PlayHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	data, err := h.playService.GetProgress(userID, videoID)
	if err != nil {
		handleVideoError(c, err, "get progress")
		return
	}

	response.OK(c, "ok", data)
}

// Progress 上报播放进度
// @Summary 上报播放进度
// @Description 记录当前用户的播放位置，达到阈值时在去重窗口内计一次播放数
// @Tags 播放
// @Accept json
// @Produce json
// @Param id path int true "视频 ID"
// @Param request body dto.ProgressRequest true "播放位置（秒）"
// @Success 200 {object} response.Response{data=dto.ProgressData} "上报成功"
// @Failure 401 {object} response.Response "未认证"
// @Failure 404 {object} response.Response "视频不存在"
// @Security BearerAuth
// @Router /play/{id}/progress [post]
func (h *PlayHandler) Progress(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	var req dto.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	data, err := h.playService.UpdateProgress(c.Request.Context(), userID, videoID, req.Position)
	if err != nil {
		handleVideoError(c, err, "update progress")
		return
	}

	response.OK(c, "progress saved", data)
}
