package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"vidstream/internal/api/dto"
	"vidstream/internal/api/middleware"
	"vidstream/internal/api/response"
	"vidstream/internal/config"
	"vidstream/internal/service"
	"vidstream/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// parseVideoID 解析路径参数中的视频 ID
func parseVideoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid video id")
		return 0, false
	}
	return id, true
}

// handleVideoError 视频操作错误统一映射
func handleVideoError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrVideoForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.String("action", action), zap.Error(err))
		response.InternalError(c, action+" failed", err)
	}
}

// checkUploadFile 上传文件的类型和大小校验，文件写入之前执行。
// MIME 主类型必须匹配，配置了白名单时还要求精确命中。
func checkUploadFile(fh *multipart.FileHeader, typePrefix string, allowed []string, maxSize int64) string {
	if maxSize > 0 && fh.Size > maxSize {
		return "file too large"
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, typePrefix) {
		return "unsupported file type: " + contentType
	}

	if len(allowed) > 0 {
		for _, t := range allowed {
			if t == contentType {
				return ""
			}
		}
		return "unsupported file type: " + contentType
	}
	return ""
}

// Upload 上传视频
// @Summary 上传视频
// @Description multipart 上传视频文件（必填）和封面（可选），附带标题、分类等元数据
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "标题"
// @Param category formData string true "分类"
// @Param description formData string false "描述"
// @Param tags formData string false "逗号分隔的标签"
// @Param is_public formData bool false "是否公开，默认公开"
// @Param video formData file true "视频文件"
// @Param thumbnail formData file false "封面图"
// @Success 201 {object} response.Response{data=dto.VideoUploadData} "上传成功"
// @Failure 400 {object} response.Response "参数或文件无效"
// @Failure 401 {object} response.Response "未认证"
// @Security BearerAuth
// @Router /videos [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	storageCfg := config.GetStorage()
	if storageCfg.MaxFileSize > 0 {
		// multipart 解析前封顶请求体，超限时中途截断而不是整段读完再拒绝。
		// 上限按 视频 + 封面 + 表单字段余量 计算。
		maxBody := 2*storageCfg.MaxFileSize + 1<<20
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
	}

	var req dto.VideoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.BadRequest(c, "request body too large")
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	videoFH, err := c.FormFile("video")
	if err != nil {
		response.BadRequest(c, "video file is required")
		return
	}

	if msg := checkUploadFile(videoFH, "video/", storageCfg.AllowedVideoTypes, storageCfg.MaxFileSize); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	thumbFH, err := c.FormFile("thumbnail")
	if err != nil {
		thumbFH = nil
	}
	if thumbFH != nil {
		if msg := checkUploadFile(thumbFH, "image/", storageCfg.AllowedImageTypes, storageCfg.MaxFileSize); msg != "" {
			response.BadRequest(c, msg)
			return
		}
	}

	videoFile, err := videoFH.Open()
	if err != nil {
		logger.Error("Open uploaded video failed", zap.Error(err))
		response.InternalError(c, "upload failed", err)
		return
	}
	defer videoFile.Close()

	upload := service.UploadFile{
		Reader:      videoFile,
		Size:        videoFH.Size,
		ContentType: videoFH.Header.Get("Content-Type"),
		Filename:    videoFH.Filename,
	}

	var thumbUpload *service.UploadFile
	if thumbFH != nil {
		thumbFile, err := thumbFH.Open()
		if err != nil {
			logger.Error("Open uploaded thumbnail failed", zap.Error(err))
			response.InternalError(c, "upload failed", err)
			return
		}
		defer thumbFile.Close()

		thumbUpload = &service.UploadFile{
			Reader:      thumbFile,
			Size:        thumbFH.Size,
			ContentType: thumbFH.Header.Get("Content-Type"),
			Filename:    thumbFH.Filename,
		}
	}

	data, err := h.videoService.Upload(c.Request.Context(), userID, &req, upload, thumbUpload)
	if err != nil {
		handleVideoError(c, err, "upload")
		return
	}

	response.Created(c, "video uploaded", data)
}

// List 公开视频列表
// @Summary 视频列表
// @Description 分页返回公开视频，支持分类筛选和关键词搜索
// @Tags 视频
// @Produce json
// @Param page query int false "页码，默认 1"
// @Param limit query int false "每页条数，默认 10，上限 100"
// @Param category query string false "分类，all 或留空不筛选"
// @Param search query string false "搜索词，匹配标题/描述/标签"
// @Success 200 {object} response.Response{data=dto.VideoListData} "查询成功"
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var req dto.VideoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	data, err := h.videoService.List(&req)
	if err != nil {
		handleVideoError(c, err, "list videos")
		return
	}

	response.Paginated(c, "ok", data, response.NewPagination(data.Page, data.Limit, data.Total))
}

// Mine 我的视频列表
// @Summary 我的视频
// @Description 分页返回当前用户自己的视频（含私有）
// @Tags 视频
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} response.Response{data=dto.VideoListData} "查询成功"
// @Failure 401 {object} response.Response "未认证"
// @Security BearerAuth
// @Router /videos/mine [get]
func (h *VideoHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	data, err := h.videoService.MyVideos(userID, page, limit)
	if err != nil {
		handleVideoError(c, err, "list my videos")
		return
	}

	response.Paginated(c, "ok", data, response.NewPagination(data.Page, data.Limit, data.Total))
}

// GetByID 视频详情
// @Summary 视频详情
// @Description 公开视频观看数加一并返回详情；私有视频仅作者或管理员可见
// @Tags 视频
// @Produce json
// @Param id path int true "视频 ID"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "查询成功"
// @Failure 404 {object} response.Response "视频不存在"
// @Router /videos/{id} [get]
func (h *VideoHandler) GetByID(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	var viewerID *int64
	if uid, ok := middleware.GetCurrentUserID(c); ok {
		viewerID = &uid
	}

	info, err := h.videoService.GetDetail(videoID, viewerID)
	if err != nil {
		handleVideoError(c, err, "get video")
		return
	}

	response.OK(c, "ok", info)
}

// Update 更新视频信息
// @Summary 更新视频
// @Description 部分更新标题、描述、分类、标签、可见性，仅作者或管理员
// @Tags 视频
// @Accept json
// @Produce json
// @Param id path int true "视频 ID"
// @Param request body dto.VideoUpdateRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "更新成功"
// @Failure 400 {object} response.Response "请求参数无效"
// @Failure 403 {object} response.Response "无权操作"
// @Failure 404 {object} response.Response "视频不存在"
// @Security BearerAuth
// @Router /videos/{id} [put]
func (h *VideoHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	info, err := h.videoService.Update(c.Request.Context(), videoID, userID, &req)
	if err != nil {
		handleVideoError(c, err, "update video")
		return
	}

	response.OK(c, "video updated", info)
}

// Delete 删除视频
// @Summary 删除视频
// @Description 软删除，记录保留但对外不可见，仅作者或管理员
// @Tags 视频
// @Produce json
// @Param id path int true "视频 ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.Response "无权操作"
// @Failure 404 {object} response.Response "视频不存在"
// @Security BearerAuth
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		handleVideoError(c, err, "delete video")
		return
	}

	response.OK(c, "video deleted", nil)
}
