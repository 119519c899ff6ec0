package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"vidstream/internal/api/dto"
	infraKafka "vidstream/internal/infra/kafka"
	"vidstream/internal/model"
	"vidstream/internal/repository"
	"vidstream/internal/storage"
	"vidstream/pkg/logger"
	"vidstream/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrVideoForbidden   = errors.New("not authorized to modify this video")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrVideoFileMissing = errors.New("video file is required")
)

// VideoStore 视频存储接口，repository.VideoRepository 是生产实现
type VideoStore interface {
	Create(video *model.Video) error
	GetByID(id int64) (*model.Video, error)
	GetByIDIncludeDeleted(id int64) (*model.Video, error)
	Update(id int64, updates map[string]interface{}) (*model.Video, error)
	SoftDelete(id int64) error
	List(skip, limit int, opts repository.VideoListOptions) ([]model.Video, int64, error)
	GetByIDsWithOwner(ids []int64) ([]model.Video, error)
	IncrementViews(id int64) error
	IncrementPlays(id int64) error
}

// RoleStore 用户角色查询接口
type RoleStore interface {
	RoleOf(userID int64) (string, error)
}

// EventPublisher 视频事件发布接口，nil 表示事件流未启用
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event *infraKafka.VideoEvent) error
}

// UploadFile 一个待写入存储的上传文件
type UploadFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

type VideoService struct {
	videos VideoStore
	roles  RoleStore
	store  storage.Backend
	events EventPublisher
	search *SearchService
}

func NewVideoService(videos VideoStore, roles RoleStore, store storage.Backend, events EventPublisher, search *SearchService) *VideoService {
	return &VideoService{
		videos: videos,
		roles:  roles,
		store:  store,
		events: events,
		search: search,
	}
}

// Upload 上传视频：先落媒体文件，再建库记录。
// 文件写入之后任何一步失败，本次请求写入的所有对象同步删除，不留孤儿文件。
func (s *VideoService) Upload(ctx context.Context, ownerID int64, req *dto.VideoUploadRequest, video UploadFile, thumbnail *UploadFile) (*dto.VideoUploadData, error) {
	mediaKey := storage.NewKey(storage.KindVideo, video.Filename)
	written := make([]string, 0, 2)

	cleanup := func() {
		for _, key := range written {
			if err := s.store.Remove(ctx, key); err != nil {
				logger.Error("Cleanup of uploaded file failed",
					zap.String("key", key), zap.Error(err))
			}
		}
	}

	if err := s.store.Save(ctx, mediaKey, video.Reader, video.Size, video.ContentType); err != nil {
		return nil, fmt.Errorf("save video file: %w", err)
	}
	written = append(written, mediaKey)

	thumbnailKey := ""
	if thumbnail != nil {
		thumbnailKey = storage.NewKey(storage.KindThumbnail, thumbnail.Filename)
		if err := s.store.Save(ctx, thumbnailKey, thumbnail.Reader, thumbnail.Size, thumbnail.ContentType); err != nil {
			cleanup()
			return nil, fmt.Errorf("save thumbnail file: %w", err)
		}
		written = append(written, thumbnailKey)
	}

	visibility := model.VisibilityPublic
	if req.IsPublic != nil && !*req.IsPublic {
		visibility = model.VisibilityPrivate
	}

	v := &model.Video{
		OwnerID:          ownerID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Tags:             utils.ParseTags(req.Tags),
		MediaKey:         mediaKey,
		ThumbnailKey:     thumbnailKey,
		MimeType:         video.ContentType,
		FileSize:         video.Size,
		Quality:          "720p",
		Visibility:       visibility,
		ProcessingStatus: model.StatusCompleted,
	}

	if err := s.videos.Create(v); err != nil {
		logger.Error("Create video record failed, rolling back stored files",
			zap.Int64("owner_id", ownerID), zap.Error(err))
		cleanup()
		return nil, err
	}

	s.publishEvent(ctx, infraKafka.EventVideoCreated, v)

	data := &dto.VideoUploadData{
		ID:               v.ID,
		Title:            v.Title,
		Description:      v.Description,
		Category:         v.Category,
		Tags:             v.Tags,
		Visibility:       v.Visibility,
		ProcessingStatus: v.ProcessingStatus,
		CreatedAt:        v.CreatedAt,
	}
	if v.ThumbnailKey != "" {
		data.ThumbnailURL = thumbnailURL(v.ID)
	}
	return data, nil
}

// GetDetail 获取视频详情。
// 公开视频观看数 +1（库端原子自增）并返回自增后的值；
// 私有/已删除视频仅作者或管理员可见（审计路径），不计观看数，
// 其余调用方一律 not found，不暴露私有记录是否存在。
func (s *VideoService) GetDetail(videoID int64, viewerID *int64) (*dto.VideoInfo, error) {
	v, err := s.videos.GetByIDIncludeDeleted(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if v.Visibility == model.VisibilityPublic {
		if err := s.videos.IncrementViews(videoID); err != nil {
			return nil, err
		}
		v.Views++
		return toVideoInfo(v, true, true), nil
	}

	if s.canViewHidden(v, viewerID) {
		return toVideoInfo(v, true, true), nil
	}

	return nil, ErrVideoNotFound
}

// List 公开视频列表：分页、分类筛选、搜索。
// 带搜索词且 ES 可用时优先走 ES，失败降级到 DB 子串匹配。
func (s *VideoService) List(req *dto.VideoListRequest) (*dto.VideoListData, error) {
	page, limit := normalizePage(req.Page, req.Limit)

	category := req.Category
	if category == "all" {
		category = ""
	}

	if req.Search != "" && s.search != nil {
		data, err := s.search.SearchPublic(category, req.Search, page, limit)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}

	opts := repository.VideoListOptions{WithOwner: true}
	visibility := model.VisibilityPublic
	opts.Visibility = &visibility
	if category != "" {
		opts.Category = &category
	}
	if req.Search != "" {
		opts.Search = &req.Search
	}

	videos, total, err := s.videos.List((page-1)*limit, limit, opts)
	if err != nil {
		return nil, err
	}

	return buildVideoListData(videos, total, page, limit), nil
}

// MyVideos 当前用户自己的视频（任意可见性，不含已删除）
func (s *VideoService) MyVideos(ownerID int64, page, limit int) (*dto.VideoListData, error) {
	page, limit = normalizePage(page, limit)

	opts := repository.VideoListOptions{OwnerID: &ownerID}
	videos, total, err := s.videos.List((page-1)*limit, limit, opts)
	if err != nil {
		return nil, err
	}

	return buildVideoListData(videos, total, page, limit), nil
}

// Update 部分更新：只修改请求中出现的字段，显式空串会清空描述。
// 仅作者或管理员可操作。
func (s *VideoService) Update(ctx context.Context, videoID, callerID int64, req *dto.VideoUpdateRequest) (*dto.VideoInfo, error) {
	v, err := s.videos.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if v.OwnerID != callerID && !s.isAdmin(callerID) {
		return nil, ErrVideoForbidden
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		// map 更新不经过 GORM serializer，这里手动序列化
		tagsJSON, err := json.Marshal(utils.ParseTags(*req.Tags))
		if err != nil {
			return nil, err
		}
		updates["tags"] = string(tagsJSON)
	}
	if req.IsPublic != nil {
		if *req.IsPublic {
			updates["visibility"] = model.VisibilityPublic
		} else {
			updates["visibility"] = model.VisibilityPrivate
		}
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updated, err := s.videos.Update(videoID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	s.publishEvent(ctx, infraKafka.EventVideoUpdated, updated)

	return toVideoInfo(updated, false, false), nil
}

// Delete 软删除：可见性置为 deleted，记录保留供作者/管理员按 ID 审计查询。
// 媒体文件不删除。
func (s *VideoService) Delete(ctx context.Context, videoID, callerID int64) error {
	v, err := s.videos.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if v.OwnerID != callerID && !s.isAdmin(callerID) {
		return ErrVideoForbidden
	}

	if err := s.videos.SoftDelete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	v.Visibility = model.VisibilityDeleted
	s.publishEvent(ctx, infraKafka.EventVideoDeleted, v)

	return nil
}

// publishEvent 发布视频事件，失败只记日志不影响主流程
func (s *VideoService) publishEvent(ctx context.Context, eventType string, v *model.Video) {
	if s.events == nil {
		return
	}

	event := &infraKafka.VideoEvent{
		Type:       eventType,
		VideoID:    v.ID,
		OwnerID:    v.OwnerID,
		Visibility: v.Visibility,
		OccurredAt: time.Now().Unix(),
	}

	if err := s.events.PublishVideoEvent(ctx, event); err != nil {
		logger.Warn("Publish video event failed",
			zap.Int64("video_id", v.ID),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func (s *VideoService) isAdmin(userID int64) bool {
	role, err := s.roles.RoleOf(userID)
	return err == nil && role == model.RoleAdmin
}

// canViewHidden 非公开视频的访问判定：作者本人或管理员
func (s *VideoService) canViewHidden(v *model.Video, viewerID *int64) bool {
	if viewerID == nil {
		return false
	}
	if v.OwnerID == *viewerID {
		return true
	}
	return s.isAdmin(*viewerID)
}

// normalizePage 页码/页大小兜底：page >= 1，limit 默认 10、上限 100
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func playURL(videoID int64) string {
	return fmt.Sprintf("/api/v1/play/%d/stream", videoID)
}

func thumbnailURL(videoID int64) string {
	return fmt.Sprintf("/api/v1/play/%d/thumbnail", videoID)
}

// toVideoInfo 将 model.Video 转换为 dto.VideoInfo。
// withPlayURL 仅详情路径为 true，列表和更新响应不带播放地址。
func toVideoInfo(v *model.Video, includeOwner, withPlayURL bool) *dto.VideoInfo {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}

	info := &dto.VideoInfo{
		ID:               v.ID,
		OwnerID:          v.OwnerID,
		Title:            v.Title,
		Description:      v.Description,
		Category:         v.Category,
		Tags:             tags,
		Duration:         v.Duration,
		FileSize:         v.FileSize,
		Quality:          v.Quality,
		Visibility:       v.Visibility,
		ProcessingStatus: v.ProcessingStatus,
		Views:            v.Views,
		Plays:            v.Plays,
		Likes:            v.Likes,
		Dislikes:         v.Dislikes,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}

	if withPlayURL {
		info.PlayURL = playURL(v.ID)
	}
	if v.ThumbnailKey != "" {
		info.ThumbnailURL = thumbnailURL(v.ID)
	}

	if includeOwner && v.Owner.ID != 0 {
		info.Owner = &dto.OwnerBrief{
			ID:       v.Owner.ID,
			Username: v.Owner.UserName,
			Avatar:   v.Owner.Avatar,
		}
	}

	return info
}

func buildVideoListData(videos []model.Video, total int64, page, limit int) *dto.VideoListData {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i], true, false))
	}

	return &dto.VideoListData{
		Videos: items,
		Page:   page,
		Limit:  limit,
		Total:  total,
	}
}
