package service

import (
	"context"
	"errors"
	"time"

	"vidstream/internal/api/dto"
	"vidstream/internal/model"
	"vidstream/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressStore 播放进度存储接口，repository.ProgressRepository 是生产实现
type ProgressStore interface {
	Upsert(progress *model.PlayProgress) error
	GetByUserAndVideo(userID, videoID int64) (*model.PlayProgress, error)
}

// PlayMarker 播放计数去重标记，生产实现基于 Redis SETNX
type PlayMarker interface {
	MarkPlayed(ctx context.Context, userID, videoID int64, window time.Duration) (bool, error)
}

type PlayService struct {
	videos   VideoStore
	roles    RoleStore
	progress ProgressStore
	marker   PlayMarker

	countThreshold float64
	dedupWindow    time.Duration
}

func NewPlayService(videos VideoStore, roles RoleStore, progress ProgressStore, marker PlayMarker, countThreshold float64, dedupWindow time.Duration) *PlayService {
	return &PlayService{
		videos:         videos,
		roles:          roles,
		progress:       progress,
		marker:         marker,
		countThreshold: countThreshold,
		dedupWindow:    dedupWindow,
	}
}

// GetPlayable 取一个调用方有权播放的视频。
// 公开视频对所有人开放，私有/已删除仅作者或管理员，其余一律 not found。
func (s *PlayService) GetPlayable(videoID int64, viewerID *int64) (*model.Video, error) {
	v, err := s.videos.GetByIDIncludeDeleted(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if v.Visibility == model.VisibilityPublic {
		return v, nil
	}

	if viewerID != nil {
		if v.OwnerID == *viewerID {
			return v, nil
		}
		if role, err := s.roles.RoleOf(*viewerID); err == nil && role == model.RoleAdmin {
			return v, nil
		}
	}

	return nil, ErrVideoNotFound
}

// Metadata 播放元数据，不增加观看数
func (s *PlayService) Metadata(videoID int64, viewerID *int64) (*dto.VideoMetadata, error) {
	v, err := s.GetPlayable(videoID, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.VideoMetadata{
		ID:       v.ID,
		Title:    v.Title,
		Duration: v.Duration,
		Quality:  v.Quality,
		FileSize: v.FileSize,
		MimeType: v.MimeType,
		Views:    v.Views,
		Plays:    v.Plays,
		Likes:    v.Likes,
		Dislikes: v.Dislikes,
	}, nil
}

// GetProgress 查询当前用户在某视频上保存的播放位置，没有记录按 0 返回
func (s *PlayService) GetProgress(userID, videoID int64) (*dto.ProgressData, error) {
	if _, err := s.GetPlayable(videoID, &userID); err != nil {
		return nil, err
	}

	progress, err := s.progress.GetByUserAndVideo(userID, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ProgressData{VideoID: videoID}, nil
		}
		return nil, err
	}

	return &dto.ProgressData{
		VideoID:   videoID,
		Position:  progress.Position,
		UpdatedAt: progress.UpdatedAt,
	}, nil
}

// UpdateProgress 上报播放进度。
// 进度无条件落库覆盖；位置达到计数阈值时，同一用户同一视频
// 在去重窗口内只计一次播放数。标记写入失败时宁可少计不重计。
func (s *PlayService) UpdateProgress(ctx context.Context, userID, videoID int64, position float64) (*dto.ProgressData, error) {
	if _, err := s.GetPlayable(videoID, &userID); err != nil {
		return nil, err
	}

	progress := &model.PlayProgress{
		UserID:   userID,
		VideoID:  videoID,
		Position: position,
	}
	if err := s.progress.Upsert(progress); err != nil {
		return nil, err
	}

	counted := false
	if position >= s.countThreshold && s.marker != nil {
		first, err := s.marker.MarkPlayed(ctx, userID, videoID, s.dedupWindow)
		if err != nil {
			logger.Warn("Play dedup mark failed, skip counting",
				zap.Int64("user_id", userID),
				zap.Int64("video_id", videoID),
				zap.Error(err),
			)
		} else if first {
			if err := s.videos.IncrementPlays(videoID); err != nil {
				logger.Error("Increment play count failed",
					zap.Int64("video_id", videoID), zap.Error(err))
			} else {
				counted = true
			}
		}
	}

	return &dto.ProgressData{
		VideoID:     videoID,
		Position:    position,
		PlayCounted: counted,
		UpdatedAt:   time.Now(),
	}, nil
}
