package repository

import (
	"vidstream/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert 写入/覆盖用户在某视频上的最新播放位置
func (r *ProgressRepository) Upsert(progress *model.PlayProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
	}).Create(progress).Error
}

// GetByUserAndVideo 查询用户在某视频上的播放位置
func (r *ProgressRepository) GetByUserAndVideo(userID, videoID int64) (*model.PlayProgress, error) {
	var progress model.PlayProgress
	err := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
