package model

import "time"

// PlayProgress 用户观看进度，(user_id, video_id) 唯一，只保留最新位置不记历史
type PlayProgress struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:进度记录标识" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_video;comment:用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:idx_user_video;index:idx_progress_video;comment:视频ID" json:"video_id"`
	Position  float64   `gorm:"not null;default:0;comment:播放位置（秒）" json:"position"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (PlayProgress) TableName() string {
	return "play_progress"
}
