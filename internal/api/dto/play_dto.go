package dto

import "time"

// ProgressRequest 播放进度上报
type ProgressRequest struct {
	Position float64 `json:"position" binding:"min=0"`
}

// ProgressData 进度上报结果
type ProgressData struct {
	VideoID     int64     `json:"video_id"`
	Position    float64   `json:"position"`
	PlayCounted bool      `json:"play_counted"` // 本次上报是否计入播放数
	UpdatedAt   time.Time `json:"updated_at"`
}

// VideoMetadata 播放元数据，读取不增加观看数
type VideoMetadata struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Quality  string `json:"quality"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
	Views    int64  `json:"views"`
	Plays    int64  `json:"plays"`
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
}
