package dto

import "time"

// VideoUploadRequest 视频上传请求（multipart/form-data 的元数据部分）
type VideoUploadRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=100"`
	Description string `form:"description" binding:"omitempty,max=1000"`
	Category    string `form:"category" binding:"required,oneof=tutorial entertainment education music sports news gaming other"`
	Tags        string `form:"tags" binding:"omitempty"` // 逗号分隔
	IsPublic    *bool  `form:"is_public" binding:"omitempty"`
}

// VideoUpdateRequest 视频更新请求，指针字段区分"未提供"和"显式置空"
type VideoUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Category    *string `json:"category" binding:"omitempty,oneof=tutorial entertainment education music sports news gaming other"`
	Tags        *string `json:"tags" binding:"omitempty"` // 逗号分隔，提供时按上传规则重新解析
	IsPublic    *bool   `json:"is_public" binding:"omitempty"`
}

// VideoListRequest 视频列表查询参数
type VideoListRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Category string `form:"category"` // all 或空表示不筛选
	Search   string `form:"search"`
}

// OwnerBrief 视频中嵌套的作者简要信息
type OwnerBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// VideoInfo 视频信息，不携带存储键；play_url/thumbnail_url 指向播放路由
type VideoInfo struct {
	ID               int64       `json:"id"`
	OwnerID          int64       `json:"owner_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	Tags             []string    `json:"tags"`
	PlayURL          string      `json:"play_url,omitempty"`
	ThumbnailURL     string      `json:"thumbnail_url,omitempty"`
	Duration         int         `json:"duration"`
	FileSize         int64       `json:"file_size"`
	Quality          string      `json:"quality"`
	Visibility       string      `json:"visibility"`
	ProcessingStatus string      `json:"processing_status"`
	Views            int64       `json:"views"`
	Plays            int64       `json:"plays"`
	Likes            int64       `json:"likes"`
	Dislikes         int64       `json:"dislikes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Owner            *OwnerBrief `json:"owner,omitempty"`
}

// VideoUploadData 上传成功返回的精简投影
type VideoUploadData struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	Visibility       string    `json:"visibility"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// VideoListData 视频列表结果
type VideoListData struct {
	Videos []VideoInfo `json:"videos"`
	Page   int         `json:"-"`
	Limit  int         `json:"-"`
	Total  int64       `json:"-"`
}
