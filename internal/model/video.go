package model

import "time"

// 可见性状态：public 公开可见，private 仅作者可见，deleted 软删除。
// 单一枚举代替 isActive/isPublic 两个布尔，消除"未激活但公开"这类无意义组合。
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityDeleted = "deleted"
)

// 处理状态
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Categories 合法的视频分类
var Categories = []string{
	"tutorial", "entertainment", "education", "music",
	"sports", "news", "gaming", "other",
}

// Qualities 合法的清晰度标签
var Qualities = []string{"240p", "360p", "480p", "720p", "1080p"}

// Video 视频模型
type Video struct {
	ID               int64     `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	OwnerID          int64     `gorm:"not null;index:idx_owner_id;comment:上传者ID，创建后不可变更" json:"owner_id"`
	Title            string    `gorm:"size:100;not null;comment:视频标题" json:"title"`
	Description      string    `gorm:"type:text;comment:视频描述" json:"description"`
	Category         string    `gorm:"size:20;not null;index:idx_category;comment:视频分类" json:"category"`
	Tags             []string  `gorm:"serializer:json;type:text;comment:标签列表" json:"tags"`
	MediaKey         string    `gorm:"size:500;not null;comment:媒体文件存储键" json:"-"`
	ThumbnailKey     string    `gorm:"size:500;comment:封面文件存储键" json:"-"`
	MimeType         string    `gorm:"size:100;comment:媒体MIME类型" json:"mime_type"`
	Duration         int       `gorm:"default:0;comment:视频时长（秒）" json:"duration"`
	FileSize         int64     `gorm:"default:0;comment:文件大小（字节）" json:"file_size"`
	Quality          string    `gorm:"size:10;default:'720p';comment:清晰度" json:"quality"`
	Visibility       string    `gorm:"size:10;not null;default:'public';index:idx_visibility;comment:可见性状态" json:"visibility"`
	ProcessingStatus string    `gorm:"size:20;default:'completed';comment:处理状态" json:"processing_status"`
	Views            int64     `gorm:"default:0;comment:观看数" json:"views"`
	Plays            int64     `gorm:"default:0;comment:播放数" json:"plays"`
	Likes            int64     `gorm:"default:0;comment:点赞数" json:"likes"`
	Dislikes         int64     `gorm:"default:0;comment:点踩数" json:"dislikes"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}

// ValidCategory 判断分类是否合法
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
