package repository

import (
	"vidstream/internal/model"

	"gorm.io/gorm"
)

// VideoListOptions 列表查询筛选条件，nil 字段表示不筛选
type VideoListOptions struct {
	OwnerID    *int64
	Visibility *string
	Category   *string
	Search     *string // 标题/描述/标签 不区分大小写子串匹配
	WithOwner  bool
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByID 根据 ID 获取视频（排除已删除）
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ? AND visibility != ?", id, model.VisibilityDeleted).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDIncludeDeleted 根据 ID 获取视频（包含已删除，作者/管理员审计用）
func (r *VideoRepository) GetByIDIncludeDeleted(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Owner").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Update 更新视频字段（部分更新，updated_at 由 GORM 自动刷新）
func (r *VideoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).
		Where("id = ? AND visibility != ?", id, model.VisibilityDeleted).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// SoftDelete 软删除（可见性置为 deleted，记录保留）
func (r *VideoRepository) SoftDelete(id int64) error {
	result := r.db.Model(&model.Video{}).
		Where("id = ? AND visibility != ?", id, model.VisibilityDeleted).
		Updates(map[string]interface{}{"visibility": model.VisibilityDeleted})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 视频列表查询（分页、筛选、按创建时间倒序）
func (r *VideoRepository) List(skip, limit int, opts VideoListOptions) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{}).Where("visibility != ?", model.VisibilityDeleted)

	if opts.OwnerID != nil {
		query = query.Where("owner_id = ?", *opts.OwnerID)
	}
	if opts.Visibility != nil && *opts.Visibility != "" {
		query = query.Where("visibility = ?", *opts.Visibility)
	}
	if opts.Category != nil && *opts.Category != "" {
		query = query.Where("category = ?", *opts.Category)
	}
	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + *opts.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR tags ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := query.Order("created_at DESC").Offset(skip).Limit(limit)
	if opts.WithOwner {
		findQuery = findQuery.Preload("Owner")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// GetByIDsWithOwner 按 ID 批量查询（ES 搜索命中后回表）
func (r *VideoRepository) GetByIDsWithOwner(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Owner").
		Where("id IN ? AND visibility != ?", ids, model.VisibilityDeleted).
		Find(&videos).Error
	return videos, err
}

// IncrementViews 观看数 +1（数据库端原子自增，避免并发丢失更新）
func (r *VideoRepository) IncrementViews(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementPlays 播放数 +1
func (r *VideoRepository) IncrementPlays(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("plays", gorm.Expr("plays + 1")).Error
}
