package model

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID       int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName string  `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"user_name"`
	Password string  `gorm:"size:255;not null;comment:密码" json:"-"` // json:"-" 序列化时忽略密码
	Avatar   *string `gorm:"size:500;comment:用户头像" json:"avatar"`
	UserRole string  `gorm:"size:20;not null;default:'user';comment:用户角色" json:"user_role"`
	IsDelete int64   `gorm:"not null;default:0;comment:删除标识" json:"-"`

	// 关联关系
	Videos []Video `gorm:"foreignKey:OwnerID" json:"videos,omitempty"`
}

func (User) TableName() string {
	return "users"
}
