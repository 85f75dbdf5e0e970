package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// 基础信息
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Username  string `gorm:"column:username;uniqueIndex"` // 用户名，全局唯一
	Email     string `gorm:"column:email"`
	Picture   string `gorm:"column:picture"`
	Role      string `gorm:"column:role;default:user"` // 角色：admin 或 user

	// 登录与授权认证相关：密码使用 pbkdf2 加盐散列后储存，盐和散列都是 hex 编码
	Hash string `gorm:"column:hash"`
	Salt string `gorm:"column:salt"`

	// 关联的 IoT 设备
	DeviceID string `gorm:"column:device_id"`
}

// TableName 沿用旧版数据库的单数表名
func (User) TableName() string {
	return "user"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicData 任何人都可见的字段
type PublicData struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Picture   string `json:"picture,omitempty"`
}

// AuthorizedData 本人或管理员可见的字段
type AuthorizedData struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Picture   string `json:"picture,omitempty"`
	Role      string `json:"role"`
}

func (u *User) PublicData() PublicData {
	return PublicData{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Picture:   u.Picture,
	}
}

func (u *User) AuthorizedData() AuthorizedData {
	return AuthorizedData{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Picture:   u.Picture,
		Role:      u.Role,
	}
}
