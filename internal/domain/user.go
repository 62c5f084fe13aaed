package domain

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleClient  Role = "client"
	RoleAdmin   Role = "admin"
)

// ParseRole 在外部数据进入系统的边界处把任意字符串归一化为合法角色。
// 无法识别的值一律归一化为 client，不允许未知角色向内层传播。
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleStudent, RoleClient, RoleAdmin:
		return Role(s)
	default:
		return RoleClient
	}
}

// CanPreviewOtherRoles 只有管理员可以手动切换预览其他角色的视图
func (r Role) CanPreviewOtherRoles() bool {
	return r == RoleAdmin
}

type User struct {
	ID           int64             `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	Metadata     map[string]string `json:"metadata"` // 注册时附带的元数据，可能携带期望角色
	CreatedAt    time.Time         `json:"createdAt"`
	Version      int32             `json:"-"`
}

// RequestedRole 从注册元数据中解析期望角色，作为角色表缺行时的初始值
func (u *User) RequestedRole() Role {
	if u.Metadata == nil {
		return RoleClient
	}
	return ParseRole(u.Metadata["requestedRole"])
}

type Profile struct {
	UserID    int64     `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserRole struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}
