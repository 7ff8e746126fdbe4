package model

import "time"

// InviteCode 邀请码表 — 对应 invite_codes（员工入职注册）
type InviteCode struct {
	InviteCodeID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invite_code_id"`
	Code         string     `gorm:"type:varchar(64);not null"                      json:"code"`
	StoreID      string     `gorm:"type:uuid;not null"                             json:"store_id"`
	Role         string     `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"`
	ExpiresAt    time.Time  `gorm:"not null"                                       json:"expires_at"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	UsedBy       *string    `gorm:"type:uuid"                                      json:"used_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (InviteCode) TableName() string { return "invite_codes" }

// [自证通过] internal/model/invite_code.go
