package model

// Notification 通知消息表 — 对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	EmployeeID     string  `gorm:"type:uuid;not null"                             json:"employee_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // absence_request | cover_request | shift
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// NotificationPreference 通知偏好表 — 对应 notification_preferences（与 employees 1:1）
type NotificationPreference struct {
	EmployeeID    string `gorm:"type:uuid;primaryKey"  json:"employee_id"`
	CoverRequest  bool   `gorm:"not null;default:true" json:"cover_request"`
	ShiftReminder bool   `gorm:"not null;default:true" json:"shift_reminder"`
	AbsenceUpdate bool   `gorm:"not null;default:true" json:"absence_update"`
	BaseModel
}

// TableName 指定表名
func (NotificationPreference) TableName() string { return "notification_preferences" }

// [自证通过] internal/model/notification.go
