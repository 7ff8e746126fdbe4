package model

import "time"

// 缺勤申请状态
const (
	AbsenceStatusPending   = "pending"
	AbsenceStatusCovered   = "covered"
	AbsenceStatusEscalated = "escalated"
	AbsenceStatusCancelled = "cancelled"
)

// 缺勤类型
const (
	AbsenceTypeSick      = "sick"
	AbsenceTypeEmergency = "emergency"
	AbsenceTypePersonal  = "personal"
)

// AbsenceRequest 缺勤申请表 — 对应 absence_requests
// 状态机：pending →（covered | escalated | cancelled），终态不可再变更
type AbsenceRequest struct {
	AbsenceRequestID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"absence_request_id"`
	EmployeeID            string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	StoreID               string     `gorm:"type:uuid;not null"                             json:"store_id"`
	ShiftID               *string    `gorm:"type:uuid"                                      json:"shift_id,omitempty"`
	AbsenceType           string     `gorm:"type:varchar(20);not null;default:'sick'"       json:"absence_type"`
	ShiftDate             time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	Reason                string     `gorm:"type:varchar(500);not null;default:''"          json:"reason,omitempty"`
	IsEmergency           bool       `gorm:"not null;default:false"                         json:"is_emergency"`
	Status                string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReplacementEmployeeID *string    `gorm:"type:uuid"                                      json:"replacement_employee_id,omitempty"`
	CoveredAt             *time.Time `json:"covered_at,omitempty"`
	VersionedModel

	// 关联
	Employee      *Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Store         *Store         `gorm:"foreignKey:StoreID;references:StoreID"       json:"store,omitempty"`
	CoverRequests []CoverRequest `gorm:"foreignKey:AbsenceRequestID;references:AbsenceRequestID" json:"cover_requests,omitempty"`
}

// TableName 指定表名
func (AbsenceRequest) TableName() string { return "absence_requests" }

// IsTerminal 是否已处于终态
func (a *AbsenceRequest) IsTerminal() bool {
	return a.Status != AbsenceStatusPending
}

// [自证通过] internal/model/absence_request.go
