package model

// 员工角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// 通知渠道偏好
const (
	ChannelApp   = "app"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID              string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	StoreID                 string  `gorm:"type:uuid;not null"                             json:"store_id"`
	Name                    string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email                   string  `gorm:"type:varchar(200);not null"                     json:"email"`
	Phone                   string  `gorm:"type:varchar(30);not null;default:''"           json:"phone,omitempty"`
	PasswordHash            string  `gorm:"type:varchar(100);not null"                     json:"-"`
	Role                    string  `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"`
	CoverEligible           bool    `gorm:"not null;default:true"                          json:"cover_eligible"`
	HasRequiredSkills       bool    `gorm:"not null;default:false"                         json:"has_required_skills"`
	SpeaksRequiredLanguages bool    `gorm:"not null;default:false"                         json:"speaks_required_languages"`
	WantsMoreHours          bool    `gorm:"not null;default:false"                         json:"wants_more_hours"`
	DistanceKM              float64 `gorm:"column:distance_km;not null;default:0"          json:"distance_km"` // 住址到门店距离
	ChannelPreference       string  `gorm:"type:varchar(10);not null;default:'app'"        json:"channel_preference"`
	IsActive                bool    `gorm:"not null;default:true"                          json:"is_active"`
	MustChangePassword      bool    `gorm:"not null;default:false"                         json:"must_change_password"`
	SoftDeleteModel

	// 关联
	Store *Store `gorm:"foreignKey:StoreID;references:StoreID" json:"store,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
