package model

// SystemConfig 系统配置表 — 对应 system_config（单行强类型）
// 级联参数覆盖配置文件默认值（运营侧可在线调整）
type SystemConfig struct {
	Singleton             bool `gorm:"primaryKey;default:true" json:"-"`
	CascadeSize           int  `gorm:"not null;default:5"      json:"cascade_size"`
	ResponseWindowMinutes int  `gorm:"not null;default:30"     json:"response_window_minutes"`
	SignInWindowMinutes   int  `gorm:"not null;default:15"     json:"sign_in_window_minutes"`
	SignOutWindowMinutes  int  `gorm:"not null;default:15"     json:"sign_out_window_minutes"`
	BaseModel
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }

// [自证通过] internal/model/system_config.go
