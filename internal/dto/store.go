package dto

// ── 门店模块 DTO ──

// CreateStoreRequest 创建门店请求
type CreateStoreRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Address  string `json:"address"  binding:"omitempty,max=200"`
	Timezone string `json:"timezone" binding:"omitempty,max=50"`
}

// UpdateStoreRequest 更新门店请求
type UpdateStoreRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address"   binding:"omitempty,max=200"`
	Timezone *string `json:"timezone"  binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
}

// StoreListRequest 门店列表查询参数
type StoreListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// StoreDetailResponse 门店详细信息
type StoreDetailResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Timezone  string `json:"timezone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// [自证通过] internal/dto/store.go
