package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/jwt"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAccountDisabled    = errors.New("账号已停用")
	ErrInviteInvalid      = errors.New("邀请码无效或已过期")
	ErrInviteUsed         = errors.New("邀请码已被使用")
	ErrEmailExists        = errors.New("该邮箱已注册")
	ErrRefreshInvalid     = errors.New("refresh token 无效")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	ChangePassword(ctx context.Context, employeeID string, req *dto.ChangePasswordRequest) error
	GenerateInvite(ctx context.Context, req *dto.GenerateInviteRequest, createdBy string) (*dto.InviteResponse, error)
	ValidateInvite(ctx context.Context, code string) (*dto.InviteValidateResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil（Redis 不可用时降级，跳过黑名单）
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	employee, err := s.repo.Employee.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !employee.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(ctx, employee, req.RememberMe)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	invite, err := s.repo.InviteCode.GetByCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteInvalid
		}
		s.logger.Error("查询邀请码失败", zap.Error(err))
		return nil, err
	}
	if invite.UsedAt != nil {
		return nil, ErrInviteUsed
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteInvalid
	}

	if _, err := s.repo.Employee.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱占用失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}

	employee := &model.Employee{
		StoreID:           invite.StoreID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		PasswordHash:      string(hash),
		Role:              invite.Role,
		CoverEligible:     true,
		ChannelPreference: model.ChannelApp,
		IsActive:          true,
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	// 原子占用邀请码；并发注册同一邀请码时只有首个生效
	rows, err := s.repo.InviteCode.MarkUsed(ctx, invite.InviteCodeID, employee.EmployeeID)
	if err != nil {
		s.logger.Error("标记邀请码已使用失败", zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInviteUsed
	}

	s.logger.Info("员工注册成功",
		zap.String("employee_id", employee.EmployeeID),
		zap.String("store_id", employee.StoreID),
	)

	return &dto.RegisterResponse{
		ID:    employee.EmployeeID,
		Name:  employee.Name,
		Email: employee.Email,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrRefreshInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	if blacklisted, err := s.isBlacklisted(ctx, claims.ID); err != nil {
		s.logger.Warn("黑名单检查失败，降级放行", zap.Error(err))
	} else if blacklisted {
		return nil, ErrRefreshInvalid
	}

	employee, err := s.repo.Employee.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrAccountDisabled
	}

	// 旧 refresh token 一次性使用，换发后立即拉黑
	if claims.ExpiresAt != nil {
		s.blacklist(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}

	return s.issueTokens(ctx, employee, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtMgr.ParseToken(accessToken)
	if err != nil {
		// 已过期或无效的 token 视为登出成功
		return nil
	}
	if claims.ExpiresAt != nil {
		s.blacklist(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, employeeID string, req *dto.ChangePasswordRequest) error {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return err
	}

	employee.PasswordHash = string(hash)
	employee.MustChangePassword = false
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.String("employee_id", employeeID))
	return nil
}

func (s *authService) GenerateInvite(ctx context.Context, req *dto.GenerateInviteRequest, createdBy string) (*dto.InviteResponse, error) {
	if _, err := s.repo.Store.GetByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStaff
	}
	expiresDays := req.ExpiresDays
	if expiresDays <= 0 {
		expiresDays = 7
	}

	invite := &model.InviteCode{
		Code:      strings.ReplaceAll(uuid.New().String(), "-", ""),
		StoreID:   req.StoreID,
		Role:      role,
		ExpiresAt: time.Now().AddDate(0, 0, expiresDays),
		BaseModel: model.BaseModel{CreatedBy: &createdBy},
	}
	if err := s.repo.InviteCode.Create(ctx, invite); err != nil {
		s.logger.Error("创建邀请码失败", zap.Error(err))
		return nil, err
	}

	return &dto.InviteResponse{
		InviteCode: invite.Code,
		InviteURL:  fmt.Sprintf("/register?invite=%s", invite.Code),
		ExpiresAt:  invite.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) ValidateInvite(ctx context.Context, code string) (*dto.InviteValidateResponse, error) {
	invite, err := s.repo.InviteCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.InviteValidateResponse{Valid: false}, nil
		}
		return nil, err
	}
	if invite.UsedAt != nil || time.Now().After(invite.ExpiresAt) {
		return &dto.InviteValidateResponse{Valid: false}, nil
	}
	return &dto.InviteValidateResponse{
		Valid:     true,
		StoreID:   invite.StoreID,
		ExpiresAt: invite.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// ── 内部辅助 ──

func (s *authService) issueTokens(ctx context.Context, employee *model.Employee, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(employee.EmployeeID, employee.Role, employee.StoreID)
	if err != nil {
		s.logger.Error("生成 access token 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(employee.EmployeeID, employee.Role, employee.StoreID, rememberMe)
	if err != nil {
		s.logger.Error("生成 refresh token 失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Employee: dto.EmployeeResponse{
			ID:                 employee.EmployeeID,
			Name:               employee.Name,
			Email:              employee.Email,
			Role:               employee.Role,
			CoverEligible:      employee.CoverEligible,
			ChannelPreference:  employee.ChannelPreference,
			MustChangePassword: employee.MustChangePassword,
		},
	}
	if employee.Store != nil {
		resp.Employee.Store = &dto.StoreResponse{ID: employee.Store.StoreID, Name: employee.Store.Name}
	}
	return resp, nil
}

func (s *authService) blacklist(ctx context.Context, jti string, ttl time.Duration) {
	if s.rdb == nil || ttl <= 0 {
		return
	}
	if err := s.rdb.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Warn("token 拉黑失败", zap.String("jti", jti), zap.Error(err))
	}
}

func (s *authService) isBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	return s.rdb.IsBlacklisted(ctx, jti)
}

// [自证通过] internal/service/auth_service.go
