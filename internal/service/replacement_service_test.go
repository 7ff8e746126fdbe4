package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/EssenceDev1/essenceyogurt-sub000/config"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// ── 测试装配 ──

func newTestReplacementService(repo *repository.Repository, notifier Notifier) ReplacementService {
	cfg := &config.ReplacementConfig{
		CascadeSize:    5,
		ResponseWindow: 30 * time.Minute,
		SweepInterval:  time.Minute,
	}
	return NewReplacementService(repo, notifier, cfg, zap.NewNop())
}

// seedEmployees 播种上报人 + n 位合格候选人，返回上报人 ID
func seedEmployees(t *testing.T, repo *repository.Repository, storeID string, n int) string {
	t.Helper()
	ctx := context.Background()

	reporter := &model.Employee{
		EmployeeID:    "reporter",
		StoreID:       storeID,
		Name:          "上报人",
		Role:          model.RoleStaff,
		CoverEligible: true,
		IsActive:      true,
	}
	if err := repo.Employee.Create(ctx, reporter); err != nil {
		t.Fatalf("播种上报人失败: %v", err)
	}

	for i := 0; i < n; i++ {
		e := &model.Employee{
			EmployeeID:              fmt.Sprintf("staff-%d", i),
			StoreID:                 storeID,
			Name:                    fmt.Sprintf("员工%d", i),
			Role:                    model.RoleStaff,
			CoverEligible:           true,
			HasRequiredSkills:       true,
			SpeaksRequiredLanguages: true,
			WantsMoreHours:          false,
			DistanceKM:              float64(i), // 距离递增，排序可预期
			ChannelPreference:       model.ChannelApp,
			IsActive:                true,
		}
		if err := repo.Employee.Create(ctx, e); err != nil {
			t.Fatalf("播种员工失败: %v", err)
		}
		repo.ShiftRecord.(*mockShiftRecordRepo).setReliability(e.EmployeeID, 8, 10)
	}
	return reporter.EmployeeID
}

func reportAbsence(t *testing.T, svc ReplacementService, reporterID string) *dto.ReportAbsenceResponse {
	t.Helper()
	resp, err := svc.ReportAbsence(context.Background(), &dto.ReportAbsenceRequest{
		StoreID:   "store-1",
		ShiftDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Reason:    "病假",
	}, reporterID)
	if err != nil {
		t.Fatalf("上报缺勤失败: %v", err)
	}
	return resp
}

// ── ReportAbsence ──

// 门店无可顶班员工：直接升级，零通知
func TestReportAbsenceNoCandidatesEscalates(t *testing.T) {
	repo := newTestRepository()
	notifier := newMockNotifier()
	svc := newTestReplacementService(repo, notifier)

	reporterID := seedEmployees(t, repo, "store-1", 0)
	resp := reportAbsence(t, svc, reporterID)

	if !resp.Escalated {
		t.Error("应直接升级")
	}
	if resp.Status != model.AbsenceStatusEscalated {
		t.Errorf("状态应为 escalated，得到 %s", resp.Status)
	}
	if resp.NotificationsSent != 0 {
		t.Errorf("不应发送任何通知，发送了 %d", resp.NotificationsSent)
	}

	absence, err := repo.Absence.GetByID(context.Background(), resp.AbsenceID)
	if err != nil {
		t.Fatalf("查询缺勤失败: %v", err)
	}
	if absence.Status != model.AbsenceStatusEscalated {
		t.Errorf("落库状态应为 escalated，得到 %s", absence.Status)
	}
}

// 候选人超过级联上限：只派发前 5 位，顺位从 1 编号，截止时间为窗口后
func TestReportAbsenceCascadeCapAndRanks(t *testing.T) {
	repo := newTestRepository()
	notifier := newMockNotifier()
	svc := newTestReplacementService(repo, notifier)

	reporterID := seedEmployees(t, repo, "store-1", 8)

	before := time.Now()
	resp := reportAbsence(t, svc, reporterID)
	after := time.Now()

	if resp.NotificationsSent != 5 {
		t.Fatalf("应派发 5 条顶班请求，派发了 %d", resp.NotificationsSent)
	}
	if resp.Escalated {
		t.Error("有候选人时不应升级")
	}

	covers, err := repo.CoverRequest.ListByAbsence(context.Background(), resp.AbsenceID)
	if err != nil {
		t.Fatalf("查询顶班请求失败: %v", err)
	}
	if len(covers) != 5 {
		t.Fatalf("应创建 5 条顶班请求，创建了 %d", len(covers))
	}

	for i, c := range covers {
		if c.CascadeRank != i+1 {
			t.Errorf("第 %d 条顺位应为 %d，得到 %d", i, i+1, c.CascadeRank)
		}
		if c.Response != model.CoverResponsePending {
			t.Errorf("初始响应应为 pending，得到 %s", c.Response)
		}
		// 截止时间 = 派发时刻 + 30 分钟窗口
		if c.ResponseDeadline.Before(before.Add(30*time.Minute)) ||
			c.ResponseDeadline.After(after.Add(30*time.Minute)) {
			t.Errorf("截止时间超出预期范围: %v", c.ResponseDeadline)
		}
	}

	// 距离最近的员工应排第一（可靠度相同，距离决定顺序）
	if covers[0].EmployeeID != "staff-0" {
		t.Errorf("距离最近的员工应在首位，得到 %s", covers[0].EmployeeID)
	}
}

// system_config 覆盖默认级联参数
func TestReportAbsenceUsesSystemConfigOverride(t *testing.T) {
	repo := newTestRepository()
	notifier := newMockNotifier()
	svc := newTestReplacementService(repo, notifier)

	if err := repo.SystemConfig.Save(context.Background(), &model.SystemConfig{
		Singleton:             true,
		CascadeSize:           2,
		ResponseWindowMinutes: 10,
	}); err != nil {
		t.Fatalf("保存系统配置失败: %v", err)
	}

	reporterID := seedEmployees(t, repo, "store-1", 5)
	resp := reportAbsence(t, svc, reporterID)

	if resp.NotificationsSent != 2 {
		t.Errorf("级联上限覆盖为 2，实际派发 %d", resp.NotificationsSent)
	}
}

// 上报人本人不得进入候选级联
func TestReportAbsenceExcludesReporter(t *testing.T) {
	repo := newTestRepository()
	notifier := newMockNotifier()
	svc := newTestReplacementService(repo, notifier)

	reporterID := seedEmployees(t, repo, "store-1", 3)
	// 上报人自身也是合格候选人画像
	reporter, _ := repo.Employee.GetByID(context.Background(), reporterID)
	reporter.HasRequiredSkills = true
	reporter.SpeaksRequiredLanguages = true
	repo.Employee.Update(context.Background(), reporter)

	resp := reportAbsence(t, svc, reporterID)

	covers, _ := repo.CoverRequest.ListByAbsence(context.Background(), resp.AbsenceID)
	for _, c := range covers {
		if c.EmployeeID == reporterID {
			t.Error("上报人不应收到自己的顶班请求")
		}
	}
}

// 当日已有排班的员工视为不可用，不进入级联
func TestReportAbsenceExcludesBusyEmployee(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)

	// staff-1 在缺勤当日已有排班
	dateStr := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	shiftDate, _ := time.Parse("2006-01-02", dateStr)
	busyID := "staff-1"
	if err := repo.Shift.Create(ctx, &model.Shift{
		StoreID:    "store-1",
		EmployeeID: &busyID,
		ShiftDate:  shiftDate,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     model.ShiftStatusScheduled,
	}); err != nil {
		t.Fatalf("播种班次失败: %v", err)
	}

	resp := reportAbsence(t, svc, reporterID)

	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)
	if len(covers) != 2 {
		t.Fatalf("当日有班员工应被过滤，期望 2 条请求，得到 %d", len(covers))
	}
	for _, c := range covers {
		if c.EmployeeID == busyID {
			t.Error("当日有班的员工不应收到顶班请求")
		}
	}
}

// 员工不得跨门店上报
func TestReportAbsenceStoreMismatch(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())

	reporterID := seedEmployees(t, repo, "store-1", 1)

	_, err := svc.ReportAbsence(context.Background(), &dto.ReportAbsenceRequest{
		StoreID:   "store-other",
		ShiftDate: "2026-09-01",
	}, reporterID)
	if !errors.Is(err, ErrAbsenceStoreMismatch) {
		t.Errorf("期望 ErrAbsenceStoreMismatch，得到 %v", err)
	}
}

// ── RespondToCoverRequest ──

func firstCover(t *testing.T, repo *repository.Repository, absenceID string) *model.CoverRequest {
	t.Helper()
	covers, err := repo.CoverRequest.ListByAbsence(context.Background(), absenceID)
	if err != nil || len(covers) == 0 {
		t.Fatalf("无顶班请求: %v", err)
	}
	return &covers[0]
}

func TestAcceptCoverMarksAbsenceCovered(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	result, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		cover.EmployeeID, model.RoleStaff)
	if err != nil {
		t.Fatalf("接受顶班失败: %v", err)
	}
	if !result.Success {
		t.Error("接受应成功")
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusCovered {
		t.Errorf("缺勤状态应为 covered，得到 %s", absence.Status)
	}
	if absence.ReplacementEmployeeID == nil || *absence.ReplacementEmployeeID != cover.EmployeeID {
		t.Error("顶班人记录不正确")
	}
	if absence.CoveredAt == nil {
		t.Error("covered_at 应已记录")
	}

	// 其余 pending 请求应全部取消
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)
	for _, c := range covers {
		switch c.CoverRequestID {
		case cover.CoverRequestID:
			if c.Response != model.CoverResponseAccepted {
				t.Errorf("胜出请求应为 accepted，得到 %s", c.Response)
			}
		default:
			if c.Response != model.CoverResponseCancelled {
				t.Errorf("落选请求应为 cancelled，得到 %s", c.Response)
			}
		}
	}
}

// 先到先得：并发接受只有一人胜出，其余收到显式拒绝
func TestConcurrentAcceptSingleWinner(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 5)
	resp := reportAbsence(t, svc, reporterID)
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	losers := 0

	for _, c := range covers {
		wg.Add(1)
		go func(coverID, employeeID string) {
			defer wg.Done()
			_, err := svc.RespondToCoverRequest(ctx, coverID,
				&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
				employeeID, model.RoleStaff)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if errors.Is(err, ErrCoverAlreadyResolved) {
				losers++
			} else {
				t.Errorf("意外错误: %v", err)
			}
		}(c.CoverRequestID, c.EmployeeID)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("应恰好一人胜出，实际 %d", winners)
	}
	if losers != len(covers)-1 {
		t.Errorf("其余 %d 人应收到已结案拒绝，实际 %d", len(covers)-1, losers)
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusCovered {
		t.Errorf("缺勤最终状态应为 covered，得到 %s", absence.Status)
	}
}

// 结案后的再次接受：显式拒绝，绝不静默成功
func TestAcceptAfterResolvedRejected(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)

	if _, err := svc.RespondToCoverRequest(ctx, covers[0].CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		covers[0].EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("首次接受失败: %v", err)
	}

	_, err := svc.RespondToCoverRequest(ctx, covers[1].CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		covers[1].EmployeeID, model.RoleStaff)
	if !errors.Is(err, ErrCoverAlreadyResolved) {
		t.Errorf("期望 ErrCoverAlreadyResolved，得到 %v", err)
	}
}

// response 一经离开 pending 即不可再变更：拒绝过的请求不能再接受
func TestAcceptAfterOwnDeclineRejected(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	if _, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseDeclined},
		cover.EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("拒绝失败: %v", err)
	}

	// 同一员工反悔接受：显式拒绝，缺勤状态不变
	_, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		cover.EmployeeID, model.RoleStaff)
	if !errors.Is(err, ErrCoverAlreadyResolved) {
		t.Fatalf("期望 ErrCoverAlreadyResolved，得到 %v", err)
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusPending {
		t.Errorf("缺勤状态应仍为 pending，得到 %s", absence.Status)
	}
	if absence.ReplacementEmployeeID != nil {
		t.Error("不应记录顶班人")
	}

	got, _ := repo.CoverRequest.GetByID(ctx, cover.CoverRequestID)
	if got.Response != model.CoverResponseDeclined {
		t.Errorf("请求应保持 declined，得到 %s", got.Response)
	}
}

// 已取消的请求同样不能再响应
func TestRespondCancelledCoverRejected(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)

	if err := svc.CancelAbsence(ctx, resp.AbsenceID, reporterID, model.RoleStaff); err != nil {
		t.Fatalf("撤回失败: %v", err)
	}

	_, err := svc.RespondToCoverRequest(ctx, covers[0].CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		covers[0].EmployeeID, model.RoleStaff)
	if !errors.Is(err, ErrCoverAlreadyResolved) {
		t.Errorf("期望 ErrCoverAlreadyResolved，得到 %v", err)
	}
}

// 级联批量创建失败：缺勤不得悬空为无级联的 pending，补偿升级为 escalated
func TestReportAbsenceBatchCreateFailureEscalates(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	repo.CoverRequest.(*mockCoverRequestRepo).createBatchErr = errors.New("数据库写入失败")

	_, err := svc.ReportAbsence(ctx, &dto.ReportAbsenceRequest{
		StoreID:   "store-1",
		ShiftDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	}, reporterID)
	if err == nil {
		t.Fatal("批量创建失败应向上返回错误")
	}

	absences, _, listErr := svc.ListAbsences(ctx, &dto.AbsenceListRequest{StoreID: "store-1"})
	if listErr != nil {
		t.Fatalf("查询缺勤列表失败: %v", listErr)
	}
	if len(absences) != 1 {
		t.Fatalf("应只有一条缺勤记录，得到 %d", len(absences))
	}
	if absences[0].Status != model.AbsenceStatusEscalated {
		t.Errorf("派发失败的缺勤应补偿升级为 escalated，得到 %s", absences[0].Status)
	}
}

// 只能响应发给自己的请求
func TestRespondNotTargetForbidden(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	_, err := svc.RespondToCoverRequest(context.Background(), cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		"someone-else", model.RoleStaff)
	if !errors.Is(err, ErrNotCoverRequestTarget) {
		t.Errorf("期望 ErrNotCoverRequestTarget，得到 %v", err)
	}
}

// k-1 人拒绝后缺勤仍 pending，第 k 人拒绝触发升级
func TestAllDeclinedEscalates(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	resp := reportAbsence(t, svc, reporterID)
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)

	for i, c := range covers {
		if _, err := svc.RespondToCoverRequest(ctx, c.CoverRequestID,
			&dto.RespondCoverRequest{Response: model.CoverResponseDeclined},
			c.EmployeeID, model.RoleStaff); err != nil {
			t.Fatalf("第 %d 次拒绝失败: %v", i, err)
		}

		absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
		if i < len(covers)-1 {
			if absence.Status != model.AbsenceStatusPending {
				t.Errorf("前 %d 人拒绝后状态应仍为 pending，得到 %s", i+1, absence.Status)
			}
		} else {
			if absence.Status != model.AbsenceStatusEscalated {
				t.Errorf("全员拒绝后状态应为 escalated，得到 %s", absence.Status)
			}
		}
	}
}

// 顺位 2 接受同样有效（接受不按顺位排队）
func TestSecondRankCanAccept(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	resp := reportAbsence(t, svc, reporterID)
	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)

	second := covers[1]
	if second.CascadeRank != 2 {
		t.Fatalf("期望顺位 2，得到 %d", second.CascadeRank)
	}

	if _, err := svc.RespondToCoverRequest(ctx, second.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		second.EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("顺位 2 接受失败: %v", err)
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.ReplacementEmployeeID == nil || *absence.ReplacementEmployeeID != second.EmployeeID {
		t.Error("顶班人应为顺位 2 的员工")
	}

	// 顺位 1、3 的待响应请求应被取消
	after, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)
	for _, c := range after {
		if c.CoverRequestID == second.CoverRequestID {
			continue
		}
		if c.Response != model.CoverResponseCancelled {
			t.Errorf("顺位 %d 应被取消，得到 %s", c.CascadeRank, c.Response)
		}
	}
}

// ── 超时扫描 ──

func expireCovers(t *testing.T, repo *repository.Repository, absenceID string) {
	t.Helper()
	mock := repo.CoverRequest.(*mockCoverRequestRepo)
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for _, r := range mock.requests {
		if r.AbsenceRequestID == absenceID {
			r.ResponseDeadline = time.Now().Add(-time.Minute)
		}
	}
}

func TestSweepMarksTimeoutAndEscalates(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	resp := reportAbsence(t, svc, reporterID)
	expireCovers(t, repo, resp.AbsenceID)

	swept, err := svc.SweepExpiredCoverRequests(ctx)
	if err != nil {
		t.Fatalf("扫描失败: %v", err)
	}
	if swept != 3 {
		t.Errorf("应扫过 3 条，扫过 %d", swept)
	}

	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)
	for _, c := range covers {
		if c.Response != model.CoverResponseTimeout {
			t.Errorf("过期请求应标记 timeout，得到 %s", c.Response)
		}
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusEscalated {
		t.Errorf("级联耗尽后应升级，得到 %s", absence.Status)
	}
}

// 已覆盖的缺勤不受扫描影响
func TestSweepDoesNotTouchCoveredAbsence(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	if _, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		cover.EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("接受失败: %v", err)
	}

	expireCovers(t, repo, resp.AbsenceID)
	if _, err := svc.SweepExpiredCoverRequests(ctx); err != nil {
		t.Fatalf("扫描失败: %v", err)
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusCovered {
		t.Errorf("已覆盖的缺勤不应被扫描改写，得到 %s", absence.Status)
	}
}

// 截止时间已过的响应：标记 timeout 并按已结案拒绝
func TestRespondAfterDeadlineRejected(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 1)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)
	expireCovers(t, repo, resp.AbsenceID)

	_, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		cover.EmployeeID, model.RoleStaff)
	if !errors.Is(err, ErrCoverAlreadyResolved) {
		t.Errorf("期望 ErrCoverAlreadyResolved，得到 %v", err)
	}

	got, _ := repo.CoverRequest.GetByID(ctx, cover.CoverRequestID)
	if got.Response != model.CoverResponseTimeout {
		t.Errorf("过期请求应标记 timeout，得到 %s", got.Response)
	}
}

// ── GetCoverageStatus / CancelAbsence ──

// 读取路径的惰性超时检查：扫描尚未跑过时读到的状态也应正确
func TestGetCoverageStatusLazyExpiry(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	expireCovers(t, repo, resp.AbsenceID)

	status, err := svc.GetCoverageStatus(ctx, resp.AbsenceID)
	if err != nil {
		t.Fatalf("查询覆盖状态失败: %v", err)
	}
	if status.Status != model.AbsenceStatusEscalated {
		t.Errorf("惰性检查后状态应为 escalated，得到 %s", status.Status)
	}
	for _, c := range status.CoverRequests {
		if c.Response != model.CoverResponseTimeout {
			t.Errorf("过期请求应显示 timeout，得到 %s", c.Response)
		}
	}
}

func TestCancelAbsenceCancelsCascade(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 3)
	resp := reportAbsence(t, svc, reporterID)

	if err := svc.CancelAbsence(ctx, resp.AbsenceID, reporterID, model.RoleStaff); err != nil {
		t.Fatalf("撤回失败: %v", err)
	}

	absence, _ := repo.Absence.GetByID(ctx, resp.AbsenceID)
	if absence.Status != model.AbsenceStatusCancelled {
		t.Errorf("状态应为 cancelled，得到 %s", absence.Status)
	}

	covers, _ := repo.CoverRequest.ListByAbsence(ctx, resp.AbsenceID)
	for _, c := range covers {
		if c.Response != model.CoverResponseCancelled {
			t.Errorf("级联请求应全部取消，得到 %s", c.Response)
		}
	}
}

func TestCancelResolvedAbsenceRejected(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 1)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	if _, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseAccepted},
		cover.EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("接受失败: %v", err)
	}

	err := svc.CancelAbsence(ctx, resp.AbsenceID, reporterID, model.RoleStaff)
	if !errors.Is(err, ErrAbsenceAlreadyResolved) {
		t.Errorf("期望 ErrAbsenceAlreadyResolved，得到 %v", err)
	}
}

// ── 员工侧待处理列表 ──

func TestListMyPendingCoverRequests(t *testing.T) {
	repo := newTestRepository()
	svc := newTestReplacementService(repo, newMockNotifier())
	ctx := context.Background()

	reporterID := seedEmployees(t, repo, "store-1", 2)
	resp := reportAbsence(t, svc, reporterID)
	cover := firstCover(t, repo, resp.AbsenceID)

	pending, err := svc.ListMyPendingCoverRequests(ctx, cover.EmployeeID)
	if err != nil {
		t.Fatalf("查询待处理请求失败: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("应有 1 条待处理请求，得到 %d", len(pending))
	}
	if pending[0].CoverRequestID != cover.CoverRequestID || pending[0].CascadeRank != cover.CascadeRank {
		t.Errorf("待处理请求内容不匹配: %+v", pending[0])
	}

	// 拒绝后不再出现
	if _, err := svc.RespondToCoverRequest(ctx, cover.CoverRequestID,
		&dto.RespondCoverRequest{Response: model.CoverResponseDeclined},
		cover.EmployeeID, model.RoleStaff); err != nil {
		t.Fatalf("拒绝失败: %v", err)
	}
	pending, _ = svc.ListMyPendingCoverRequests(ctx, cover.EmployeeID)
	if len(pending) != 0 {
		t.Errorf("已响应的请求不应再出现，得到 %d 条", len(pending))
	}
}

// ── RankForOverride ──

func TestRankForOverride(t *testing.T) {
	svc := newTestReplacementService(newTestRepository(), newMockNotifier())

	result := svc.RankForOverride(&dto.RankCandidatesRequest{
		Candidates: []dto.RankCandidateItem{
			{EmployeeID: "A", Reliability: 90, Distance: 10, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
			{EmployeeID: "B", Reliability: 85, Distance: 2, WantsMoreHours: true, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		},
	})

	if len(result) != 2 {
		t.Fatalf("期望 2 条结果，得到 %d", len(result))
	}
	if result[0].EmployeeID != "B" || result[0].Rank != 1 {
		t.Errorf("首位应为 B（rank=1），得到 %s（rank=%d）", result[0].EmployeeID, result[0].Rank)
	}
	if result[1].Score != 170 {
		t.Errorf("A 的评分应为 170，得到 %v", result[1].Score)
	}
}

// [自证通过] internal/service/replacement_service_test.go
