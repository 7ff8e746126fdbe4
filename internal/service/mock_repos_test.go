package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// ── Mock Repositories ──
// 全部基于互斥锁的内存实现；条件更新以"持锁检查再更新"模拟数据库的
// 单条 UPDATE ... WHERE status='pending' 原子语义，可用于并发测试

type mockEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*model.Employee
	seq       int
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee.EmployeeID == "" {
		m.seq++
		employee.EmployeeID = fmt.Sprintf("emp-%d", m.seq)
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) List(_ context.Context, storeID, role, keyword string, offset, limit int) ([]model.Employee, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Employee
	for _, e := range m.employees {
		if storeID != "" && e.StoreID != storeID {
			continue
		}
		if role != "" && e.Role != role {
			continue
		}
		if keyword != "" && !strings.Contains(e.Name, keyword) {
			continue
		}
		all = append(all, *e)
	}
	return all, int64(len(all)), nil
}

func (m *mockEmployeeRepo) ListEligibleForCover(_ context.Context, storeID string) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Employee
	for _, e := range m.employees {
		if e.StoreID == storeID && e.CoverEligible && e.IsActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

type mockAbsenceRepo struct {
	mu       sync.Mutex
	absences map[string]*model.AbsenceRequest
	seq      int
}

func newMockAbsenceRepo() *mockAbsenceRepo {
	return &mockAbsenceRepo{absences: make(map[string]*model.AbsenceRequest)}
}

func (m *mockAbsenceRepo) Create(_ context.Context, absence *model.AbsenceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if absence.AbsenceRequestID == "" {
		m.seq++
		absence.AbsenceRequestID = fmt.Sprintf("abs-%d", m.seq)
	}
	if absence.Version == 0 {
		absence.Version = 1
	}
	m.absences[absence.AbsenceRequestID] = absence
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id string) (*model.AbsenceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.absences[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenceRepo) List(_ context.Context, storeID, status string, offset, limit int) ([]model.AbsenceRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.AbsenceRequest
	for _, a := range m.absences {
		if storeID != "" && a.StoreID != storeID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		all = append(all, *a)
	}
	return all, int64(len(all)), nil
}

func (m *mockAbsenceRepo) MarkCovered(_ context.Context, id, replacementEmployeeID string, coveredAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.absences[id]
	if !ok || a.Status != model.AbsenceStatusPending {
		return 0, nil
	}
	a.Status = model.AbsenceStatusCovered
	a.ReplacementEmployeeID = &replacementEmployeeID
	a.CoveredAt = &coveredAt
	a.Version++
	return 1, nil
}

func (m *mockAbsenceRepo) MarkStatusIfPending(_ context.Context, id, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.absences[id]
	if !ok || a.Status != model.AbsenceStatusPending {
		return 0, nil
	}
	a.Status = status
	a.Version++
	return 1, nil
}

type mockCoverRequestRepo struct {
	mu             sync.Mutex
	requests       map[string]*model.CoverRequest
	seq            int
	createBatchErr error // 注入批量创建失败
}

func newMockCoverRequestRepo() *mockCoverRequestRepo {
	return &mockCoverRequestRepo{requests: make(map[string]*model.CoverRequest)}
}

func (m *mockCoverRequestRepo) CreateBatch(_ context.Context, requests []*model.CoverRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createBatchErr != nil {
		return m.createBatchErr
	}
	for _, r := range requests {
		if r.CoverRequestID == "" {
			m.seq++
			r.CoverRequestID = fmt.Sprintf("cover-%d", m.seq)
		}
		m.requests[r.CoverRequestID] = r
	}
	return nil
}

func (m *mockCoverRequestRepo) GetByID(_ context.Context, id string) (*model.CoverRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoverRequestRepo) ListByAbsence(_ context.Context, absenceID string) ([]model.CoverRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CoverRequest
	for rank := 1; rank <= len(m.requests); rank++ {
		for _, r := range m.requests {
			if r.AbsenceRequestID == absenceID && r.CascadeRank == rank {
				result = append(result, *r)
			}
		}
	}
	return result, nil
}

func (m *mockCoverRequestRepo) ListPendingByEmployee(_ context.Context, employeeID string) ([]model.CoverRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CoverRequest
	for _, r := range m.requests {
		if r.EmployeeID == employeeID && r.Response == model.CoverResponsePending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockCoverRequestRepo) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]model.CoverRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CoverRequest
	for _, r := range m.requests {
		if r.Response == model.CoverResponsePending && now.After(r.ResponseDeadline) {
			result = append(result, *r)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (m *mockCoverRequestRepo) UpdateResponseIfPending(_ context.Context, id, resp string, respondedAt *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Response != model.CoverResponsePending {
		return 0, nil
	}
	r.Response = resp
	r.RespondedAt = respondedAt
	return 1, nil
}

func (m *mockCoverRequestRepo) CancelPendingByAbsence(_ context.Context, absenceID, exceptID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.requests {
		if r.AbsenceRequestID == absenceID && r.Response == model.CoverResponsePending && r.CoverRequestID != exceptID {
			r.Response = model.CoverResponseCancelled
			n++
		}
	}
	return n, nil
}

func (m *mockCoverRequestRepo) CountPendingByAbsence(_ context.Context, absenceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.requests {
		if r.AbsenceRequestID == absenceID && r.Response == model.CoverResponsePending {
			n++
		}
	}
	return n, nil
}

type mockShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) List(_ context.Context, storeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.shifts {
		if storeID != "" && s.StoreID != storeID {
			continue
		}
		if dateFrom != nil && s.ShiftDate.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && s.ShiftDate.After(*dateTo) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockShiftRepo) ListByEmployee(_ context.Context, employeeID string, dateFrom, dateTo *time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.shifts {
		if s.EmployeeID == nil || *s.EmployeeID != employeeID {
			continue
		}
		if dateFrom != nil && s.ShiftDate.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && s.ShiftDate.After(*dateTo) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

type mockShiftRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.ShiftRecord
	stats   map[string]repository.ReliabilityStat
	seq     int
}

func newMockShiftRecordRepo() *mockShiftRecordRepo {
	return &mockShiftRecordRepo{
		records: make(map[string]*model.ShiftRecord),
		stats:   make(map[string]repository.ReliabilityStat),
	}
}

// setReliability 直接注入历史完成率统计，免去逐条造记录
func (m *mockShiftRecordRepo) setReliability(employeeID string, completed, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[employeeID] = repository.ReliabilityStat{
		EmployeeID: employeeID,
		Total:      total,
		Completed:  completed,
	}
}

func (m *mockShiftRecordRepo) Create(_ context.Context, record *model.ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ShiftRecordID == "" {
		m.seq++
		record.ShiftRecordID = fmt.Sprintf("record-%d", m.seq)
	}
	m.records[record.ShiftRecordID] = record
	return nil
}

func (m *mockShiftRecordRepo) GetByID(_ context.Context, id string) (*model.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRecordRepo) GetByShiftAndEmployee(_ context.Context, shiftID, employeeID string) (*model.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ShiftID == shiftID && r.EmployeeID == employeeID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRecordRepo) Update(_ context.Context, record *model.ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ShiftRecordID] = record
	return nil
}

func (m *mockShiftRecordRepo) ReliabilityByEmployees(_ context.Context, employeeIDs []string) (map[string]repository.ReliabilityStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]repository.ReliabilityStat)
	for _, id := range employeeIDs {
		if st, ok := m.stats[id]; ok {
			result[id] = st
		}
	}
	return result, nil
}

type mockSystemConfigRepo struct {
	mu  sync.Mutex
	cfg *model.SystemConfig
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{}
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockSystemConfigRepo) Save(_ context.Context, cfg *model.SystemConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
	preferences   map[string]*model.NotificationPreference
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{preferences: make(map[string]*model.NotificationPreference)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	notification.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByEmployee(_ context.Context, employeeID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Notification
	for _, n := range m.notifications {
		if n.EmployeeID != employeeID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, employeeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, notif := range m.notifications {
		if notif.EmployeeID == employeeID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, employeeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.NotificationID == id && n.EmployeeID == employeeID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, employeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.EmployeeID == employeeID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) GetPreference(_ context.Context, employeeID string) (*model.NotificationPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.preferences[employeeID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) SavePreference(_ context.Context, pref *model.NotificationPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[pref.EmployeeID] = pref
	return nil
}

type mockStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*model.Store
	seq    int
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{stores: make(map[string]*model.Store)}
}

func (m *mockStoreRepo) Create(_ context.Context, store *model.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if store.StoreID == "" {
		m.seq++
		store.StoreID = fmt.Sprintf("store-%d", m.seq)
	}
	m.stores[store.StoreID] = store
	return nil
}

func (m *mockStoreRepo) GetByID(_ context.Context, id string) (*model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoreRepo) List(_ context.Context, includeInactive bool) ([]model.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Store
	for _, s := range m.stores {
		if !includeInactive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStoreRepo) Update(_ context.Context, store *model.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[store.StoreID] = store
	return nil
}

type mockInviteCodeRepo struct {
	mu      sync.Mutex
	invites map[string]*model.InviteCode
	seq     int
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{invites: make(map[string]*model.InviteCode)}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, invite *model.InviteCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if invite.InviteCodeID == "" {
		m.seq++
		invite.InviteCodeID = fmt.Sprintf("invite-%d", m.seq)
	}
	m.invites[invite.InviteCodeID] = invite
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.Code == code {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) MarkUsed(_ context.Context, id, usedBy string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok || inv.UsedAt != nil {
		return 0, nil
	}
	now := time.Now()
	inv.UsedAt = &now
	inv.UsedBy = &usedBy
	return 1, nil
}

// ── Mock Notifier ──

type mockNotifier struct {
	mu    sync.Mutex
	calls []mockNotifyCall
}

type mockNotifyCall struct {
	EmployeeID string
	Channel    string
	Payload    NotifyPayload
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Notify(_ context.Context, employeeID, channel string, payload NotifyPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mockNotifyCall{EmployeeID: employeeID, Channel: channel, Payload: payload})
	return nil
}

func (m *mockNotifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// newTestRepository 组装全量 mock 仓库聚合
func newTestRepository() *repository.Repository {
	return &repository.Repository{
		Store:        newMockStoreRepo(),
		Employee:     newMockEmployeeRepo(),
		InviteCode:   newMockInviteCodeRepo(),
		Shift:        newMockShiftRepo(),
		ShiftRecord:  newMockShiftRecordRepo(),
		Absence:      newMockAbsenceRepo(),
		CoverRequest: newMockCoverRequestRepo(),
		Notification: newMockNotificationRepo(),
		SystemConfig: newMockSystemConfigRepo(),
	}
}

// [自证通过] internal/service/mock_repos_test.go
