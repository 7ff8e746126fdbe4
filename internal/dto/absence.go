package dto

// ── 顶班级联模块 DTO ──

// ReportAbsenceRequest 缺勤上报请求
type ReportAbsenceRequest struct {
	ShiftID     *string `json:"shift_id"     binding:"omitempty,uuid"`
	StoreID     string  `json:"store_id"     binding:"required,uuid"`
	AbsenceType string  `json:"absence_type" binding:"omitempty,oneof=sick emergency personal"`
	ShiftDate   string  `json:"shift_date"   binding:"required,datetime=2006-01-02"`
	Reason      string  `json:"reason"       binding:"omitempty,max=500"`
	IsEmergency bool    `json:"is_emergency"`
}

// ReportAbsenceResponse 缺勤上报响应
type ReportAbsenceResponse struct {
	AbsenceID         string `json:"absence_id"`
	Status            string `json:"status"`
	NotificationsSent int    `json:"notifications_sent"`
	Escalated         bool   `json:"escalated"`
}

// RespondCoverRequest 顶班请求响应请求（接受/拒绝）
type RespondCoverRequest struct {
	Response string `json:"response" binding:"required,oneof=accepted declined"`
}

// RespondCoverResponse 顶班请求响应结果
type RespondCoverResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CoverRequestStatus 单条顶班请求状态
type CoverRequestStatus struct {
	CoverRequestID string  `json:"cover_request_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	CascadeRank    int     `json:"rank"`
	Channel        string  `json:"channel"`
	Response       string  `json:"response"`
	Deadline       string  `json:"deadline"`
	RespondedAt    *string `json:"responded_at,omitempty"`
}

// CoverageStatusResponse 缺勤覆盖状态响应
type CoverageStatusResponse struct {
	AbsenceID             string               `json:"absence_id"`
	Status                string               `json:"status"`
	ReplacementEmployeeID *string              `json:"replacement_employee_id,omitempty"`
	CoveredAt             *string              `json:"covered_at,omitempty"`
	CoverRequests         []CoverRequestStatus `json:"cover_requests"`
}

// AbsenceListRequest 缺勤列表查询参数
type AbsenceListRequest struct {
	PaginationRequest
	StoreID string `form:"store_id" binding:"omitempty,uuid"`
	Status  string `form:"status"  binding:"omitempty,oneof=pending covered escalated cancelled"`
}

// AbsenceResponse 缺勤申请响应
type AbsenceResponse struct {
	ID                    string  `json:"id"`
	EmployeeID            string  `json:"employee_id"`
	EmployeeName          string  `json:"employee_name,omitempty"`
	StoreID               string  `json:"store_id"`
	AbsenceType           string  `json:"absence_type"`
	ShiftDate             string  `json:"shift_date"`
	Reason                string  `json:"reason,omitempty"`
	IsEmergency           bool    `json:"is_emergency"`
	Status                string  `json:"status"`
	ReplacementEmployeeID *string `json:"replacement_employee_id,omitempty"`
	CreatedAt             string  `json:"created_at"`
}

// PendingCoverRequestResponse 我的待处理顶班请求
type PendingCoverRequestResponse struct {
	CoverRequestID string `json:"cover_request_id"`
	AbsenceID      string `json:"absence_id"`
	StoreID        string `json:"store_id,omitempty"`
	ShiftDate      string `json:"shift_date"`
	CascadeRank    int    `json:"rank"`
	Deadline       string `json:"deadline"`
}

// ── 候选人排序（人工改派工具复用） ──

// RankCandidateItem 待排序候选人
type RankCandidateItem struct {
	EmployeeID              string  `json:"employee_id"  binding:"required"`
	Name                    string  `json:"name"`
	Reliability             float64 `json:"reliability"`
	Distance                float64 `json:"distance"`
	WantsMoreHours          bool    `json:"wants_more_hours"`
	HasRequiredSkills       bool    `json:"has_required_skills"`
	SpeaksRequiredLanguages bool    `json:"speaks_required_languages"`
	IsAvailable             bool    `json:"is_available"`
}

// RankCandidatesRequest 候选人排序请求
type RankCandidatesRequest struct {
	Candidates []RankCandidateItem `json:"candidates" binding:"required"`
}

// RankedCandidateResponse 排序结果项
type RankedCandidateResponse struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name,omitempty"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// [自证通过] internal/dto/absence.go
