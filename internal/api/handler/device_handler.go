package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"musclecrm/backend/internal/dto"
	"musclecrm/backend/internal/service"
	"musclecrm/backend/pkg/response"
)

// DeviceHandler 签到设备认证 HTTP 处理器
type DeviceHandler struct {
	deviceSvc service.DeviceService
}

// NewDeviceHandler 创建 DeviceHandler
func NewDeviceHandler(deviceSvc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceSvc: deviceSvc}
}

// Authenticate 设备认证，换取 Token
// POST /api/v1/devices/auth
func (h *DeviceHandler) Authenticate(c *gin.Context) {
	var req dto.DeviceAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.deviceSvc.Authenticate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDeviceAuthFailed) {
			response.Unauthorized(c, 18001, "设备编码或密钥错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Revoke 吊销当前设备 Token
// POST /api/v1/devices/revoke
func (h *DeviceHandler) Revoke(c *gin.Context) {
	claims, ok := MustGetDeviceClaims(c)
	if !ok {
		return
	}

	if err := h.deviceSvc.Revoke(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
