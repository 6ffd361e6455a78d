package handler

import (
	"musclecrm/backend/config"
	"musclecrm/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Attendance *AttendanceHandler
	Device     *DeviceHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Attendance: NewAttendanceHandler(svc.Attendance, cfg.Attendance.PageSize),
		Device:     NewDeviceHandler(svc.Device),
		Export:     NewExportHandler(svc.Export),
	}
}
