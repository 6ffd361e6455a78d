package service

import (
	"go.uber.org/zap"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/repository"
	"musclecrm/backend/pkg/jwt"
	"musclecrm/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Attendance AttendanceService
	Device     DeviceService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Attendance: NewAttendanceService(cfg, repo, logger),
		Device:     NewDeviceService(cfg, repo, jwtMgr, rdb, logger),
		Export:     NewExportService(cfg, repo, logger),
	}
}
