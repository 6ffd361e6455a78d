package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/dto"
	"musclecrm/backend/internal/repository"
	"musclecrm/backend/pkg/jwt"
	"musclecrm/backend/pkg/redis"
)

// ── 设备认证模块业务错误 ──

var (
	// ErrDeviceAuthFailed 设备编码不存在、已停用或密钥错误统一返回，不泄露细节
	ErrDeviceAuthFailed = errors.New("设备编码或密钥错误")
)

// DeviceService 签到设备认证业务接口
type DeviceService interface {
	// Authenticate 设备编码 + 密钥换取 JWT
	Authenticate(ctx context.Context, req *dto.DeviceAuthRequest) (*dto.DeviceAuthResponse, error)
	// Revoke 吊销设备 Token（加入 Redis 黑名单，TTL 至 Token 过期）
	Revoke(ctx context.Context, claims *jwt.Claims) error
}

type deviceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewDeviceService 创建 DeviceService 实例
func NewDeviceService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) DeviceService {
	return &deviceService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// ────────────────────── Authenticate ──────────────────────

func (s *deviceService) Authenticate(ctx context.Context, req *dto.DeviceAuthRequest) (*dto.DeviceAuthResponse, error) {
	device, err := s.repo.Device.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceAuthFailed
		}
		s.logger.Error("查询设备失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	if !device.IsActive {
		return nil, ErrDeviceAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(device.SecretHash), []byte(req.Secret)); err != nil {
		s.logger.Warn("设备密钥校验失败", zap.String("code", req.Code))
		return nil, ErrDeviceAuthFailed
	}

	token, err := s.jwtMgr.GenerateDeviceToken(device.DeviceID, device.Kind)
	if err != nil {
		s.logger.Error("签发设备 Token 失败", zap.String("device_id", device.DeviceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("设备认证成功",
		zap.String("device_id", device.DeviceID),
		zap.String("kind", device.Kind),
	)

	return &dto.DeviceAuthResponse{
		Token:     token,
		ExpiresIn: int(s.cfg.Device.TokenTTL.Seconds()),
		Device: dto.DeviceResponse{
			ID:   device.DeviceID,
			Code: device.Code,
			Name: device.Name,
			Kind: device.Kind,
		},
	}, nil
}

// ────────────────────── Revoke ──────────────────────

func (s *deviceService) Revoke(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		// Redis 不可用时降级：仅记录日志，Token 自然过期
		s.logger.Warn("Redis 不可用，设备 Token 未加入黑名单",
			zap.String("device_id", claims.DeviceID),
		)
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("设备 Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}

	s.logger.Info("设备 Token 已吊销", zap.String("device_id", claims.DeviceID))
	return nil
}
