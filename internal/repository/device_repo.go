package repository

import (
	"context"

	"gorm.io/gorm"

	"musclecrm/backend/internal/model"
)

// DeviceRepository 签到设备数据访问接口
type DeviceRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Device, error)
	GetByID(ctx context.Context, id string) (*model.Device, error)
}

type deviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepo 创建 DeviceRepository 实例
func NewDeviceRepo(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) GetByCode(ctx context.Context, code string) (*model.Device, error) {
	var device model.Device
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) GetByID(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	err := r.db.WithContext(ctx).
		Where("device_id = ?", id).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}
