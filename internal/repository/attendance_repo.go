package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"musclecrm/backend/internal/model"
	pkgerrors "musclecrm/backend/pkg/errors"
)

// AttendanceRepository 考勤记录数据访问接口
//
// "同一主体最多一条未签退记录"由部分唯一索引 uq_attendance_open_subject
// 在存储层裁决：多台签到设备并发提交时，胜者插入成功，
// 败者收到唯一冲突并被翻译为 ErrDuplicateOpenRecord。
type AttendanceRepository interface {
	// CreateOpen 插入一条未签退记录；主体已有未签退记录时返回 ErrDuplicateOpenRecord
	CreateOpen(ctx context.Context, record *model.AttendanceRecord) error
	// CloseOpen 条件更新关闭主体的未签退记录；无未签退记录时返回 ErrNoOpenRecord
	CloseOpen(ctx context.Context, ref model.SubjectRef, at time.Time) (*model.AttendanceRecord, error)
	// FindOpen 查找主体的未签退记录，不存在时返回 ErrNoOpenRecord
	FindOpen(ctx context.Context, ref model.SubjectRef) (*model.AttendanceRecord, error)
	// ListBetween 按签到时间区间 [start, end) 全量检索，最新签到在前
	ListBetween(ctx context.Context, start, end time.Time) ([]model.AttendanceRecord, error)
	// ListPage 按签到时间区间 [start, end) 分页检索，最新签到在前，返回总数
	ListPage(ctx context.Context, start, end time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) CreateOpen(ctx context.Context, record *model.AttendanceRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkgerrors.ErrDuplicateOpenRecord
		}
		return err
	}
	return nil
}

func (r *attendanceRepo) CloseOpen(ctx context.Context, ref model.SubjectRef, at time.Time) (*model.AttendanceRecord, error) {
	rec, err := r.FindOpen(ctx, ref)
	if err != nil {
		return nil, err
	}

	// 条件更新：仅当记录仍未签退且签退时间严格晚于签到时间时命中。
	// 并发的两次签退只有一次能影响到行，败者与"无未签退记录"同样处理。
	result := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("attendance_id = ? AND check_out_time IS NULL AND check_in_time < ?", rec.AttendanceID, at).
		Updates(map[string]interface{}{
			"check_out_time": at,
			"updated_at":     at,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.ErrNoOpenRecord
	}

	rec.CheckOutTime = &at
	rec.UpdatedAt = at
	return rec, nil
}

func (r *attendanceRepo) FindOpen(ctx context.Context, ref model.SubjectRef) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ? AND check_out_time IS NULL", ref.Kind(), ref.ID()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNoOpenRecord
		}
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("check_in_time >= ? AND check_in_time < ?", start, end).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListPage(ctx context.Context, start, end time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var records []model.AttendanceRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ?", start, end)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, total, err
}
