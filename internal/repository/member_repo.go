package repository

import (
	"context"

	"gorm.io/gorm"

	"musclecrm/backend/internal/model"
)

// MemberRepository 会员名册数据访问接口（只读）
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*model.Member, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("member_id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
