package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Attendance AttendanceRepository
	Member     MemberRepository
	Staff      StaffRepository
	Device     DeviceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Attendance: NewAttendanceRepo(db),
		Member:     NewMemberRepo(db),
		Staff:      NewStaffRepo(db),
		Device:     NewDeviceRepo(db),
	}
}
