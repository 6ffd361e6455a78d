package model

import (
	"fmt"
	"time"
)

// ── 签到方式 ──

const (
	MethodQR        = "qr"
	MethodBiometric = "biometric"
	MethodManual    = "manual"
)

// IsValidMethod 校验签到方式
func IsValidMethod(method string) bool {
	switch method {
	case MethodQR, MethodBiometric, MethodManual:
		return true
	}
	return false
}

// ── 考勤状态（派生，不落库）──

const (
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 主体快照（姓名、类别）在签到时写入；状态不单独存储，
// 始终由 check_out_time 是否为空派生，避免与时间戳出现分歧。
type AttendanceRecord struct {
	AttendanceID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	SubjectType  SubjectKind `gorm:"type:varchar(10);not null"                      json:"subject_type"` // member | staff
	SubjectID    string      `gorm:"type:uuid;not null"                             json:"subject_id"`
	SubjectName  string      `gorm:"type:varchar(100);not null"                     json:"subject_name"` // 冗余快照
	Category     string      `gorm:"type:varchar(50);not null"                      json:"category"`     // 会员卡类型或员工角色
	Method       string      `gorm:"type:varchar(20);not null"                      json:"method"`       // qr | biometric | manual
	CheckInTime  time.Time   `gorm:"not null"                                       json:"check_in_time"`
	CheckOutTime *time.Time  `json:"check_out_time,omitempty"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// Subject 返回记录的主体引用
func (r *AttendanceRecord) Subject() SubjectRef {
	return SubjectRef{kind: r.SubjectType, id: r.SubjectID}
}

// Status 派生考勤状态：未签退即在馆
func (r *AttendanceRecord) Status() string {
	if r.CheckOutTime == nil {
		return StatusCheckedIn
	}
	return StatusCheckedOut
}

// IsOpen 是否仍在馆（未签退）
func (r *AttendanceRecord) IsOpen() bool { return r.CheckOutTime == nil }

// Duration 停留时长；仅在已签退且区间合法时有定义
func (r *AttendanceRecord) Duration() (time.Duration, bool) {
	if r.CheckOutTime == nil {
		return 0, false
	}
	d := r.CheckOutTime.Sub(r.CheckInTime)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// FormatDuration 将停留时长格式化为 "{h}h {m}m"；未签退或区间非法时返回空串
func (r *AttendanceRecord) FormatDuration() string {
	d, ok := r.Duration()
	if !ok {
		return ""
	}
	return FormatDuration(d)
}

// FormatDuration 时长显示格式：整小时 + 余数分钟，丢弃秒
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// DailyStats 当日考勤聚合（派生，不持久化）
// 每次查询都基于当日记录集全量重算，避免客户端增量计数漂移
type DailyStats struct {
	TotalToday   int `json:"total_today"`
	CurrentlyIn  int `json:"currently_in"`
	MembersToday int `json:"members_today"`
	StaffToday   int `json:"staff_today"`
}

// ComputeDailyStats 扫描当日记录集计算聚合统计
func ComputeDailyStats(records []AttendanceRecord) DailyStats {
	var stats DailyStats
	stats.TotalToday = len(records)
	for i := range records {
		r := &records[i]
		if r.IsOpen() {
			stats.CurrentlyIn++
		}
		switch r.SubjectType {
		case SubjectMember:
			stats.MembersToday++
		case SubjectStaff:
			stats.StaffToday++
		}
	}
	return stats
}
