package model

// Member 会员名册 — 对应 members
// 只读名册：考勤模块仅用于把主体引用解析为姓名/卡类型快照，
// 会员的增删改由 CRM 主系统维护。
type Member struct {
	MemberID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	MembershipType string `gorm:"type:varchar(50);not null;default:'standard'"   json:"membership_type"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }
