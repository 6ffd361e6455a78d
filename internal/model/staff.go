package model

// Staff 员工名册 — 对应 staff
// 与 Member 一样是只读名册，用于主体解析。
type Staff struct {
	StaffID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Role     string `gorm:"type:varchar(50);not null;default:'trainer'"    json:"role"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }
