package model

// Device 签到设备表 — 对应 devices
// QR 扫码枪、生物识别终端、前台手工录入工位各自持有一条设备凭据
type Device struct {
	DeviceID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"device_id"`
	Code       string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Kind       string `gorm:"type:varchar(20);not null"                      json:"kind"` // qr | biometric | manual
	SecretHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Device) TableName() string { return "devices" }
