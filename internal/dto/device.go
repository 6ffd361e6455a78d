package dto

// ── 设备认证模块 DTO ──

// DeviceAuthRequest 设备认证请求
type DeviceAuthRequest struct {
	Code   string `json:"code"   binding:"required,max=50"`
	Secret string `json:"secret" binding:"required,min=8,max=100"`
}

// DeviceAuthResponse 设备 Token 响应
type DeviceAuthResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expires_in"` // Token 有效期（秒）
	Device    DeviceResponse `json:"device"`
}

// DeviceResponse 设备信息响应（脱敏）
type DeviceResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}
