package dto

// ── 考勤模块 DTO ──

// CheckInRequest 签到请求
type CheckInRequest struct {
	SubjectType string `json:"subject_type" binding:"required,oneof=member staff"`
	SubjectID   string `json:"subject_id"   binding:"required,uuid"`
	Method      string `json:"method"       binding:"required,oneof=qr biometric manual"`
}

// CheckOutRequest 签退请求
type CheckOutRequest struct {
	SubjectType string `json:"subject_type" binding:"required,oneof=member staff"`
	SubjectID   string `json:"subject_id"   binding:"required,uuid"`
}

// HistoryRequest 历史记录查询参数
type HistoryRequest struct {
	PaginationRequest
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID           string `json:"id"`
	SubjectType  string `json:"subject_type"`
	SubjectID    string `json:"subject_id"`
	SubjectName  string `json:"subject_name"`
	Category     string `json:"category"`
	Method       string `json:"method"`
	Status       string `json:"status"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Duration     string `json:"duration,omitempty"` // "1h 30m"，未签退为空
}

// DailyStatsResponse 当日聚合统计响应
type DailyStatsResponse struct {
	TotalToday   int `json:"total_today"`
	CurrentlyIn  int `json:"currently_in"`
	MembersToday int `json:"members_today"`
	StaffToday   int `json:"staff_today"`
}

// TodayViewResponse 今日视图：当日记录（最新签到在前）+ 重算统计
type TodayViewResponse struct {
	Records []AttendanceRecordResponse `json:"records"`
	Stats   DailyStatsResponse         `json:"stats"`
}
