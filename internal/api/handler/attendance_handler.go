package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"musclecrm/backend/internal/dto"
	"musclecrm/backend/internal/model"
	"musclecrm/backend/internal/service"
	"musclecrm/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc   service.AttendanceService
	defaultPageSize int
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, defaultPageSize int) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, defaultPageSize: defaultPageSize}
}

// CheckIn 签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ref, err := model.ParseSubjectRef(req.SubjectType, req.SubjectID)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.attendanceSvc.CheckIn(c.Request.Context(), ref, req.Method)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// CheckOut 签退
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ref, err := model.ParseSubjectRef(req.SubjectType, req.SubjectID)
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.attendanceSvc.CheckOut(c.Request.Context(), ref)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// TodayView 今日视图（记录 + 当日统计）
// GET /api/v1/attendance/today
func (h *AttendanceHandler) TodayView(c *gin.Context) {
	view, err := h.attendanceSvc.TodayView(c.Request.Context())
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	// 姓名搜索在返回的当日记录集上过滤，统计保持对整日重算的结果
	if q := c.Query("keyword"); q != "" {
		view.Records = service.SearchRecords(view.Records, q)
	}

	response.OK(c, view)
}

// History 历史视图（分页）
// GET /api/v1/attendance/history
func (h *AttendanceHandler) History(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.attendanceSvc.History(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize(h.defaultPageSize))
}

// handleAttendanceError 统一处理考勤模块业务错误
// 业务冲突与校验错误对操作员可恢复；其余一律视为存储暂不可用，
// 前端保留上次数据并提示重试，不暴露底层错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 17001, "该会员/员工已签到，无需重复操作")
	case errors.Is(err, service.ErrNoOpenSession):
		response.Conflict(c, 17002, "该会员/员工没有进行中的签到")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 17003, "会员或员工不存在")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 17004, "日期区间无效")
	case errors.Is(err, service.ErrInvalidMethod):
		response.BadRequest(c, 17005, "非法签到方式")
	default:
		response.ServiceUnavailable(c)
	}
}
