package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"musclecrm/backend/internal/service"
	"musclecrm/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出日期区间内的考勤记录为 Excel
// GET /api/v1/attendance/export?start_date=2026-03-01&end_date=2026-03-31
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, 10001, "start_date 与 end_date 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRange):
			response.BadRequest(c, 17004, "日期区间无效")
		case errors.Is(err, service.ErrExportNoRecords):
			response.NotFound(c, 19001, "该日期区间内无考勤记录")
		default:
			response.ServiceUnavailable(c)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}
