package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/model"
	"musclecrm/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords = errors.New("该日期区间内无考勤记录")
)

// ExportService 考勤历史导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendance 将日期区间内的考勤记录导出为 Excel (.xlsx)
	// 返回值：buf（Excel 内容）, filename（建议文件名）, error
	ExportAttendance(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, logger: logger, loc: loc}
}

const exportSheet = "考勤记录"

var exportHeaders = []string{"姓名", "主体类型", "类别", "签到方式", "签到时间", "签退时间", "停留时长", "状态"}

func (s *exportService) ExportAttendance(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error) {
	// 1. 校验日期区间
	start, err := time.ParseInLocation("2006-01-02", startDate, s.loc)
	if err != nil {
		return nil, "", ErrInvalidRange
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, s.loc)
	if err != nil {
		return nil, "", ErrInvalidRange
	}
	if end.Before(start) {
		return nil, "", ErrInvalidRange
	}

	// 2. 全量检索区间记录
	records, err := s.repo.Attendance.ListBetween(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询导出记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 3. 生成工作簿
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), exportSheet)

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", err
		}
	}

	for i := range records {
		r := &records[i]
		row := i + 2

		checkOut := ""
		if r.CheckOutTime != nil {
			checkOut = r.CheckOutTime.In(s.loc).Format("2006-01-02 15:04")
		}

		subjectType := "会员"
		if r.SubjectType == model.SubjectStaff {
			subjectType = "员工"
		}

		values := []interface{}{
			r.SubjectName,
			subjectType,
			r.Category,
			r.Method,
			r.CheckInTime.In(s.loc).Format("2006-01-02 15:04"),
			checkOut,
			r.FormatDuration(),
			r.Status(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				s.logger.Error("写入数据行失败", zap.Int("row", row), zap.Error(err))
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", startDate, endDate)
	return buf, filename, nil
}
