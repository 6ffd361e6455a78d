package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/dto"
	"musclecrm/backend/internal/model"
	"musclecrm/backend/internal/repository"
	pkgerrors "musclecrm/backend/pkg/errors"
)

// ── 考勤模块业务错误 ──

var (
	ErrAlreadyCheckedIn = errors.New("该主体已签到，尚未签退")
	ErrNoOpenSession    = errors.New("该主体没有进行中的签到")
	ErrInvalidRange     = errors.New("结束日期不能早于开始日期")
	ErrSubjectNotFound  = errors.New("会员或员工不存在或已停用")
	ErrInvalidMethod    = errors.New("非法签到方式")
)

// AttendanceService 考勤业务接口
//
// 每个主体的状态机只有两态：Out（无未签退记录）↔ In（恰好一条未签退记录）。
// Out→In 由 CheckIn 触发，重复签到被拒；In→Out 由 CheckOut 触发，
// 无在馆会话被拒。没有暂停/挂起等中间态。
type AttendanceService interface {
	// CheckIn 签到：创建未签退记录；主体已在馆时返回 ErrAlreadyCheckedIn
	CheckIn(ctx context.Context, ref model.SubjectRef, method string) (*dto.AttendanceRecordResponse, error)
	// CheckOut 签退：关闭未签退记录；主体不在馆时返回 ErrNoOpenSession
	CheckOut(ctx context.Context, ref model.SubjectRef) (*dto.AttendanceRecordResponse, error)
	// TodayView 今日视图：场馆时区当日记录（最新签到在前）+ 全量重算统计
	TodayView(ctx context.Context) (*dto.TodayViewResponse, error)
	// History 历史视图：按日期区间分页；end < start 返回 ErrInvalidRange，
	// 页码越界返回空列表而非错误
	History(ctx context.Context, req *dto.HistoryRequest) ([]dto.AttendanceRecordResponse, int64, error)
}

type attendanceService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	loc      *time.Location
	pageSize int
	nowFn    func() time.Time // 测试注入
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		// Config.Validate 已拦截非法时区，此处仅兜底
		loc = time.UTC
	}
	return &attendanceService{
		repo:     repo,
		logger:   logger,
		loc:      loc,
		pageSize: cfg.Attendance.PageSize,
		nowFn:    time.Now,
	}
}

// ────────────────────── CheckIn ──────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, ref model.SubjectRef, method string) (*dto.AttendanceRecordResponse, error) {
	if !model.IsValidMethod(method) {
		return nil, ErrInvalidMethod
	}

	name, category, err := s.resolveSubject(ctx, ref)
	if err != nil {
		return nil, err
	}

	record := &model.AttendanceRecord{
		SubjectType: ref.Kind(),
		SubjectID:   ref.ID(),
		SubjectName: name,
		Category:    category,
		Method:      method,
		CheckInTime: s.nowFn(),
	}

	if err := s.repo.Attendance.CreateOpen(ctx, record); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateOpenRecord) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("创建签到记录失败",
			zap.String("subject_type", string(ref.Kind())),
			zap.String("subject_id", ref.ID()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("签到成功",
		zap.String("subject_type", string(ref.Kind())),
		zap.String("subject_name", name),
		zap.String("method", method),
	)

	return s.toRecordResponse(record), nil
}

// ────────────────────── CheckOut ──────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, ref model.SubjectRef) (*dto.AttendanceRecordResponse, error) {
	record, err := s.repo.Attendance.CloseOpen(ctx, ref, s.nowFn())
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoOpenRecord) {
			return nil, ErrNoOpenSession
		}
		s.logger.Error("签退失败",
			zap.String("subject_type", string(ref.Kind())),
			zap.String("subject_id", ref.ID()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("签退成功",
		zap.String("subject_type", string(ref.Kind())),
		zap.String("subject_name", record.SubjectName),
		zap.String("duration", record.FormatDuration()),
	)

	return s.toRecordResponse(record), nil
}

// ────────────────────── TodayView ──────────────────────

func (s *attendanceService) TodayView(ctx context.Context) (*dto.TodayViewResponse, error) {
	now := s.nowFn().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	records, err := s.repo.Attendance.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("查询今日考勤失败", zap.Error(err))
		return nil, err
	}

	// 统计始终基于查询返回的权威记录集全量重算
	stats := model.ComputeDailyStats(records)

	resp := &dto.TodayViewResponse{
		Records: make([]dto.AttendanceRecordResponse, 0, len(records)),
		Stats: dto.DailyStatsResponse{
			TotalToday:   stats.TotalToday,
			CurrentlyIn:  stats.CurrentlyIn,
			MembersToday: stats.MembersToday,
			StaffToday:   stats.StaffToday,
		},
	}
	for i := range records {
		resp.Records = append(resp.Records, *s.toRecordResponse(&records[i]))
	}

	return resp, nil
}

// ────────────────────── History ──────────────────────

func (s *attendanceService) History(ctx context.Context, req *dto.HistoryRequest) ([]dto.AttendanceRecordResponse, int64, error) {
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
	if err != nil {
		return nil, 0, ErrInvalidRange
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)
	if err != nil {
		return nil, 0, ErrInvalidRange
	}
	if end.Before(start) {
		return nil, 0, ErrInvalidRange
	}
	// 区间对 end 当日闭合
	endExclusive := end.AddDate(0, 0, 1)

	pageSize := req.GetPageSize(s.pageSize)
	offset := req.GetOffset(s.pageSize)

	records, total, err := s.repo.Attendance.ListPage(ctx, start, endExclusive, offset, pageSize)
	if err != nil {
		s.logger.Error("查询考勤历史失败",
			zap.String("start", req.StartDate),
			zap.String("end", req.EndDate),
			zap.Error(err),
		)
		return nil, 0, err
	}

	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toRecordResponse(&records[i]))
	}

	if req.Keyword != "" {
		result = SearchRecords(result, req.Keyword)
	}

	return result, total, nil
}

// ── 主体姓名搜索 ──

// SearchRecords 按主体姓名做大小写不敏感的子串匹配；空查询返回全部
func SearchRecords(records []dto.AttendanceRecordResponse, query string) []dto.AttendanceRecordResponse {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}
	needle := strings.ToLower(query)
	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.SubjectName), needle) {
			result = append(result, r)
		}
	}
	return result
}

// ── 内部辅助方法 ──

// resolveSubject 把主体引用解析为姓名/类别快照；名册中不存在或已停用视为未找到
func (s *attendanceService) resolveSubject(ctx context.Context, ref model.SubjectRef) (name, category string, err error) {
	if ref.IsZero() {
		return "", "", ErrSubjectNotFound
	}

	switch ref.Kind() {
	case model.SubjectMember:
		member, err := s.repo.Member.GetByID(ctx, ref.ID())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrSubjectNotFound
			}
			s.logger.Error("查询会员失败", zap.String("id", ref.ID()), zap.Error(err))
			return "", "", err
		}
		if !member.IsActive {
			return "", "", ErrSubjectNotFound
		}
		return member.Name, member.MembershipType, nil

	case model.SubjectStaff:
		staff, err := s.repo.Staff.GetByID(ctx, ref.ID())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrSubjectNotFound
			}
			s.logger.Error("查询员工失败", zap.String("id", ref.ID()), zap.Error(err))
			return "", "", err
		}
		if !staff.IsActive {
			return "", "", ErrSubjectNotFound
		}
		return staff.Name, staff.Role, nil
	}

	return "", "", ErrSubjectNotFound
}

func (s *attendanceService) toRecordResponse(r *model.AttendanceRecord) *dto.AttendanceRecordResponse {
	resp := &dto.AttendanceRecordResponse{
		ID:          r.AttendanceID,
		SubjectType: string(r.SubjectType),
		SubjectID:   r.SubjectID,
		SubjectName: r.SubjectName,
		Category:    r.Category,
		Method:      r.Method,
		Status:      r.Status(),
		CheckInTime: r.CheckInTime.In(s.loc).Format(time.RFC3339),
	}
	if r.CheckOutTime != nil {
		resp.CheckOutTime = r.CheckOutTime.In(s.loc).Format(time.RFC3339)
		resp.Duration = r.FormatDuration()
	}
	return resp
}
