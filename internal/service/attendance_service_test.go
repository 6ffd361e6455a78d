package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/dto"
	"musclecrm/backend/internal/model"
	"musclecrm/backend/internal/repository"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Attendance: config.AttendanceConfig{
			Timezone: "UTC",
			PageSize: 10,
		},
	}
}

func setupTestAttendanceService() (*attendanceService, *mockAttendanceRepo, *mockMemberRepo, *mockStaffRepo) {
	attRepo := newMockAttendanceRepo()
	memberRepo := newMockMemberRepo()
	staffRepo := newMockStaffRepo()
	repo := &repository.Repository{
		Attendance: attRepo,
		Member:     memberRepo,
		Staff:      staffRepo,
		Device:     newMockDeviceRepo(),
	}
	svc := NewAttendanceService(testConfig(), repo, zap.NewNop()).(*attendanceService)
	return svc, attRepo, memberRepo, staffRepo
}

func seedMember(repo *mockMemberRepo, id, name, membershipType string) {
	repo.members[id] = &model.Member{
		MemberID:       id,
		Name:           name,
		MembershipType: membershipType,
		IsActive:       true,
	}
}

func seedStaff(repo *mockStaffRepo, id, name, role string) {
	repo.staff[id] = &model.Staff{
		StaffID:  id,
		Name:     name,
		Role:     role,
		IsActive: true,
	}
}

// fixedClock 返回可推进的时钟注入函数
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

// ── CheckIn 测试 ──

func TestAttendanceService_CheckIn_Success(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	result, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR)
	if err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}
	if result.SubjectName != "Asha" {
		t.Errorf("期望 SubjectName=Asha，实际=%s", result.SubjectName)
	}
	if result.Category != "premium" {
		t.Errorf("期望 Category=premium，实际=%s", result.Category)
	}
	if result.Status != model.StatusCheckedIn {
		t.Errorf("期望状态=%s，实际=%s", model.StatusCheckedIn, result.Status)
	}
	if result.Duration != "" {
		t.Errorf("未签退记录不应有时长，实际=%q", result.Duration)
	}
}

func TestAttendanceService_CheckIn_StaffSnapshot(t *testing.T) {
	svc, _, _, staffRepo := setupTestAttendanceService()
	seedStaff(staffRepo, "s-001", "Ravi", "trainer")

	result, err := svc.CheckIn(context.Background(), model.StaffRef("s-001"), model.MethodManual)
	if err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}
	if result.SubjectType != string(model.SubjectStaff) {
		t.Errorf("期望 SubjectType=staff，实际=%s", result.SubjectType)
	}
	if result.Category != "trainer" {
		t.Errorf("期望 Category=trainer，实际=%s", result.Category)
	}
}

func TestAttendanceService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR); err != nil {
		t.Fatalf("首次 CheckIn 应成功: %v", err)
	}

	_, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodBiometric)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("重复签到期望 ErrAlreadyCheckedIn，实际: %v", err)
	}
}

func TestAttendanceService_CheckIn_SubjectNotFound(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()

	_, err := svc.CheckIn(context.Background(), model.MemberRef("nonexistent"), model.MethodQR)
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("期望 ErrSubjectNotFound，实际: %v", err)
	}

	// 停用会员同样视为未找到
	memberRepo.members["m-002"] = &model.Member{
		MemberID: "m-002", Name: "停用会员", MembershipType: "standard", IsActive: false,
	}
	_, err = svc.CheckIn(context.Background(), model.MemberRef("m-002"), model.MethodQR)
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("停用会员期望 ErrSubjectNotFound，实际: %v", err)
	}
}

func TestAttendanceService_CheckIn_InvalidMethod(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	_, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), "telepathy")
	if !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("期望 ErrInvalidMethod，实际: %v", err)
	}
}

// ── CheckOut 测试 ──

func TestAttendanceService_CheckOut_NoOpenSession(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	_, err := svc.CheckOut(context.Background(), model.MemberRef("m-001"))
	if !errors.Is(err, ErrNoOpenSession) {
		t.Errorf("未签到直接签退期望 ErrNoOpenSession，实际: %v", err)
	}
}

func TestAttendanceService_CheckInOut_Duration(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	clock, advance := fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc.nowFn = clock

	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR); err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}

	advance(90 * time.Minute)

	result, err := svc.CheckOut(context.Background(), model.MemberRef("m-001"))
	if err != nil {
		t.Fatalf("CheckOut 应成功: %v", err)
	}
	if result.Status != model.StatusCheckedOut {
		t.Errorf("期望状态=%s，实际=%s", model.StatusCheckedOut, result.Status)
	}
	if result.Duration != "1h 30m" {
		t.Errorf("期望时长=1h 30m，实际=%q", result.Duration)
	}
}

// 状态机不变式：任意签到/签退序列后，同一主体最多一条未签退记录
func TestAttendanceService_AtMostOneOpenRecord(t *testing.T) {
	svc, attRepo, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	clock, advance := fixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	svc.nowFn = clock

	ref := model.MemberRef("m-001")
	ops := []string{"in", "in", "out", "out", "in", "out", "in", "in"}
	for i, op := range ops {
		advance(time.Minute)
		if op == "in" {
			svc.CheckIn(context.Background(), ref, model.MethodQR)
		} else {
			svc.CheckOut(context.Background(), ref)
		}

		open := 0
		for _, r := range attRepo.records {
			if r.SubjectID == "m-001" && r.CheckOutTime == nil {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("第%d步(%s)后出现%d条未签退记录", i, op, open)
		}
	}
}

// ── TodayView 测试 ──

func TestAttendanceService_TodayView_Scenario(t *testing.T) {
	// 09:00 会员 Asha 签到，09:05 员工 Ravi 签到，10:15 Asha 签退
	svc, _, memberRepo, staffRepo := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")
	seedStaff(staffRepo, "s-001", "Ravi", "trainer")

	clock, advance := fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc.nowFn = clock

	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR); err != nil {
		t.Fatalf("Asha 签到应成功: %v", err)
	}
	advance(5 * time.Minute)
	if _, err := svc.CheckIn(context.Background(), model.StaffRef("s-001"), model.MethodManual); err != nil {
		t.Fatalf("Ravi 签到应成功: %v", err)
	}
	advance(70 * time.Minute)
	if _, err := svc.CheckOut(context.Background(), model.MemberRef("m-001")); err != nil {
		t.Fatalf("Asha 签退应成功: %v", err)
	}

	view, err := svc.TodayView(context.Background())
	if err != nil {
		t.Fatalf("TodayView 应成功: %v", err)
	}

	if view.Stats.TotalToday != 2 {
		t.Errorf("期望 TotalToday=2，实际=%d", view.Stats.TotalToday)
	}
	if view.Stats.CurrentlyIn != 1 {
		t.Errorf("期望 CurrentlyIn=1，实际=%d", view.Stats.CurrentlyIn)
	}
	if view.Stats.MembersToday != 1 {
		t.Errorf("期望 MembersToday=1，实际=%d", view.Stats.MembersToday)
	}
	if view.Stats.StaffToday != 1 {
		t.Errorf("期望 StaffToday=1，实际=%d", view.Stats.StaffToday)
	}

	// 最新签到在前：Ravi(09:05) 在 Asha(09:00) 之前
	if len(view.Records) != 2 {
		t.Fatalf("期望2条记录，实际=%d", len(view.Records))
	}
	if view.Records[0].SubjectName != "Ravi" {
		t.Errorf("期望首条为 Ravi，实际=%s", view.Records[0].SubjectName)
	}
	if view.Records[1].Duration != "1h 15m" {
		t.Errorf("期望 Asha 时长=1h 15m，实际=%q", view.Records[1].Duration)
	}
}

func TestAttendanceService_TodayView_ExcludesOtherDays(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")
	seedMember(memberRepo, "m-002", "Meera", "standard")

	clock, advance := fixedClock(time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC))
	svc.nowFn = clock
	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-002"), model.MethodQR); err != nil {
		t.Fatalf("昨日签到应成功: %v", err)
	}
	advance(time.Hour)
	if _, err := svc.CheckOut(context.Background(), model.MemberRef("m-002")); err != nil {
		t.Fatalf("昨日签退应成功: %v", err)
	}

	clock2, _ := fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc.nowFn = clock2
	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR); err != nil {
		t.Fatalf("今日签到应成功: %v", err)
	}

	view, err := svc.TodayView(context.Background())
	if err != nil {
		t.Fatalf("TodayView 应成功: %v", err)
	}
	if view.Stats.TotalToday != 1 {
		t.Errorf("昨日记录不应计入今日，期望 TotalToday=1，实际=%d", view.Stats.TotalToday)
	}
}

func TestAttendanceService_TodayView_StoreFailure(t *testing.T) {
	svc, attRepo, _, _ := setupTestAttendanceService()
	attRepo.failAll = errors.New("connection refused")

	if _, err := svc.TodayView(context.Background()); err == nil {
		t.Error("存储不可用时 TodayView 应返回错误")
	}
}

// ── History 测试 ──

func seedHistory(svc *attendanceService, memberRepo *mockMemberRepo, n int) {
	clock, advance := fixedClock(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))
	svc.nowFn = clock
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("m-%03d", i)
		seedMember(memberRepo, id, fmt.Sprintf("Member%02d", i), "standard")
		svc.CheckIn(context.Background(), model.MemberRef(id), model.MethodQR)
		advance(time.Minute)
	}
}

func TestAttendanceService_History_Pagination(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedHistory(svc, memberRepo, 25)

	req := &dto.HistoryRequest{StartDate: "2026-03-01", EndDate: "2026-03-03"}
	req.Page = 1

	records, total, err := svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if total != 25 {
		t.Errorf("期望 total=25，实际=%d", total)
	}
	if len(records) != 10 {
		t.Errorf("第1页期望10条，实际=%d", len(records))
	}

	// 25条 / 每页10条 ⇒ 3页；第4页返回空列表而非错误
	req.Page = 3
	records, _, err = svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("第3页应成功: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("第3页期望5条，实际=%d", len(records))
	}

	req.Page = 4
	records, total, err = svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("越界页码不应报错: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("第4页期望空列表，实际=%d条", len(records))
	}
	if total != 25 {
		t.Errorf("越界页码 total 仍应=25，实际=%d", total)
	}
}

func TestAttendanceService_History_Ordering(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedHistory(svc, memberRepo, 5)

	req := &dto.HistoryRequest{StartDate: "2026-03-02", EndDate: "2026-03-02"}
	records, _, err := svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CheckInTime < records[i].CheckInTime {
			t.Fatalf("第%d条早于第%d条，应为最新签到在前", i-1, i)
		}
	}
}

func TestAttendanceService_History_InvalidRange(t *testing.T) {
	svc, _, _, _ := setupTestAttendanceService()

	req := &dto.HistoryRequest{StartDate: "2026-03-10", EndDate: "2026-03-01"}
	_, _, err := svc.History(context.Background(), req)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("end < start 期望 ErrInvalidRange，实际: %v", err)
	}

	req = &dto.HistoryRequest{StartDate: "not-a-date", EndDate: "2026-03-01"}
	if _, _, err := svc.History(context.Background(), req); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("非法日期期望 ErrInvalidRange，实际: %v", err)
	}
}

func TestAttendanceService_History_InclusiveEndDate(t *testing.T) {
	svc, _, memberRepo, _ := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")

	clock, _ := fixedClock(time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC))
	svc.nowFn = clock
	if _, err := svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR); err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}

	// end_date 当日 23:30 的签到应落在 [start, end] 闭区间内
	req := &dto.HistoryRequest{StartDate: "2026-03-01", EndDate: "2026-03-02"}
	records, _, err := svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("end 当日深夜签到应命中，期望1条，实际=%d", len(records))
	}
}

// ── 搜索测试 ──

func TestSearchRecords(t *testing.T) {
	records := []dto.AttendanceRecordResponse{
		{SubjectName: "Asha Verma"},
		{SubjectName: "Ravi Kumar"},
		{SubjectName: "ashish"},
	}

	// 空查询返回全部
	if got := SearchRecords(records, ""); len(got) != 3 {
		t.Errorf("空查询期望3条，实际=%d", len(got))
	}
	if got := SearchRecords(records, "   "); len(got) != 3 {
		t.Errorf("空白查询期望3条，实际=%d", len(got))
	}

	// 大小写不敏感子串匹配
	got := SearchRecords(records, "ASH")
	if len(got) != 2 {
		t.Errorf("ASH 期望命中2条，实际=%d", len(got))
	}

	// 无匹配返回空列表
	if got := SearchRecords(records, "zhang"); len(got) != 0 {
		t.Errorf("无匹配期望空列表，实际=%d条", len(got))
	}
}

func TestAttendanceService_History_Keyword(t *testing.T) {
	svc, _, memberRepo, staffRepo := setupTestAttendanceService()
	seedMember(memberRepo, "m-001", "Asha", "premium")
	seedStaff(staffRepo, "s-001", "Ravi", "trainer")

	clock, advance := fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc.nowFn = clock
	svc.CheckIn(context.Background(), model.MemberRef("m-001"), model.MethodQR)
	advance(time.Minute)
	svc.CheckIn(context.Background(), model.StaffRef("s-001"), model.MethodManual)

	req := &dto.HistoryRequest{StartDate: "2026-03-02", EndDate: "2026-03-02", Keyword: "rav"}
	records, _, err := svc.History(context.Background(), req)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(records) != 1 || records[0].SubjectName != "Ravi" {
		t.Errorf("关键词 rav 期望仅命中 Ravi，实际=%+v", records)
	}
}
