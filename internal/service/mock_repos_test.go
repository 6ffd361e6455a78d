package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"musclecrm/backend/internal/model"
	pkgerrors "musclecrm/backend/pkg/errors"
)

// ── Mock AttendanceRepository ──
// 模拟部分唯一索引语义：同一主体最多一条未签退记录

type mockAttendanceRepo struct {
	records []*model.AttendanceRecord
	nextID  int
	failAll error // 模拟存储不可用
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) CreateOpen(_ context.Context, record *model.AttendanceRecord) error {
	if m.failAll != nil {
		return m.failAll
	}
	for _, r := range m.records {
		if r.SubjectType == record.SubjectType && r.SubjectID == record.SubjectID && r.CheckOutTime == nil {
			return pkgerrors.ErrDuplicateOpenRecord
		}
	}
	m.nextID++
	record.AttendanceID = fmt.Sprintf("att-%03d", m.nextID)
	m.records = append(m.records, record)
	return nil
}

func (m *mockAttendanceRepo) CloseOpen(_ context.Context, ref model.SubjectRef, at time.Time) (*model.AttendanceRecord, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, r := range m.records {
		if r.SubjectType == ref.Kind() && r.SubjectID == ref.ID() && r.CheckOutTime == nil {
			if !at.After(r.CheckInTime) {
				return nil, pkgerrors.ErrNoOpenRecord
			}
			out := at
			r.CheckOutTime = &out
			r.UpdatedAt = at
			return r, nil
		}
	}
	return nil, pkgerrors.ErrNoOpenRecord
}

func (m *mockAttendanceRepo) FindOpen(_ context.Context, ref model.SubjectRef) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.SubjectType == ref.Kind() && r.SubjectID == ref.ID() && r.CheckOutTime == nil {
			return r, nil
		}
	}
	return nil, pkgerrors.ErrNoOpenRecord
}

func (m *mockAttendanceRepo) ListBetween(_ context.Context, start, end time.Time) ([]model.AttendanceRecord, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if !r.CheckInTime.Before(start) && r.CheckInTime.Before(end) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckInTime.After(result[j].CheckInTime)
	})
	return result, nil
}

func (m *mockAttendanceRepo) ListPage(ctx context.Context, start, end time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	all, err := m.ListBetween(ctx, start, end)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.AttendanceRecord{}, total, nil
	}
	hi := offset + limit
	if hi > len(all) {
		hi = len(all)
	}
	return all[offset:hi], total, nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock DeviceRepository ──

type mockDeviceRepo struct {
	devices map[string]*model.Device // code → device
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[string]*model.Device)}
}

func (m *mockDeviceRepo) GetByCode(_ context.Context, code string) (*model.Device, error) {
	if d, ok := m.devices[code]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) GetByID(_ context.Context, id string) (*model.Device, error) {
	for _, d := range m.devices {
		if d.DeviceID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
