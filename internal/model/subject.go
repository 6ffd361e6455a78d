package model

import "fmt"

// SubjectKind 考勤主体类型
type SubjectKind string

const (
	SubjectMember SubjectKind = "member"
	SubjectStaff  SubjectKind = "staff"
)

// SubjectRef 考勤主体引用：恰好指向一名会员或一名员工。
// 字段不导出，只能通过 MemberRef / StaffRef 构造，
// 使"既是会员又是员工"或"两者皆空"在类型上不可表示。
type SubjectRef struct {
	kind SubjectKind
	id   string
}

// MemberRef 构造指向会员的主体引用
func MemberRef(memberID string) SubjectRef {
	return SubjectRef{kind: SubjectMember, id: memberID}
}

// StaffRef 构造指向员工的主体引用
func StaffRef(staffID string) SubjectRef {
	return SubjectRef{kind: SubjectStaff, id: staffID}
}

// ParseSubjectRef 从外部输入构造主体引用，类型非法时报错
func ParseSubjectRef(kind, id string) (SubjectRef, error) {
	switch SubjectKind(kind) {
	case SubjectMember:
		return MemberRef(id), nil
	case SubjectStaff:
		return StaffRef(id), nil
	default:
		return SubjectRef{}, fmt.Errorf("非法主体类型 %q", kind)
	}
}

// Kind 主体类型
func (r SubjectRef) Kind() SubjectKind { return r.kind }

// ID 主体标识
func (r SubjectRef) ID() string { return r.id }

// IsZero 是否为零值（未构造）
func (r SubjectRef) IsZero() bool { return r.kind == "" || r.id == "" }
