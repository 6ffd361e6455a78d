package errors

import "errors"

// ErrDuplicateOpenRecord 同一主体已存在未签退记录（部分唯一索引冲突）
var ErrDuplicateOpenRecord = errors.New("该主体已有未签退的考勤记录")

// ErrNoOpenRecord 条件更新未命中：主体没有未签退记录
var ErrNoOpenRecord = errors.New("该主体没有未签退的考勤记录")
