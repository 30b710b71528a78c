package model

import (
	"errors"
	"strings"
	"time"
)

// DateLayout 日期传输格式
const DateLayout = "2006-01-02"

// StorageMinDate 存储允许的最早日期
// 早于该日期的值会被旧 datetime 列静默截断
var StorageMinDate = time.Date(1753, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrInvalidDate 输入不是 ISO-8601 日期
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD 或 RFC 3339")

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// ParseDate 解析 YYYY-MM-DD 或 RFC 3339 时间，返回 UTC 零点
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDate(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// TruncateDate 去掉时间部分，保留原始日历日
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate 按 DateLayout 格式化日期
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr 格式化可选日期，nil 原样返回
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}
