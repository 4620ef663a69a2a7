package dto

import "time"

// TimeLayout 接口返回的时间格式
const TimeLayout = "2006-01-02 15:04:05"

// PageRequest 分页参数，页码从1开始
type PageRequest struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// PageOrFirst 页码，缺省为1
func (r PageRequest) PageOrFirst() int {
	if r.Page < 1 {
		return 1
	}
	return r.Page
}

// FormatTime 格式化时间
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// FormatTimePtr 格式化可空时间
func FormatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}
