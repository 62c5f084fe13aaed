package activity

import (
	"sort"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

type TimeRange string

const (
	TimeRangeAll   TimeRange = "all"
	TimeRangeToday TimeRange = "today"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
)

const FilterAll = "all"

// Filter 是对聚合结果的纯函数式投影，本身不持有任何事件
type Filter struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	TimeRange TimeRange `json:"timeRange"`
}

func NewFilter() Filter {
	return Filter{
		Type:      FilterAll,
		Status:    FilterAll,
		TimeRange: TimeRangeAll,
	}
}

// Clear 把三个条件一次性全部重置，不存在只重置一半的中间状态
func (f *Filter) Clear() {
	*f = NewFilter()
}

// ReadSet 记录已读事件的 ID 集合。已读状态只在一次仪表盘会话内有效，
// 不落盘，重新聚合后全部清零
type ReadSet struct {
	ids map[int]struct{}
}

func NewReadSet() *ReadSet {
	return &ReadSet{
		ids: make(map[int]struct{}),
	}
}

func (s *ReadSet) MarkRead(id int) {
	s.ids[id] = struct{}{}
}

func (s *ReadSet) IsRead(id int) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Apply 对事件列表应用筛选条件，排除已读事件，重新按时间倒序排序，
// 最后截断到 maxItems（maxItems <= 0 表示不截断）。
// 排序放在筛选之后，不假设筛选保持了原有顺序
func (f Filter) Apply(events []*domain.ActivityEvent, now time.Time, read *ReadSet, maxItems int) []*domain.ActivityEvent {
	filtered := make([]*domain.ActivityEvent, 0, len(events))
	for _, event := range events {
		if read.IsRead(event.ID) {
			continue
		}
		if f.Type != FilterAll && string(event.Type) != f.Type {
			continue
		}
		if f.Status != FilterAll && string(event.Status) != f.Status {
			continue
		}
		if !f.inTimeRange(event.Timestamp, now) {
			continue
		}
		filtered = append(filtered, event)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	if maxItems > 0 && len(filtered) > maxItems {
		filtered = filtered[:maxItems]
	}

	return filtered
}

func (f Filter) inTimeRange(ts time.Time, now time.Time) bool {
	switch f.TimeRange {
	case TimeRangeToday:
		return !ts.Before(startOfDay(now))
	case TimeRangeWeek:
		return !ts.Before(startOfWeek(now))
	case TimeRangeMonth:
		return !ts.Before(startOfMonth(now))
	default:
		return true
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// 一周从周日开始
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
