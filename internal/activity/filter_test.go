package activity

import (
	"testing"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func filterEvent(id int, eventType domain.ActivityType, status domain.ActivityStatus, ts time.Time) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		ID:        id,
		Type:      eventType,
		Message:   string(eventType),
		Timestamp: ts,
		Status:    status,
	}
}

func TestApplyFiltersByType(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeRegistration, domain.ActivityStatusSuccess, now.Add(-time.Hour)),
		filterEvent(2, domain.ActivityTypeJobPosting, domain.ActivityStatusInfo, now.Add(-2*time.Hour)),
		filterEvent(3, domain.ActivityTypeRegistration, domain.ActivityStatusSuccess, now.Add(-3*time.Hour)),
	}

	f := NewFilter()
	f.Type = string(domain.ActivityTypeRegistration)

	got := f.Apply(events, now, nil, 0)
	if len(got) != 2 {
		t.Fatalf("按类型筛选后应剩 2 条，得到 %d", len(got))
	}
	for _, e := range got {
		if e.Type != domain.ActivityTypeRegistration {
			t.Fatalf("筛选结果中出现了类型 %s", e.Type)
		}
	}
}

func TestApplyFiltersByStatus(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-time.Hour)),
		filterEvent(2, domain.ActivityTypeJobPosting, domain.ActivityStatusInfo, now.Add(-2*time.Hour)),
	}

	f := NewFilter()
	f.Status = string(domain.ActivityStatusInfo)

	got := f.Apply(events, now, nil, 0)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("按状态筛选后应只剩 ID 为 2 的事件，得到 %d 条", len(got))
	}
}

func TestApplyFiltersByTimeRange(t *testing.T) {
	// 2026-08-31 是周一，一周从周日（08-30）开始
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-time.Hour)),                         // 今天
		filterEvent(2, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)), // 本周（周日）
		filterEvent(3, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)), // 本月
		filterEvent(4, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)), // 上个月
	}

	cases := []struct {
		timeRange TimeRange
		want      int
	}{
		{TimeRangeToday, 1},
		{TimeRangeWeek, 2},
		{TimeRangeMonth, 3},
		{TimeRangeAll, 4},
	}

	for _, c := range cases {
		f := NewFilter()
		f.TimeRange = c.timeRange

		got := f.Apply(events, now, nil, 0)
		if len(got) != c.want {
			t.Fatalf("时间范围 %s 应剩 %d 条，得到 %d", c.timeRange, c.want, len(got))
		}
	}
}

func TestApplyExcludesReadEvents(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(6, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-time.Hour)),
		filterEvent(7, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-2*time.Hour)),
		filterEvent(8, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-3*time.Hour)),
	}

	read := NewReadSet()
	read.MarkRead(7)

	got := NewFilter().Apply(events, now, read, 0)
	if len(got) != 2 {
		t.Fatalf("已读事件应被排除，应剩 2 条，得到 %d", len(got))
	}
	for _, e := range got {
		if e.ID == 7 {
			t.Fatalf("ID 为 7 的已读事件不应出现在结果中")
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeRegistration, domain.ActivityStatusSuccess, now.Add(-time.Hour)),
		filterEvent(2, domain.ActivityTypeJobPosting, domain.ActivityStatusInfo, now.Add(-2*time.Hour)),
		filterEvent(3, domain.ActivityTypePayment, domain.ActivityStatusSuccess, now.Add(-3*time.Hour)),
	}

	f := NewFilter()
	f.Status = string(domain.ActivityStatusSuccess)

	first := f.Apply(events, now, nil, 0)
	second := f.Apply(first, now, nil, 0)

	if len(first) != len(second) {
		t.Fatalf("重复应用同一筛选条件结果应一致，第一次 %d 条，第二次 %d 条", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("重复应用后位置 %d 处事件不一致", i)
		}
	}
}

func TestApplyResortsAndTruncates(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	// 输入故意乱序，Apply 不假设输入有序
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-3*time.Hour)),
		filterEvent(2, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-time.Hour)),
		filterEvent(3, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now.Add(-2*time.Hour)),
	}

	got := NewFilter().Apply(events, now, nil, 2)
	if len(got) != 2 {
		t.Fatalf("应截断到 2 条，得到 %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("截断前应先重新排序，期望 ID 顺序 [2 3]，得到 [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestClearResetsAllConditions(t *testing.T) {
	f := NewFilter()
	f.Type = string(domain.ActivityTypePayment)
	f.Status = string(domain.ActivityStatusError)
	f.TimeRange = TimeRangeToday

	f.Clear()

	if f.Type != FilterAll || f.Status != FilterAll || f.TimeRange != TimeRangeAll {
		t.Fatalf("Clear 应一次性重置全部条件，得到 %+v", f)
	}
}

func TestNilReadSetTreatsAllAsUnread(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	events := []*domain.ActivityEvent{
		filterEvent(1, domain.ActivityTypeJobPosting, domain.ActivityStatusSuccess, now),
	}

	got := NewFilter().Apply(events, now, nil, 0)
	if len(got) != 1 {
		t.Fatalf("没有已读集合时所有事件都应视为未读，得到 %d 条", len(got))
	}
}
