package activity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func staticSource(name string, events ...*domain.ActivityEvent) Source {
	return Source{
		Name: name,
		Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
			return events, nil
		},
	}
}

func failingSource(name string) Source {
	return Source{
		Name: name,
		Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
			return nil, errors.New("查询失败")
		},
	}
}

func event(eventType domain.ActivityType, ts time.Time) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		Type:      eventType,
		Message:   string(eventType),
		Timestamp: ts,
		Status:    domain.ActivityStatusSuccess,
	}
}

func TestAggregateMergesAndSortsDescending(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := NewAggregator([]Source{
		staticSource("registrations",
			event(domain.ActivityTypeRegistration, base.Add(1*time.Hour)),
			event(domain.ActivityTypeRegistration, base.Add(4*time.Hour)),
		),
		staticSource("jobs",
			event(domain.ActivityTypeJobPosting, base.Add(3*time.Hour)),
		),
		staticSource("payments",
			event(domain.ActivityTypePayment, base.Add(2*time.Hour)),
		),
	}, 50)

	merged := a.Aggregate(context.Background())

	if len(merged) != 4 {
		t.Fatalf("应合并出 4 条事件，得到 %d", len(merged))
	}

	for i := 1; i < len(merged); i++ {
		if merged[i].Timestamp.After(merged[i-1].Timestamp) {
			t.Fatalf("事件应按时间倒序排列，位置 %d 处乱序", i)
		}
	}

	if merged[0].Type != domain.ActivityTypeRegistration {
		t.Fatalf("最新的事件应是注册事件，得到 %s", merged[0].Type)
	}
}

func TestAggregateAssignsSequentialIDs(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := NewAggregator([]Source{
		staticSource("registrations",
			event(domain.ActivityTypeRegistration, base),
			event(domain.ActivityTypeRegistration, base.Add(time.Minute)),
		),
		staticSource("jobs",
			event(domain.ActivityTypeJobPosting, base.Add(2*time.Minute)),
		),
	}, 50)

	merged := a.Aggregate(context.Background())

	seen := make(map[int]bool)
	for _, e := range merged {
		if e.ID < 1 || e.ID > len(merged) {
			t.Fatalf("ID 应在 1 到 %d 之间，得到 %d", len(merged), e.ID)
		}
		if seen[e.ID] {
			t.Fatalf("ID %d 出现了两次", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestAggregateSurvivesPartialFailure(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := NewAggregator([]Source{
		failingSource("registrations"),
		staticSource("jobs", event(domain.ActivityTypeJobPosting, base)),
		failingSource("payments"),
		staticSource("waitlist", event(domain.ActivityTypeWaitlist, base.Add(time.Hour))),
	}, 50)

	merged := a.Aggregate(context.Background())

	if len(merged) != 2 {
		t.Fatalf("失败的来源应被跳过，应得到 2 条事件，得到 %d", len(merged))
	}
	for _, e := range merged {
		if e.Type == domain.ActivityTypeRegistration || e.Type == domain.ActivityTypePayment {
			t.Fatalf("失败来源的事件不应出现在结果中")
		}
	}
}

func TestAggregateReturnsEmptyOnTotalFailure(t *testing.T) {
	a := NewAggregator([]Source{
		failingSource("registrations"),
		failingSource("jobs"),
	}, 50)

	merged := a.Aggregate(context.Background())
	if len(merged) != 0 {
		t.Fatalf("全部来源失败时应返回空列表，得到 %d 条", len(merged))
	}
}

func TestAggregateTruncatesToMaxEvents(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	events := make([]*domain.ActivityEvent, 0, 70)
	for i := 0; i < 70; i++ {
		events = append(events, event(domain.ActivityTypeJobPosting, base.Add(time.Duration(i)*time.Minute)))
	}

	a := NewAggregator([]Source{staticSource("jobs", events...)}, 50)

	merged := a.Aggregate(context.Background())
	if len(merged) != 50 {
		t.Fatalf("超出上限的事件应被截断到 50 条，得到 %d", len(merged))
	}

	// 截断应保留最新的事件
	if !merged[0].Timestamp.Equal(base.Add(69 * time.Minute)) {
		t.Fatalf("截断后首条应是最新事件，得到 %v", merged[0].Timestamp)
	}
	if !merged[49].Timestamp.Equal(base.Add(20 * time.Minute)) {
		t.Fatalf("截断后末条应是第 50 新的事件，得到 %v", merged[49].Timestamp)
	}
}

func TestAggregateStableOrderOnEqualTimestamps(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := NewAggregator([]Source{
		staticSource("registrations", event(domain.ActivityTypeRegistration, ts)),
		staticSource("jobs", event(domain.ActivityTypeJobPosting, ts)),
		staticSource("payments", event(domain.ActivityTypePayment, ts)),
		staticSource("waitlist", event(domain.ActivityTypeWaitlist, ts)),
	}, 50)

	merged := a.Aggregate(context.Background())
	if len(merged) != 4 {
		t.Fatalf("应得到 4 条事件，得到 %d", len(merged))
	}

	// 时间戳相同时按固定的来源顺序排列
	want := []domain.ActivityType{
		domain.ActivityTypeRegistration,
		domain.ActivityTypeJobPosting,
		domain.ActivityTypePayment,
		domain.ActivityTypeWaitlist,
	}
	for i, e := range merged {
		if e.Type != want[i] {
			t.Fatalf("位置 %d 处应为 %s，得到 %s", i, want[i], e.Type)
		}
	}
}

func TestAggregateRecoversFromPanickingSource(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := NewAggregator([]Source{
		{
			Name: "registrations",
			Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
				panic(fmt.Errorf("意外错误"))
			},
		},
		staticSource("jobs", event(domain.ActivityTypeJobPosting, base)),
	}, 50)

	merged := a.Aggregate(context.Background())
	if len(merged) != 1 {
		t.Fatalf("panic 的来源应被跳过，应得到 1 条事件，得到 %d", len(merged))
	}
}
