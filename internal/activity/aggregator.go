package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

// Source 是活动流的一个数据来源。Fetch 返回的事件不带 ID，
// ID 在聚合时按固定的来源顺序统一分配
type Source struct {
	Name  string
	Fetch func(ctx context.Context) ([]*domain.ActivityEvent, error)
}

// Aggregator 把多个互相独立的数据来源合并成一条按时间倒序的活动流。
// 各来源的查询并行发出，单个来源失败不影响其他来源（all-settle 而非 all-or-nothing）：
// 四张表的访问权限可能不同，某张表查不了时活动流应该降级而不是整个变空
type Aggregator struct {
	sources   []Source
	maxEvents int
}

func NewAggregator(sources []Source, maxEvents int) *Aggregator {
	return &Aggregator{
		sources:   sources,
		maxEvents: maxEvents,
	}
}

// Aggregate 返回合并后的活动流。事件按时间戳倒序排列，
// 时间戳相同时按来源遍历顺序保持稳定；超出上限的部分被截断。
// 整体失败时返回空列表而不是错误，视图层不需要处理聚合错误
func (a *Aggregator) Aggregate(ctx context.Context) []*domain.ActivityEvent {
	results := make([][]*domain.ActivityEvent, len(a.sources))

	wg := sync.WaitGroup{}
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			defer func() {
				if err := recover(); err != nil {
					slog.Error("活动来源发生 panic", "source", source.Name, "panic", fmt.Sprintf("%v", err))
				}
			}()

			events, err := source.Fetch(ctx)
			if err != nil {
				// 单个来源失败只记录日志，对应的槽位保持为空
				slog.Error("活动来源查询失败", "source", source.Name, "error", err)
				return
			}
			results[i] = events
		}(i, source)
	}
	wg.Wait()

	// 按固定的来源顺序拼接并分配只在本次聚合内有效的自增 ID
	merged := make([]*domain.ActivityEvent, 0)
	nextID := 1
	for _, events := range results {
		for _, event := range events {
			event.ID = nextID
			nextID++
			merged = append(merged, event)
		}
	}

	// 稳定排序保证时间戳相同的事件维持拼接顺序
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	if a.maxEvents > 0 && len(merged) > a.maxEvents {
		merged = merged[:a.maxEvents]
	}

	return merged
}

// Window 返回聚合查询的时间窗口起点
func Window(now time.Time, windowDays int) time.Time {
	return now.AddDate(0, 0, -windowDays)
}
