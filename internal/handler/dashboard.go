package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/campushire/talent-market/backend/internal/activity"
)

// readSetKey 放在用户的凭证前缀之下，登出时随凭证缓存一并清除
func (h *Handler) readSetKey(userID int64) string {
	return fmt.Sprintf("%suser_%d_read_events", h.config.Session.StoragePrefix, userID)
}

// GetActivity 返回管理员仪表盘的活动流。
// 聚合失败的来源已经在聚合层被降级处理，这里拿到的永远是一个可用的列表
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	events := h.aggregator.Aggregate(r.Context())

	// 已读集合读取失败时按全部未读处理，不阻断仪表盘
	read := activity.NewReadSet()
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	members, err := h.redisClient.SMembers(ctx, h.readSetKey(sub)).Result()
	if err != nil {
		slog.Error("读取已读集合失败", "userId", sub, "error", err)
	} else {
		for _, member := range members {
			if id, err := strconv.Atoi(member); err == nil {
				read.MarkRead(id)
			}
		}
	}

	// 筛选条件全部来自查询参数，缺省值为 all
	filter := activity.NewFilter()
	if v := r.URL.Query().Get("type"); v != "" {
		filter.Type = v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = v
	}
	if v := r.URL.Query().Get("timeRange"); v != "" {
		filter.TimeRange = activity.TimeRange(v)
	}

	maxItems := h.config.Activity.MaxEvents
	if v := r.URL.Query().Get("maxItems"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxItems = n
		}
	}

	filtered := filter.Apply(events, time.Now(), read, maxItems)

	h.successResponse(w, r, "获取活动流成功", map[string]any{
		"events": filtered,
		"total":  len(events),
		"filter": filter,
	})
}

// MarkActivityRead 标记若干事件为已读。
// 事件 ID 只在单次聚合内有效，重新聚合后已读集合随之失效，
// 所以已读集合的有效期和短期凭证保持一致
func (h *Handler) MarkActivityRead(w http.ResponseWriter, r *http.Request) {
	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		IDs []int `json:"ids" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	members := make([]any, 0, len(req.IDs))
	for _, id := range req.IDs {
		members = append(members, strconv.Itoa(id))
	}

	key := h.readSetKey(sub)
	if err := h.redisClient.SAdd(ctx, key, members...).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.redisClient.Expire(ctx, key, time.Duration(h.config.Session.ShortTermExpiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "标记已读成功", nil)
}
