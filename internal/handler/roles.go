package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (h *Handler) GetMyRole(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	assignment, err := h.repository.GetUserRole(myInfo.ID)
	if err != nil {
		slog.Error("获取用户角色失败，按默认角色处理", "userId", myInfo.ID, "error", err)
		assignment = domain.RoleClient
	}

	h.successResponse(w, r, "获取角色成功", map[string]any{
		"assignment": assignment,
		"effective":  h.effectiveRole(r.Context(), myInfo.ID),
	})
}

// OverrideMyRole 管理员手动切换生效角色，用于预览其他角色看到的页面。
// 非管理员的请求不会改变任何状态
func (h *Handler) OverrideMyRole(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Role string `json:"role" validate:"required,oneof=student client admin"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment, err := h.repository.GetUserRole(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !assignment.CanPreviewOtherRoles() {
		h.errorResponse(w, r, "权限不足")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	// 切换状态的有效期和短期凭证一致，登出清缓存时也会被一并清掉
	expiration := time.Duration(h.config.Session.ShortTermExpiration) * time.Second
	if err := h.redisClient.Set(ctx, h.overrideKey(myInfo.ID), req.Role, expiration).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "角色切换成功", map[string]any{
		"effective": domain.ParseRole(req.Role),
	})
}

func (h *Handler) ClearMyRoleOverride(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Del(ctx, h.overrideKey(myInfo.ID)).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已恢复默认角色", map[string]any{
		"effective": h.effectiveRole(r.Context(), myInfo.ID),
	})
}
