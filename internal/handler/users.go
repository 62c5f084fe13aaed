package handler

import (
	"log/slog"
	"net/http"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 角色行缺失的用户显示为默认角色
	type userWithRole struct {
		*domain.User
		Role domain.Role `json:"role"`
	}

	list := make([]userWithRole, 0, len(users))
	for _, user := range users {
		role, err := h.repository.GetUserRole(user.ID)
		if err != nil {
			slog.Error("获取用户角色失败，按默认角色处理", "userId", user.ID, "error", err)
			role = domain.RoleClient
		}
		list = append(list, userWithRole{User: user, Role: role})
	}

	h.successResponse(w, r, "获取用户列表成功", list)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	role, err := h.repository.GetUserRole(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户信息成功", map[string]any{
		"user": user,
		"role": role,
	})
}

// UpdateUserRole 管理员调整用户的角色行
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
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

	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.UpdateUserRole(user.ID, domain.ParseRole(req.Role)); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新用户角色成功", nil)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除用户成功", nil)
}
