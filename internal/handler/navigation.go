package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/session"
)

// CheckNavigation 回答"当前访问者能否进入目标页面"。
// 这只是前端的流程控制，真正的权限校验仍然由各个 API 自己做
func (h *Handler) CheckNavigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.errorResponse(w, r, "缺少 path 参数")
		return
	}

	// requiredRole 必须是三个合法角色之一，其他值一律忽略
	var required *domain.Role
	switch role := domain.Role(r.URL.Query().Get("requiredRole")); role {
	case domain.RoleStudent, domain.RoleClient, domain.RoleAdmin:
		required = &role
	}

	// 前端报告自己已经等待身份解析多久了
	waited := time.Duration(0)
	if v := r.URL.Query().Get("waitedMs"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			waited = time.Duration(ms) * time.Millisecond
		}
	}

	sess := h.resolveSession(r)

	effective := domain.RoleClient
	effectiveKnown := false
	if sess.Identity != nil {
		effective = h.effectiveRole(r.Context(), sess.Identity.ID)
		effectiveKnown = true
	}

	decision := h.guard.CanEnter(path, sess, effective, effectiveKnown, required, waited)

	h.successResponse(w, r, "准入判断完成", decision)
}

// resolveSession 还原当前请求对应的会话快照。
// 服务重启后内存中的会话登记会丢失，此时根据凭证缓存重新初始化一个 Store，
// 初始化有有界等待，缓存不可用时按未登录继续
func (h *Handler) resolveSession(r *http.Request) session.Session {
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		if store, ok := h.sessions.Get(cookie.Value); ok {
			return store.Snapshot()
		}

		if claims := h.parseToken(cookie.Value); claims != nil {
			if sub, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil {
				store := h.newSessionStore(sub)
				store.Initialize(r.Context())

				snapshot := store.Snapshot()
				if snapshot.Authenticated() {
					h.sessions.Put(snapshot.Token, store)
				}
				return snapshot
			}
		}
	}

	if _, err := r.Cookie(guestCookieName); err == nil {
		return session.Session{IsGuest: true}
	}

	return session.Session{}
}
