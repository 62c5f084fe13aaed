package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/roles"
	"github.com/campushire/talent-market/backend/internal/session"
)

const (
	tokenCookieName = "__talent_market_token"
	guestCookieName = "__talent_market_guest"
)

// credentialCache 返回某个用户的凭证缓存，key 前缀按用户隔离，
// 登出时按这个前缀批量清除
func (h *Handler) credentialCache(userID int64) *session.RedisCredentialCache {
	prefix := fmt.Sprintf("%suser_%d_", h.config.Session.StoragePrefix, userID)
	return session.NewRedisCredentialCache(
		h.redisClient,
		prefix,
		time.Duration(h.config.Session.ShortTermExpiration)*time.Second,
		time.Duration(h.config.Redis.OperationExpiration)*time.Minute,
	)
}

// newSessionStore 为指定用户创建会话 Store，凭证缓存同时充当认证客户端
func (h *Handler) newSessionStore(userID int64) *session.Store {
	cache := h.credentialCache(userID)
	return session.NewStore(cache, cache, h.reconciler(), time.Duration(h.config.Session.BoundedWait)*time.Second)
}

// reconciler 在登录后补齐缺失的资料行和角色行。
// 初始角色从注册元数据中推导，已存在的行不会被覆盖
func (h *Handler) reconciler() session.ReconcilerFunc {
	return func(identity *domain.User) error {
		profile := &domain.Profile{
			UserID:    identity.ID,
			FirstName: identity.Metadata["firstName"],
			LastName:  identity.Metadata["lastName"],
			Email:     identity.Email,
		}
		if err := h.repository.EnsureProfile(profile); err != nil {
			return err
		}

		return h.repository.EnsureUserRole(identity.ID, identity.RequestedRole())
	}
}

// overrideKey 放在用户的凭证前缀之下，登出清缓存时会一并清掉手动切换的角色
func (h *Handler) overrideKey(userID int64) string {
	return fmt.Sprintf("%suser_%d_role_override", h.config.Session.StoragePrefix, userID)
}

// effectiveRole 解析某个用户当前的生效角色。
// 任何一步失败都按默认角色处理，角色解析失败绝不阻断请求
func (h *Handler) effectiveRole(ctx context.Context, userID int64) domain.Role {
	assignment, err := h.repository.GetUserRole(userID)
	if err != nil {
		slog.Error("获取用户角色失败，按默认角色处理", "userId", userID, "error", err)
		assignment = domain.RoleClient
	}

	resolver := roles.NewResolver()
	resolver.SetAssignment(assignment)

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	override, err := h.redisClient.Get(opCtx, h.overrideKey(userID)).Result()
	if err == nil {
		// 非管理员的切换请求在这里是空操作
		resolver.SetRole(domain.ParseRole(override))
	} else if err != redis.Nil {
		slog.Error("读取角色切换状态失败", "userId", userID, "error", err)
	}

	return resolver.Effective()
}
