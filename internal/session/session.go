package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

// Session 是当前访问者的快照，整个进程中只通过 Store 这一个入口读写，
// 防止各处持有互相不一致的副本
type Session struct {
	Identity  *domain.User
	Token     string
	IsGuest   bool
	IsLoading bool
}

// Authenticated 表示持有有效凭证（游客不算）
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.Token != ""
}

// AuthClient 是外部认证服务的抽象
type AuthClient interface {
	// CurrentSession 返回已缓存凭证对应的身份和令牌，没有凭证时返回 nil
	CurrentSession(ctx context.Context) (*domain.User, string, error)
	SignOut(ctx context.Context) error
}

// ArtifactStore 负责凭证缓存的写入和按前缀批量清除
type ArtifactStore interface {
	Write(ctx context.Context, identity *domain.User, token string) error
	Purge(ctx context.Context) error
}

// Reconciler 在身份出现后补齐数据库中缺失的资料行和角色行
type Reconciler interface {
	Reconcile(identity *domain.User) error
}

type ReconcilerFunc func(identity *domain.User) error

func (f ReconcilerFunc) Reconcile(identity *domain.User) error {
	return f(identity)
}

type Store struct {
	mu          sync.Mutex
	session     Session
	subscribers []func(Session)

	auth        AuthClient
	artifacts   ArtifactStore
	reconciler  Reconciler
	boundedWait time.Duration
}

func NewStore(auth AuthClient, artifacts ArtifactStore, reconciler Reconciler, boundedWait time.Duration) *Store {
	return &Store{
		auth:        auth,
		artifacts:   artifacts,
		reconciler:  reconciler,
		boundedWait: boundedWait,
	}
}

// Initialize 启动时尝试恢复已有凭证。恢复过程有有界等待时间，
// 超时后按未登录处理继续往下走，绝不让调用方无限等待
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.session.IsLoading = true
	s.mu.Unlock()
	s.notify()

	ctx, cancel := context.WithTimeout(ctx, s.boundedWait)
	defer cancel()

	identity, token, err := s.auth.CurrentSession(ctx)
	if err != nil {
		slog.Error("恢复会话失败，按未登录处理", "error", err)
		identity, token = nil, ""
	}

	s.OnIdentityChanged(identity, token)
}

// OnIdentityChanged 处理外部认证服务的身份变更通知（登录、登出、令牌刷新）。
// 通知按到达顺序处理，后到者覆盖先到者；重复通知是幂等的
func (s *Store) OnIdentityChanged(identity *domain.User, token string) {
	s.mu.Lock()
	s.session.Identity = identity
	s.session.Token = token
	s.session.IsLoading = false
	if identity != nil {
		s.session.IsGuest = false
	}
	s.mu.Unlock()

	// 身份出现后异步补齐资料行和角色行，
	// 补齐失败只记录日志，不能阻塞或回滚登录状态
	if identity != nil && s.reconciler != nil {
		go func() {
			if err := s.reconciler.Reconcile(identity); err != nil {
				slog.Error("补齐用户资料失败", "userId", identity.ID, "error", err)
			}
		}()
	}

	s.notify()
}

// ContinueAsGuest 进入游客模式，不依赖任何网络状态
func (s *Store) ContinueAsGuest() {
	s.mu.Lock()
	s.session = Session{IsGuest: true}
	s.mu.Unlock()

	// 游客模式下残留的凭证缓存也要清掉
	if s.artifacts != nil {
		go func() {
			if err := s.artifacts.Purge(context.Background()); err != nil {
				slog.Error("清除凭证缓存失败", "error", err)
			}
		}()
	}

	s.notify()
}

// SignOut 先向认证服务发起登出（失败只记录日志），
// 同步清空本地会话字段，并按前缀清除所有凭证缓存
func (s *Store) SignOut(ctx context.Context) {
	go func() {
		if err := s.auth.SignOut(context.Background()); err != nil {
			slog.Error("远端登出失败", "error", err)
		}
	}()

	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	if s.artifacts != nil {
		if err := s.artifacts.Purge(ctx); err != nil {
			slog.Error("清除凭证缓存失败", "error", err)
		}
	}

	s.notify()
}

// Snapshot 返回当前会话的一致快照
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe 注册会话变更回调，对应外部服务的 onSessionChange 语义
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	snapshot := s.session
	subscribers := make([]func(Session), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
