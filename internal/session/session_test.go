package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

type fakeAuthClient struct {
	identity *domain.User
	token    string
	block    bool

	mu          sync.Mutex
	signOutDone chan struct{}
}

func (c *fakeAuthClient) CurrentSession(ctx context.Context) (*domain.User, string, error) {
	if c.block {
		// 模拟一直不返回的认证服务，只能等到上下文超时
		<-ctx.Done()
		return nil, "", ctx.Err()
	}
	return c.identity, c.token, nil
}

func (c *fakeAuthClient) SignOut(ctx context.Context) error {
	if c.signOutDone != nil {
		close(c.signOutDone)
	}
	return nil
}

type fakeArtifactStore struct {
	mu         sync.Mutex
	purgeCount int
	purged     chan struct{}
}

func (s *fakeArtifactStore) Write(ctx context.Context, identity *domain.User, token string) error {
	return nil
}

func (s *fakeArtifactStore) Purge(ctx context.Context) error {
	s.mu.Lock()
	s.purgeCount++
	s.mu.Unlock()
	if s.purged != nil {
		select {
		case s.purged <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *fakeArtifactStore) purges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeCount
}

func testUser() *domain.User {
	return &domain.User{ID: 1, Email: "user@example.com"}
}

func TestInitializeRestoresCachedSession(t *testing.T) {
	auth := &fakeAuthClient{identity: testUser(), token: "token"}
	store := NewStore(auth, &fakeArtifactStore{}, nil, time.Second)

	store.Initialize(context.Background())

	sess := store.Snapshot()
	if sess.IsLoading {
		t.Fatalf("初始化完成后不应仍处于加载状态")
	}
	if !sess.Authenticated() {
		t.Fatalf("缓存中有凭证时应恢复为已登录")
	}
	if sess.Identity.ID != 1 || sess.Token != "token" {
		t.Fatalf("恢复的身份或令牌不正确: %+v", sess)
	}
}

func TestInitializeFailsOpenOnTimeout(t *testing.T) {
	auth := &fakeAuthClient{block: true}
	store := NewStore(auth, &fakeArtifactStore{}, nil, 50*time.Millisecond)

	start := time.Now()
	store.Initialize(context.Background())
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("初始化应在有界等待时间内返回，耗时 %v", elapsed)
	}

	sess := store.Snapshot()
	if sess.IsLoading {
		t.Fatalf("超时后应按解析完成处理，不应一直处于加载状态")
	}
	if sess.Authenticated() {
		t.Fatalf("超时后应按未登录处理")
	}
}

func TestOnIdentityChangedIsIdempotent(t *testing.T) {
	store := NewStore(&fakeAuthClient{}, &fakeArtifactStore{}, nil, time.Second)
	user := testUser()

	store.OnIdentityChanged(user, "token")
	first := store.Snapshot()

	store.OnIdentityChanged(user, "token")
	second := store.Snapshot()

	if first != second {
		t.Fatalf("重复的身份变更通知应是幂等的: %+v != %+v", first, second)
	}
	if !second.Authenticated() {
		t.Fatalf("通知后应为已登录状态")
	}
}

func TestOnIdentityChangedLastWriteWins(t *testing.T) {
	store := NewStore(&fakeAuthClient{}, &fakeArtifactStore{}, nil, time.Second)

	store.OnIdentityChanged(testUser(), "token-1")
	store.OnIdentityChanged(nil, "")

	sess := store.Snapshot()
	if sess.Authenticated() {
		t.Fatalf("后到的登出通知应覆盖先到的登录通知")
	}
}

func TestOnIdentityChangedClearsGuestFlag(t *testing.T) {
	store := NewStore(&fakeAuthClient{}, &fakeArtifactStore{}, nil, time.Second)

	store.ContinueAsGuest()
	store.OnIdentityChanged(testUser(), "token")

	sess := store.Snapshot()
	if sess.IsGuest {
		t.Fatalf("登录后游客标记应被清除")
	}
	if !sess.Authenticated() {
		t.Fatalf("登录后应为已登录状态")
	}
}

func TestOnIdentityChangedTriggersReconcile(t *testing.T) {
	reconciled := make(chan int64, 1)
	reconciler := ReconcilerFunc(func(identity *domain.User) error {
		reconciled <- identity.ID
		return nil
	})

	store := NewStore(&fakeAuthClient{}, &fakeArtifactStore{}, reconciler, time.Second)
	store.OnIdentityChanged(testUser(), "token")

	select {
	case id := <-reconciled:
		if id != 1 {
			t.Fatalf("补齐回调收到的用户 ID 应为 1，得到 %d", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("身份出现后应异步触发补齐")
	}
}

func TestContinueAsGuestPurgesArtifacts(t *testing.T) {
	artifacts := &fakeArtifactStore{purged: make(chan struct{}, 1)}
	store := NewStore(&fakeAuthClient{}, artifacts, nil, time.Second)

	store.OnIdentityChanged(testUser(), "token")
	store.ContinueAsGuest()

	sess := store.Snapshot()
	if !sess.IsGuest {
		t.Fatalf("进入游客模式后 IsGuest 应为 true")
	}
	if sess.Identity != nil || sess.Token != "" {
		t.Fatalf("进入游客模式后身份和令牌应被清空")
	}

	select {
	case <-artifacts.purged:
	case <-time.After(time.Second):
		t.Fatalf("进入游客模式应清除凭证缓存")
	}
}

func TestSignOutClearsLocalStateSynchronously(t *testing.T) {
	auth := &fakeAuthClient{signOutDone: make(chan struct{})}
	artifacts := &fakeArtifactStore{}
	store := NewStore(auth, artifacts, nil, time.Second)

	store.OnIdentityChanged(testUser(), "token")
	store.SignOut(context.Background())

	sess := store.Snapshot()
	if sess.Authenticated() || sess.IsGuest || sess.IsLoading {
		t.Fatalf("登出后本地会话应被同步清空: %+v", sess)
	}
	if artifacts.purges() != 1 {
		t.Fatalf("登出时应同步清除凭证缓存，清除次数为 %d", artifacts.purges())
	}

	// 远端登出异步发出，不阻塞本地清理
	select {
	case <-auth.signOutDone:
	case <-time.After(time.Second):
		t.Fatalf("登出应向认证服务发起远端登出")
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	store := NewStore(&fakeAuthClient{}, &fakeArtifactStore{}, nil, time.Second)

	var mu sync.Mutex
	var last Session
	store.Subscribe(func(sess Session) {
		mu.Lock()
		last = sess
		mu.Unlock()
	})

	store.OnIdentityChanged(testUser(), "token")

	mu.Lock()
	defer mu.Unlock()
	if !last.Authenticated() {
		t.Fatalf("订阅者应收到登录后的快照: %+v", last)
	}
}
