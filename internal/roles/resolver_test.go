package roles

import (
	"testing"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/session"
)

func TestEffectiveDefaultsToClient(t *testing.T) {
	r := NewResolver()

	if r.Known() {
		t.Fatalf("角色尚未解析时 Known 应为 false")
	}
	if got := r.Effective(); got != domain.RoleClient {
		t.Fatalf("未解析时的生效角色应为 client，得到 %s", got)
	}
}

func TestEffectiveFollowsAssignment(t *testing.T) {
	r := NewResolver()
	r.SetAssignment(domain.RoleStudent)

	if !r.Known() {
		t.Fatalf("解析完成后 Known 应为 true")
	}
	if got := r.Effective(); got != domain.RoleStudent {
		t.Fatalf("生效角色应跟随角色行 student，得到 %s", got)
	}
	if got := r.State(); got != StateAutoFollowing {
		t.Fatalf("状态应为 AutoFollowing，得到 %d", got)
	}
}

func TestSetRoleIsNoopForNonAdmin(t *testing.T) {
	r := NewResolver()
	r.SetAssignment(domain.RoleStudent)

	r.SetRole(domain.RoleAdmin)

	if got := r.Effective(); got != domain.RoleStudent {
		t.Fatalf("非管理员的手动切换应是空操作，生效角色应仍为 student，得到 %s", got)
	}
	if got := r.State(); got != StateAutoFollowing {
		t.Fatalf("非管理员切换后状态应仍为 AutoFollowing，得到 %d", got)
	}
}

func TestSetRoleBeforeAssignmentIsNoop(t *testing.T) {
	r := NewResolver()

	r.SetRole(domain.RoleAdmin)

	if got := r.Effective(); got != domain.RoleClient {
		t.Fatalf("角色未解析时的手动切换应是空操作，得到 %s", got)
	}
}

func TestAdminCanOverrideAndClear(t *testing.T) {
	r := NewResolver()
	r.SetAssignment(domain.RoleAdmin)

	r.SetRole(domain.RoleStudent)
	if got := r.Effective(); got != domain.RoleStudent {
		t.Fatalf("管理员切换后生效角色应为 student，得到 %s", got)
	}
	if got := r.State(); got != StateManualOverride {
		t.Fatalf("切换后状态应为 ManualOverride，得到 %d", got)
	}

	r.ClearOverride()
	if got := r.Effective(); got != domain.RoleAdmin {
		t.Fatalf("清除切换后应回到角色行 admin，得到 %s", got)
	}
	if got := r.State(); got != StateAutoFollowing {
		t.Fatalf("清除切换后状态应为 AutoFollowing，得到 %d", got)
	}
}

func TestHardSignOutResetsOverride(t *testing.T) {
	r := NewResolver()
	r.SetAssignment(domain.RoleAdmin)
	r.SetRole(domain.RoleStudent)

	// 既没有身份也不是游客，属于硬登出
	r.ObserveSession(session.Session{})

	if r.Known() {
		t.Fatalf("硬登出后角色应回到未解析状态")
	}
	if got := r.Effective(); got != domain.RoleClient {
		t.Fatalf("硬登出后生效角色应回到默认值 client，得到 %s", got)
	}
}

func TestObserveSessionIgnoresGuestAndLoading(t *testing.T) {
	r := NewResolver()
	r.SetAssignment(domain.RoleAdmin)
	r.SetRole(domain.RoleStudent)

	r.ObserveSession(session.Session{IsGuest: true})
	if got := r.Effective(); got != domain.RoleStudent {
		t.Fatalf("进入游客模式不应清除手动切换，得到 %s", got)
	}

	r.ObserveSession(session.Session{IsLoading: true})
	if got := r.Effective(); got != domain.RoleStudent {
		t.Fatalf("加载中的会话不应清除手动切换，得到 %s", got)
	}
}
