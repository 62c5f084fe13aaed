package guard

import (
	"testing"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/session"
)

var denyPaths = []string{"/post-job", "/manage-jobs", "/apply", "/my-applications"}

func newTestGuard() *Guard {
	return New(denyPaths, 5*time.Second)
}

func authedSession() session.Session {
	return session.Session{
		Identity: &domain.User{ID: 1, Email: "user@example.com"},
		Token:    "token",
	}
}

func TestPendingWhileLoading(t *testing.T) {
	g := newTestGuard()

	decision := g.CanEnter("/dashboard", session.Session{IsLoading: true}, domain.RoleClient, false, nil, time.Second)
	if decision.Kind != DecisionPending {
		t.Fatalf("身份解析中应返回 pending，得到 %s", decision.Kind)
	}
}

func TestLoadingBeyondBoundedWaitProceeds(t *testing.T) {
	g := newTestGuard()

	// 等待超过上限后按未登录继续判断，而不是继续 pending
	decision := g.CanEnter("/profile", session.Session{IsLoading: true}, domain.RoleClient, false, nil, 6*time.Second)
	if decision.Kind != DecisionRedirect {
		t.Fatalf("等待超时后应按未登录跳转，得到 %s", decision.Kind)
	}
	if decision.To != "/auth" {
		t.Fatalf("应跳转到 /auth，得到 %s", decision.To)
	}
	if decision.State.From != "/profile" {
		t.Fatalf("跳转状态应记录来源页面 /profile，得到 %s", decision.State.From)
	}
}

func TestGuestDeniedOnWritePaths(t *testing.T) {
	g := newTestGuard()

	decision := g.CanEnter("/post-job", session.Session{IsGuest: true}, domain.RoleClient, false, nil, 0)
	if decision.Kind != DecisionRedirect {
		t.Fatalf("游客访问 /post-job 应被拦截，得到 %s", decision.Kind)
	}
	if !decision.State.Signup {
		t.Fatalf("游客被拦截时应引导到注册模式")
	}
	if decision.State.From != "/post-job" {
		t.Fatalf("跳转状态应记录来源页面，得到 %s", decision.State.From)
	}
}

func TestGuestAdmittedOnBrowsePaths(t *testing.T) {
	g := newTestGuard()

	// 拦截列表精确匹配，列表之外的页面游客都可以浏览
	for _, path := range []string{"/browse-jobs", "/", "/post-job/new"} {
		decision := g.CanEnter(path, session.Session{IsGuest: true}, domain.RoleClient, false, nil, 0)
		if decision.Kind != DecisionAdmit {
			t.Fatalf("游客访问 %s 应被放行，得到 %s", path, decision.Kind)
		}
	}
}

func TestUnauthenticatedRedirectsToSignIn(t *testing.T) {
	g := newTestGuard()

	decision := g.CanEnter("/profile", session.Session{}, domain.RoleClient, false, nil, 0)
	if decision.Kind != DecisionRedirect {
		t.Fatalf("未登录访问 /profile 应跳转，得到 %s", decision.Kind)
	}
	if decision.State.Signup {
		t.Fatalf("未登录（非游客）跳转不应进入注册模式")
	}
	if decision.State.From != "/profile" {
		t.Fatalf("跳转状态应记录来源页面，得到 %s", decision.State.From)
	}
}

func TestRequiredRolePendingUntilResolved(t *testing.T) {
	g := newTestGuard()
	admin := domain.RoleAdmin

	decision := g.CanEnter("/dashboard", authedSession(), domain.RoleClient, false, &admin, time.Second)
	if decision.Kind != DecisionPending {
		t.Fatalf("角色未解析时应返回 pending，得到 %s", decision.Kind)
	}
}

func TestRequiredRoleMismatchRedirects(t *testing.T) {
	g := newTestGuard()
	admin := domain.RoleAdmin

	decision := g.CanEnter("/dashboard", authedSession(), domain.RoleStudent, true, &admin, 0)
	if decision.Kind != DecisionRedirect {
		t.Fatalf("角色不符时应跳转，得到 %s", decision.Kind)
	}
	if decision.State.RequireRole != domain.RoleAdmin {
		t.Fatalf("跳转状态应记录所需角色 admin，得到 %s", decision.State.RequireRole)
	}
	if decision.State.From != "/dashboard" {
		t.Fatalf("跳转状态应记录来源页面，得到 %s", decision.State.From)
	}
}

func TestRequiredRoleMatchAdmits(t *testing.T) {
	g := newTestGuard()
	admin := domain.RoleAdmin

	decision := g.CanEnter("/dashboard", authedSession(), domain.RoleAdmin, true, &admin, 0)
	if decision.Kind != DecisionAdmit {
		t.Fatalf("角色相符时应放行，得到 %s", decision.Kind)
	}
}

func TestAuthenticatedAdmitsWithoutRequiredRole(t *testing.T) {
	g := newTestGuard()

	decision := g.CanEnter("/profile", authedSession(), domain.RoleClient, true, nil, 0)
	if decision.Kind != DecisionAdmit {
		t.Fatalf("已登录访问无角色要求的页面应放行，得到 %s", decision.Kind)
	}
}
