package guard

import (
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/session"
)

type DecisionKind string

const (
	// DecisionPending 身份还在解析中，渲染中性的等待状态，不跳转
	DecisionPending DecisionKind = "pending"
	// DecisionAdmit 放行
	DecisionAdmit DecisionKind = "admit"
	// DecisionRedirect 跳转到登录入口
	DecisionRedirect DecisionKind = "redirect"
)

// RedirectState 跳转时携带的状态，登录页据此决定默认进入注册模式、
// 登录成功后回到哪个页面、以及需要什么角色
type RedirectState struct {
	Signup      bool        `json:"signup,omitempty"`
	From        string      `json:"from,omitempty"`
	RequireRole domain.Role `json:"requireRole,omitempty"`
}

type Decision struct {
	Kind  DecisionKind  `json:"kind"`
	To    string        `json:"to,omitempty"`
	State RedirectState `json:"state,omitempty"`
}

const signInPath = "/auth"

// Guard 负责每次页面跳转的准入判断。
// 游客拦截列表精确匹配路径，只拦一小批写操作页面，其余页面游客都可以浏览
type Guard struct {
	denyPaths   map[string]struct{}
	boundedWait time.Duration
}

func New(guestDenyPaths []string, boundedWait time.Duration) *Guard {
	denyPaths := make(map[string]struct{}, len(guestDenyPaths))
	for _, path := range guestDenyPaths {
		denyPaths[path] = struct{}{}
	}

	return &Guard{
		denyPaths:   denyPaths,
		boundedWait: boundedWait,
	}
}

// CanEnter 判断当前访问者能否进入指定页面。
// waited 是调用方已经等待身份解析的时长，超过有界等待时间后按已解析继续，
// 宁可放行也不让页面一直转圈
func (g *Guard) CanEnter(path string, sess session.Session, effective domain.Role, effectiveKnown bool, required *domain.Role, waited time.Duration) Decision {
	if sess.IsLoading && waited < g.boundedWait {
		return Decision{Kind: DecisionPending}
	}

	if sess.IsGuest {
		if _, denied := g.denyPaths[path]; denied {
			return Decision{
				Kind: DecisionRedirect,
				To:   signInPath,
				State: RedirectState{
					Signup: true,
					From:   path,
				},
			}
		}
	} else if !sess.Authenticated() {
		return Decision{
			Kind: DecisionRedirect,
			To:   signInPath,
			State: RedirectState{
				From: path,
			},
		}
	}

	if required != nil {
		if !effectiveKnown && waited < g.boundedWait {
			return Decision{Kind: DecisionPending}
		}
		if effective != *required {
			return Decision{
				Kind: DecisionRedirect,
				To:   signInPath,
				State: RedirectState{
					RequireRole: *required,
					From:        path,
				},
			}
		}
	}

	return Decision{Kind: DecisionAdmit}
}
