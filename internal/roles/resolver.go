package roles

import (
	"sync"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/session"
)

type State int

const (
	// StateUnset 角色尚未解析，此时生效角色为默认值 client
	StateUnset State = iota
	// StateAutoFollowing 生效角色跟随数据库中的角色行
	StateAutoFollowing
	// StateManualOverride 管理员手动切换到了其他角色的视图
	StateManualOverride
)

// Resolver 计算驱动界面分支的唯一生效角色。
// 手动切换只对管理员开放，用于预览其他角色看到的页面，绝不允许普通用户借此提权
type Resolver struct {
	mu         sync.Mutex
	state      State
	assignment domain.Role
	override   domain.Role
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SetAssignment 记录数据库中解析出的角色行
func (r *Resolver) SetAssignment(role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignment = role
	if r.state == StateUnset {
		r.state = StateAutoFollowing
	}
}

// SetRole 请求手动切换生效角色。底层角色不是管理员时这是一个空操作
func (r *Resolver) SetRole(role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateUnset || !r.assignment.CanPreviewOtherRoles() {
		return
	}

	r.state = StateManualOverride
	r.override = role
}

// ClearOverride 回到跟随角色行的状态
func (r *Resolver) ClearOverride() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateManualOverride {
		r.state = StateAutoFollowing
		r.override = ""
	}
}

// ObserveSession 观察会话变化。硬登出（既没有身份也不是游客）时
// 清掉手动切换并回到未解析状态
func (r *Resolver) ObserveSession(sess session.Session) {
	if sess.IsLoading || sess.Identity != nil || sess.IsGuest {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateUnset
	r.assignment = ""
	r.override = ""
}

// Effective 返回当前生效角色，未解析时返回默认值 client
func (r *Resolver) Effective() domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateManualOverride:
		return r.override
	case StateAutoFollowing:
		return r.assignment
	default:
		return domain.RoleClient
	}
}

// Known 表示角色是否已经解析完成
func (r *Resolver) Known() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != StateUnset
}

func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
