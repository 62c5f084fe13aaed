package session

import (
	"sync"
)

// Registry 按令牌维护各个会话的 Store，供 HTTP 层查询
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*Store),
	}
}

func (r *Registry) Get(token string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[token]
	return store, ok
}

func (r *Registry) Put(token string, store *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[token] = store
}

func (r *Registry) Delete(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, token)
}
