package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/tabstorm/internal/dispatcher/transport"
)

// Router selects the transport that delivers a command by its namespace.
// Namespaces without a transport use the fallback, normally a
// transport.Local over the dispatcher's registry.
type Router struct {
	mu sync.RWMutex

	// Namespace transports (e.g., "hint" delivers "hint.*")
	namespaces map[string]transport.Transport

	fallback transport.Transport
}

// NewRouter creates a router with the given fallback, which may be nil.
func NewRouter(fallback transport.Transport) *Router {
	return &Router{
		namespaces: make(map[string]transport.Transport),
		fallback:   fallback,
	}
}

// RegisterNamespace routes all commands of a namespace to t. The empty
// namespace is the ex namespace.
func (r *Router) RegisterNamespace(namespace string, t transport.Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = t
}

// UnregisterNamespace removes a namespace transport.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// SetFallback sets the transport for namespaces without their own.
func (r *Router) SetFallback(t transport.Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = t
}

// Route returns the transport for a namespace, or nil.
func (r *Router) Route(namespace string) transport.Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.namespaces[namespace]; ok {
		return t
	}
	return r.fallback
}

// HasNamespace returns true if a transport is registered for the namespace.
func (r *Router) HasNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[namespace]
	return ok
}

// Namespaces returns all registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
