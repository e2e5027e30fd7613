package shared

import "sync"

// Hook is a synchronous transform applied at an extension point.
// Each hook receives the value returned by the previous hook and returns
// the value handed to the next one.
type Hook[T any] func(T) T

// HookChain is an ordered list of hooks for one extension point.
// Hooks run synchronously in registration order; the chain result is the
// return value of the last hook.
type HookChain[T any] struct {
	mu    sync.RWMutex
	hooks []Hook[T]
}

// NewHookChain creates an empty hook chain
func NewHookChain[T any]() *HookChain[T] {
	return &HookChain[T]{}
}

// Register appends a hook to the chain
func (c *HookChain[T]) Register(h Hook[T]) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, h)
}

// Apply runs the value through all registered hooks in order
func (c *HookChain[T]) Apply(value T) T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.hooks {
		value = h(value)
	}
	return value
}

// Len returns the number of registered hooks
func (c *HookChain[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hooks)
}
