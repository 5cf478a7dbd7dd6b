package node

import "sync"

// Registry is the concrete gen.Dispatcher: a name -> *Thread map guarded by
// a mutex, since threads are registered and looked up from arbitrary
// goroutines (the service manager's own goroutine, application code
// spawning stubs/proxies, tests) while each Thread's own mailbox stays
// single-consumer.
type Registry struct {
	mu      sync.RWMutex
	threads map[string]*Thread
}

func NewRegistry() *Registry {
	return &Registry{threads: make(map[string]*Thread)}
}

// Register adds or replaces the thread known under name.
func (r *Registry) Register(t *Thread) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[t.Name()] = t
}

// Unregister removes and stops the thread known under name, if any.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	t, ok := r.threads[name]
	delete(r.threads, name)
	r.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Post implements gen.Dispatcher.
func (r *Registry) Post(threadName string, event any) bool {
	r.mu.RLock()
	t, ok := r.threads[threadName]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return t.Post(event)
}

func (r *Registry) Thread(name string) (*Thread, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.threads[name]
	return t, ok
}
