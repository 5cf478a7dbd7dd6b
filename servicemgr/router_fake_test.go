package servicemgr

import (
	"sync"

	"github.com/aregtech/areg-go/gen"
)

// fakeRouter is a hermetic stand-in for gen.RouterClient used by tests that
// exercise RegisterConnection / UnregisterConnection / LostConnection
// without opening a real socket.
type fakeRouter struct {
	mu         sync.Mutex
	configured bool
	started    bool
	enabled    bool
	registered []gen.StubAddress
	clients    []gen.ProxyAddress
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{enabled: true}
}

func (f *fakeRouter) Configure(gen.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = true
	return nil
}

func (f *fakeRouter) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeRouter) StartNet(string, uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeRouter) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
}

func (f *fakeRouter) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func (f *fakeRouter) IsConfigured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

func (f *fakeRouter) IsStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeRouter) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeRouter) RegisterService(stub gen.StubAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, stub)
	return nil
}

func (f *fakeRouter) UnregisterService(stub gen.StubAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.registered {
		if s.Equal(stub) {
			f.registered = append(f.registered[:i], f.registered[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRouter) RegisterServiceClient(proxy gen.ProxyAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = append(f.clients, proxy)
	return nil
}

func (f *fakeRouter) UnregisterServiceClient(proxy gen.ProxyAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.clients {
		if p.Equal(proxy) {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			break
		}
	}
	return nil
}

var _ gen.RouterClient = (*fakeRouter)(nil)
