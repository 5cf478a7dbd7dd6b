package servicemgr

import (
	"sync/atomic"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/lib"
	"github.com/aregtech/areg-go/logging"
	"github.com/aregtech/areg-go/metrics"
)

var (
	_ gen.Manager          = (*Manager)(nil)
	_ gen.RouterCallbacks  = (*Manager)(nil)
)

// snapshot is the immutable point-in-time view ServiceList reads from,
// refreshed by the manager goroutine after every command it processes. This
// replaces the spec's "short mutex covering the snapshot only" with an
// atomic pointer swap: readers never block the manager goroutine at all,
// and the manager never blocks on a reader. See DESIGN.md for the rationale.
type snapshot struct {
	stubs   []gen.ServerInfo
	proxies []gen.ClientInfo
}

// Manager is the ServiceManager actor: a single goroutine owning a
// ServerList, reachable only through a lock-free command queue. It
// implements gen.Manager and gen.RouterCallbacks.
type Manager struct {
	queue *lib.Queue[gen.Command]
	wake  chan struct{}
	done  chan struct{}

	list       *serverList
	dispatcher gen.Dispatcher
	router     gen.RouterClient
	log        gen.Log
	metrics    *metrics.Recorder
	cookie     gen.Cookie

	snap   atomic.Pointer[snapshot]
	source atomic.Uint32
}

// Options configures a new Manager. Dispatcher is required; everything else
// has a usable zero-value default.
type Options struct {
	Dispatcher gen.Dispatcher
	Router     gen.RouterClient
	Log        gen.Log
	Metrics    *metrics.Recorder
	Cookie     gen.Cookie
}

// New constructs a Manager and starts its command-processing goroutine.
// Callers must eventually call Shutdown to stop it.
func New(opts Options) *Manager {
	if opts.Log == nil {
		opts.Log = logging.NewNoop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}
	if opts.Cookie == 0 {
		opts.Cookie = lib.RandomCookie()
	}

	m := &Manager{
		queue:      lib.NewQueue[gen.Command](),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
		list:       newServerList(),
		dispatcher: opts.Dispatcher,
		router:     opts.Router,
		log:        opts.Log,
		metrics:    opts.Metrics,
		cookie:     opts.Cookie,
	}
	m.refreshSnapshot()
	go m.run()
	return m
}

// nextSource hands out a fresh, process-scoped Source for a newly
// registered local stub or proxy. Never 0 (SourceUnknown), so the first
// call returns 1.
func (m *Manager) nextSource() gen.Source {
	return gen.Source(m.source.Add(1))
}

func (m *Manager) push(cmd gen.Command) {
	m.queue.Push(cmd)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Done returns a channel closed once the manager's goroutine has exited
// after processing a ShutdownService command.
func (m *Manager) Done() <-chan struct{} { return m.done }

func (m *Manager) run() {
	defer close(m.done)
	for {
		for {
			cmd, ok := m.queue.Pop()
			if !ok {
				break
			}
			if m.handle(cmd) {
				return
			}
			m.refreshSnapshot()
		}
		<-m.wake
	}
}

func (m *Manager) refreshSnapshot() {
	stubs, proxies := m.list.snapshotAll()
	m.snap.Store(&snapshot{stubs: stubs, proxies: proxies})
	m.metrics.SetServerBuckets(m.list.bucketCount())
	m.metrics.SetRegisteredClients(m.list.clientCount())
}

// handle dispatches one command to completion and returns true if the
// manager goroutine should exit (ShutdownService only). This switch is
// exhaustive over gen.CommandTag, matching
// ServiceManager::processEvent's "default: ASSERT(false)" fatal-on-unknown
// semantics.
func (m *Manager) handle(cmd gen.Command) (shutdown bool) {
	switch cmd.Tag {
	case gen.CmdRegisterStub:
		m.doRegisterStub(cmd.Stub, cmd.Remote)
	case gen.CmdUnregisterStub:
		m.doUnregisterStub(cmd.Stub, cmd.Remote)
	case gen.CmdRegisterProxy:
		m.doRegisterProxy(cmd.Proxy, cmd.Remote)
	case gen.CmdUnregisterProxy:
		m.doUnregisterProxy(cmd.Proxy, cmd.Remote)
	case gen.CmdConfigureConnection:
		m.doConfigureConnection(cmd.ConfigPath)
	case gen.CmdStartConnection:
		m.doStartConnection(cmd.ConfigPath)
	case gen.CmdStartNetConnection:
		m.doStartNetConnection(cmd.Host, cmd.Port)
	case gen.CmdStopConnection:
		m.doStopConnection()
	case gen.CmdSetEnableService:
		m.doSetEnableService(cmd.Enable)
	case gen.CmdRegisterConnection:
		m.doRegisterConnection()
	case gen.CmdUnregisterConnection:
		m.doUnregisterConnection()
	case gen.CmdLostConnection:
		m.doLostConnection()
	case gen.CmdStopRoutingClient:
		m.doStopRoutingClient()
	case gen.CmdShutdownService:
		m.doShutdownService()
		return true
	default:
		m.log.Error("unknown service manager command tag %v", cmd.Tag)
		panic(gen.ErrUnknownCommand)
	}
	return false
}

// The mirror* helpers below advertise or withdraw a local public endpoint
// only while the router client is started; anything registered before that
// is published by doRegisterConnection once the router link comes up.
func (m *Manager) mirrorRegisterStub(stub gen.StubAddress) {
	if m.router == nil || !m.router.IsStarted() || !stub.IsLocal(m.cookie) || !stub.Service.IsPublic() {
		return
	}
	if err := m.router.RegisterService(stub); err != nil {
		m.log.Warning("router RegisterService(%s) failed: %v", stub, err)
	}
}

func (m *Manager) mirrorUnregisterStub(stub gen.StubAddress) {
	if m.router == nil || !m.router.IsStarted() || !stub.IsLocal(m.cookie) || !stub.Service.IsPublic() {
		return
	}
	if err := m.router.UnregisterService(stub); err != nil {
		m.log.Warning("router UnregisterService(%s) failed: %v", stub, err)
	}
}

func (m *Manager) mirrorRegisterProxy(proxy gen.ProxyAddress) {
	if m.router == nil || !m.router.IsStarted() || !proxy.IsLocal(m.cookie) || !proxy.Service.IsPublic() {
		return
	}
	if err := m.router.RegisterServiceClient(proxy); err != nil {
		m.log.Warning("router RegisterServiceClient(%s) failed: %v", proxy, err)
	}
}

func (m *Manager) mirrorUnregisterProxy(proxy gen.ProxyAddress) {
	if m.router == nil || !m.router.IsStarted() || !proxy.IsLocal(m.cookie) || !proxy.Service.IsPublic() {
		return
	}
	if err := m.router.UnregisterServiceClient(proxy); err != nil {
		m.log.Warning("router UnregisterServiceClient(%s) failed: %v", proxy, err)
	}
}

// doRegisterStub is _registerServer. A role-name collision against an
// existing valid stub is logged and dropped, never returned to the caller.
// remote is false for a direct local API call, true when this command was
// relayed via RouterCallbacks. A local stub is stamped with this process's
// own cookie (ProcessCookie identifies the owning process, never the
// caller) and, if it has no Source yet, the next one from this process's
// counter, so it can be the local half of a Connected/Disconnected
// notification; a remote stub already carries its origin process's cookie
// and Source and must not be touched.
func (m *Manager) doRegisterStub(stub gen.StubAddress, remote bool) {
	if !remote {
		stub.ProcessCookie = m.cookie
		if stub.Source == gen.SourceUnknown {
			stub.Source = m.nextSource()
		}
	}
	info, transitioned, ok := m.list.registerServer(stub)
	if !ok {
		m.log.Warning("duplicate server for %s: existing=%s incoming=%s", stub.Service, info.Address, stub)
		m.metrics.DuplicateServerRejected()
		return
	}
	m.mirrorRegisterStub(stub)
	m.metrics.RegisterServer()
	for _, client := range transitioned {
		m.notifyConnected(client, stub)
	}
}

// doUnregisterStub is _unregisterServer: withdraws the stub and emits
// Disconnected to every client that was Connected under it. A local
// withdrawal is stamped with this process's cookie first so it matches the
// ProcessCookie ServerList stored at registration time, regardless of what
// the caller's own StubAddress value carries.
func (m *Manager) doUnregisterStub(stub gen.StubAddress, remote bool) {
	if !remote {
		stub.ProcessCookie = m.cookie
	}
	m.mirrorUnregisterStub(stub)

	info, affected, found := m.list.unregisterServer(stub)
	if !found {
		m.log.Debug("unregister stub for unknown address %s", stub)
		return
	}
	m.metrics.UnregisterServer()
	for _, client := range affected {
		// info.Address, not the caller's stub argument: it carries the
		// Source the manager assigned at registration, which sendPair
		// requires to post to the stub's own dispatcher thread.
		m.notifyDisconnected(client, info.Address)
	}
}

// doRegisterProxy is _registerClient. If the bucket already has a valid
// stub the new client is born Connected and the Connected pair fires
// immediately, matching end-to-end scenario 1 (proxy registers after the
// stub already exists). See doRegisterStub for the remote/cookie handling.
func (m *Manager) doRegisterProxy(proxy gen.ProxyAddress, remote bool) {
	if !remote {
		proxy.ProcessCookie = m.cookie
		if proxy.Source == gen.SourceUnknown {
			proxy.Source = m.nextSource()
		}
	}
	m.mirrorRegisterProxy(proxy)

	info, added := m.list.registerClient(proxy)
	m.metrics.RegisterClient()
	if info.Address.IsValid() && added.IsConnected() {
		m.notifyConnected(added, info.Address)
	}
}

// doUnregisterProxy is _unregisterClient. If the proxy was still Connected
// or Pending at the moment it withdraws, a Disconnected pair closes the
// episode; a proxy withdrawing after its stub already disconnected (end-to-
// end scenario 4) produces no event. See doUnregisterStub for the remote/
// cookie handling.
func (m *Manager) doUnregisterProxy(proxy gen.ProxyAddress, remote bool) {
	if !remote {
		proxy.ProcessCookie = m.cookie
	}
	m.mirrorUnregisterProxy(proxy)

	info, removed, found := m.list.unregisterClient(proxy)
	if !found {
		m.log.Debug("unregister proxy for unknown address %s", proxy)
		return
	}
	m.metrics.UnregisterClient()
	if info.Address.IsValid() && removed.IsWaitingConnection() {
		m.notifyDisconnected(removed, info.Address)
	}
}
