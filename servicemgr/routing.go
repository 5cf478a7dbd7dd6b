package servicemgr

import (
	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/router"
)

func (m *Manager) loadConfig(configPath string) (gen.Config, error) {
	if configPath == "" {
		return gen.Config{}, gen.ErrConfigMissingKey
	}
	return router.LoadConfig(configPath)
}

// doConfigureConnection loads router.init (or accepts an already-active
// configuration if configPath is empty and the router already holds one)
// and hands it to the router client. Equivalent to
// ServiceManager::_routingServiceConfigure.
func (m *Manager) doConfigureConnection(configPath string) {
	if m.router == nil {
		m.log.Warning("ConfigureConnection requested but no router client is wired")
		return
	}
	if configPath == "" && m.router.IsConfigured() {
		return
	}
	cfg, err := m.loadConfig(configPath)
	if err != nil {
		m.log.Error("failed to load router config %q: %v", configPath, err)
		return
	}
	if err := m.router.Configure(cfg); err != nil {
		m.log.Error("router Configure failed: %v", err)
	}
}

// doStartConnection is _routingServiceStart(configFile): configure first if
// the router has no configuration yet, then connect.
func (m *Manager) doStartConnection(configPath string) {
	if m.router == nil {
		m.log.Warning("StartConnection requested but no router client is wired")
		return
	}
	if !m.router.IsConfigured() {
		m.doConfigureConnection(configPath)
	}
	if err := m.router.Start(); err != nil {
		m.log.Error("router Start failed: %v", err)
	}
}

// doStartNetConnection is _routingServiceStart(ipAddress, portNr): connect
// directly without consulting router.init.
func (m *Manager) doStartNetConnection(host string, port uint16) {
	if m.router == nil {
		m.log.Warning("StartNetConnection requested but no router client is wired")
		return
	}
	if err := m.router.StartNet(host, port); err != nil {
		m.log.Error("router StartNet failed: %v", err)
	}
}

// doStopConnection is _routingServiceStop: tears down the router client
// without touching local ServerList state.
func (m *Manager) doStopConnection() {
	if m.router == nil {
		return
	}
	m.router.Stop()
}

// doSetEnableService is _routingServiceEnable.
func (m *Manager) doSetEnableService(enable bool) {
	if m.router == nil {
		return
	}
	m.router.SetEnabled(enable)
}

// doRegisterConnection handles the channel-up case: re-publish every local
// public stub and proxy to the router, in ServerList insertion order, so a
// just-(re)connected broker learns the full current state. Grounded on
// CMD_RegisterConnection's ServerList walk in ServiceManager.cpp.
func (m *Manager) doRegisterConnection() {
	if m.router == nil {
		return
	}
	m.list.forEachBucket(func(addr gen.ServiceAddress, b *bucket) {
		if b.hasValidStub() && b.server.Address.IsLocal(m.cookie) && addr.IsPublic() {
			if err := m.router.RegisterService(b.server.Address); err != nil {
				m.log.Warning("re-register stub %s on reconnect failed: %v", b.server.Address, err)
			}
		}
		for _, client := range b.clients.clients {
			if client.Address.IsLocal(m.cookie) && addr.IsPublic() {
				if err := m.router.RegisterServiceClient(client.Address); err != nil {
					m.log.Warning("re-register proxy %s on reconnect failed: %v", client.Address, err)
				}
			}
		}
	})
}

// withdrawRemote collects every remote public stub and proxy address
// currently known, then unregisters all stubs followed by all proxies.
// Servers first, then proxies, matches CMD_UnregisterConnection /
// CMD_LostConnection in ServiceManager.cpp: withdrawing the stub first
// naturally produces the Disconnected notifications to local clients before
// the now-orphaned remote proxy records are dropped.
func (m *Manager) withdrawRemote() {
	var stubs []gen.StubAddress
	var proxies []gen.ProxyAddress
	m.list.forEachBucket(func(addr gen.ServiceAddress, b *bucket) {
		if b.hasValidStub() && b.server.Address.IsValid() && !b.server.Address.IsLocal(m.cookie) && addr.IsPublic() {
			stubs = append(stubs, b.server.Address)
		}
		for _, client := range b.clients.clients {
			if client.Address.IsValid() && !client.Address.IsLocal(m.cookie) && addr.IsPublic() {
				proxies = append(proxies, client.Address)
			}
		}
	})
	for _, stub := range stubs {
		_, affected, found := m.list.unregisterServer(stub)
		if !found {
			continue
		}
		for _, client := range affected {
			m.notifyDisconnected(client, stub)
		}
	}
	for _, proxy := range proxies {
		info, removed, found := m.list.unregisterClient(proxy)
		if !found {
			continue
		}
		// The proxy itself is remote and never the local side of a
		// notification, but the stub it was matched to can be a local one
		// still present in ServerList; that stub's side of the pair still
		// needs its Disconnected event.
		if info.Address.IsValid() && removed.IsWaitingConnection() {
			m.notifyDisconnected(removed, info.Address)
		}
	}
}

func (m *Manager) doUnregisterConnection() {
	m.withdrawRemote()
}

func (m *Manager) doLostConnection() {
	m.withdrawRemote()
}

// doStopRoutingClient is CMD_StopRoutingClient: every currently-matched
// client gets a Disconnected notification while the ServerList is still
// intact, and only afterward is the list cleared and the router torn down.
// The walk-then-clear ordering must not be reversed: clearing first would
// leave notifyDisconnected with no ServerInfo to read the stub address from.
func (m *Manager) doStopRoutingClient() {
	m.list.forEachBucket(func(addr gen.ServiceAddress, b *bucket) {
		stub := b.server.Address
		for _, client := range b.clients.clients {
			if client.IsConnected() {
				m.notifyDisconnected(client, stub)
			}
		}
	})
	m.list.removeAll()
	if m.router != nil {
		m.router.Stop()
	}
}

// doShutdownService is CMD_ShutdownService: drop all state and stop the
// router client. The dispatcher's goroutine itself exits right after this
// returns (see handle).
func (m *Manager) doShutdownService() {
	m.list.removeAll()
	if m.router != nil {
		m.router.Stop()
	}
}

// ServiceStarted implements gen.RouterCallbacks. Invoked by the router
// client's own goroutine; it only ever enqueues a command, never mutates
// ServerList directly.
func (m *Manager) ServiceStarted(cookie gen.Cookie) {
	m.push(gen.Command{Tag: gen.CmdRegisterConnection, RouterCookie: cookie})
}

func (m *Manager) ServiceStopped(cookie gen.Cookie) {
	m.push(gen.Command{Tag: gen.CmdUnregisterConnection, RouterCookie: cookie})
}

func (m *Manager) ServiceLost(cookie gen.Cookie) {
	m.push(gen.Command{Tag: gen.CmdLostConnection, RouterCookie: cookie})
}

// RemoteStubRegistered and its three siblings below implement the rest of
// gen.RouterCallbacks. They enqueue the exact same commands a local caller
// would use, tagged Remote: true; mirrorRegisterStub/mirrorRegisterProxy
// already skip re-publishing anything whose address is not
// IsLocal(m.cookie), so relaying these back out over the router client can
// never happen.
func (m *Manager) RemoteStubRegistered(stub gen.StubAddress) {
	m.push(gen.Command{Tag: gen.CmdRegisterStub, Stub: stub, Remote: true})
}

func (m *Manager) RemoteStubUnregistered(stub gen.StubAddress) {
	m.push(gen.Command{Tag: gen.CmdUnregisterStub, Stub: stub, Remote: true})
}

func (m *Manager) RemoteProxyRegistered(proxy gen.ProxyAddress) {
	m.push(gen.Command{Tag: gen.CmdRegisterProxy, Proxy: proxy, Remote: true})
}

func (m *Manager) RemoteProxyUnregistered(proxy gen.ProxyAddress) {
	m.push(gen.Command{Tag: gen.CmdUnregisterProxy, Proxy: proxy, Remote: true})
}
