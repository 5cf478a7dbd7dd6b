package servicemgr

import "github.com/aregtech/areg-go/gen"

// The methods below are the non-blocking public surface of the
// ServiceManager. Every one of them only ever enqueues a command; none
// of them touch ServerList directly, and none of them return an error -
// the effect is observable later only through StubConnectEvent /
// ProxyConnectEvent delivered on the caller's dispatcher thread, or (for
// router transport failures) through gen/errors.go's RouterTransportError
// surfaced via logging rather than a return value.

func (m *Manager) RegisterServer(stub gen.StubAddress) {
	m.push(gen.Command{Tag: gen.CmdRegisterStub, Stub: stub})
}

func (m *Manager) UnregisterServer(stub gen.StubAddress) {
	m.push(gen.Command{Tag: gen.CmdUnregisterStub, Stub: stub})
}

func (m *Manager) RegisterClient(proxy gen.ProxyAddress) {
	m.push(gen.Command{Tag: gen.CmdRegisterProxy, Proxy: proxy})
}

func (m *Manager) UnregisterClient(proxy gen.ProxyAddress) {
	m.push(gen.Command{Tag: gen.CmdUnregisterProxy, Proxy: proxy})
}

func (m *Manager) ConfigureRouting(configPath string) {
	m.push(gen.Command{Tag: gen.CmdConfigureConnection, ConfigPath: configPath})
}

func (m *Manager) StartRouting(configPath string) {
	m.push(gen.Command{Tag: gen.CmdStartConnection, ConfigPath: configPath})
}

func (m *Manager) StartRoutingNet(host string, port uint16) {
	m.push(gen.Command{Tag: gen.CmdStartNetConnection, Host: host, Port: port})
}

func (m *Manager) StopRouting() {
	m.push(gen.Command{Tag: gen.CmdStopConnection})
}

func (m *Manager) EnableRouting(enable bool) {
	m.push(gen.Command{Tag: gen.CmdSetEnableService, Enable: enable})
}

func (m *Manager) StopClient() {
	m.push(gen.Command{Tag: gen.CmdStopRoutingClient})
}

func (m *Manager) Shutdown() {
	m.push(gen.Command{Tag: gen.CmdShutdownService})
}

// ServiceList is the one call that bypasses the command queue. It reads the
// most recently published snapshot (refreshed after every processed
// command) and filters it by cookie; CookieAny returns everything.
func (m *Manager) ServiceList(cookie gen.Cookie) (stubs []gen.ServerInfo, proxies []gen.ClientInfo) {
	snap := m.snap.Load()
	if snap == nil {
		return nil, nil
	}
	if cookie == gen.CookieAny {
		return append([]gen.ServerInfo{}, snap.stubs...), append([]gen.ClientInfo{}, snap.proxies...)
	}
	for _, s := range snap.stubs {
		if s.Address.ProcessCookie == cookie {
			stubs = append(stubs, s)
		}
	}
	for _, p := range snap.proxies {
		if p.Address.ProcessCookie == cookie {
			proxies = append(proxies, p)
		}
	}
	return stubs, proxies
}
