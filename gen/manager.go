package gen

// Manager is the public surface of the service registration, matching and
// connection-notification engine. Every mutating method enqueues a
// command and returns immediately; the effect is only observable later,
// through StubConnectEvent/ProxyConnectEvent delivered on the caller's
// dispatcher thread. None of these calls block on the manager's own
// goroutine and none of them return an error synchronously except through
// the address constructors already validated by the caller.
type Manager interface {
	RegisterServer(stub StubAddress)
	UnregisterServer(stub StubAddress)
	RegisterClient(proxy ProxyAddress)
	UnregisterClient(proxy ProxyAddress)

	ConfigureRouting(configPath string)
	StartRouting(configPath string)
	StartRoutingNet(host string, port uint16)
	StopRouting()
	EnableRouting(enable bool)

	StopClient()
	Shutdown()

	// ServiceList reads the most recently published snapshot (the one
	// piece of shared state the manager goroutine does not own
	// exclusively) and returns every ServerInfo/ClientInfo belonging to the
	// given process cookie, or every one if cookie is CookieAny.
	ServiceList(cookie Cookie) (stubs []ServerInfo, proxies []ClientInfo)
}
