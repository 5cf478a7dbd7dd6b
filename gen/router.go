package gen

// Config holds the parsed contents of a router.init file (see package
// router's ParseConfig): the external broker's connection type and TCP/IP
// coordinates.
type Config struct {
	ConnectionType string
	Enabled        bool
	ConnectionName string
	Address        string
	Port           uint16
}

// RouterCallbacks is implemented by the ServiceManager and invoked by a
// RouterClient when the state of the underlying transport to the router
// broker changes. The manager turns each of these into a command on its own
// queue (RegisterConnection / UnregisterConnection / LostConnection) rather
// than acting on them directly from the router client's goroutine.
type RouterCallbacks interface {
	ServiceStarted(cookie Cookie)
	ServiceStopped(cookie Cookie)
	ServiceLost(cookie Cookie)

	// RemoteStubRegistered / RemoteStubUnregistered / RemoteProxyRegistered /
	// RemoteProxyUnregistered are invoked when the broker relays another
	// process's registration or withdrawal. They funnel into the exact same
	// RegisterStub/UnregisterStub/RegisterProxy/UnregisterProxy command path
	// as a local caller would use, tagged Command.Remote so the manager
	// knows to leave the address's ProcessCookie (the originating process's
	// own cookie, already set by that process's manager) alone instead of
	// stamping its own cookie onto it; IsLocal(m.cookie) then correctly
	// evaluates false for it, which already suppresses re-mirroring back to
	// the router (see registerRemoteStub/registerRemoteProxy in
	// ServiceManager.cpp).
	RemoteStubRegistered(stub StubAddress)
	RemoteStubUnregistered(stub StubAddress)
	RemoteProxyRegistered(proxy ProxyAddress)
	RemoteProxyUnregistered(proxy ProxyAddress)
}

// RouterClient is the adapter between the ServiceManager and an
// external router broker process. Every method is safe to call from the
// manager's single goroutine. The client reads from the broker on its own
// goroutine and reports inbound events only through RouterCallbacks; the
// Register*/Unregister* methods write to the connection on the calling
// goroutine.
type RouterClient interface {
	Configure(cfg Config) error
	Start() error
	StartNet(host string, port uint16) error
	Stop()
	SetEnabled(enabled bool)

	IsConfigured() bool
	IsStarted() bool
	IsEnabled() bool

	RegisterService(stub StubAddress) error
	UnregisterService(stub StubAddress) error
	RegisterServiceClient(proxy ProxyAddress) error
	UnregisterServiceClient(proxy ProxyAddress) error
}
