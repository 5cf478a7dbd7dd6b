package gen

// CommandTag enumerates every command the ServiceManager's single
// dispatcher goroutine accepts. The command loop switches exhaustively over
// these; any other tag reaching the switch is a programming error and is
// fatal (see ErrUnknownCommand).
type CommandTag int

const (
	CmdRegisterStub CommandTag = iota
	CmdUnregisterStub
	CmdRegisterProxy
	CmdUnregisterProxy
	CmdConfigureConnection
	CmdStartConnection
	CmdStartNetConnection
	CmdStopConnection
	CmdSetEnableService
	CmdRegisterConnection
	CmdUnregisterConnection
	CmdLostConnection
	CmdStopRoutingClient
	CmdShutdownService
)

func (c CommandTag) String() string {
	switch c {
	case CmdRegisterStub:
		return "RegisterStub"
	case CmdUnregisterStub:
		return "UnregisterStub"
	case CmdRegisterProxy:
		return "RegisterProxy"
	case CmdUnregisterProxy:
		return "UnregisterProxy"
	case CmdConfigureConnection:
		return "ConfigureConnection"
	case CmdStartConnection:
		return "StartConnection"
	case CmdStartNetConnection:
		return "StartNetConnection"
	case CmdStopConnection:
		return "StopConnection"
	case CmdSetEnableService:
		return "SetEnableService"
	case CmdRegisterConnection:
		return "RegisterConnection"
	case CmdUnregisterConnection:
		return "UnregisterConnection"
	case CmdLostConnection:
		return "LostConnection"
	case CmdStopRoutingClient:
		return "StopRoutingClient"
	case CmdShutdownService:
		return "ShutdownService"
	default:
		return "Unknown"
	}
}

// Command is the single envelope type pushed through the ServiceManager's
// MPSC queue. Exactly one of the typed fields is populated, selected by Tag;
// this mirrors the original's tagged-union event payload without resorting
// to an interface{} per command, keeping the queue allocation-light.
type Command struct {
	Tag CommandTag

	Stub  StubAddress
	Proxy ProxyAddress

	ConfigPath string
	Host       string
	Port       uint16

	Enable bool

	// RouterCookie identifies which remote process a RegisterConnection,
	// UnregisterConnection, or LostConnection refers to; zero means "the
	// router connection itself" rather than one specific remote peer.
	RouterCookie Cookie

	// Remote is set on a RegisterStub/UnregisterStub/RegisterProxy/
	// UnregisterProxy command that originated from RouterCallbacks (the
	// broker relayed another process's registration), as opposed to a
	// direct local API call. It is what the manager uses to decide whether
	// to stamp its own cookie onto Stub.ProcessCookie/Proxy.ProcessCookie
	// before touching ServerList, since a remote address already carries
	// the originating process's own cookie and must not be overwritten.
	Remote bool
}
