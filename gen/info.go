package gen

// ConnectionStatus tracks where one endpoint sits in the matching state
// machine. ServerInfo moves Unknown -> Pending -> Connected -> Disconnected.
// ClientInfo moves Pending -> Connected -> Disconnected -> Unknown, with a
// Disconnected -> Connected back-transition allowed when its matching stub
// re-registers.
type ConnectionStatus int

const (
	StatusUnknown ConnectionStatus = iota
	StatusPending
	StatusConnected
	StatusDisconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusPending:
		return "pending"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "invalid"
	}
}

// ServerInfo is the single stub registration owning a ServiceAddress bucket.
type ServerInfo struct {
	Address StubAddress
	Status  ConnectionStatus
}

func NewServerInfo(addr StubAddress) ServerInfo {
	return ServerInfo{Address: addr, Status: StatusPending}
}

func (s ServerInfo) IsConnected() bool { return s.Status == StatusConnected }

// ClientInfo is one proxy waiting on, or matched with, a ServerInfo.
type ClientInfo struct {
	Address ProxyAddress
	Status  ConnectionStatus
}

func NewClientInfo(addr ProxyAddress) ClientInfo {
	return ClientInfo{Address: addr, Status: StatusPending}
}

// IsConnected reports whether this client currently has a live match,
// mirroring the ServiceManager.cpp ClientInfo::isConnected used to gate the
// Connected event.
func (c ClientInfo) IsConnected() bool {
	return c.Status == StatusConnected
}

// IsWaitingConnection reports whether this client is Connected or still
// Pending, mirroring ClientInfo::isWaitingConnection. It checks the status
// only; whether the bucket holds a valid stub is for the caller to check.
func (c ClientInfo) IsWaitingConnection() bool {
	return c.Status == StatusConnected || c.Status == StatusPending
}
