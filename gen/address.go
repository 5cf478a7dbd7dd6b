package gen

import "fmt"

// ServiceType distinguishes a service that is only reachable within its own
// process (Local) from one that the ServiceManager mirrors to the external
// router broker so other processes can reach it (Public).
type ServiceType int

const (
	ServiceTypeLocal ServiceType = iota
	ServiceTypePublic
)

func (t ServiceType) String() string {
	if t == ServiceTypePublic {
		return "public"
	}
	return "local"
}

// Source identifies, within one process's ServiceManager, which local
// registration call produced a StubAddress or ProxyAddress. The manager
// assigns it to a local registration that arrives without one; a Source the
// caller already set is kept. It is excluded from address equality: two
// addresses naming the same service/role/thread are the same address
// regardless of which local registration produced them.
type Source uint32

// SourceUnknown marks an address that has not been bound to a live local
// registration, e.g. one built by NewStubAddress before the manager assigns
// it a Source on local registration.
const SourceUnknown Source = 0

// Cookie identifies the process a remote ServerInfo or ClientInfo belongs
// to. CookieAny is the wildcard accepted by Manager.ServiceList.
type Cookie uint64

const CookieAny Cookie = 0

const maxNameLength = 255

// ServiceAddress names one service role. Equality is plain struct equality:
// every field here participates, unlike StubAddress/ProxyAddress which carry
// additional fields excluded from their own Equal methods.
type ServiceAddress struct {
	ServiceName string
	ServiceType ServiceType
	RoleName    string
}

// NewServiceAddress validates and builds a ServiceAddress. It is one of the
// few calls in this package that returns an error synchronously: address
// construction is a precondition check, not a registration.
func NewServiceAddress(serviceName string, serviceType ServiceType, roleName string) (ServiceAddress, error) {
	if serviceName == "" || roleName == "" {
		return ServiceAddress{}, ErrInvalidAddress
	}
	if len(serviceName) > maxNameLength || len(roleName) > maxNameLength {
		return ServiceAddress{}, ErrInvalidAddress
	}
	return ServiceAddress{ServiceName: serviceName, ServiceType: serviceType, RoleName: roleName}, nil
}

func (a ServiceAddress) IsValid() bool {
	return a.ServiceName != "" && a.RoleName != ""
}

func (a ServiceAddress) IsPublic() bool {
	return a.ServiceType == ServiceTypePublic
}

func (a ServiceAddress) String() string {
	return fmt.Sprintf("%s/%s/%s", a.ServiceName, a.ServiceType, a.RoleName)
}

// StubAddress identifies one server-side registration of a ServiceAddress:
// the dispatcher thread that owns it, the process it lives in, and (for
// remote stubs) which process registered it. Source and it alone is excluded
// from equality, since it is a purely local bookkeeping value.
type StubAddress struct {
	Service       ServiceAddress
	ThreadName    string
	ProcessCookie Cookie
	Source        Source
}

func NewStubAddress(service ServiceAddress, threadName string) (StubAddress, error) {
	if !service.IsValid() || threadName == "" {
		return StubAddress{}, ErrInvalidAddress
	}
	return StubAddress{Service: service, ThreadName: threadName}, nil
}

// Equal compares two StubAddress values ignoring Source, which is assigned
// independently by each process's ServiceManager and never carried on the
// wire as a matching key.
func (a StubAddress) Equal(b StubAddress) bool {
	return a.Service == b.Service && a.ThreadName == b.ThreadName && a.ProcessCookie == b.ProcessCookie
}

func (a StubAddress) IsValid() bool {
	return a.Service.IsValid() && a.ThreadName != "" && a.Source != SourceUnknown
}

// IsLocal reports whether this stub was registered by the process identified
// by localCookie: a stub is local to a process iff its ProcessCookie equals
// that process's own cookie, not iff the cookie happens to be zero.
func (a StubAddress) IsLocal(localCookie Cookie) bool {
	return a.ProcessCookie == localCookie
}

func (a StubAddress) String() string {
	if a.ProcessCookie == 0 {
		return fmt.Sprintf("%s/%s", a.Service, a.ThreadName)
	}
	return fmt.Sprintf("%s/%s/%d", a.Service, a.ThreadName, a.ProcessCookie)
}

// ProxyAddress identifies one client-side registration. Channel and Source
// are both transport-assigned and excluded from Equal.
type ProxyAddress struct {
	Service       ServiceAddress
	ThreadName    string
	ProcessCookie Cookie
	Source        Source
	Channel       Channel
}

func NewProxyAddress(service ServiceAddress, threadName string) (ProxyAddress, error) {
	if !service.IsValid() || threadName == "" {
		return ProxyAddress{}, ErrInvalidAddress
	}
	return ProxyAddress{Service: service, ThreadName: threadName}, nil
}

func (a ProxyAddress) Equal(b ProxyAddress) bool {
	return a.Service == b.Service && a.ThreadName == b.ThreadName && a.ProcessCookie == b.ProcessCookie
}

func (a ProxyAddress) IsValid() bool {
	return a.Service.IsValid() && a.ThreadName != ""
}

// IsLocal reports whether this proxy was registered by the process
// identified by localCookie; see StubAddress.IsLocal.
func (a ProxyAddress) IsLocal(localCookie Cookie) bool {
	return a.ProcessCookie == localCookie
}

func (a ProxyAddress) String() string {
	if a.ProcessCookie == 0 {
		return fmt.Sprintf("%s/%s", a.Service, a.ThreadName)
	}
	return fmt.Sprintf("%s/%s/%d", a.Service, a.ThreadName, a.ProcessCookie)
}

// Channel identifies the transport-level connection a remote StubAddress or
// ProxyAddress arrived over. It never participates in address equality; it
// exists purely so the router client and broker can route wire traffic back
// to the right socket.
type Channel struct {
	Source Source
	Cookie Cookie
	Target uint32
}

func (c Channel) IsValid() bool {
	return c.Cookie != 0
}
