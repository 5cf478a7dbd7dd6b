package gen

import (
	"errors"
)

// Error taxonomy for the service registration and matching engine. Kept as a
// flat var block of sentinels, checked with errors.Is, rather than an error
// code enum or a wrapped-type hierarchy.
var (
	// ErrInvalidAddress is returned synchronously from the few validating
	// constructors (NewServiceAddress, NewStubAddress, NewProxyAddress) when
	// a required field is empty or a role/service name exceeds the length
	// limit. It never reaches the ServiceManager's command queue.
	ErrInvalidAddress = errors.New("invalid service address")

	// ErrDuplicateServer is reported (logged, not returned) when a second
	// RegisterStub command arrives for a ServiceAddress that already has an
	// active ServerInfo. The existing registration wins; the duplicate is a
	// no-op.
	ErrDuplicateServer = errors.New("server already registered for this address")

	// ErrUnknownCommand is fatal: it means the command queue produced a tag
	// the dispatch switch does not recognize, which can only happen from a
	// programming error. The manager goroutine panics after logging it.
	ErrUnknownCommand = errors.New("unknown service manager command")

	// ErrQueueFullDuringShutdown names a command posted after shutdown. The
	// command queue is unbounded and Push returns nothing, so no code path
	// in this module returns it; a command pushed after ShutdownService is
	// never processed.
	ErrQueueFullDuringShutdown = errors.New("command queue full during shutdown")

	// ErrNotAServiceManagerEvent names an object posted to the manager that
	// is not a command. The command queue is typed as gen.Command, so no
	// code path in this module returns or logs it.
	ErrNotAServiceManagerEvent = errors.New("posted object is not a service manager command")

	// ErrRouterTransportError wraps any I/O failure talking to the external
	// router broker. It is non-fatal: the router client's Register*/
	// Unregister* methods return it to the manager, which logs it, and a
	// dropped connection reaches the manager as a LostConnection command.
	ErrRouterTransportError = errors.New("router transport error")

	ErrRouterNotConfigured = errors.New("router connection is not configured")
	ErrRouterAlreadyActive = errors.New("router connection is already active")

	ErrManagerShuttingDown = errors.New("service manager is shutting down")
	ErrManagerShutdown     = errors.New("service manager is shut down")

	ErrBrokerUnknownMessage = errors.New("unknown broker wire message type")
	ErrBrokerBadFrame       = errors.New("malformed broker wire frame")

	ErrConfigMissingKey  = errors.New("router config missing required key")
	ErrConfigMalformed   = errors.New("router config line malformed")
	ErrConfigUnknownType = errors.New("router config names an unknown connection type")
)
