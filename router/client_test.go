package router

import (
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aregtech/areg-go/gen"
)

// recordingCallbacks implements gen.RouterCallbacks by recording every call
// it receives, for assertions in client tests.
type recordingCallbacks struct {
	mu      sync.Mutex
	started []gen.Cookie
	lost    []gen.Cookie
	stopped []gen.Cookie
	stubs   []gen.StubAddress
	proxies []gen.ProxyAddress
}

func (r *recordingCallbacks) ServiceStarted(c gen.Cookie) {
	r.mu.Lock()
	r.started = append(r.started, c)
	r.mu.Unlock()
}
func (r *recordingCallbacks) ServiceStopped(c gen.Cookie) {
	r.mu.Lock()
	r.stopped = append(r.stopped, c)
	r.mu.Unlock()
}
func (r *recordingCallbacks) ServiceLost(c gen.Cookie) {
	r.mu.Lock()
	r.lost = append(r.lost, c)
	r.mu.Unlock()
}
func (r *recordingCallbacks) RemoteStubRegistered(s gen.StubAddress) {
	r.mu.Lock()
	r.stubs = append(r.stubs, s)
	r.mu.Unlock()
}
func (r *recordingCallbacks) RemoteStubUnregistered(gen.StubAddress)     {}
func (r *recordingCallbacks) RemoteProxyRegistered(p gen.ProxyAddress) {
	r.mu.Lock()
	r.proxies = append(r.proxies, p)
	r.mu.Unlock()
}
func (r *recordingCallbacks) RemoteProxyUnregistered(gen.ProxyAddress) {}

func (r *recordingCallbacks) startedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.started)
}

var _ gen.RouterCallbacks = (*recordingCallbacks)(nil)

// acceptOneAndHandshake is a minimal stand-in broker: accept one connection,
// answer the Hello with a fixed cookie, then optionally relay one frame
// back before closing.
func acceptOneAndHandshake(t *testing.T, ln net.Listener, cookie gen.Cookie, relay func(conn net.Conn)) {
	t.Helper()
	conn, err := ln.Accept()
	require.NoError(t, err)
	var hello HelloPayload
	msgType, err := ReadFrame(conn, &hello)
	require.NoError(t, err)
	require.Equal(t, MsgHello, msgType)
	require.NoError(t, WriteFrame(conn, MsgHelloAck, HelloPayload{Cookie: cookie}))
	if relay != nil {
		relay(conn)
	}
}

func TestClientHandshakeReportsServiceStarted(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cb := &recordingCallbacks{}
	c := NewClient(cb, nil, nil)

	done := make(chan struct{})
	go func() {
		acceptOneAndHandshake(t, ln, gen.Cookie(99), nil)
		close(done)
	}()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, c.StartNet("127.0.0.1", mustPort(t, portStr)))
	defer c.Stop()

	<-done
	require.Eventually(t, func() bool { return cb.startedCount() == 1 }, time.Second, 5*time.Millisecond)
	cb.mu.Lock()
	assert.Equal(t, []gen.Cookie{99}, cb.started)
	cb.mu.Unlock()
}

func TestClientRelaysRemoteRegistrationToCallbacks(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	svc := gen.ServiceAddress{ServiceName: "Calc", ServiceType: gen.ServiceTypePublic, RoleName: "calc"}
	stub := gen.StubAddress{Service: svc, ThreadName: "remote-thread", ProcessCookie: 5}

	cb := &recordingCallbacks{}
	c := NewClient(cb, nil, nil)

	go acceptOneAndHandshake(t, ln, gen.Cookie(1), func(conn net.Conn) {
		_ = WriteFrame(conn, MsgRegisterStub, StubPayload{Stub: stub})
	})

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, c.StartNet("127.0.0.1", mustPort(t, portStr)))
	defer c.Stop()

	require.Eventually(t, func() bool {
		cb.mu.Lock()
		defer cb.mu.Unlock()
		return len(cb.stubs) == 1
	}, time.Second, 5*time.Millisecond)

	cb.mu.Lock()
	assert.True(t, cb.stubs[0].Equal(stub))
	cb.mu.Unlock()
}

func mustPort(t *testing.T, s string) uint16 {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 16)
	require.NoError(t, err)
	return uint16(n)
}
