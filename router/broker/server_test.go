package broker

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/router"
)

func dial(t *testing.T, addr string, cookie gen.Cookie) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, router.WriteFrame(conn, router.MsgHello, router.HelloPayload{Cookie: cookie}))
	var ack router.HelloPayload
	msgType, err := router.ReadFrame(conn, &ack)
	require.NoError(t, err)
	require.Equal(t, router.MsgHelloAck, msgType)
	return conn
}

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := NewServer(nil)
	go s.Serve(ln)
	t.Cleanup(func() {
		s.Close()
		ln.Close()
	})
	return s, ln.Addr().String()
}

func TestBrokerRelaysProxyRegistrationToExistingStub(t *testing.T) {
	_, addr := startServer(t)

	stubConn := dial(t, addr, gen.CookieAny)
	defer stubConn.Close()
	svc := gen.ServiceAddress{ServiceName: "Calculator", ServiceType: gen.ServiceTypePublic, RoleName: "calc"}
	stub := gen.StubAddress{Service: svc, ThreadName: "server-thread", ProcessCookie: 42}
	require.NoError(t, router.WriteFrame(stubConn, router.MsgRegisterStub, router.StubPayload{Stub: stub}))

	proxyConn := dial(t, addr, gen.CookieAny)
	defer proxyConn.Close()
	proxy := gen.ProxyAddress{Service: svc, ThreadName: "client-thread", ProcessCookie: 7}
	require.NoError(t, router.WriteFrame(proxyConn, router.MsgRegisterProxy, router.ProxyPayload{Proxy: proxy}))

	stubConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var relayed router.ProxyPayload
	msgType, err := router.ReadFrame(stubConn, &relayed)
	require.NoError(t, err)
	require.Equal(t, router.MsgRegisterProxy, msgType)
	require.Equal(t, proxy, relayed.Proxy)
}

func TestBrokerRelaysStubDropToWaitingProxies(t *testing.T) {
	_, addr := startServer(t)

	svc := gen.ServiceAddress{ServiceName: "Calculator", ServiceType: gen.ServiceTypePublic, RoleName: "calc"}
	stub := gen.StubAddress{Service: svc, ThreadName: "server-thread", ProcessCookie: 42}

	stubConn := dial(t, addr, gen.CookieAny)
	require.NoError(t, router.WriteFrame(stubConn, router.MsgRegisterStub, router.StubPayload{Stub: stub}))

	proxyConn := dial(t, addr, gen.CookieAny)
	defer proxyConn.Close()
	proxy := gen.ProxyAddress{Service: svc, ThreadName: "client-thread", ProcessCookie: 7}
	require.NoError(t, router.WriteFrame(proxyConn, router.MsgRegisterProxy, router.ProxyPayload{Proxy: proxy}))

	// The broker relays the proxy registration to the stub's connection only
	// after recording the proxy, so reading it here guarantees the proxy is
	// waiting on the stub before the stub's connection drops.
	stubConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var relayed router.ProxyPayload
	relayType, err := router.ReadFrame(stubConn, &relayed)
	require.NoError(t, err)
	require.Equal(t, router.MsgRegisterProxy, relayType)

	stubConn.Close()

	proxyConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var dropped router.StubPayload
	msgType, err := router.ReadFrame(proxyConn, &dropped)
	require.NoError(t, err)
	require.Equal(t, router.MsgUnregisterStub, msgType)
	require.Equal(t, stub, dropped.Stub)
}
