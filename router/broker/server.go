package broker

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/lib"
	"github.com/aregtech/areg-go/router"
)

// Server is a reference router broker: it accepts router.Client connections
// and relays their register/unregister frames to whichever other connected
// clients share the same gen.ServiceAddress. It never matches stubs against
// proxies itself; that remains servicemgr's job on each connected node.
type Server struct {
	log gen.Log

	mu      sync.Mutex
	conns   map[clientID]net.Conn
	nextID  atomic.Uint64
	reg     *registry
	closing chan struct{}
	wg      sync.WaitGroup
}

// NewServer builds a Server. log may be nil.
func NewServer(log gen.Log) *Server {
	return &Server{
		log:     log,
		conns:   make(map[clientID]net.Conn),
		reg:     newRegistry(),
		closing: make(chan struct{}),
	}
}

// Serve accepts connections on ln until it is closed or Close is called.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.closing:
				return nil
			default:
				return err
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Close stops accepting new work and disconnects every connected client.
func (s *Server) Close() {
	close(s.closing)
	s.mu.Lock()
	for id, conn := range s.conns {
		conn.Close()
		delete(s.conns, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	id := clientID(s.nextID.Add(1))

	var hello router.HelloPayload
	msgType, err := router.ReadFrame(conn, &hello)
	if err != nil || msgType != router.MsgHello {
		s.logWarn("broker: handshake failed from %s: %v", conn.RemoteAddr(), err)
		return
	}
	cookie := hello.Cookie
	if cookie == gen.CookieAny {
		cookie = lib.RandomCookie()
	}
	if err := router.WriteFrame(conn, router.MsgHelloAck, router.HelloPayload{Cookie: cookie}); err != nil {
		return
	}

	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()
	defer s.dropConn(id)

	for {
		msgType, payload, err := router.ReadFrameRaw(conn)
		if err != nil {
			return
		}
		switch msgType {
		case router.MsgRegisterStub:
			var p router.StubPayload
			if router.DecodePayload(payload, &p) == nil {
				s.relayToProxies(s.reg.registerStub(p.Stub.Service, id, p.Stub), router.MsgRegisterStub, p)
			}
		case router.MsgUnregisterStub:
			var p router.StubPayload
			if router.DecodePayload(payload, &p) == nil {
				s.relayToProxies(s.reg.unregisterStub(p.Stub.Service, id), router.MsgUnregisterStub, p)
			}
		case router.MsgRegisterProxy:
			var p router.ProxyPayload
			if router.DecodePayload(payload, &p) == nil {
				if stub, ok := s.reg.registerProxy(p.Proxy.Service, id); ok {
					s.sendTo(stub, router.MsgRegisterProxy, p)
				}
			}
		case router.MsgUnregisterProxy:
			var p router.ProxyPayload
			if router.DecodePayload(payload, &p) == nil {
				if stub, ok := s.reg.unregisterProxy(p.Proxy.Service, id); ok {
					s.sendTo(stub, router.MsgUnregisterProxy, p)
				}
			}
		default:
			s.logWarn("broker: unexpected message type %s from client %d", msgType, id)
		}
	}
}

func (s *Server) dropConn(id clientID) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()

	for _, dropped := range s.reg.dropClient(id) {
		s.relayToProxies(dropped.Targets, router.MsgUnregisterStub, router.StubPayload{Stub: dropped.Stub})
	}
}

func (s *Server) relayToProxies(targets []clientID, msgType router.MessageType, payload any) {
	for _, target := range targets {
		s.sendTo(target, msgType, payload)
	}
}

func (s *Server) sendTo(id clientID, msgType router.MessageType, payload any) {
	s.mu.Lock()
	conn := s.conns[id]
	s.mu.Unlock()
	if conn == nil {
		return
	}
	if err := router.WriteFrame(conn, msgType, payload); err != nil {
		s.logWarn("broker: relay to client %d failed: %v", id, err)
	}
}

func (s *Server) logWarn(format string, args ...any) {
	if s.log != nil {
		s.log.Warning(format, args...)
	}
}
