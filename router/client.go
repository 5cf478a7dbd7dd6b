package router

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/jpillora/backoff"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/metrics"
)

// Client implements gen.RouterClient: the transport half of the connection
// to an external router broker. It owns a single TCP connection to the
// broker and a background goroutine that reads frames off it and turns
// them into gen.RouterCallbacks calls, reconnecting with jpillora/backoff
// whenever the connection drops. The wire format is defined in protocol.go.
type Client struct {
	mu         sync.Mutex
	cfg        gen.Config
	configured bool
	enabled    bool
	started    bool
	conn       net.Conn
	cookie     gen.Cookie

	callbacks gen.RouterCallbacks
	log       gen.Log
	metrics   *metrics.Recorder

	generation int
	stop       chan struct{}
	wg         sync.WaitGroup
}

var _ gen.RouterClient = (*Client)(nil)

// NewClient builds a Client that reports connection lifecycle and relayed
// registrations to callbacks. log and rec may both be nil, in which case
// nothing is logged or recorded.
func NewClient(callbacks gen.RouterCallbacks, log gen.Log, rec *metrics.Recorder) *Client {
	if rec == nil {
		rec = metrics.NewNoop()
	}
	return &Client{callbacks: callbacks, log: log, metrics: rec, enabled: true}
}

func (c *Client) Configure(cfg gen.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return gen.ErrRouterAlreadyActive
	}
	c.cfg = cfg
	c.configured = true
	c.enabled = cfg.Enabled
	return nil
}

func (c *Client) Start() error {
	c.mu.Lock()
	if !c.configured {
		c.mu.Unlock()
		return gen.ErrRouterNotConfigured
	}
	host, port := c.cfg.Address, c.cfg.Port
	c.mu.Unlock()
	return c.start(host, port)
}

func (c *Client) StartNet(host string, port uint16) error {
	c.mu.Lock()
	c.cfg.Address, c.cfg.Port = host, port
	c.configured = true
	c.enabled = true
	c.mu.Unlock()
	return c.start(host, port)
}

func (c *Client) start(host string, port uint16) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return gen.ErrRouterAlreadyActive
	}
	if !c.enabled {
		c.mu.Unlock()
		return gen.ErrRouterNotConfigured
	}
	c.started = true
	c.generation++
	generation := c.generation
	c.stop = make(chan struct{})
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(host, port, generation, c.stop)
	return nil
}

func (c *Client) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	close(c.stop)
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Client) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
	if !enabled {
		c.Stop()
	}
}

func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configured
}

func (c *Client) IsStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *Client) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// run dials, exchanges a Hello/HelloAck, then reads frames until the
// connection fails or stop is closed, reconnecting with exponential backoff
// in between. generation guards against a previous, stopped run's
// goroutine clobbering a newer connection after Stop()+Start() races.
func (c *Client) run(host string, port uint16, generation int, stop chan struct{}) {
	defer c.wg.Done()
	b := &backoff.Backoff{Min: 200 * time.Millisecond, Max: 10 * time.Second, Factor: 2}
	first := true

	for {
		select {
		case <-stop:
			return
		default:
		}

		if !first {
			c.metrics.RouterReconnect()
		}
		first = false

		conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			if c.log != nil {
				c.log.Warning("router dial failed: %v", err)
			}
			if !c.sleep(b.Duration(), stop) {
				return
			}
			continue
		}

		cookie, err := c.handshake(conn)
		if err != nil {
			conn.Close()
			if !c.sleep(b.Duration(), stop) {
				return
			}
			continue
		}
		b.Reset()

		c.mu.Lock()
		if c.generation != generation {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.cookie = cookie
		c.mu.Unlock()

		if c.callbacks != nil {
			c.callbacks.ServiceStarted(cookie)
		}

		lost := c.readLoop(conn)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		stillActive := c.started && c.generation == generation
		c.mu.Unlock()

		if c.callbacks != nil {
			if lost {
				c.callbacks.ServiceLost(cookie)
			} else {
				c.callbacks.ServiceStopped(cookie)
			}
		}
		if !stillActive {
			return
		}
		if !c.sleep(b.Duration(), stop) {
			return
		}
	}
}

func (c *Client) sleep(d time.Duration, stop chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) handshake(conn net.Conn) (gen.Cookie, error) {
	if err := WriteFrame(conn, MsgHello, HelloPayload{Cookie: c.cookie}); err != nil {
		return 0, err
	}
	var ack HelloPayload
	msgType, err := ReadFrame(conn, &ack)
	if err != nil {
		return 0, err
	}
	if msgType != MsgHelloAck {
		return 0, gen.ErrBrokerBadFrame
	}
	return ack.Cookie, nil
}

// readLoop dispatches relayed registrations until the connection fails or is
// closed locally by Stop()/a newer generation. It reports true when the
// failure looks like a transport loss (LostConnection) rather than a clean
// local shutdown (ServiceStopped, i.e. UnregisterConnection).
func (c *Client) readLoop(conn net.Conn) bool {
	for {
		msgType, payload, err := ReadFrameRaw(conn)
		if err != nil {
			c.mu.Lock()
			closedLocally := c.conn != conn
			c.mu.Unlock()
			return !closedLocally
		}

		if c.callbacks == nil {
			continue
		}
		switch msgType {
		case MsgRegisterStub:
			var p StubPayload
			if DecodePayload(payload, &p) == nil {
				c.callbacks.RemoteStubRegistered(p.Stub)
			}
		case MsgUnregisterStub:
			var p StubPayload
			if DecodePayload(payload, &p) == nil {
				c.callbacks.RemoteStubUnregistered(p.Stub)
			}
		case MsgRegisterProxy:
			var p ProxyPayload
			if DecodePayload(payload, &p) == nil {
				c.callbacks.RemoteProxyRegistered(p.Proxy)
			}
		case MsgUnregisterProxy:
			var p ProxyPayload
			if DecodePayload(payload, &p) == nil {
				c.callbacks.RemoteProxyUnregistered(p.Proxy)
			}
		default:
			if c.log != nil {
				c.log.Warning("router client: unexpected message type %s", msgType)
			}
		}
	}
}

func (c *Client) send(msgType MessageType, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return gen.ErrRouterTransportError
	}
	if err := WriteFrame(conn, msgType, payload); err != nil {
		return fmt.Errorf("%w: %v", gen.ErrRouterTransportError, err)
	}
	return nil
}

func (c *Client) RegisterService(stub gen.StubAddress) error {
	return c.send(MsgRegisterStub, StubPayload{Stub: stub})
}

func (c *Client) UnregisterService(stub gen.StubAddress) error {
	return c.send(MsgUnregisterStub, StubPayload{Stub: stub})
}

func (c *Client) RegisterServiceClient(proxy gen.ProxyAddress) error {
	return c.send(MsgRegisterProxy, ProxyPayload{Proxy: proxy})
}

func (c *Client) UnregisterServiceClient(proxy gen.ProxyAddress) error {
	return c.send(MsgUnregisterProxy, ProxyPayload{Proxy: proxy})
}
