// Command areg-node-demo is a small runnable illustration of the service
// manager: it starts a dispatcher thread for a stub and one for a proxy,
// registers both against the same service address, and prints the
// connect/disconnect notifications each receives as the other's lifecycle
// changes. Passing -router-address also exercises the router client and
// broker end to end against a separately running areg-router process.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/logging"
	"github.com/aregtech/areg-go/metrics"
	"github.com/aregtech/areg-go/node"
	"github.com/aregtech/areg-go/router"
	"github.com/aregtech/areg-go/servicemgr"
)

var (
	routerAddress = kingpin.Flag("router-address", "host:port of a running areg-router; empty runs local-only.").Default("").String()
	roleName      = kingpin.Flag("role", "Role name for the demo service.").Default("demo-calculator").String()
)

// lazyCallbacks exists only because router.NewClient needs a
// gen.RouterCallbacks before the *servicemgr.Manager it should forward to
// has been constructed; mgr is filled in right after.
type lazyCallbacks struct {
	mgr *servicemgr.Manager
}

func (l *lazyCallbacks) ServiceStarted(c gen.Cookie)              { l.mgr.ServiceStarted(c) }
func (l *lazyCallbacks) ServiceStopped(c gen.Cookie)              { l.mgr.ServiceStopped(c) }
func (l *lazyCallbacks) ServiceLost(c gen.Cookie)                 { l.mgr.ServiceLost(c) }
func (l *lazyCallbacks) RemoteStubRegistered(s gen.StubAddress)   { l.mgr.RemoteStubRegistered(s) }
func (l *lazyCallbacks) RemoteStubUnregistered(s gen.StubAddress) { l.mgr.RemoteStubUnregistered(s) }
func (l *lazyCallbacks) RemoteProxyRegistered(p gen.ProxyAddress) { l.mgr.RemoteProxyRegistered(p) }
func (l *lazyCallbacks) RemoteProxyUnregistered(p gen.ProxyAddress) {
	l.mgr.RemoteProxyUnregistered(p)
}

func main() {
	kingpin.Parse()

	log := logging.New("areg-node-demo", os.Stdout)
	reg := node.NewRegistry()

	rec := metrics.NewNoop()
	cb := &lazyCallbacks{}
	var routerClient *router.Client
	if *routerAddress != "" {
		routerClient = router.NewClient(cb, log, rec)
	}

	var opts servicemgr.Options
	opts.Dispatcher = reg
	opts.Log = log
	opts.Metrics = rec
	if routerClient != nil {
		opts.Router = routerClient
	}
	mgr := servicemgr.New(opts)
	cb.mgr = mgr

	if routerClient != nil {
		host, portStr, err := net.SplitHostPort(*routerAddress)
		if err != nil {
			log.Error("invalid -router-address %q: %v", *routerAddress, err)
			os.Exit(1)
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			log.Error("invalid router port %q: %v", portStr, err)
			os.Exit(1)
		}
		mgr.StartRoutingNet(host, uint16(port))
		time.Sleep(50 * time.Millisecond)
	}

	svc, err := gen.NewServiceAddress("DemoCalculator", gen.ServiceTypePublic, *roleName)
	if err != nil {
		log.Error("invalid service address: %v", err)
		os.Exit(1)
	}

	stubThread := node.NewThread("stub-thread", 16)
	reg.Register(stubThread)
	node.Subscribe(stubThread, func(ev gen.StubConnectEvent) {
		fmt.Printf("[stub] %s with proxy %s\n", ev.Kind, ev.Proxy)
	})

	proxyThread := node.NewThread("proxy-thread", 16)
	reg.Register(proxyThread)
	node.Subscribe(proxyThread, func(ev gen.ProxyConnectEvent) {
		fmt.Printf("[proxy] %s with stub %s\n", ev.Kind, ev.Stub)
	})

	stub, err := gen.NewStubAddress(svc, "stub-thread")
	if err != nil {
		log.Error("invalid stub address: %v", err)
		os.Exit(1)
	}
	proxy, err := gen.NewProxyAddress(svc, "proxy-thread")
	if err != nil {
		log.Error("invalid proxy address: %v", err)
		os.Exit(1)
	}

	mgr.RegisterClient(proxy)
	time.Sleep(10 * time.Millisecond)
	mgr.RegisterServer(stub)
	time.Sleep(10 * time.Millisecond)

	stubs, proxies := mgr.ServiceList(gen.CookieAny)
	fmt.Printf("service list: %d stub(s), %d proxy(ies)\n", len(stubs), len(proxies))

	mgr.UnregisterServer(stub)
	time.Sleep(10 * time.Millisecond)
	mgr.UnregisterClient(proxy)
	time.Sleep(10 * time.Millisecond)

	mgr.Shutdown()
	<-mgr.Done()
}
