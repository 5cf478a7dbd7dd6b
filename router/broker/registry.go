// Package broker is a minimal reference implementation of the external
// router process that router.Client talks to. It relays register/unregister
// frames between connected clients that share a gen.ServiceAddress; it does
// not reproduce servicemgr's Pending/Connected/Disconnected state machine,
// only enough per-address bookkeeping to know who needs to hear about whom.
// Grounded on ServiceRegistry.cpp's per-address stub/proxy lists.
package broker

import (
	"sync"

	"github.com/aregtech/areg-go/gen"
)

type clientID uint64

type addressBucket struct {
	stub     clientID
	stubAddr gen.StubAddress
	hasStub  bool
	proxies  map[clientID]struct{}
}

type registry struct {
	mu      sync.Mutex
	buckets map[gen.ServiceAddress]*addressBucket
}

func newRegistry() *registry {
	return &registry{buckets: make(map[gen.ServiceAddress]*addressBucket)}
}

func (r *registry) bucket(addr gen.ServiceAddress) *addressBucket {
	b, ok := r.buckets[addr]
	if !ok {
		b = &addressBucket{proxies: make(map[clientID]struct{})}
		r.buckets[addr] = b
	}
	return b
}

// registerStub records id as addr's stub owner and returns the proxies that
// must be relayed this registration.
func (r *registry) registerStub(addr gen.ServiceAddress, id clientID, stub gen.StubAddress) []clientID {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bucket(addr)
	b.stub, b.hasStub, b.stubAddr = id, true, stub
	return r.proxyTargets(b, id)
}

func (r *registry) unregisterStub(addr gen.ServiceAddress, id clientID) []clientID {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buckets[addr]
	if !ok || !b.hasStub || b.stub != id {
		return nil
	}
	b.hasStub = false
	targets := r.proxyTargets(b, id)
	r.removeIfEmpty(addr, b)
	return targets
}

// registerProxy records id as a proxy under addr and returns the stub owner
// to relay to, if any other client currently holds one.
func (r *registry) registerProxy(addr gen.ServiceAddress, id clientID) (clientID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bucket(addr)
	b.proxies[id] = struct{}{}
	if b.hasStub && b.stub != id {
		return b.stub, true
	}
	return 0, false
}

func (r *registry) unregisterProxy(addr gen.ServiceAddress, id clientID) (clientID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buckets[addr]
	if !ok {
		return 0, false
	}
	delete(b.proxies, id)
	stub, hasStub := b.stub, b.hasStub && b.stub != id
	r.removeIfEmpty(addr, b)
	return stub, hasStub
}

func (r *registry) proxyTargets(b *addressBucket, exclude clientID) []clientID {
	targets := make([]clientID, 0, len(b.proxies))
	for p := range b.proxies {
		if p != exclude {
			targets = append(targets, p)
		}
	}
	return targets
}

func (r *registry) removeIfEmpty(addr gen.ServiceAddress, b *addressBucket) {
	if !b.hasStub && len(b.proxies) == 0 {
		delete(r.buckets, addr)
	}
}

// droppedStub is what dropClient reports for each ServiceAddress where the
// disconnecting client held the stub: who to tell (Targets), and the stub
// address they were told about, so the relayed frame looks exactly like a
// normal UnregisterStub.
type droppedStub struct {
	Stub    gen.StubAddress
	Targets []clientID
}

// dropClient removes id from every bucket it appears in and returns, per
// ServiceAddress where id held the stub, the proxies that must be told it
// is gone. Proxies that id itself held need no relay; nothing on the other
// side was waiting to hear about their departure.
func (r *registry) dropClient(id clientID) map[gen.ServiceAddress]droppedStub {
	r.mu.Lock()
	defer r.mu.Unlock()
	notify := make(map[gen.ServiceAddress]droppedStub)
	for addr, b := range r.buckets {
		if b.hasStub && b.stub == id {
			stubAddr := b.stubAddr
			b.hasStub = false
			if targets := r.proxyTargets(b, id); len(targets) > 0 {
				notify[addr] = droppedStub{Stub: stubAddr, Targets: targets}
			}
		}
		delete(b.proxies, id)
		r.removeIfEmpty(addr, b)
	}
	return notify
}
