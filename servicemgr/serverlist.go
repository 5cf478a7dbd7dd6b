// Package servicemgr implements the service registration, matching, and
// connection-notification engine: the ServerList bucket map, the
// single-goroutine ServiceManager actor that owns it, and the
// Connected/Disconnected notification fan-out.
package servicemgr

import "github.com/aregtech/areg-go/gen"

// clientList is the client set within one bucket. Registration order is
// preserved and used as the tie-break when multiple clients are waiting on
// the same stub, so it's a slice, not a map.
type clientList struct {
	clients []gen.ClientInfo
}

func (l *clientList) indexOf(proxy gen.ProxyAddress) int {
	for i := range l.clients {
		if l.clients[i].Address.Equal(proxy) {
			return i
		}
	}
	return -1
}

// bucket is one ServiceAddress's ServerInfo plus its waiting/matched clients.
type bucket struct {
	server  gen.ServerInfo
	clients clientList
}

func (b *bucket) hasValidStub() bool {
	return b.server.Address.IsValid()
}

// serverList is the authoritative ServiceAddress -> bucket map (I1-I5).
// Every method here is called exclusively from the manager's own goroutine;
// nothing in this type takes a lock.
type serverList struct {
	order   []gen.ServiceAddress
	buckets map[gen.ServiceAddress]*bucket
}

func newServerList() *serverList {
	return &serverList{buckets: make(map[gen.ServiceAddress]*bucket)}
}

func (s *serverList) bucketFor(addr gen.ServiceAddress) *bucket {
	b, ok := s.buckets[addr]
	if ok {
		return b
	}
	b = &bucket{server: gen.ServerInfo{Status: gen.StatusPending}}
	s.buckets[addr] = b
	s.order = append(s.order, addr)
	return b
}

func (s *serverList) removeBucketIfEmpty(addr gen.ServiceAddress, b *bucket) {
	if b.hasValidStub() || len(b.clients.clients) != 0 {
		return
	}
	delete(s.buckets, addr)
	for i, a := range s.order {
		if a == addr {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// registerServer locates or creates the bucket for stub's ServiceAddress. If
// it already holds a different valid stub (a different address, or the same
// address with a different Source), this is a DuplicateServer rejection
// (ok=false) and the bucket is left untouched. Otherwise the stub
// is stored, the bucket's status becomes Connected, every Pending client in
// the bucket transitions to Connected, and those transitioned clients are
// returned so the caller (the manager) can fan out Connected events for
// exactly them.
func (s *serverList) registerServer(stub gen.StubAddress) (info gen.ServerInfo, transitioned []gen.ClientInfo, ok bool) {
	b := s.bucketFor(stub.Service)
	if b.hasValidStub() && (!b.server.Address.Equal(stub) || b.server.Address.Source != stub.Source) {
		return b.server, nil, false
	}

	b.server = gen.ServerInfo{Address: stub, Status: gen.StatusConnected}
	for i := range b.clients.clients {
		if b.clients.clients[i].Status == gen.StatusPending || b.clients.clients[i].Status == gen.StatusDisconnected {
			b.clients.clients[i].Status = gen.StatusConnected
			transitioned = append(transitioned, b.clients.clients[i])
		}
	}
	return b.server, transitioned, true
}

// unregisterServer clears the stored stub if it matches, marks the bucket
// Disconnected, transitions every Connected client to Disconnected, and
// returns a pre-clear snapshot of the ServerInfo plus the affected clients.
// If the bucket ends up with no clients it is removed.
func (s *serverList) unregisterServer(stub gen.StubAddress) (info gen.ServerInfo, affected []gen.ClientInfo, found bool) {
	b, ok := s.buckets[stub.Service]
	if !ok || !b.server.Address.Equal(stub) {
		return gen.ServerInfo{}, nil, false
	}

	snapshot := b.server
	b.server = gen.ServerInfo{Status: gen.StatusDisconnected}
	for i := range b.clients.clients {
		if b.clients.clients[i].Status == gen.StatusConnected {
			b.clients.clients[i].Status = gen.StatusDisconnected
			affected = append(affected, b.clients.clients[i])
		}
	}
	s.removeBucketIfEmpty(stub.Service, b)
	return snapshot, affected, true
}

// registerClient locates or creates the bucket for proxy's ServiceAddress
// and appends a ClientInfo for it, Connected if the bucket already holds a
// valid stub, Pending otherwise. Re-registering the same proxy address is
// idempotent: the existing ClientInfo is returned unchanged.
func (s *serverList) registerClient(proxy gen.ProxyAddress) (info gen.ServerInfo, added gen.ClientInfo) {
	b := s.bucketFor(proxy.Service)
	if i := b.clients.indexOf(proxy); i >= 0 {
		return b.server, b.clients.clients[i]
	}

	status := gen.StatusPending
	if b.hasValidStub() {
		status = gen.StatusConnected
	}
	ci := gen.ClientInfo{Address: proxy, Status: status}
	b.clients.clients = append(b.clients.clients, ci)
	return b.server, ci
}

// unregisterClient removes the ClientInfo equal to proxy from its bucket.
// If the bucket afterward has no stub and no clients it is deleted. Returns
// the bucket's ServerInfo and the removed ClientInfo with its last status.
func (s *serverList) unregisterClient(proxy gen.ProxyAddress) (info gen.ServerInfo, removed gen.ClientInfo, found bool) {
	b, ok := s.buckets[proxy.Service]
	if !ok {
		return gen.ServerInfo{}, gen.ClientInfo{}, false
	}
	i := b.clients.indexOf(proxy)
	if i < 0 {
		return gen.ServerInfo{}, gen.ClientInfo{}, false
	}

	removed = b.clients.clients[i]
	b.clients.clients = append(b.clients.clients[:i], b.clients.clients[i+1:]...)
	info = b.server
	s.removeBucketIfEmpty(proxy.Service, b)
	return info, removed, true
}

// snapshotAll returns every ServerInfo and ClientInfo across all buckets, in
// bucket insertion order, for getServiceList / ServiceList.
func (s *serverList) snapshotAll() (stubs []gen.ServerInfo, proxies []gen.ClientInfo) {
	for _, addr := range s.order {
		b := s.buckets[addr]
		if b.hasValidStub() {
			stubs = append(stubs, b.server)
		}
		proxies = append(proxies, b.clients.clients...)
	}
	return stubs, proxies
}

// forEachBucket walks buckets in insertion order, calling fn with a pointer
// to the live bucket. fn must not remove buckets itself.
func (s *serverList) forEachBucket(fn func(addr gen.ServiceAddress, b *bucket)) {
	for _, addr := range s.order {
		fn(addr, s.buckets[addr])
	}
}

// removeAll drops every bucket, used by ShutdownService and
// StopRoutingClient after they've finished notifying clients.
func (s *serverList) removeAll() {
	s.buckets = make(map[gen.ServiceAddress]*bucket)
	s.order = nil
}

func (s *serverList) bucketCount() int {
	return len(s.buckets)
}

func (s *serverList) clientCount() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b.clients.clients)
	}
	return n
}
