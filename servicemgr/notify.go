package servicemgr

import "github.com/aregtech/areg-go/gen"

// notifyConnected synthesizes and posts the Connected events for one
// (client, stub) pair that serverList has already determined just
// transitioned into the Connected state, mirroring
// ServiceManager::_sendClientConnectedEvent. Up to two events are produced:
// one to the stub's dispatcher thread if the stub is local with a valid
// source, one to the proxy's dispatcher thread under the same condition.
func (m *Manager) notifyConnected(client gen.ClientInfo, stub gen.StubAddress) {
	m.sendPair(client.Address, stub, gen.Connected)
}

// notifyDisconnected mirrors _sendClientConnectedEvent's disconnect
// sibling. Callers pass only clients that were matched: serverList's
// unregisterServer reports the clients that were Connected immediately
// before the stub's withdrawal, and the unregister-client paths check
// IsWaitingConnection against a bucket that still holds a valid stub. A
// client that was never matched never appears here.
func (m *Manager) notifyDisconnected(client gen.ClientInfo, stub gen.StubAddress) {
	m.sendPair(client.Address, stub, gen.Disconnected)
}

// sendPair posts the events and counts each one delivered; an event the
// dispatcher refuses (unknown thread, full or stopped mailbox) is logged
// and dropped.
func (m *Manager) sendPair(proxy gen.ProxyAddress, stub gen.StubAddress, kind gen.ConnectEventKind) {
	if stub.IsLocal(m.cookie) && stub.Source != gen.SourceUnknown {
		if m.dispatcher.Post(stub.ThreadName, gen.StubConnectEvent{Proxy: proxy, Stub: stub, Kind: kind}) {
			m.metrics.ConnectEvent("stub_" + kind.String())
		} else {
			m.log.Warning("dropped stub %s event for %s: thread %q did not accept it", kind, stub, stub.ThreadName)
		}
	}
	if proxy.IsLocal(m.cookie) && proxy.Source != gen.SourceUnknown {
		if m.dispatcher.Post(proxy.ThreadName, gen.ProxyConnectEvent{Proxy: proxy, Stub: stub, Kind: kind}) {
			m.metrics.ConnectEvent("proxy_" + kind.String())
		} else {
			m.log.Warning("dropped proxy %s event for %s: thread %q did not accept it", kind, proxy, proxy.ThreadName)
		}
	}
}
