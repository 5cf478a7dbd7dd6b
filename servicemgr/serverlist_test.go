package servicemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aregtech/areg-go/gen"
)

func svcAddr(t *testing.T) gen.ServiceAddress {
	a, err := gen.NewServiceAddress("Hello", gen.ServiceTypeLocal, "R1")
	require.NoError(t, err)
	return a
}

func TestServerListRegisterServerCreatesBucketAndConnectsPendingClients(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	proxy, _ := gen.NewProxyAddress(svc, "T2")
	_, added := sl.registerClient(proxy)
	assert.Equal(t, gen.StatusPending, added.Status)

	stub, _ := gen.NewStubAddress(svc, "T1")
	info, transitioned, ok := sl.registerServer(stub)
	require.True(t, ok)
	assert.Equal(t, gen.StatusConnected, info.Status)
	require.Len(t, transitioned, 1)
	assert.Equal(t, gen.StatusConnected, transitioned[0].Status)
}

func TestServerListDuplicateServerRejected(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	stub, _ := gen.NewStubAddress(svc, "T1")
	stub.Source = 1
	_, _, ok := sl.registerServer(stub)
	require.True(t, ok)

	dup, _ := gen.NewStubAddress(svc, "T1")
	dup.Source = 2
	_, _, ok = sl.registerServer(dup)
	assert.False(t, ok)
}

func TestServerListUnregisterServerDisconnectsClients(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	stub, _ := gen.NewStubAddress(svc, "T1")
	stub.Source = 1
	proxy, _ := gen.NewProxyAddress(svc, "T2")

	sl.registerServer(stub)
	sl.registerClient(proxy)

	_, affected, found := sl.unregisterServer(stub)
	require.True(t, found)
	require.Len(t, affected, 1)
	assert.Equal(t, gen.StatusDisconnected, affected[0].Status)
}

func TestServerListBucketRemovedWhenEmpty(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	stub, _ := gen.NewStubAddress(svc, "T1")
	proxy, _ := gen.NewProxyAddress(svc, "T2")

	sl.registerServer(stub)
	sl.registerClient(proxy)
	sl.unregisterServer(stub)
	sl.unregisterClient(proxy)

	assert.Equal(t, 0, sl.bucketCount())
}

func TestServerListRegisterClientIdempotent(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	proxy, _ := gen.NewProxyAddress(svc, "T2")
	proxy.Source = 7

	_, first := sl.registerClient(proxy)
	_, second := sl.registerClient(proxy)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, sl.clientCount())
}

func TestServerListBackTransitionDisconnectedToConnected(t *testing.T) {
	sl := newServerList()
	svc := svcAddr(t)
	stub, _ := gen.NewStubAddress(svc, "T1")
	stub.Source = 1
	proxy, _ := gen.NewProxyAddress(svc, "T2")

	sl.registerServer(stub)
	sl.registerClient(proxy)
	sl.unregisterServer(stub)

	restub, _ := gen.NewStubAddress(svc, "T1")
	restub.Source = 2
	_, transitioned, ok := sl.registerServer(restub)
	require.True(t, ok)
	require.Len(t, transitioned, 1)
	assert.Equal(t, gen.StatusConnected, transitioned[0].Status)
}
