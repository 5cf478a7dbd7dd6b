// Package metrics exposes Prometheus counters and gauges for the service
// manager and router client. Grounded on the shaowenchen-ops-proxy example's
// use of client_golang for its proxy daemon: each Recorder owns its own
// collectors, registered against a Registerer the caller controls, rather
// than the global default registry, so tests can construct an isolated
// Recorder per case.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the metrics sink passed to servicemgr.Manager and
// router.Client, both of which substitute NewNoop when given nil. A Recorder
// from NewNoop discards every observation; a nil *Recorder or a zero
// Recorder{} is not usable.
type Recorder struct {
	registrations        *prometheus.CounterVec
	duplicateRejections  prometheus.Counter
	connectEventsTotal   *prometheus.CounterVec
	routerReconnects     prometheus.Counter
	serverBuckets        prometheus.Gauge
	registeredClients    prometheus.Gauge
	noop                 bool
}

// New registers a fresh set of collectors against reg and returns a
// Recorder backed by them.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "areg_registrations_total",
			Help: "Count of register/unregister commands processed by kind.",
		}, []string{"kind"}),
		duplicateRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "areg_duplicate_server_rejections_total",
			Help: "Count of RegisterStub commands rejected as a role-name collision.",
		}),
		connectEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "areg_connect_events_total",
			Help: "Count of StubConnectEvent/ProxyConnectEvent deliveries by kind.",
		}, []string{"kind"}),
		routerReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "areg_router_reconnects_total",
			Help: "Count of reconnect attempts made by the router client.",
		}),
		serverBuckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "areg_server_buckets",
			Help: "Current number of ServiceAddress buckets in the ServerList.",
		}),
		registeredClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "areg_registered_clients",
			Help: "Current number of ClientInfo records across all buckets.",
		}),
	}
	reg.MustRegister(r.registrations, r.duplicateRejections, r.connectEventsTotal,
		r.routerReconnects, r.serverBuckets, r.registeredClients)
	return r
}

// NewNoop returns a Recorder whose methods are all safe to call but record
// nothing, for callers that don't care about metrics.
func NewNoop() *Recorder {
	return &Recorder{noop: true}
}

func (r *Recorder) RegisterServer()      { r.inc("register_server") }
func (r *Recorder) UnregisterServer()    { r.inc("unregister_server") }
func (r *Recorder) RegisterClient()      { r.inc("register_client") }
func (r *Recorder) UnregisterClient()    { r.inc("unregister_client") }

func (r *Recorder) inc(kind string) {
	if r.noop {
		return
	}
	r.registrations.WithLabelValues(kind).Inc()
}

func (r *Recorder) DuplicateServerRejected() {
	if r.noop {
		return
	}
	r.duplicateRejections.Inc()
}

func (r *Recorder) ConnectEvent(kind string) {
	if r.noop {
		return
	}
	r.connectEventsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RouterReconnect() {
	if r.noop {
		return
	}
	r.routerReconnects.Inc()
}

func (r *Recorder) SetServerBuckets(n int) {
	if r.noop {
		return
	}
	r.serverBuckets.Set(float64(n))
}

func (r *Recorder) SetRegisteredClients(n int) {
	if r.noop {
		return
	}
	r.registeredClients.Set(float64(n))
}
