// Command areg-router runs the reference router broker: a standalone
// process that relays service registrations between connected
// router.Client instances so stubs and proxies living in different
// processes can find each other.
package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/aregtech/areg-go/gen"
	"github.com/aregtech/areg-go/logging"
	"github.com/aregtech/areg-go/router/broker"
)

var (
	listenAddress  = kingpin.Flag("listen-address", "Address:port for router.Client connections.").Default(":8181").String()
	metricsAddress = kingpin.Flag("web.listen-address", "Address to listen on for the metrics endpoint.").Default(":9191").String()
	telemetryPath  = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics.").Default("/metrics").String()
	logLevel       = kingpin.Flag("log.level", "trace, debug, info, warning, error, or disabled.").Default("info").String()
)

func main() {
	kingpin.Parse()

	log := logging.New("areg-router", os.Stdout)
	log.SetLevel(parseLevel(*logLevel))

	ln, err := net.Listen("tcp", *listenAddress)
	if err != nil {
		log.Error("failed to listen on %s: %v", *listenAddress, err)
		os.Exit(1)
	}
	log.Info("router broker listening on %s", *listenAddress)

	srv := broker.NewServer(log)

	go func() {
		http.Handle(*telemetryPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
		log.Info("metrics listening on %s%s", *metricsAddress, *telemetryPath)
		if err := http.ListenAndServe(*metricsAddress, nil); err != nil {
			log.Error("metrics server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		srv.Close()
		ln.Close()
	}()

	if err := srv.Serve(ln); err != nil {
		log.Error("broker serve error: %v", err)
		os.Exit(1)
	}
}

func parseLevel(s string) gen.LogLevel {
	switch s {
	case "trace":
		return gen.LogLevelTrace
	case "debug":
		return gen.LogLevelDebug
	case "warning":
		return gen.LogLevelWarning
	case "error":
		return gen.LogLevelError
	case "disabled":
		return gen.LogLevelDisabled
	default:
		return gen.LogLevelInfo
	}
}
