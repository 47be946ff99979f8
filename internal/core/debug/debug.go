package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StartUtilities spins off the services associated with debug mode.
func StartUtilities(logger *zap.SugaredLogger, pprofPort, metricsPort int) {
	startPprofServer(logger, pprofPort)
	startMetricsServer(logger, metricsPort)
}

// startPprofServer starts the default pprof HTTP server that can be accessed
// via localhost to get runtime information about the server.
// See https://golang.org/pkg/net/http/pprof/
func startPprofServer(logger *zap.SugaredLogger, port int) {
	listenerAddr := fmt.Sprintf("localhost:%d", port)
	logger.Infof("starting pprof server on %s", listenerAddr)

	go func() {
		if err := http.ListenAndServe(listenerAddr, nil); err != nil {
			logger.Infof("error starting pprof server: %s", err)
		}
	}()
}

// startMetricsServer exposes the prometheus metrics registered in this package
// on its own port so that operational metrics can be scraped from the host.
func startMetricsServer(logger *zap.SugaredLogger, port int) {
	listenerAddr := fmt.Sprintf(":%d", port)
	logger.Infof("starting metrics server on %s", listenerAddr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(listenerAddr, mux); err != nil {
			logger.Infof("error starting metrics server: %s", err)
		}
	}()
}
