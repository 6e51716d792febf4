package sh

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/dcm.go/pkg/link"
)

// ServeMetrics registers link metrics and serves /metrics on addr in
// background.
func ServeMetrics(addr string) *link.Metrics {
	reg := prometheus.NewRegistry()
	m := link.NewMetrics().MustRegister(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			glog.Errorf("metrics endpoint %s: %v", addr, err)
		}
	}()
	return m
}
