package link

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects exchange statistics of sessions.
type Metrics struct {
	Exchanges     *prometheus.CounterVec
	BytesSent     prometheus.Counter
	BytesReceived prometheus.Counter
	Duration      prometheus.Histogram
}

// Exchange results used as metric labels.
const (
	ResultOK        = "ok"
	ResultTimeout   = "timeout"
	ResultLinkError = "link_error"
	ResultCanceled  = "canceled"
	ResultInvalid   = "invalid"
)

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcm",
			Subsystem: "link",
			Name:      "exchanges_total",
			Help:      "Request/response exchanges by function and result.",
		}, []string{"function", "result"}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcm",
			Subsystem: "link",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the device.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcm",
			Subsystem: "link",
			Name:      "bytes_received_total",
			Help:      "Response bytes read from the device.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dcm",
			Subsystem: "link",
			Name:      "exchange_duration_seconds",
			Help:      "Time from request write to complete response.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// MustRegister registers all collectors.
func (m *Metrics) MustRegister(reg prometheus.Registerer) *Metrics {
	reg.MustRegister(m.Exchanges, m.BytesSent, m.BytesReceived, m.Duration)
	return m
}

func (m *Metrics) observe(function string, sent, received int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.Exchanges.WithLabelValues(function, resultOf(err)).Inc()
	m.BytesSent.Add(float64(sent))
	m.BytesReceived.Add(float64(received))
	if err == nil {
		m.Duration.Observe(elapsed.Seconds())
	}
}

func resultOf(err error) string {
	if err == nil {
		return ResultOK
	}
	var timeoutErr *ResponseTimeoutError
	var connErr *ConnectionError
	switch {
	case errors.As(err, &timeoutErr):
		return ResultTimeout
	case errors.As(err, &connErr):
		return ResultLinkError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	}
	return ResultInvalid
}
