// Package metrics exposes Prometheus collectors for the LDM server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups every metric of the server. A nil *Collector is valid
// and records nothing.
type Collector struct {
	received  *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	storeOps  *prometheus.CounterVec
	evicted   *prometheus.CounterVec
	entries   *prometheus.GaugeVec
	latency   prometheus.Histogram
	wsClients prometheus.Gauge
}

// NewCollector creates the collectors and registers them on reg, or on the
// default registerer when reg is nil.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sldm_messages_received_total",
			Help: "Decoded messages handed to the ingestion pipeline.",
		}, []string{"type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sldm_messages_dropped_total",
			Help: "Messages dropped before reaching a store.",
		}, []string{"reason"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sldm_store_operations_total",
			Help: "Store write outcomes.",
		}, []string{"store", "result"}),
		evicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sldm_evicted_total",
			Help: "Entries removed by the expiry sweeper.",
		}, []string{"store"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sldm_store_entries",
			Help: "Current number of entries per store.",
		}, []string{"store"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sldm_ingest_latency_seconds",
			Help:    "Time spent handling one decoded message.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14),
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sldm_websocket_clients",
			Help: "Connected event stream clients.",
		}),
	}
	reg.MustRegister(c.received, c.dropped, c.storeOps, c.evicted, c.entries, c.latency, c.wsClients)
	return c
}

func (c *Collector) MessageReceived(msgType string) {
	if c == nil {
		return
	}
	c.received.WithLabelValues(msgType).Inc()
}

func (c *Collector) MessageDropped(reason string) {
	if c == nil {
		return
	}
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Collector) StoreResult(store, result string) {
	if c == nil {
		return
	}
	c.storeOps.WithLabelValues(store, result).Inc()
}

func (c *Collector) Evicted(store string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.evicted.WithLabelValues(store).Add(float64(n))
}

func (c *Collector) SetEntries(store string, n float64) {
	if c == nil {
		return
	}
	c.entries.WithLabelValues(store).Set(n)
}

func (c *Collector) ObserveIngest(d time.Duration) {
	if c == nil {
		return
	}
	c.latency.Observe(d.Seconds())
}

func (c *Collector) WebsocketClients(delta float64) {
	if c == nil {
		return
	}
	c.wsClients.Add(delta)
}
