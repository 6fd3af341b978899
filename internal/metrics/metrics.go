// Package metrics exposes the job lifecycle of the shell as Prometheus
// metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobshell"

// Collector holds the shell's metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	launched  prometheus.Counter
	reaped    *prometheus.CounterVec
	stopped   prometheus.Counter
	forwarded *prometheus.CounterVec
	jobs      *prometheus.GaugeVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		launched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_launched_total",
			Help:      "Total number of jobs started and tracked",
		}),
		reaped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_reaped_total",
			Help:      "Total number of jobs collected after termination",
		}, []string{"outcome"}),
		stopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_stopped_total",
			Help:      "Total number of times a job was stopped by a signal",
		}),
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_forwarded_total",
			Help:      "Total number of terminal signals forwarded to the foreground job",
		}, []string{"signal"}),
		jobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs",
			Help:      "Current number of tracked jobs by state",
		}, []string{"state"}),
	}

	c.registry.MustRegister(c.launched, c.reaped, c.stopped, c.forwarded, c.jobs)

	return c
}

func (c *Collector) RecordLaunch() {
	c.launched.Inc()
}

// RecordReap counts a terminated job; outcome is "exited" or "signaled".
func (c *Collector) RecordReap(outcome string) {
	c.reaped.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordStop() {
	c.stopped.Inc()
}

func (c *Collector) RecordForward(signal string) {
	c.forwarded.WithLabelValues(signal).Inc()
}

// SetJobs replaces the per-state job gauge.
func (c *Collector) SetJobs(counts map[string]int) {
	for state, n := range counts {
		c.jobs.WithLabelValues(state).Set(float64(n))
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on l until ctx is done.
func (c *Collector) Serve(ctx context.Context, l net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
