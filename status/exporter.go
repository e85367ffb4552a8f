package status

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters are the registry keys exported as Prometheus counters
var Counters = []string{
	"sim.steps",
	"sim.collisions",
	"sim.truncated_ticks",
	"sim.rejected_edits",
	"history.undo",
	"history.redo",
	"audio.clicks",
}

const shutdownTimeout = 2 * time.Second

// Exporter serves the registry on /metrics
// An empty address disables it; every lifecycle call is then a no-op
type Exporter struct {
	addr      string
	namespace string
	reg       *Registry

	gatherer *prometheus.Registry
	server   *http.Server
	listener net.Listener
}

// NewExporter creates a metrics endpoint for reg at addr
func NewExporter(addr, namespace string, reg *Registry) *Exporter {
	return &Exporter{addr: addr, namespace: namespace, reg: reg}
}

func (e *Exporter) Name() string           { return "metrics" }
func (e *Exporter) Dependencies() []string { return nil }

// Init builds the Prometheus registry with the status collector and Go runtime metrics
func (e *Exporter) Init(...any) error {
	if e.addr == "" {
		return nil
	}
	e.gatherer = prometheus.NewRegistry()
	if err := e.gatherer.Register(NewCollector(e.reg, e.namespace, Counters...)); err != nil {
		return fmt.Errorf("register status collector: %w", err)
	}
	if err := e.gatherer.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("register go collector: %w", err)
	}
	return nil
}

// Start binds the listener synchronously so address errors surface here
func (e *Exporter) Start() error {
	if e.addr == "" || e.gatherer == nil {
		return nil
	}

	ln, err := net.Listen("tcp", e.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", e.addr, err)
	}
	e.listener = ln

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{}))
	e.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := e.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[METRICS] serve: %v", err)
		}
	}()
	log.Printf("[METRICS] serving on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, nil before Start
func (e *Exporter) Addr() net.Addr {
	if e.listener == nil {
		return nil
	}
	return e.listener.Addr()
}

// Stop shuts the server down; idempotent
func (e *Exporter) Stop() error {
	if e.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := e.server.Shutdown(ctx)
	e.server = nil
	e.listener = nil
	if err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	return nil
}
