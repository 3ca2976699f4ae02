// Package monitoring serves metrics, profiles and recorder events.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/giongto35/screen-recorder/pkg/config"
	"github.com/giongto35/screen-recorder/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 5 * time.Second

type Monitoring struct {
	conf   config.Monitoring
	log    *logger.Logger
	server *http.Server
	mux    *http.ServeMux
	events *Events
}

// New creates new monitoring service.
// Metrics are served from the gatherer, nil means the default registry.
func New(conf config.Monitoring, gatherer prometheus.Gatherer, log *logger.Logger) *Monitoring {
	m := &Monitoring{conf: conf, log: log.Component("monitoring")}
	if conf.EventsEnabled {
		m.events = NewEvents(log)
	}
	m.server = &http.Server{Addr: fmt.Sprintf(":%d", conf.Port), ReadHeaderTimeout: readHeaderTimeout}
	m.server.Handler = m.handler(gatherer)
	return m
}

func (m *Monitoring) handler(gatherer prometheus.Gatherer) http.Handler {
	h := http.NewServeMux()
	m.mux = h
	prefix := m.conf.URLPrefix

	if m.conf.ProfilingEnabled {
		pp := prefix + "/debug/pprof"
		m.log.Info().Msgf("profiling is enabled at %v", m.server.Addr+pp)
		h.HandleFunc(pp+"/", pprof.Index)
		h.HandleFunc(pp+"/cmdline", pprof.Cmdline)
		h.HandleFunc(pp+"/profile", pprof.Profile)
		h.HandleFunc(pp+"/symbol", pprof.Symbol)
		h.HandleFunc(pp+"/trace", pprof.Trace)
		// handlers of a custom pprof path have to be explicit
		for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			h.Handle(pp+"/"+name, pprof.Handler(name))
		}
	}

	if m.conf.MetricEnabled {
		path := prefix + "/metrics"
		m.log.Info().Msgf("prometheus metrics are enabled at %v", m.server.Addr+path)
		if gatherer == nil {
			h.Handle(path, promhttp.Handler())
		} else {
			h.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		}
	}

	if m.events != nil {
		path := prefix + "/events"
		m.log.Info().Msgf("recorder events are streamed at %v", m.server.Addr+path)
		h.Handle(path, m.events)
	}
	return h
}

// Events returns the recorder observer of the event stream or nil.
func (m *Monitoring) Events() *Events { return m.events }

func (m *Monitoring) Run() {
	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		m.log.Error().Err(err).Msg("monitoring server")
		return
	}
	m.log.Info().Msgf("starting monitoring server at %v", ln.Addr())
	go func() {
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error().Err(err).Msg("monitoring server")
		}
	}()
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	m.log.Info().Msg("shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
