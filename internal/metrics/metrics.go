package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"castle/internal/castle"
	"castle/internal/logging"
)

// Exporter turns castle bus events into Prometheus series.
type Exporter struct {
	reg *prometheus.Registry
	log *logging.Logger
	srv *http.Server

	frames      prometheus.Counter
	physics     prometheus.Counter
	transitions *prometheus.CounterVec
	theme       prometheus.Gauge
	frameTime   prometheus.Histogram
	nodes       *prometheus.GaugeVec
}

// NewExporter registers the castle series on a private registry.
func NewExporter() *Exporter {
	e := &Exporter{
		reg: prometheus.NewRegistry(),
		log: logging.For("metrics"),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "castle",
			Name:      "frames_total",
			Help:      "Frames rendered.",
		}),
		physics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "castle",
			Name:      "physics_ticks_total",
			Help:      "Particle physics steps run.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "castle",
			Name:      "theme_transitions_total",
			Help:      "World theme transitions, by destination theme.",
		}, []string{"theme"}),
		theme: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "castle",
			Name:      "current_theme_index",
			Help:      "Index of the active world theme.",
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "castle",
			Name:      "frame_seconds",
			Help:      "Host frame time.",
			Buckets:   []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "castle",
			Name:      "scene_nodes",
			Help:      "Scene graph nodes by kind.",
		}, []string{"kind"}),
	}
	e.reg.MustRegister(e.frames, e.physics, e.transitions, e.theme, e.frameTime, e.nodes)
	return e
}

// Registry exposes the registry for scraping and tests.
func (e *Exporter) Registry() *prometheus.Registry { return e.reg }

// Attach subscribes the exporter to bus.
func (e *Exporter) Attach(bus *castle.EventBus) {
	bus.Subscribe(castle.EventFrame, func(ev castle.Event) {
		e.frames.Inc()
		e.frameTime.Observe(ev.Elapsed.Seconds())
	})
	bus.Subscribe(castle.EventPhysicsTick, func(castle.Event) { e.physics.Inc() })
	bus.Subscribe(castle.EventThemeChanged, func(ev castle.Event) {
		e.transitions.WithLabelValues(ev.Theme).Inc()
		e.theme.Set(float64(ev.To))
	})
}

// ObserveScene records the size of a freshly built scene.
func (e *Exporter) ObserveScene(sc *castle.Scene) {
	kinds := map[string]castle.NodeKind{
		"layer":    castle.NodeLayer,
		"block":    castle.NodeBlock,
		"mesh":     castle.NodeMesh,
		"bridge":   castle.NodeBridge,
		"light":    castle.NodeLight,
		"house":    castle.NodeHouse,
		"lantern":  castle.NodeLantern,
		"particle": castle.NodeParticles,
	}
	for name, k := range kinds {
		e.nodes.WithLabelValues(name).Set(float64(sc.Root.Count(k)))
	}
	e.theme.Set(0)
}

// Serve starts the /metrics endpoint in the background.
func (e *Exporter) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{}))
	e.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.log.Info("serving /metrics on %s", addr)
		if err := e.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.Error("metrics server: %v", err)
		}
	}()
}

// Shutdown stops the endpoint if it was started.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e.srv == nil {
		return nil
	}
	return e.srv.Shutdown(ctx)
}
