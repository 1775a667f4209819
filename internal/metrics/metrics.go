// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	requestAttemptsTotal *prometheus.CounterVec
	pagesTotal           *prometheus.CounterVec
	assetsTotal          *prometheus.CounterVec
	productsTotal        *prometheus.CounterVec
	refsDiscovered       prometheus.Gauge

	once sync.Once
)

// Init registers the collectors. It is safe to call multiple times.
func Init() {
	once.Do(func() {
		requestAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_request_attempts_total",
				Help: "Upstream request attempts, labeled by target kind (page, image, manual, cad).",
			},
			[]string{"kind"},
		)

		pagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_pages_total",
				Help: "Detail page fetches, labeled by result (fetched, dropped).",
			},
			[]string{"result"},
		)

		assetsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_assets_total",
				Help: "Asset downloads, labeled by kind and result (saved, not_found, failed, skipped).",
			},
			[]string{"kind", "result"},
		)

		productsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_products_total",
				Help: "Product records, labeled by result (persisted, malformed, persist_failed).",
			},
			[]string{"result"},
		)

		refsDiscovered = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvester_refs_discovered",
				Help: "Product references collected by the last pagination pass.",
			},
		)
	})
}

func ObserveAttempts(kind string, attempts int) {
	Init()
	requestAttemptsTotal.WithLabelValues(kind).Add(float64(attempts))
}

func ObservePage(result string) {
	Init()
	pagesTotal.WithLabelValues(result).Inc()
}

func ObserveAsset(kind, result string) {
	Init()
	assetsTotal.WithLabelValues(kind, result).Inc()
}

func ObserveProduct(result string) {
	Init()
	productsTotal.WithLabelValues(result).Inc()
}

func SetDiscovered(n int) {
	Init()
	refsDiscovered.Set(float64(n))
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infof("📈 Serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
