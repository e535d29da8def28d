package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	StageInitializing = iota + 1
	StageServing
)

func fqn(name string) string {
	return prometheus.BuildFQName("ordshop", "trainer_minter", name)
}

var (
	Version = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: fqn("version"),
			Help: "Service version number",
		},
		[]string{"version"},
	)

	Stage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: fqn("stage"),
		Help: "Service stage (e.g. initializing, serving)",
	})

	WalletCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fqn("wallet_call_duration"),
			Help:    "Duration of wallet bridge calls",
			Buckets: []float64{0.02, 0.05, 0.1, 0.2, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	CurrentHalfHourFee = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: fqn("current_half_hour_fee"),
		Help: "Latest half-hour fee tier in sat/vB",
	})

	MintAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fqn("mint_attempts_total"),
			Help: "Mint attempts by final status",
		},
		[]string{"status"},
	)

	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fqn("http_duration"),
			Help:    "HTTP request duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 5, 15},
		},
		[]string{"method", "path", "status"},
	)
)

func ObserveWalletCall(op string, started time.Time) {
	WalletCallDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func HTTP(c *gin.Context) {
	started := time.Now()

	c.Next()

	HttpDuration.WithLabelValues(
		c.Request.Method,
		c.Request.URL.Path,
		strconv.Itoa(c.Writer.Status()),
	).Observe(time.Since(started).Seconds())
}

func init() {
	prometheus.MustRegister(
		Version,
		Stage,
		WalletCallDuration,
		CurrentHalfHourFee,
		MintAttempts,
		HttpDuration,
	)
}

func ListenAndServe(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := (&http.Server{Addr: addr, Handler: mux}).ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
