package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil/promlint"
	prompb "github.com/prometheus/client_model/go"
)

func TestMetrics(t *testing.T) {
	const (
		elapsed      = 100 * time.Millisecond
		trainersPath = "/api/trainers"
		metricsPath  = "/metrics"
	)

	ObserveWalletCall("unisat.sendBitcoin", time.Now().Add(-elapsed))
	MintAttempts.WithLabelValues("completed").Inc()

	g := gin.New()
	g.Use(HTTP)
	g.GET(trainersPath, func(*gin.Context) { time.Sleep(elapsed) })
	g.GET(metricsPath, gin.WrapH(promhttp.Handler()))

	testServer := httptest.NewServer(g.Handler())

	rsp, err := testServer.Client().Get(testServer.URL + trainersPath)
	if err != nil {
		t.Fatal(err)
	}
	_ = rsp.Body.Close()

	if rsp, err = testServer.Client().Get(testServer.URL + metricsPath); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rsp.Body.Close() }()

	l := promlint.New(rsp.Body)
	l.AddCustomValidations(func(mf *prompb.MetricFamily) []error {
		switch mf.GetName() {
		case fqn("wallet_call_duration"):
			metric := mf.GetMetric()[0]
			if v := *metric.Label[0].Value; v != "unisat.sendBitcoin" {
				t.Fatal(v)
			}
			if count := *metric.Histogram.SampleCount; count != 1 {
				t.Fatal(count)
			}
			if sum := time.Duration(*metric.Histogram.SampleSum * float64(time.Second)); sum < elapsed {
				t.Fatal(sum)
			}
		case fqn("mint_attempts_total"):
			metric := mf.GetMetric()[0]
			if v := *metric.Label[0].Value; v != "completed" {
				t.Fatal(v)
			}
			if v := *metric.Counter.Value; v != 1 {
				t.Fatal(v)
			}
		case fqn("http_duration"):
			for _, metric := range mf.GetMetric() {
				if *metric.Label[1].Value == metricsPath {
					continue
				}
				if sum := time.Duration(*metric.Histogram.SampleSum * float64(time.Second)); sum <= elapsed {
					t.Fatal(sum)
				}
				if count := *metric.Histogram.SampleCount; count != 1 {
					t.Fatal(count)
				}
				if v := *metric.Label[0].Value; v != http.MethodGet {
					t.Fatal(v)
				}
				if v := *metric.Label[1].Value; v != trainersPath {
					t.Fatal(v)
				}
				if v := *metric.Label[2].Value; v != "200" {
					t.Fatal(v)
				}
			}
		}
		return nil
	})
	if problems, err := l.Lint(); err != nil || len(problems) != 0 {
		t.Fatal(problems, err)
	}
}
