package fees

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultAdvisorURL = "https://mempool.space/api/v1/fees/recommended"

// FeeRates is one snapshot of the advisor's fee tiers in sat/vB.
type FeeRates struct {
	FastestFee  int `json:"fastestFee"`
	HalfHourFee int `json:"halfHourFee"`
	HourFee     int `json:"hourFee"`
	EconomyFee  int `json:"economyFee"`
	MinimumFee  int `json:"minimumFee"`
}

// DefaultRates is served whenever the advisor is unreachable so that the
// caller is never blocked on a fee lookup.
var DefaultRates = FeeRates{
	FastestFee:  20,
	HalfHourFee: 10,
	HourFee:     5,
	EconomyFee:  2,
	MinimumFee:  1,
}

type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultAdvisorURL
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchFeeRates returns the advisor's current tiers. It never fails the
// caller: a transport or parse error yields DefaultRates, and an individual
// missing or zero field falls back to its own default only.
func (c *Client) FetchFeeRates(ctx context.Context) FeeRates {
	rates, err := c.fetch(ctx)
	if err != nil {
		return DefaultRates
	}
	return rates
}

// fetch distinguishes a failed lookup from default tiers so the poller can
// keep its last-known snapshot on failure.
func (c *Client) fetch(ctx context.Context) (FeeRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return FeeRates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("failed to fetch fee rates: %v", err)
		return FeeRates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("failed to fetch fee rates: status %d", resp.StatusCode)
		return FeeRates{}, fmt.Errorf("fee advisor returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FeeRates{}, err
	}

	var raw struct {
		FastestFee  float64 `json:"fastestFee"`
		HalfHourFee float64 `json:"halfHourFee"`
		HourFee     float64 `json:"hourFee"`
		EconomyFee  float64 `json:"economyFee"`
		MinimumFee  float64 `json:"minimumFee"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Warnf("failed to parse fee rates: %v", err)
		return FeeRates{}, err
	}

	return FeeRates{
		FastestFee:  roundOr(raw.FastestFee, DefaultRates.FastestFee),
		HalfHourFee: roundOr(raw.HalfHourFee, DefaultRates.HalfHourFee),
		HourFee:     roundOr(raw.HourFee, DefaultRates.HourFee),
		EconomyFee:  roundOr(raw.EconomyFee, DefaultRates.EconomyFee),
		MinimumFee:  roundOr(raw.MinimumFee, DefaultRates.MinimumFee),
	}, nil
}

func roundOr(v float64, fallback int) int {
	r := int(math.Round(v))
	if r == 0 {
		return fallback
	}
	return r
}
