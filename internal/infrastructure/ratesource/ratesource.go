// Package ratesource fetches the DZD rate table from a public exchange-rate
// API and falls back to a fixed table when that fails.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/metrics"
	"esekoir/pkg/logger"
)

// apiResponse is the subset of the open.er-api.com payload we read.
type apiResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

type Fetcher struct {
	url     string
	client  *http.Client
	group   singleflight.Group
	metrics *metrics.Metrics
}

func New(url string, timeout time.Duration, m *metrics.Metrics) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Fetcher{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
	}
}

type result struct {
	table  entity.RateTable
	source entity.RateSource
}

// Fetch returns the live table or, on any failure, a copy of the fallback
// table. It never fails. Concurrent callers share one request.
func (f *Fetcher) Fetch(ctx context.Context) (entity.RateTable, entity.RateSource) {
	v, _, _ := f.group.Do("rates", func() (interface{}, error) {
		// The flight is shared; only the client timeout bounds it.
		table, err := f.fetchLive(context.WithoutCancel(ctx))
		if err != nil {
			logger.Warn("[rates] live fetch failed, serving fallback: %v", err)
			f.metrics.RateFetches.WithLabelValues(string(entity.RateSourceFallback)).Inc()
			return result{table: Fallback(), source: entity.RateSourceFallback}, nil
		}
		f.metrics.RateFetches.WithLabelValues(string(entity.RateSourceLive)).Inc()
		return result{table: table, source: entity.RateSourceLive}, nil
	})
	r := v.(result)
	return r.table, r.source
}

func (f *Fetcher) fetchLive(ctx context.Context) (entity.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rate api returned %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rate api response: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("rate api result %q", body.Result)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate api returned no rates")
	}
	return entity.RateTable(body.Rates), nil
}

// Fallback returns a fresh copy of the fixed rate table.
func Fallback() entity.RateTable {
	t := make(entity.RateTable, len(service.FallbackRates))
	for k, v := range service.FallbackRates {
		t[k] = v
	}
	return t
}
