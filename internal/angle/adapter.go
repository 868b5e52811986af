package angle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"angleYield/internal/model"
)

const (
	// IncentivesEndpoint serves the raw incentive records keyed by gauge address.
	IncentivesEndpoint = "https://api.angle.money//v1/incentives"
	// AppURL is the provider page shown next to the pools.
	AppURL = "https://app.angle.money/#/earn"
)

// Fetcher supplies one raw incentives snapshot.
type Fetcher interface {
	FetchIncentives(ctx context.Context) (map[string]model.IncentiveRecord, error)
}

// Adapter exposes the provider to the yield registry.
type Adapter struct {
	// Timetravel reports whether historical snapshots can be queried. Always false.
	Timetravel bool
	URL        string

	fetcher    Fetcher
	normalizer *Normalizer
}

func NewAdapter(fetcher Fetcher, logger *zap.Logger) *Adapter {
	return &Adapter{
		Timetravel: false,
		URL:        AppURL,
		fetcher:    fetcher,
		normalizer: NewNormalizer(logger),
	}
}

// APY fetches the current snapshot and returns the publishable pools.
func (a *Adapter) APY(ctx context.Context) ([]model.Pool, error) {
	pools, _, err := a.Collect(ctx)
	return pools, err
}

// Collect is APY plus the per-pass counters.
func (a *Adapter) Collect(ctx context.Context) ([]model.Pool, Stats, error) {
	if a.fetcher == nil {
		return nil, Stats{}, fmt.Errorf("fetcher is nil")
	}

	raw, err := a.fetcher.FetchIncentives(ctx)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("fetch incentives: %w", err)
	}

	return a.normalizer.Normalize(raw)
}
