package angle

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"angleYield/internal/model"
)

const (
	// Project is the project slug attached to every pool.
	Project = "angle"

	tightRangeLabel = "ANGLE - Tight range (+- 1%)"
)

var (
	// ErrMissingName is returned when a live record has no display name.
	ErrMissingName = errors.New("missing name")
	// ErrMissingAPRDetails is returned when apr has neither a value nor details.
	ErrMissingAPRDetails = errors.New("apr has no value and no details")
)

// Stats counts how records were handled in one normalization pass.
type Stats struct {
	Total        int
	Emitted      int
	Deprecated   int
	UnknownChain int
}

// Normalizer maps raw incentive records to canonical pools.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize is a convenience wrapper around a silent Normalizer.
func Normalize(raw map[string]model.IncentiveRecord) ([]model.Pool, error) {
	pools, _, err := NewNormalizer(nil).Normalize(raw)
	return pools, err
}

// Normalize builds one pool per live record and drops pools on unknown chains.
// Gauge keys are visited in sorted order. Any malformed record fails the whole pass.
func (n *Normalizer) Normalize(raw map[string]model.IncentiveRecord) ([]model.Pool, Stats, error) {
	stats := Stats{Total: len(raw)}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pools := make([]model.Pool, 0, len(raw))
	for _, gauge := range keys {
		record := raw[gauge]
		if record.Deprecated {
			stats.Deprecated++
			n.logger.Debug("skip deprecated", zap.String("gauge", gauge))
			continue
		}

		pool, err := buildPool(record)
		if err != nil {
			return nil, stats, fmt.Errorf("gauge %s: %w", gauge, err)
		}
		pools = append(pools, pool)
	}

	published := pools[:0]
	for _, pool := range pools {
		if pool.Chain == ChainOther {
			stats.UnknownChain++
			n.logger.Debug("skip unknown chain", zap.String("pool", pool.Pool))
			continue
		}
		published = append(published, pool)
	}
	stats.Emitted = len(published)

	n.logger.Info("normalize complete",
		zap.Int("total", stats.Total),
		zap.Int("emitted", stats.Emitted),
		zap.Int("deprecated", stats.Deprecated),
		zap.Int("unknown_chain", stats.UnknownChain),
	)

	return published, stats, nil
}

func buildPool(record model.IncentiveRecord) (model.Pool, error) {
	if record.Name == nil {
		return model.Pool{}, ErrMissingName
	}

	apy, err := baseAPY(record.APR)
	if err != nil {
		return model.Pool{}, err
	}

	var tvl float64
	if record.TVL != nil {
		tvl = *record.TVL
	}

	return model.Pool{
		Pool:    PoolID(record.Address),
		Chain:   ChainName(record.Network),
		Project: Project,
		Symbol:  DeriveSymbol(*record.Name),
		TVLUSD:  tvl,
		APYBase: apy,
		Address: record.Address,
	}, nil
}

// PoolID returns the published identifier for a staking address.
func PoolID(address string) string {
	return address + "-" + Project
}

// baseAPY prefers a non-zero flat value, then the tight range strategy.
func baseAPY(apr *model.APR) (float64, error) {
	if apr == nil {
		return 0, nil
	}
	if apr.Value != nil && *apr.Value != 0 {
		return *apr.Value, nil
	}
	if apr.Details == nil {
		return 0, ErrMissingAPRDetails
	}
	return apr.Details[tightRangeLabel], nil
}
