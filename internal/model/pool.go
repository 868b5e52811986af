package model

// Pool is the canonical yield pool record published to the aggregator.
type Pool struct {
	Pool    string  `json:"pool"`
	Chain   string  `json:"chain"`
	Project string  `json:"project"`
	Symbol  string  `json:"symbol"`
	TVLUSD  float64 `json:"tvlUsd"`
	APYBase float64 `json:"apyBase"`

	// Address is the staking contract address the pool id was built from.
	Address string `json:"-"`
}
