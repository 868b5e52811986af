package model

// IncentiveRecord is one entry of the provider incentives payload, keyed by gauge address.
// Optional fields are pointers so absent and zero can be told apart.
type IncentiveRecord struct {
	Address    string   `json:"address"`
	Network    int64    `json:"network"`
	Name       *string  `json:"name"`
	Deprecated bool     `json:"deprecated"`
	TVL        *float64 `json:"tvl,omitempty"`
	APR        *APR     `json:"apr,omitempty"`
}

// APR carries either a flat value or a per-strategy breakdown.
type APR struct {
	Value   *float64           `json:"value,omitempty"`
	Details map[string]float64 `json:"details,omitempty"`
}
