package angle

// ChainOther marks a network id with no known chain name. Pools on it are never published.
const ChainOther = "Other"

var networks = map[int64]string{
	1:      "Ethereum",
	137:    "Polygon",
	501404: "Solana",
	122:    "Fuse",
	250:    "Fantom",
}

// ChainName resolves a provider network id to a chain name, or ChainOther.
func ChainName(network int64) string {
	if name, ok := networks[network]; ok {
		return name
	}
	return ChainOther
}
