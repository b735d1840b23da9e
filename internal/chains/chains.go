// Package chains holds the static per-network configuration the recovery
// engine iterates over. The list is immutable and injected, never a global
// singleton, so tests can substitute their own networks.
package chains

// Network describes one EVM chain the engine can talk to.
type Network struct {
	ChainID         uint64 `json:"chain_id"`
	Name            string `json:"name"`
	RPCURL          string `json:"rpc_url"`
	ExplorerAPIBase string `json:"explorer_api_base"`
}

// DefaultNetworks returns the built-in network list, most-used chains first.
// The returned slice is a fresh copy; callers may reorder it freely.
func DefaultNetworks() []Network {
	return []Network{
		{ChainID: 1, Name: "Ethereum", RPCURL: "https://ethereum-rpc.publicnode.com", ExplorerAPIBase: "https://api.etherscan.io/api"},
		{ChainID: 56, Name: "BNB Smart Chain", RPCURL: "https://bsc-rpc.publicnode.com", ExplorerAPIBase: "https://api.bscscan.com/api"},
		{ChainID: 137, Name: "Polygon", RPCURL: "https://polygon-bor-rpc.publicnode.com", ExplorerAPIBase: "https://api.polygonscan.com/api"},
		{ChainID: 42161, Name: "Arbitrum One", RPCURL: "https://arbitrum-one-rpc.publicnode.com", ExplorerAPIBase: "https://api.arbiscan.io/api"},
		{ChainID: 8453, Name: "Base", RPCURL: "https://base-rpc.publicnode.com", ExplorerAPIBase: "https://api.basescan.org/api"},
		{ChainID: 10, Name: "Optimism", RPCURL: "https://optimism-rpc.publicnode.com", ExplorerAPIBase: "https://api.optimistic.etherscan.io/api"},
	}
}

// ByChainID finds a network in the list.
func ByChainID(networks []Network, chainID uint64) (Network, bool) {
	for _, n := range networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

// Prioritize returns a copy of networks with the preferred chain moved to the
// front. Order of the remaining networks is preserved. Unknown chain IDs
// leave the order untouched.
func Prioritize(networks []Network, preferredChainID uint64) []Network {
	out := make([]Network, 0, len(networks))
	var preferred *Network
	for i := range networks {
		if networks[i].ChainID == preferredChainID {
			preferred = &networks[i]
			continue
		}
		out = append(out, networks[i])
	}
	if preferred == nil {
		return append([]Network(nil), networks...)
	}
	return append([]Network{*preferred}, out...)
}
