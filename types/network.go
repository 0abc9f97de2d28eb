package types

import "github.com/ethereum/go-ethereum/common"

// Network identifies the chain a client is wired to. The library targets the
// Arc testnet; the constant set exists so config validation can reject
// anything else instead of silently submitting to the wrong chain.
type Network string

const (
	NetworkArcTestnet Network = "arc-testnet"
)

func (n Network) String() string {
	return string(n)
}

func (n Network) IsTestnet() bool {
	return n == NetworkArcTestnet
}

// ChainConfig is fixed deployment configuration: chain id, endpoints and the
// addresses of the deployed contract suite. Not user-configurable at runtime
// beyond an RPC URL override for local forks.
type ChainConfig struct {
	Network     Network
	ChainID     int64
	RPCUrl      string
	ExplorerURL string

	StreamAddress  common.Address
	LinkAddress    common.Address
	DCAAddress     common.Address
	ProfileAddress common.Address
	SwapAddress    common.Address
}

// ArcTestnet returns the configuration for the Arc testnet deployment.
func ArcTestnet() ChainConfig {
	return ChainConfig{
		Network:     NetworkArcTestnet,
		ChainID:     5042002,
		RPCUrl:      "https://rpc.testnet.arc.network",
		ExplorerURL: "https://testnet.arcscan.app",

		StreamAddress:  common.HexToAddress("0xB6E49f0213c47C6f42F4f9792E7aAf6a604FD524"),
		LinkAddress:    common.HexToAddress("0x52A9b32Bd63b1D7B4b2183e3bd5F6eD40792E83c"),
		DCAAddress:     common.HexToAddress("0xEbbb3e8630D69ab25Cf55A4B78cf94cE9F3d376A"),
		ProfileAddress: common.HexToAddress("0x9C5fE22869b832B31B0BaFBeE30e41d57Bb3E07d"),
		SwapAddress:    common.HexToAddress("0xdaB8B474d6BC63A44e410f8174E796130988F7eD"),
	}
}

// Validate checks the config describes a usable deployment.
func (c ChainConfig) Validate() error {
	if c.ChainID <= 0 {
		return &Error{Code: ErrCodeValidation, Message: "chain id must be positive"}
	}
	if c.RPCUrl == "" {
		return &Error{Code: ErrCodeValidation, Message: "rpc url is required"}
	}
	zero := common.Address{}
	for _, addr := range []common.Address{c.StreamAddress, c.LinkAddress, c.DCAAddress, c.ProfileAddress} {
		if addr == zero {
			return &Error{Code: ErrCodeValidation, Message: "contract address not set"}
		}
	}
	return nil
}

// ExplorerTxURL returns the explorer page for a transaction hash.
func (c ChainConfig) ExplorerTxURL(txHash string) string {
	return c.ExplorerURL + "/tx/" + txHash
}
