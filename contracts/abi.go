// Package contracts declares the ABI fragments for the deployed Arc testnet
// contract suite. Each fragment covers exactly the functions and events the
// client consumes; a mismatch with the deployed interface fails at call time
// with a decoding error.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("contracts: bad embedded ABI: " + err.Error())
	}
	return parsed
}

var (
	ERC20   = mustParse(erc20ABI)
	Stream  = mustParse(streamABI)
	Link    = mustParse(linkABI)
	DCA     = mustParse(dcaABI)
	Profile = mustParse(profileABI)
)
