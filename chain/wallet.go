package chain

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/arclabs/arcflow/types"
)

// Wallet provides the current account address and the signing capability used
// by the submitter. A wallet may decline to sign; that surfaces as a
// USER_REJECTED error and never reaches the network.
type Wallet interface {
	Address() common.Address
	SignTx(tx *gethtypes.Transaction, chainID *big.Int) (*gethtypes.Transaction, error)
}

// KeyWallet signs with an in-memory secp256k1 key. Testnet use only.
type KeyWallet struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewKeyWallet builds a wallet from a hex-encoded private key, with or
// without the 0x prefix.
func NewKeyWallet(hexKey string) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, types.NewError(types.ErrCodeValidation, "invalid private key", err)
	}
	return &KeyWallet{
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (w *KeyWallet) Address() common.Address {
	return w.addr
}

func (w *KeyWallet) SignTx(tx *gethtypes.Transaction, chainID *big.Int) (*gethtypes.Transaction, error) {
	signer := gethtypes.LatestSignerForChainID(chainID)
	return gethtypes.SignTx(tx, signer, w.key)
}
