// Package arcflow is a client library for the Arc testnet payment contracts:
// streaming payments, claimable payment links, DCA vaults and the soulbound
// identity profile. It bundles a chain backend, per-flow orchestrators and a
// shared confirmation lifecycle behind one constructor.
package arcflow

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arclabs/arcflow/chain"
	"github.com/arclabs/arcflow/dca"
	"github.com/arclabs/arcflow/link"
	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/metrics"
	"github.com/arclabs/arcflow/profile"
	"github.com/arclabs/arcflow/stream"
	"github.com/arclabs/arcflow/types"
)

// ArcFlow aggregates the chain client and the four flow orchestrators.
// Each orchestrator carries its own confirmation watcher, so the flows can
// run transactions independently while each one stays single-flight.
type ArcFlow struct {
	cfg          types.ChainConfig
	log          logger.Logger
	metrics      metrics.Recorder
	pollInterval time.Duration
	dialTimeout  time.Duration
	privateKey   string

	client  *chain.Client
	account common.Address

	Tokens  *types.Registry
	Stream  *stream.Service
	Link    *link.Service
	DCA     *dca.Service
	Profile *profile.Service
}

// New dials the configured RPC endpoint, verifies the chain id and wires the
// orchestrators. Without WithPrivateKey the instance is read-only.
func New(ctx context.Context, opts ...Option) (*ArcFlow, error) {
	a := &ArcFlow{
		cfg:          types.ArcTestnet(),
		log:          logger.NoopLogger{},
		metrics:      metrics.NoopRecorder{},
		pollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}

	var wallet chain.Wallet
	if a.privateKey != "" {
		kw, err := chain.NewKeyWallet(a.privateKey)
		if err != nil {
			return nil, err
		}
		wallet = kw
		a.account = kw.Address()
	}

	dialCtx := ctx
	if a.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, a.dialTimeout)
		defer cancel()
	}
	client, err := chain.NewClient(dialCtx, a.cfg, wallet, a.log, a.metrics)
	if err != nil {
		return nil, err
	}
	a.client = client

	tokens := types.ArcTokens()
	a.Tokens = tokens

	a.Stream = stream.NewService(client, chain.NewWatcher(client, a.pollInterval), a.account, a.cfg, tokens, a.log)
	a.Link = link.NewService(client, chain.NewWatcher(client, a.pollInterval), a.account, a.cfg, tokens, a.log)
	a.DCA = dca.NewService(client, chain.NewWatcher(client, a.pollInterval), a.account, a.cfg, tokens, a.log)
	a.Profile = profile.NewService(client, chain.NewWatcher(client, a.pollInterval), a.account, a.cfg, a.log)
	return a, nil
}

// Account returns the connected signer address, the zero address in
// read-only mode.
func (a *ArcFlow) Account() common.Address {
	return a.account
}

// CanSign reports whether a signing key is attached.
func (a *ArcFlow) CanSign() bool {
	return a.account != (common.Address{})
}

// Config returns the active chain configuration.
func (a *ArcFlow) Config() types.ChainConfig {
	return a.cfg
}

// Client exposes the underlying chain backend for callers that need raw
// reads or custom transactions.
func (a *ArcFlow) Client() *chain.Client {
	return a.client
}

// Close releases the RPC connection.
func (a *ArcFlow) Close() {
	a.client.Close()
}
