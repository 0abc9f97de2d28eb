package arcflow

import (
	"time"

	"github.com/arclabs/arcflow/logger"
	"github.com/arclabs/arcflow/metrics"
	"github.com/arclabs/arcflow/types"
)

// Option configures an ArcFlow instance.
type Option func(*ArcFlow)

// WithLogger sets the logger used by the client and all orchestrators.
func WithLogger(log logger.Logger) Option {
	return func(a *ArcFlow) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(a *ArcFlow) {
		if rec != nil {
			a.metrics = rec
		}
	}
}

// WithChainConfig overrides the default Arc testnet configuration, for
// example to point at a local fork.
func WithChainConfig(cfg types.ChainConfig) Option {
	return func(a *ArcFlow) {
		a.cfg = cfg
	}
}

// WithRPCURL overrides only the RPC endpoint of the chain configuration.
func WithRPCURL(url string) Option {
	return func(a *ArcFlow) {
		if url != "" {
			a.cfg.RPCUrl = url
		}
	}
}

// WithTimeout bounds the initial RPC dial and chain-id check.
func WithTimeout(timeout time.Duration) Option {
	return func(a *ArcFlow) {
		if timeout > 0 {
			a.dialTimeout = timeout
		}
	}
}

// WithPollInterval sets the confirmation-watcher polling interval.
func WithPollInterval(interval time.Duration) Option {
	return func(a *ArcFlow) {
		if interval > 0 {
			a.pollInterval = interval
		}
	}
}

// WithPrivateKey attaches a signing key. Without one, only read operations
// are available.
func WithPrivateKey(hexKey string) Option {
	return func(a *ArcFlow) {
		a.privateKey = hexKey
	}
}
