package main

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arclabs/arcflow"
	"github.com/arclabs/arcflow/logger"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

const defaultTimeout = 3 * time.Minute

var errNoKey = errors.New("a private key is required: set --key or ARCFLOW_PRIVATE_KEY")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arcflow",
		Short: "Arc testnet payment flows: streams, links, DCA vaults and profiles",
		Long: `arcflow drives the Arc testnet payment contracts from the command line.

Signing commands need a private key, read from --key or the
ARCFLOW_PRIVATE_KEY environment variable. Transactions cannot be undone
once signed.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("rpc", "", "RPC endpoint override")
	cmd.PersistentFlags().String("key", "", "hex private key (env ARCFLOW_PRIVATE_KEY)")
	cmd.PersistentFlags().Duration("poll-interval", 2*time.Second, "confirmation polling interval")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	viper.SetEnvPrefix("ARCFLOW")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("rpc", cmd.PersistentFlags().Lookup("rpc"))
	_ = viper.BindPFlag("private_key", cmd.PersistentFlags().Lookup("key"))
	_ = viper.BindPFlag("poll_interval", cmd.PersistentFlags().Lookup("poll-interval"))
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newStreamCmd())
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newDCACmd())
	cmd.AddCommand(newProfileCmd())
	return cmd
}

// connect builds an ArcFlow instance from flags and environment. Commands
// that sign pass needKey to fail fast before any network work.
func connect(ctx context.Context, needKey bool) (*arcflow.ArcFlow, error) {
	var log logger.Logger = logger.NoopLogger{}
	if viper.GetBool("verbose") {
		log = logger.NewZapLogger("debug")
	}

	key := viper.GetString("private_key")
	if needKey && key == "" {
		return nil, errNoKey
	}

	opts := []arcflow.Option{
		arcflow.WithLogger(log),
		arcflow.WithRPCURL(viper.GetString("rpc")),
		arcflow.WithPollInterval(viper.GetDuration("poll_interval")),
	}
	if key != "" {
		opts = append(opts, arcflow.WithPrivateKey(key))
	}
	return arcflow.New(ctx, opts...)
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultTimeout)
}

func printTx(app *arcflow.ArcFlow, hash string) {
	success.Println("Confirmed:", hash)
	faint.Println("  " + app.Config().ExplorerTxURL(hash))
}
