package main

import (
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/arclabs/arcflow/stream"
	"github.com/arclabs/arcflow/types"
	"github.com/arclabs/arcflow/utils"
)

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Streaming payments",
	}
	cmd.AddCommand(newStreamCreateCmd())
	cmd.AddCommand(newStreamWithdrawCmd())
	cmd.AddCommand(newStreamBalanceCmd())
	cmd.AddCommand(newStreamWatchCmd())
	cmd.AddCommand(newStreamHistoryCmd())
	return cmd
}

func newStreamCreateCmd() *cobra.Command {
	var recipient, amount, duration string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a stream paying USDC to a recipient over a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// fail fast on a bad recipient before dialing anything
			if err := utils.ValidateAddress(recipient); err != nil {
				return err
			}

			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Stream.SetForm(stream.Form{
				Recipient: recipient,
				Amount:    amount,
				Duration:  duration,
			})
			heading.Println("Creating stream...")
			receipt, err := app.Stream.CreateStream(ctx)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&recipient, "to", "", "recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "total USDC to stream")
	cmd.Flags().StringVar(&duration, "duration", "", "stream length in seconds")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newStreamWithdrawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw <stream-id>",
		Short: "Withdraw the claimable balance of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStreamID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			heading.Println("Withdrawing from stream", id.String(), "...")
			receipt, err := app.Stream.Withdraw(ctx, id)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	return cmd
}

func newStreamBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <stream-id>",
		Short: "Show the claimable balance of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStreamID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			balance, err := app.Stream.ClaimableBalance(ctx, id)
			if err != nil {
				return err
			}
			native, _ := app.Tokens.BySymbol(types.TokenUSDC)
			fmt.Printf("Stream %s: %s USDC claimable\n", id, utils.FormatAmount(balance, native))
			return nil
		},
	}
	return cmd
}

func newStreamWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch <stream-id>",
		Short: "Poll the claimable balance until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStreamID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			native, _ := app.Tokens.BySymbol(types.TokenUSDC)
			heading.Println("Watching stream", id.String(), "(ctrl-c to stop)")
			poller := app.Stream.WatchClaimable(id, interval, func(balance *big.Int, err error) {
				if err != nil {
					warning.Println("read failed:", err)
					return
				}
				fmt.Printf("%s  %s USDC claimable\n", time.Now().Format(time.TimeOnly), utils.FormatAmount(balance, native))
			})
			defer poller.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			<-sig
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "polling interval")
	return cmd
}

func newStreamHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List streams created by the connected account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Stream.History(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No streams found in the recent block window.")
				return nil
			}
			native, _ := app.Tokens.BySymbol(types.TokenUSDC)
			for _, r := range records {
				fmt.Printf("#%s  to %s  %s USDC over %ss\n",
					r.StreamID, r.Recipient.Hex(), utils.FormatAmount(r.Deposit, native), r.Duration)
				if r.StartTime != nil {
					faint.Printf("    started %s\n", time.Unix(r.StartTime.Int64(), 0).Format(time.RFC822))
				}
			}
			return nil
		},
	}
	return cmd
}

func parseStreamID(raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid stream id %q", raw)
	}
	return id, nil
}
