package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/arclabs/arcflow/dca"
	"github.com/arclabs/arcflow/types"
	"github.com/arclabs/arcflow/utils"
)

func newDCACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dca",
		Short: "Dollar-cost-averaging vaults",
	}
	cmd.AddCommand(newDCACreateCmd())
	cmd.AddCommand(newDCAExecuteCmd())
	cmd.AddCommand(newDCAPositionsCmd())
	return cmd
}

func newDCACreateCmd() *cobra.Command {
	var token, deposit, buy, interval string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Fund a vault that buys WETH at a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			app.DCA.SetForm(dca.Form{
				TokenIn:      types.TokenSymbol(token),
				TotalDeposit: deposit,
				BuyAmount:    buy,
				Interval:     interval,
			})

			if err := app.DCA.RefreshAllowance(ctx); err != nil {
				return err
			}
			needs, err := app.DCA.NeedsApproval()
			if err != nil {
				return err
			}
			if needs {
				heading.Println("Approving", deposit, token, "...")
				if _, err := app.DCA.Approve(ctx); err != nil {
					return err
				}
				success.Println("Approved.")
			}

			heading.Println("Creating position...")
			receipt, err := app.DCA.CreatePosition(ctx)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", string(types.TokenUSDCe), "funding token (USDC.e or EURC)")
	cmd.Flags().StringVar(&deposit, "deposit", "", "total amount to deposit")
	cmd.Flags().StringVar(&buy, "buy", "", "amount spent per trade")
	cmd.Flags().StringVar(&interval, "interval", "60", "seconds between trades")
	_ = cmd.MarkFlagRequired("deposit")
	_ = cmd.MarkFlagRequired("buy")
	return cmd
}

func newDCAExecuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute <position-id>",
		Short: "Run one trade of a ready position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := new(big.Int).SetString(args[0], 10)
			if !ok || id.Sign() < 0 {
				return fmt.Errorf("invalid position id %q", args[0])
			}

			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			positions, err := app.DCA.Positions(ctx)
			if err != nil {
				return err
			}
			var pos *types.PositionRecord
			for i := range positions {
				if positions[i].ID.Cmp(id) == 0 {
					pos = &positions[i]
					break
				}
			}
			if pos == nil {
				return fmt.Errorf("position %s not found for this account", id)
			}

			heading.Println("Executing position", id.String(), "...")
			receipt, err := app.DCA.Execute(ctx, *pos, time.Now())
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	return cmd
}

func newDCAPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List the connected account's vault positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			positions, err := app.DCA.Positions(ctx)
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				fmt.Println("No positions.")
				return nil
			}

			now := time.Now()
			for _, pos := range positions {
				in := app.Tokens.ByAddress(pos.TokenIn)
				fmt.Printf("#%s  %s/trade %s  balance %s  every %ss\n",
					pos.ID,
					utils.FormatAmount(pos.AmountPerTrade, in), in.Symbol,
					utils.FormatAmount(pos.TotalBalance, in),
					pos.Interval)
				switch {
				case pos.Finished():
					faint.Println("    finished")
				case pos.IsReady(now):
					success.Println("    ready to execute")
				default:
					warning.Printf("    ready in %ds\n", pos.TimeLeft(now))
				}
			}
			return nil
		},
	}
	return cmd
}
