package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arclabs/arcflow/link"
	"github.com/arclabs/arcflow/types"
	"github.com/arclabs/arcflow/utils"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Claimable payment links",
	}
	cmd.AddCommand(newLinkCreateCmd())
	cmd.AddCommand(newLinkClaimCmd())
	cmd.AddCommand(newLinkHistoryCmd())
	return cmd
}

func newLinkHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List links created by the connected account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Link.History(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No links found in the recent block window.")
				return nil
			}
			for _, r := range records {
				token := app.Tokens.ByAddress(r.Token)
				fmt.Printf("%s  %s %s  hash %s\n",
					r.Creator.Hex(), utils.FormatAmount(r.Amount, token), token.Symbol, r.SecretHash.Hex())
			}
			return nil
		},
	}
	return cmd
}

func newLinkCreateCmd() *cobra.Command {
	var token, amount, secret, baseURL string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Fund a payment link claimable with a secret",
		Long: `Locks tokens against the hash of a secret. Anyone holding the secret
can claim the funds, so share the generated link over a private channel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Link.SetForm(link.Form{
				Token:  types.TokenSymbol(token),
				Amount: amount,
				Secret: secret,
			})

			if err := app.Link.RefreshAllowance(ctx); err != nil {
				return err
			}
			needs, err := app.Link.NeedsApproval()
			if err != nil {
				return err
			}
			if needs {
				heading.Println("Approving", amount, token, "...")
				if _, err := app.Link.Approve(ctx); err != nil {
					return err
				}
				success.Println("Approved.")
			}

			heading.Println("Creating link...")
			receipt, err := app.Link.CreateLink(ctx, baseURL)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			fmt.Println("Claim link:", app.Link.GeneratedLink())
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", string(types.TokenUSDC), "token symbol (USDC, EURC, WETH)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to lock")
	cmd.Flags().StringVar(&secret, "secret", "", "claim secret")
	cmd.Flags().StringVar(&baseURL, "base-url", "https://arcflow.example/claim", "base URL for the claim link")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

func newLinkClaimCmd() *cobra.Command {
	var secret, url string
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim a payment link to the connected account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" && url != "" {
				s, err := link.ParseClaimURL(url)
				if err != nil {
					return err
				}
				secret = s
			}
			if secret == "" {
				return fmt.Errorf("provide --secret or --url")
			}

			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			heading.Println("Claiming link...")
			receipt, err := app.Link.Claim(ctx, secret)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "claim secret")
	cmd.Flags().StringVar(&url, "url", "", "full claim URL containing the secret")
	return cmd
}
