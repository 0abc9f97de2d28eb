package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arclabs/arcflow/profile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Soulbound identity profile",
	}
	cmd.AddCommand(newProfileMintCmd())
	cmd.AddCommand(newProfileShowCmd())
	return cmd
}

func newProfileMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint the profile token for the connected account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			heading.Println("Minting profile...")
			receipt, err := app.Profile.MintProfile(ctx)
			if err != nil {
				return err
			}
			printTx(app, receipt.TxHash.Hex())
			return nil
		},
	}
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show level, XP, badges and milestone progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()
			app, err := connect(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			record, err := app.Profile.Refresh(ctx)
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Println("No profile minted. Run: arcflow profile mint")
				return nil
			}

			heading.Println("Profile", record.Owner.Hex())
			fmt.Printf("Level %s  %s XP (%d%% to next level, %s XP needed)\n",
				record.Level, record.XP,
				profile.XPProgress(*record), profile.XPForNextLevel(*record))

			fmt.Println("Badges:")
			for i, earned := range record.Badges {
				name := fmt.Sprintf("Badge %d", i)
				if i < len(profile.BadgeNames) {
					name = profile.BadgeNames[i]
				}
				if earned {
					success.Println("  [x]", name)
				} else {
					faint.Println("  [ ]", name)
				}
			}

			fmt.Println("Milestones:")
			for _, tier := range profile.DemoUnlocks(*record) {
				if tier.Unlocked {
					success.Println("  [x]", tier.Name)
				} else {
					faint.Printf("  [ ] %s (%d XP to go)\n", tier.Name, tier.XPMissing)
				}
			}
			return nil
		},
	}
	return cmd
}
