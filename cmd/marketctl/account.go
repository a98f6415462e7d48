package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fetch"
)

func (c *cli) earningsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "earnings", Short: "Balances, earnings and payouts"}

	var amount string
	in := domain.PayoutInput{}
	payout := &cobra.Command{
		Use:   "payout",
		Short: "Request a payout from the available balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Amount, err = decimal.NewFromString(amount); err != nil {
				return errors.New("--amount must be a number")
			}
			v, err := c.app.Services.Earnings.RequestPayout(cmd.Context(), in)
			return printWrite(c, v, err)
		},
	}
	payout.Flags().StringVar(&amount, "amount", "", "amount to pay out")
	payout.Flags().StringVar(&in.Method, "method", "bank_transfer", "bank_transfer or mobile_money")
	_ = payout.MarkFlagRequired("amount")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "summary",
			Short: "Show balances",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r := c.app.EarningsSummary(fetch.Options[domain.EarningsSummary]{Enabled: true, Logger: c.logger})
				defer r.Close()
				r.Mount(cmd.Context())
				state := r.State()
				if state.Error != "" {
					return errors.New(state.Error)
				}
				return c.print(state.Data)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List earning records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.print(c.app.Services.Earnings.List(cmd.Context()))
			},
		},
		payout,
	)
	return cmd
}

func (c *cli) deliveriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "deliveries", Short: "Courier delivery jobs"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List deliveries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(c.app.Services.Deliveries.List(cmd.Context(), status))
		},
	}
	list.Flags().StringVar(&status, "status", "", "available, accepted, picked_up or completed")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "accept <unique-id>",
			Short: "Take an available delivery",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.Deliveries.Accept(cmd.Context(), args[0])
				return printWrite(c, v, err)
			},
		},
		&cobra.Command{
			Use:   "pickup <unique-id>",
			Short: "Mark a delivery as picked up",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.Deliveries.PickUp(cmd.Context(), args[0])
				return printWrite(c, v, err)
			},
		},
		&cobra.Command{
			Use:   "complete <unique-id>",
			Short: "Mark a delivery as delivered",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.Deliveries.Complete(cmd.Context(), args[0])
				return printWrite(c, v, err)
			},
		},
	)
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Your account"}

	var in domain.ProfileInput
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := c.app.Services.Profile.Update(cmd.Context(), in)
			return printWrite(c, v, err)
		},
	}
	update.Flags().StringVar(&in.Name, "name", "", "display name")
	update.Flags().StringVar(&in.Email, "email", "", "email address")
	update.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	update.Flags().StringVar(&in.Address, "address", "", "postal address")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printOne(c, "profile", "me", c.app.Services.Profile.Get(cmd.Context()))
			},
		},
		update,
		&cobra.Command{
			Use:   "verifications",
			Short: "List your verification submissions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.print(c.app.Services.Verifications.List(cmd.Context()))
			},
		},
	)
	return cmd
}

func (c *cli) dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "dashboard", Short: "Role dashboards"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "seller",
			Short: "Products, incoming orders, harvest requests and balances",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d, err := c.app.Dashboards.Seller(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(d)
			},
		},
		&cobra.Command{
			Use:   "courier",
			Short: "Deliveries, balances and verification status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d, err := c.app.Dashboards.Courier(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(d)
			},
		},
	)
	return cmd
}
