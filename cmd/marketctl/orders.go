package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fetch"
	"github.com/localharvest/marketclient/internal/resource"
)

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Track and manage orders"}

	var filter resource.OrderFilter
	var all, incoming bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			switch {
			case incoming:
				return c.print(c.app.Services.Orders.ListIncoming(ctx, filter))
			case all:
				p := c.app.OrderPager(filter.Status, fetch.Options[[]domain.Order]{Enabled: true})
				defer p.Close()
				p.Mount(ctx)
				for p.LoadMore(ctx) {
				}
				state := p.State()
				if state.Error != "" {
					return errors.New(state.Error)
				}
				return c.print(state.Data)
			default:
				return c.print(c.app.Services.Orders.List(ctx, filter))
			}
		},
	}
	list.Flags().StringVar(&filter.Status, "status", "", "order status")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 0, "page size")
	list.Flags().BoolVar(&all, "all", false, "follow every page")
	list.Flags().BoolVar(&incoming, "incoming", false, "list orders placed with the signed-in seller")
	list.MarkFlagsMutuallyExclusive("all", "incoming")

	var reason string
	cancel := &cobra.Command{
		Use:   "cancel <unique-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.Services.Orders.Cancel(cmd.Context(), args[0], reason)
			return printWrite(c, v, err)
		},
	}
	cancel.Flags().StringVar(&reason, "reason", "", "why the order is canceled")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "get <unique-id>",
			Short: "Show one order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printOne(c, "order", args[0], c.app.Services.Orders.Get(cmd.Context(), args[0]))
			},
		},
		cancel,
		&cobra.Command{
			Use:       "advance <unique-id> <status>",
			Short:     "Move an incoming order to its next status",
			Args:      cobra.ExactArgs(2),
			ValidArgs: domain.ValidOrderStatuses(),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.Orders.UpdateStatus(cmd.Context(), args[0], args[1])
				return printWrite(c, v, err)
			},
		},
	)
	return cmd
}

func (c *cli) harvestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "harvest", Short: "Request and answer harvest requests"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List harvest requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(c.app.Services.HarvestRequests.List(cmd.Context(), status))
		},
	}
	list.Flags().StringVar(&status, "status", "", "request status")

	var in domain.HarvestRequestInput
	var quantity, price string
	create := &cobra.Command{
		Use:   "create",
		Short: "Send a harvest request to a seller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Quantity, err = decimal.NewFromString(quantity); err != nil {
				return errors.New("--quantity must be a number")
			}
			if in.OfferedPrice, err = decimal.NewFromString(price); err != nil {
				return errors.New("--price must be a number")
			}
			v, err := c.app.Services.HarvestRequests.Create(cmd.Context(), in)
			return printWrite(c, v, err)
		},
	}
	create.Flags().Int64Var(&in.SellerID, "seller", 0, "seller id")
	create.Flags().StringVar(&in.ProductName, "product", "", "product to harvest")
	create.Flags().StringVar(&quantity, "quantity", "0", "quantity")
	create.Flags().StringVar(&in.Unit, "unit", "", "unit of the quantity")
	create.Flags().StringVar(&price, "price", "0", "offered price per unit")
	create.Flags().StringVar(&in.HarvestDate, "date", "", "harvest date (YYYY-MM-DD)")
	create.Flags().StringVar(&in.Notes, "notes", "", "notes for the seller")

	var reason string
	reject := &cobra.Command{
		Use:   "reject <unique-id>",
		Short: "Turn down a harvest request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.Services.HarvestRequests.Reject(cmd.Context(), args[0], reason)
			return printWrite(c, v, err)
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "why the request is rejected")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "get <unique-id>",
			Short: "Show one harvest request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printOne(c, "harvest request", args[0], c.app.Services.HarvestRequests.Get(cmd.Context(), args[0]))
			},
		},
		create,
		&cobra.Command{
			Use:   "submit <unique-id>",
			Short: "Report a harvest request as harvested",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.HarvestRequests.Submit(cmd.Context(), args[0])
				return printWrite(c, v, err)
			},
		},
		&cobra.Command{
			Use:   "accept <unique-id>",
			Short: "Accept a harvest request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.app.Services.HarvestRequests.Accept(cmd.Context(), args[0])
				return printWrite(c, v, err)
			},
		},
		reject,
		&cobra.Command{
			Use:   "withdraw <unique-id>",
			Short: "Delete a harvest request you sent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Services.HarvestRequests.Delete(cmd.Context(), args[0]); err != nil {
					return errReported
				}
				return nil
			},
		},
	)
	return cmd
}
