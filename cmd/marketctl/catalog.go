package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fetch"
	"github.com/localharvest/marketclient/pkg/envelope"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

type loginResult struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		Long:  "login prints a token and the signed-in user. Export the token as MARKET_API_TOKEN for later calls.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := c.app.API.Post(cmd.Context(), "/auth/login", map[string]string{
				"email":    email,
				"password": password,
			})
			if err != nil {
				return errors.New(apperrors.UserMessage(err, "Login failed"))
			}
			res, err := envelope.Decode[loginResult](body).Unwrap()
			if err != nil {
				return err
			}
			if err := c.app.Session.Login(res.Token); err != nil {
				return err
			}
			return c.print(res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Browse product categories"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.print(c.app.Services.Categories.List(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "get <slug>",
			Short: "Show one category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printOne(c, "category", args[0], c.app.Services.Categories.Get(cmd.Context(), args[0]))
			},
		},
	)
	return cmd
}

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse and manage products"}

	var filter domain.ProductFilter
	var all, mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List active products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if mine {
				return c.print(c.app.Services.Products.ListMine(ctx, filter.Page, filter.Limit))
			}
			if !all {
				return c.print(c.app.Services.Products.List(ctx, filter))
			}

			p := c.app.ProductPager(filter, fetch.Options[[]domain.Product]{Enabled: true})
			defer p.Close()
			p.Mount(ctx)
			for p.LoadMore(ctx) {
			}
			state := p.State()
			if state.Error != "" {
				return errors.New(state.Error)
			}
			return c.print(state.Data)
		},
	}
	list.Flags().StringVar(&filter.Category, "category", "", "category slug")
	list.Flags().StringVar(&filter.Search, "search", "", "name search")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 0, "page size")
	list.Flags().BoolVar(&all, "all", false, "follow every page")
	list.Flags().BoolVar(&mine, "mine", false, "list the signed-in seller's products")
	list.MarkFlagsMutuallyExclusive("all", "mine")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "get <unique-id>",
			Short: "Show one product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printOne(c, "product", args[0], c.app.Services.Products.Get(cmd.Context(), args[0]))
			},
		},
		&cobra.Command{
			Use:   "delete <unique-id>",
			Short: "Delete one of your products",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Services.Products.Delete(cmd.Context(), args[0]); err != nil {
					return errReported
				}
				return nil
			},
		},
	)
	return cmd
}
