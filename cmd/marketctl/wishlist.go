package main

import (
	"github.com/spf13/cobra"
)

type favorite struct {
	ProductID int64 `json:"product_id"`
	Favorite  bool  `json:"is_favorite"`
}

func (c *cli) wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "wishlist", Short: "Your favorited products"}

	var cached bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List wishlist items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := c.app.Wishlist
			if cached {
				return c.print(w.Snapshot().ProductIDs)
			}
			if err := w.FetchWishlist(cmd.Context()); err != nil {
				return errReported
			}
			return c.print(w.Snapshot().Items)
		},
	}
	list.Flags().BoolVar(&cached, "cached", false, "print the locally stored product ids without a request")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add a product to the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				if err := c.app.Wishlist.AddItem(cmd.Context(), id); err != nil {
					return errReported
				}
				return c.print(favorite{ProductID: id, Favorite: true})
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a product from the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				if err := c.app.Wishlist.RemoveItem(cmd.Context(), id); err != nil {
					return errReported
				}
				return c.print(favorite{ProductID: id, Favorite: false})
			},
		},
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Flip a product's favorite state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				on, err := c.app.Wishlist.ToggleItem(cmd.Context(), id)
				if err != nil {
					return errReported
				}
				return c.print(favorite{ProductID: id, Favorite: on})
			},
		},
		&cobra.Command{
			Use:   "check <product-id>",
			Short: "Ask the server whether a product is favorited",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				on, err := c.app.Wishlist.CheckFavorite(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.print(favorite{ProductID: id, Favorite: on})
			},
		},
	)
	return cmd
}
