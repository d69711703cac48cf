package main

import (
	"dealdesk/internal/cart"
	"dealdesk/internal/models"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <product-id:qty>...",
	Short: "Оформить заказ из корзины",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cart.New(current.client, current.log)
		for _, arg := range args {
			rawID, rawQty, ok := strings.Cut(arg, ":")
			if !ok {
				rawQty = "1"
			}
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				return fmt.Errorf("Некорректный товар: %q", arg)
			}
			qty, err := strconv.Atoi(rawQty)
			if err != nil {
				return fmt.Errorf("Некорректное количество: %q", arg)
			}
			c.Add(models.Product{ID: id}, qty)
		}

		ids, err := c.Checkout(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "Создана сделка %d\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
