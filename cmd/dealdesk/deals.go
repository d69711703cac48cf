package main

import (
	"dealdesk/internal/models"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Загрузить сделки и вывести список",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, deal := range store.All() {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", deal.ID, deal.Status, orderNumber(deal), counterparty(deal, store.Role()), deal.Totals.TotalAmount.StringFixed(2))
		}
		if last, ok := store.LastGoodsDeal(); ok {
			fmt.Fprintf(out, "Последняя сделка по товарам: %d\n", last.ID)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <deal-id>",
	Short: "Показать сделку",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}
		deal, err := lookup(store, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Сделка %d (%s, версия %d)\n", deal.ID, deal.Status, deal.Version)
		fmt.Fprintf(out, "Поставщик: %s\nПокупатель: %s\n", deal.Seller.CompanyName, deal.Buyer.CompanyName)
		for i, it := range deal.Items {
			fmt.Fprintf(out, "%d. %s %s %s x %s = %s\n", i+1, it.Name, it.Quantity, it.Unit, it.Price.StringFixed(2), it.Amount.StringFixed(2))
		}
		fmt.Fprintf(out, "Итого: %s (%s)\n", deal.Totals.TotalAmount.StringFixed(2), deal.Totals.TotalAmountWords)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <deal-id>",
	Short: "Завершить сделку",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return store.Complete(cmd.Context(), id)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <deal-id>",
	Short: "Удалить сделку",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.loadedStore(cmd.Context())
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return store.Remove(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, showCmd, completeCmd, removeCmd)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("Некорректный идентификатор сделки: %q", raw)
	}
	return id, nil
}

// lookup accepts either a deal id or an order number.
func lookup(store interface {
	FindByID(int64) (models.Deal, bool)
	FindByOrderNumber(string) (models.Deal, bool)
}, raw string) (models.Deal, error) {
	if id, err := parseID(raw); err == nil {
		if deal, ok := store.FindByID(id); ok {
			return deal, nil
		}
	}
	if deal, ok := store.FindByOrderNumber(raw); ok {
		return deal, nil
	}
	return models.Deal{}, fmt.Errorf("Сделка не найдена: %s", raw)
}

func orderNumber(deal models.Deal) string {
	switch {
	case deal.BuyerOrderNumber != nil:
		return *deal.BuyerOrderNumber
	case deal.SellerOrderNumber != nil:
		return *deal.SellerOrderNumber
	}
	return "-"
}

func counterparty(deal models.Deal, role models.Role) string {
	if role == models.RolePurchases {
		return deal.Seller.CompanyName
	}
	return deal.Buyer.CompanyName
}
