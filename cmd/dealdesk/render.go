package main

import (
	"dealdesk/internal/models"
	"dealdesk/internal/render"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	slotFlag string
	outFlag  string
)

var renderCmd = &cobra.Command{
	Use:   "render <deal-id|order-number>",
	Short: "Выгрузить документ сделки в XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := models.ParseSlot(slotFlag)
		if err != nil {
			return err
		}
		store, err := current.renderStore(cmd.Context())
		if err != nil {
			return err
		}
		deal, err := lookup(store, args[0])
		if err != nil {
			return err
		}

		doc, err := render.FromDeal(deal, slot)
		if err != nil {
			return err
		}

		out := outFlag
		if out == "" {
			out = fmt.Sprintf("deal-%d-%s.xlsx", deal.ID, slot)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("Не удалось создать файл: %w", err)
		}
		defer f.Close()

		if err := render.WriteXLSX(f, doc); err != nil {
			return err
		}
		current.log.WithDealID(deal.ID).WithField("file", out).Info("Документ выгружен.")
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&slotFlag, "slot", string(models.SlotOrder), "order, bill, contract, supply_contract, other")
	renderCmd.Flags().StringVarP(&outFlag, "out", "o", "", "путь к файлу")
	rootCmd.AddCommand(renderCmd)
}
