package main

import (
	"dealdesk/internal/docform"
	"dealdesk/internal/models"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	formSlot  string
	formForce bool
)

var formCmd = &cobra.Command{
	Use:   "form <deal-id> [key=value...]",
	Short: "Показать или изменить поля документа сделки",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		slot, err := models.ParseSlot(formSlot)
		if err != nil {
			return err
		}

		form := docform.New(current.client, current.log, id, slot, nil)
		if err := form.Load(cmd.Context()); err != nil {
			return err
		}

		if len(args) > 1 {
			payload := form.Payload()
			for _, pair := range args[1:] {
				key, value, ok := strings.Cut(pair, "=")
				if !ok || key == "" {
					return fmt.Errorf("Ожидается key=value: %q", pair)
				}
				payload[key] = value
			}
			save := form.Save
			if formForce {
				save = form.Overwrite
			}
			if err := save(cmd.Context(), payload); err != nil {
				return err
			}
		}

		if by := form.UpdatedByCompanyID(); by != nil && *by != current.cfg.Company.ID {
			fmt.Fprintf(cmd.OutOrStdout(), "Последнее изменение: компания %d\n", *by)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(form.Payload())
	},
}

func init() {
	formCmd.Flags().StringVar(&formSlot, "slot", string(models.SlotBill), "order, bill, contract, supply_contract, other")
	formCmd.Flags().BoolVar(&formForce, "force", false, "перезаписать без проверки версии")
	rootCmd.AddCommand(formCmd)
}
