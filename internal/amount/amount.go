package amount

import (
	"dealdesk/internal/models"

	"github.com/shopspring/decimal"
)

// Reconcile recomputes every derived money field of the deal in place.
// Inputs are not validated: negative quantities or prices pass through.
func Reconcile(deal *models.Deal) {
	for i := range deal.Items {
		deal.Items[i].Amount = LineAmount(deal.Items[i])
	}
	total := Total(deal.Items)
	deal.Totals = models.Totals{
		TotalAmount:      total,
		TotalAmountWords: RublesInWords(total),
	}
}

func LineAmount(item models.LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.Price)
}

func Total(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// IsReconciled reports whether the derived fields match the items.
func IsReconciled(deal models.Deal) bool {
	total := decimal.Zero
	for _, item := range deal.Items {
		if !item.Amount.Equal(LineAmount(item)) {
			return false
		}
		total = total.Add(item.Amount)
	}
	return total.Equal(deal.Totals.TotalAmount) && deal.Totals.TotalAmountWords == RublesInWords(total)
}
