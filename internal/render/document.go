// Package render turns a reconciled deal into the printable document model
// consumed by document generators.
package render

import (
	"dealdesk/internal/amount"
	"dealdesk/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotReconciled = errors.New("Суммы сделки не пересчитаны.")

const noNumber = "б/н"

var titles = map[models.DocumentSlot]string{
	models.SlotOrder:          "Заказ",
	models.SlotBill:           "Счёт на оплату",
	models.SlotContract:       "Договор",
	models.SlotSupplyContract: "Договор поставки",
	models.SlotOther:          "Документ",
}

type Row struct {
	Index    int
	Name     string
	Article  string
	Unit     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Amount   decimal.Decimal
}

type Document struct {
	Slot       models.DocumentSlot
	Title      string
	Number     string
	Date       *time.Time
	Seller     models.Party
	Buyer      models.Party
	Rows       []Row
	Total      decimal.Decimal
	TotalWords string
	Comments   string
}

func FromDeal(deal models.Deal, slot models.DocumentSlot) (Document, error) {
	title, ok := titles[slot]
	if !ok {
		return Document{}, fmt.Errorf("Неизвестный тип документа: %q", slot)
	}
	if !amount.IsReconciled(deal) {
		return Document{}, fmt.Errorf("%w (id=%d)", ErrNotReconciled, deal.ID)
	}

	doc := Document{
		Slot:       slot,
		Title:      title,
		Number:     noNumber,
		Seller:     deal.Seller,
		Buyer:      deal.Buyer,
		Total:      deal.Totals.TotalAmount,
		TotalWords: deal.Totals.TotalAmountWords,
		Comments:   deal.Comments,
	}

	var ref *models.DocumentRef
	switch slot {
	case models.SlotOrder:
		if deal.SellerOrderNumber != nil {
			doc.Number = *deal.SellerOrderNumber
		} else if deal.BuyerOrderNumber != nil {
			doc.Number = *deal.BuyerOrderNumber
		}
		created := deal.CreatedAt
		if !created.IsZero() {
			doc.Date = &created
		}
	case models.SlotBill:
		ref = deal.Documents.Bill
	case models.SlotContract:
		ref = deal.Documents.Contract
	case models.SlotSupplyContract:
		ref = deal.Documents.SupplyContract
	case models.SlotOther:
		if n := len(deal.Documents.Other); n > 0 {
			ref = &deal.Documents.Other[n-1]
		}
	}
	if ref != nil {
		if ref.Number != "" {
			doc.Number = ref.Number
		}
		doc.Date = ref.Date
	}

	for i, it := range deal.Items {
		doc.Rows = append(doc.Rows, Row{
			Index:    i + 1,
			Name:     it.Name,
			Article:  it.Article,
			Unit:     it.Unit,
			Quantity: it.Quantity,
			Price:    it.Price,
			Amount:   it.Amount,
		})
	}

	return doc, nil
}

// Heading is the document's first line, e.g. "Счёт на оплату № СЧ-1 от 02.03.2026".
func (d Document) Heading() string {
	heading := fmt.Sprintf("%s № %s", d.Title, d.Number)
	if d.Date != nil {
		heading += " от " + d.Date.Format("02.01.2006")
	}
	return heading
}
