package models

import (
	"fmt"
	"time"
)

type DocumentSlot string

const (
	SlotOrder          DocumentSlot = "order"
	SlotBill           DocumentSlot = "bill"
	SlotSupplyContract DocumentSlot = "supply_contract"
	SlotContract       DocumentSlot = "contract"
	SlotOther          DocumentSlot = "other"
)

func ParseSlot(s string) (DocumentSlot, error) {
	switch slot := DocumentSlot(s); slot {
	case SlotOrder, SlotBill, SlotSupplyContract, SlotContract, SlotOther:
		return slot, nil
	}
	return "", fmt.Errorf("Неизвестный тип документа: %q", s)
}

// DocumentKind is a document the backend can generate for a deal.
type DocumentKind string

const (
	DocumentBill           DocumentKind = "bill"
	DocumentContract       DocumentKind = "contract"
	DocumentSupplyContract DocumentKind = "supply_contract"
)

func ParseDocumentKind(s string) (DocumentKind, error) {
	switch kind := DocumentKind(s); kind {
	case DocumentBill, DocumentContract, DocumentSupplyContract:
		return kind, nil
	}
	return "", fmt.Errorf("Документ не поддерживает генерацию: %q", s)
}

type DocumentForm struct {
	DealID             int64          `json:"deal_id"`
	Slot               DocumentSlot   `json:"slot"`
	Payload            map[string]any `json:"payload"`
	UpdatedByCompanyID *int64         `json:"updated_by_company_id,omitempty"`
	UpdatedAt          *time.Time     `json:"updated_at,omitempty"`
}
