package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DealStatus string
type DealKind string
type PartyRole string
type Role string

const (
	DealStatusActive    DealStatus = "active"
	DealStatusCompleted DealStatus = "completed"

	DealKindGoods    DealKind = "goods"
	DealKindServices DealKind = "services"

	PartySeller PartyRole = "seller"
	PartyBuyer  PartyRole = "buyer"

	// RolePurchases holds deals where the current company buys.
	RolePurchases Role = "purchases"
	// RoleSales holds deals where the current company sells.
	RoleSales Role = "sales"
)

type Party struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CompanyName  string `json:"company_name"`
	INN          string `json:"inn"`
	LegalAddress string `json:"legal_address"`
	Phone        string `json:"phone"`
	ContactName  string `json:"contact_name"`
}

// PartyPatch carries the fields to overwrite; nil fields are left alone.
type PartyPatch struct {
	Name         *string
	CompanyName  *string
	INN          *string
	LegalAddress *string
	Phone        *string
	ContactName  *string
}

func (p *Party) Apply(patch PartyPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.CompanyName != nil {
		p.CompanyName = *patch.CompanyName
	}
	if patch.INN != nil {
		p.INN = *patch.INN
	}
	if patch.LegalAddress != nil {
		p.LegalAddress = *patch.LegalAddress
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.ContactName != nil {
		p.ContactName = *patch.ContactName
	}
}

type LineItem struct {
	ID       int64           `json:"id,omitempty"`
	Name     string          `json:"name"`
	Article  string          `json:"article"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
}

type Totals struct {
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalAmountWords string          `json:"total_amount_words"`
}

type DocumentRef struct {
	Number string     `json:"number"`
	Date   *time.Time `json:"date,omitempty"`
}

type DocumentRefs struct {
	Bill           *DocumentRef  `json:"bill,omitempty"`
	Contract       *DocumentRef  `json:"contract,omitempty"`
	SupplyContract *DocumentRef  `json:"supply_contract,omitempty"`
	Other          []DocumentRef `json:"other,omitempty"`
}

type Deal struct {
	ID                int64        `json:"id"`
	Kind              DealKind     `json:"kind"`
	BuyerOrderNumber  *string      `json:"buyer_order_number,omitempty"`
	SellerOrderNumber *string      `json:"seller_order_number,omitempty"`
	Items             []LineItem   `json:"items"`
	Totals            Totals       `json:"totals"`
	Seller            Party        `json:"seller"`
	Buyer             Party        `json:"buyer"`
	Status            DealStatus   `json:"status"`
	Comments          string       `json:"comments"`
	Documents         DocumentRefs `json:"documents"`
	Version           int          `json:"version"`
	CreatedAt         time.Time    `json:"created_at"`
}

func (d *Deal) Party(role PartyRole) *Party {
	switch role {
	case PartySeller:
		return &d.Seller
	case PartyBuyer:
		return &d.Buyer
	}
	return nil
}

func (d Deal) HasOrderNumber(number string) bool {
	if d.BuyerOrderNumber != nil && *d.BuyerOrderNumber == number {
		return true
	}
	return d.SellerOrderNumber != nil && *d.SellerOrderNumber == number
}

// Clone returns a copy that shares no slices or pointers with d.
func (d Deal) Clone() Deal {
	out := d
	out.BuyerOrderNumber = cloneString(d.BuyerOrderNumber)
	out.SellerOrderNumber = cloneString(d.SellerOrderNumber)
	out.Items = CloneItems(d.Items)
	out.Documents = d.Documents.clone()
	return out
}

func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func (r DocumentRefs) clone() DocumentRefs {
	out := DocumentRefs{
		Bill:           cloneRef(r.Bill),
		Contract:       cloneRef(r.Contract),
		SupplyContract: cloneRef(r.SupplyContract),
	}
	if r.Other != nil {
		out.Other = make([]DocumentRef, len(r.Other))
		for i, ref := range r.Other {
			out.Other[i] = *cloneRef(&ref)
		}
	}
	return out
}

func cloneRef(ref *DocumentRef) *DocumentRef {
	if ref == nil {
		return nil
	}
	out := *ref
	if ref.Date != nil {
		date := *ref.Date
		out.Date = &date
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
