package mockapi

import (
	"github.com/shopspring/decimal"
)

// AddDeal stores a deal. A zero ID gets the next free one. The deal's
// initial terms become accepted version 1.
func (s *Server) AddDeal(d Deal) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDealLocked(d)
}

func (s *Server) addDealLocked(d Deal) int64 {
	if d.ID == 0 {
		d.ID = s.nextID
	}
	if d.ID >= s.nextID {
		s.nextID = d.ID + 1
	}
	if d.Status == "" {
		d.Status = "active"
	}
	if d.DealType == "" {
		d.DealType = "goods"
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}

	s.deals[d.ID] = &dealRecord{
		deal: d,
		versions: []Version{{
			Version:         d.Version,
			Status:          "accepted",
			AuthorCompanyID: d.SellerCompany.ID,
			CreatedAt:       d.CreatedAt,
			Items:           cloneItems(d.Items),
			Comments:        d.Comments,
		}},
	}
	return d.ID
}

func (s *Server) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Deal returns the stored backend copy, for assertions.
func (s *Server) Deal(id int64) (Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.deals[id]
	if !ok {
		return Deal{}, false
	}
	out := rec.deal
	out.Items = cloneItems(rec.deal.Items)
	return out, true
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func strPtr(s string) *string {
	return &s
}

// Seed loads a small fixture set for manual runs of the mock backend.
func (s *Server) Seed() {
	own := Company{ID: s.companyID, Name: "Иван Петров", CompanyName: "ООО «Ромашка»", INN: "7701234567", LegalAddress: "г. Москва, ул. Ленина, д. 1", Phone: "+7 495 123-45-67", ContactPerson: "Иван Петров"}
	supplier := Company{ID: s.companyID + 1, Name: "Анна Смирнова", CompanyName: "АО «СтройСнаб»", INN: "7812345678", LegalAddress: "г. Санкт-Петербург, Невский пр., д. 10", Phone: "8 (812) 765-43-21", ContactPerson: "Анна Смирнова"}
	customer := Company{ID: s.companyID + 2, Name: "Олег Кузнецов", CompanyName: "ИП Кузнецов О.В.", INN: "500100732259", LegalAddress: "г. Подольск, ул. Садовая, д. 5", Phone: "+7 916 000-11-22", ContactPerson: "Олег Кузнецов"}

	s.AddDeal(Deal{
		BuyerOrderNumber: strPtr("П-0001"),
		SellerCompany:    supplier,
		BuyerCompany:     own,
		Items: []Item{
			{ProductName: "Цемент М500", Article: "CEM-500", Quantity: decimal.NewFromInt(40), UnitOfMeasurement: "мешок", Price: decimal.NewFromInt(520)},
			{ProductName: "Песок речной", Article: "SND-01", Quantity: decimal.NewFromInt(3), UnitOfMeasurement: "т", Price: decimal.NewFromInt(1800)},
		},
	})
	s.AddDeal(Deal{
		SellerOrderNumber: strPtr("Р-0001"),
		SellerCompany:     own,
		BuyerCompany:      customer,
		DealType:          "services",
		Items: []Item{
			{ProductName: "Доставка", Quantity: decimal.NewFromInt(1), UnitOfMeasurement: "усл.", Price: decimal.NewFromInt(3500)},
		},
	})

	s.AddProduct(Product{ID: 1, Name: "Кирпич облицовочный", Article: "BRK-7", Unit: "шт", Price: decimal.RequireFromString("38.50"), SellerID: supplier.ID})
	s.AddProduct(Product{ID: 2, Name: "Арматура 12 мм", Article: "ARM-12", Unit: "м", Price: decimal.NewFromInt(95), SellerID: supplier.ID})
}
