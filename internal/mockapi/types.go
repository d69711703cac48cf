package mockapi

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CompanyName   string `json:"company_name"`
	INN           string `json:"inn"`
	LegalAddress  string `json:"legal_address"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}

type Item struct {
	ID                int64           `json:"id,omitempty"`
	ProductName       string          `json:"product_name"`
	Article           string          `json:"article"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	Price             decimal.Decimal `json:"price"`
}

type OtherDocument struct {
	Number string     `json:"number"`
	Date   *time.Time `json:"date"`
}

// Deal is the backend representation served by GET /deals/{id}.
type Deal struct {
	ID                    int64           `json:"id"`
	DealType              string          `json:"deal_type"`
	BuyerOrderNumber      *string         `json:"buyer_order_number"`
	SellerOrderNumber     *string         `json:"seller_order_number"`
	Items                 []Item          `json:"items"`
	SellerCompany         Company         `json:"seller_company"`
	BuyerCompany          Company         `json:"buyer_company"`
	Status                string          `json:"status"`
	Comments              string          `json:"comments"`
	BillNumber            string          `json:"bill_number"`
	BillDate              *time.Time      `json:"bill_date"`
	ContractNumber        string          `json:"contract_number"`
	ContractDate          *time.Time      `json:"contract_date"`
	SupplyContractsNumber string          `json:"supply_contracts_number"`
	SupplyContractsDate   *time.Time      `json:"supply_contracts_date"`
	OtherDocuments        []OtherDocument `json:"other_documents"`
	Version               int             `json:"version"`
	CreatedAt             time.Time       `json:"created_at"`
}

type Version struct {
	Version         int       `json:"version"`
	Status          string    `json:"status"`
	AuthorCompanyID int64     `json:"author_company_id"`
	CreatedAt       time.Time `json:"created_at"`
	Items           []Item    `json:"items"`
	Comments        string    `json:"comments"`
}

type Form struct {
	Payload            map[string]any `json:"payload"`
	UpdatedByCompanyID *int64         `json:"updated_by_company_id"`
	UpdatedAt          *time.Time     `json:"updated_at"`
}

type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Article  string          `json:"article"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	SellerID int64           `json:"seller_id"`
}

type Event struct {
	Type   string `json:"type"`
	DealID int64  `json:"deal_id"`
}

type updateRequest struct {
	Items                 *[]Item `json:"items"`
	Comments              *string `json:"comments"`
	Status                *string `json:"status"`
	ContractNumber        *string `json:"contract_number"`
	BillNumber            *string `json:"bill_number"`
	SupplyContractsNumber *string `json:"supply_contracts_number"`
}

type versionRequest struct {
	Items    []Item `json:"items"`
	Comments string `json:"comments"`
}

type documentRequest struct {
	Date *string `json:"date"`
}

type formRequest struct {
	Payload           map[string]any `json:"payload"`
	ExpectedUpdatedAt *time.Time     `json:"expected_updated_at"`
}

type checkoutRequest struct {
	Items []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}
