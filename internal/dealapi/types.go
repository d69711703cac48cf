package dealapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quantities and prices travel as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type dealSummary struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type companyBody struct {
	ID            int64  `json:"id" validate:"required,gt=0"`
	Name          string `json:"name"`
	CompanyName   string `json:"company_name"`
	INN           string `json:"inn" validate:"omitempty,numeric,min=10,max=12"`
	LegalAddress  string `json:"legal_address"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}

type itemBody struct {
	ID                int64           `json:"id,omitempty"`
	ProductName       string          `json:"product_name" validate:"required"`
	Article           string          `json:"article"`
	Quantity          decimal.Decimal `json:"quantity" validate:"gte=0"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	Price             decimal.Decimal `json:"price" validate:"gte=0"`
}

type otherDocumentBody struct {
	Number string     `json:"number" validate:"required"`
	Date   *time.Time `json:"date"`
}

type dealBody struct {
	ID                    int64               `json:"id" validate:"required,gt=0"`
	DealType              string              `json:"deal_type" validate:"omitempty,oneof=goods services"`
	BuyerOrderNumber      *string             `json:"buyer_order_number"`
	SellerOrderNumber     *string             `json:"seller_order_number"`
	Items                 []itemBody          `json:"items" validate:"dive"`
	SellerCompany         companyBody         `json:"seller_company"`
	BuyerCompany          companyBody         `json:"buyer_company"`
	Status                string              `json:"status" validate:"omitempty,oneof=active completed"`
	Comments              string              `json:"comments"`
	BillNumber            string              `json:"bill_number"`
	BillDate              *time.Time          `json:"bill_date"`
	ContractNumber        string              `json:"contract_number"`
	ContractDate          *time.Time          `json:"contract_date"`
	SupplyContractsNumber string              `json:"supply_contracts_number"`
	SupplyContractsDate   *time.Time          `json:"supply_contracts_date"`
	OtherDocuments        []otherDocumentBody `json:"other_documents" validate:"dive"`
	Version               int                 `json:"version" validate:"gte=0"`
	CreatedAt             time.Time           `json:"created_at"`
}

type dealUpdateBody struct {
	Items                 *[]itemBody `json:"items,omitempty"`
	Comments              *string     `json:"comments,omitempty"`
	Status                *string     `json:"status,omitempty"`
	ContractNumber        *string     `json:"contract_number,omitempty"`
	BillNumber            *string     `json:"bill_number,omitempty"`
	SupplyContractsNumber *string     `json:"supply_contracts_number,omitempty"`
}

type versionBody struct {
	Version         int        `json:"version" validate:"required,gt=0"`
	Status          string     `json:"status" validate:"required,oneof=proposed accepted rejected"`
	AuthorCompanyID int64      `json:"author_company_id"`
	CreatedAt       time.Time  `json:"created_at"`
	Items           []itemBody `json:"items" validate:"dive"`
	Comments        string     `json:"comments"`
}

type versionCreateBody struct {
	Items    []itemBody `json:"items"`
	Comments string     `json:"comments,omitempty"`
}

type documentTriggerBody struct {
	Date *string `json:"date,omitempty"`
}

type documentBody struct {
	Number string     `json:"number" validate:"required"`
	Date   *time.Time `json:"date"`
}

type formBody struct {
	Payload            map[string]any `json:"payload"`
	UpdatedByCompanyID *int64         `json:"updated_by_company_id"`
	UpdatedAt          *time.Time     `json:"updated_at"`
}

type formSaveBody struct {
	Payload           map[string]any `json:"payload"`
	ExpectedUpdatedAt *time.Time     `json:"expected_updated_at,omitempty"`
}

type checkoutItemBody struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type checkoutBody struct {
	Items []checkoutItemBody `json:"items" validate:"required,min=1,dive"`
}

type checkoutResult struct {
	DealIDs []int64 `json:"deal_ids" validate:"dive,gt=0"`
}
