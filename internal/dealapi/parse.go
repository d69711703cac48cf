package dealapi

import (
	"dealdesk/internal/models"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// check validates a decoded backend body so malformed responses fail here
// instead of leaking zero values into the store.
func check(what string, v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+":"+fe.Tag())
			}
			return fmt.Errorf("%w: %s (%s)", ErrMalformedResponse, what, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, what, err)
	}
	return nil
}

// checkRequest validates an outgoing body before it leaves the client.
func checkRequest(what string, v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValidation, what, err)
	}
	return nil
}

func (c *Client) toDeal(body dealBody) models.Deal {
	deal := models.Deal{
		ID:                body.ID,
		Kind:              models.DealKind(body.DealType),
		BuyerOrderNumber:  body.BuyerOrderNumber,
		SellerOrderNumber: body.SellerOrderNumber,
		Items:             toItems(body.Items),
		Seller:            c.toParty(body.SellerCompany),
		Buyer:             c.toParty(body.BuyerCompany),
		Status:            models.DealStatus(body.Status),
		Comments:          body.Comments,
		Version:           body.Version,
		CreatedAt:         body.CreatedAt,
	}
	if deal.Kind == "" {
		deal.Kind = models.DealKindGoods
	}
	if deal.Status == "" {
		deal.Status = models.DealStatusActive
	}

	if body.BillNumber != "" {
		deal.Documents.Bill = &models.DocumentRef{Number: body.BillNumber, Date: body.BillDate}
	}
	if body.ContractNumber != "" {
		deal.Documents.Contract = &models.DocumentRef{Number: body.ContractNumber, Date: body.ContractDate}
	}
	if body.SupplyContractsNumber != "" {
		deal.Documents.SupplyContract = &models.DocumentRef{Number: body.SupplyContractsNumber, Date: body.SupplyContractsDate}
	}
	for _, doc := range body.OtherDocuments {
		deal.Documents.Other = append(deal.Documents.Other, models.DocumentRef{Number: doc.Number, Date: doc.Date})
	}

	return deal
}

func toItems(body []itemBody) []models.LineItem {
	items := make([]models.LineItem, 0, len(body))
	for _, it := range body {
		items = append(items, models.LineItem{
			ID:       it.ID,
			Name:     it.ProductName,
			Article:  it.Article,
			Quantity: it.Quantity,
			Unit:     it.UnitOfMeasurement,
			Price:    it.Price,
		})
	}
	return items
}

func fromItems(items []models.LineItem) []itemBody {
	body := make([]itemBody, 0, len(items))
	for _, it := range items {
		body = append(body, itemBody{
			ProductName:       it.Name,
			Article:           it.Article,
			Quantity:          it.Quantity,
			UnitOfMeasurement: it.Unit,
			Price:             it.Price,
		})
	}
	return body
}

func (c *Client) toParty(body companyBody) models.Party {
	return models.Party{
		ID:           body.ID,
		Name:         body.Name,
		CompanyName:  body.CompanyName,
		INN:          body.INN,
		LegalAddress: body.LegalAddress,
		Phone:        normalizePhone(body.Phone, c.phoneRegion),
		ContactName:  body.ContactPerson,
	}
}

// normalizePhone formats valid numbers as E.164 and keeps anything else as is.
func normalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return phone
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

func toVersion(body versionBody) models.DealVersion {
	return models.DealVersion{
		Number:          body.Version,
		State:           models.VersionState(body.Status),
		AuthorCompanyID: body.AuthorCompanyID,
		CreatedAt:       body.CreatedAt,
		Items:           toItems(body.Items),
		Comments:        body.Comments,
	}
}
