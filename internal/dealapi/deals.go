package dealapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"dealdesk/internal/models"
)

// DealUpdate is the body of a full deal save. Nil fields are not sent;
// a non-nil empty Items clears the deal's line items.
type DealUpdate struct {
	Items                 []models.LineItem
	SendItems             bool
	Comments              *string
	Status                *models.DealStatus
	ContractNumber        *string
	BillNumber            *string
	SupplyContractsNumber *string
}

func dealsPath(id int64) string {
	return "/deals/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListDealIDs(ctx context.Context, role models.Role) ([]int64, error) {
	switch role {
	case models.RolePurchases, models.RoleSales:
	default:
		return nil, fmt.Errorf("%w: неизвестная роль %q", ErrValidation, role)
	}

	var resp []dealSummary
	if err := c.doRequest(ctx, http.MethodGet, "/deals/"+string(role), nil, nil, &resp); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(resp))
	for i := range resp {
		if err := check("список сделок", &resp[i]); err != nil {
			return nil, err
		}
		ids = append(ids, resp[i].ID)
	}
	return ids, nil
}

// GetDeal fetches a deal. A nil version means the current head.
func (c *Client) GetDeal(ctx context.Context, id int64, version *int) (models.Deal, error) {
	var params url.Values
	if version != nil {
		params = url.Values{}
		params.Set("version", strconv.Itoa(*version))
	}

	var resp dealBody
	if err := c.doRequest(ctx, http.MethodGet, dealsPath(id), params, nil, &resp); err != nil {
		return models.Deal{}, err
	}
	if err := check(fmt.Sprintf("сделка %d", id), &resp); err != nil {
		return models.Deal{}, err
	}
	return c.toDeal(resp), nil
}

func (c *Client) UpdateDeal(ctx context.Context, id int64, update DealUpdate) error {
	body := dealUpdateBody{
		Comments:              update.Comments,
		ContractNumber:        update.ContractNumber,
		BillNumber:            update.BillNumber,
		SupplyContractsNumber: update.SupplyContractsNumber,
	}
	if update.SendItems {
		items := fromItems(update.Items)
		if err := checkRequest("позиции сделки", struct {
			Items []itemBody `validate:"dive"`
		}{items}); err != nil {
			return err
		}
		body.Items = &items
	}
	if update.Status != nil {
		status := string(*update.Status)
		body.Status = &status
	}

	return c.doRequest(ctx, http.MethodPut, dealsPath(id), nil, body, nil)
}

func (c *Client) DeleteDeal(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, dealsPath(id), nil, nil, nil)
}
