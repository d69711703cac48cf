package dealapi

import (
	"context"
	"dealdesk/internal/models"
	"net/http"
)

// Checkout turns cart lines into deals and returns their ids.
func (c *Client) Checkout(ctx context.Context, items []models.CartItem) ([]int64, error) {
	body := checkoutBody{}
	for _, it := range items {
		body.Items = append(body.Items, checkoutItemBody{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
		})
	}
	if err := checkRequest("корзина", &body); err != nil {
		return nil, err
	}

	var resp checkoutResult
	if err := c.doRequest(ctx, http.MethodPost, "/cart/checkout", nil, body, &resp); err != nil {
		return nil, err
	}
	if err := check("оформление заказа", &resp); err != nil {
		return nil, err
	}
	return resp.DealIDs, nil
}
