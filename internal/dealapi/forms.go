package dealapi

import (
	"context"
	"dealdesk/internal/models"
	"net/http"
	"time"
)

func formPath(dealID int64, slot models.DocumentSlot) string {
	return dealsPath(dealID) + "/forms/" + string(slot)
}

func (c *Client) GetForm(ctx context.Context, dealID int64, slot models.DocumentSlot) (models.DocumentForm, error) {
	var resp formBody
	if err := c.doRequest(ctx, http.MethodGet, formPath(dealID, slot), nil, nil, &resp); err != nil {
		return models.DocumentForm{}, err
	}
	return toForm(dealID, slot, resp), nil
}

// SaveForm replaces the stored payload. A non-nil expected makes the write
// conditional: the backend answers 409 (ErrConflict) when the stored
// updated_at differs.
func (c *Client) SaveForm(ctx context.Context, dealID int64, slot models.DocumentSlot, payload map[string]any, expected *time.Time) (models.DocumentForm, error) {
	body := formSaveBody{
		Payload:           payload,
		ExpectedUpdatedAt: expected,
	}

	var resp formBody
	if err := c.doRequest(ctx, http.MethodPut, formPath(dealID, slot), nil, body, &resp); err != nil {
		return models.DocumentForm{}, err
	}
	return toForm(dealID, slot, resp), nil
}

func toForm(dealID int64, slot models.DocumentSlot, body formBody) models.DocumentForm {
	return models.DocumentForm{
		DealID:             dealID,
		Slot:               slot,
		Payload:            body.Payload,
		UpdatedByCompanyID: body.UpdatedByCompanyID,
		UpdatedAt:          body.UpdatedAt,
	}
}
