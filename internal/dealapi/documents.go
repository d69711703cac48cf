package dealapi

import (
	"context"
	"dealdesk/internal/models"
	"fmt"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

func documentPath(dealID int64, kind models.DocumentKind) string {
	return dealsPath(dealID) + "/documents/" + string(kind)
}

// GenerateDocument asks the backend to number and issue a document.
// A nil date lets the backend use the current day.
func (c *Client) GenerateDocument(ctx context.Context, dealID int64, kind models.DocumentKind, date *time.Time) (models.DocumentRef, error) {
	body := documentTriggerBody{}
	if date != nil {
		formatted := date.Format(dateLayout)
		body.Date = &formatted
	}

	var resp documentBody
	if err := c.doRequest(ctx, http.MethodPost, documentPath(dealID, kind), nil, body, &resp); err != nil {
		return models.DocumentRef{}, err
	}
	if err := check(fmt.Sprintf("документ %s сделки %d", kind, dealID), &resp); err != nil {
		return models.DocumentRef{}, err
	}
	return models.DocumentRef{Number: resp.Number, Date: resp.Date}, nil
}

func (c *Client) DeleteDocument(ctx context.Context, dealID int64, kind models.DocumentKind) error {
	return c.doRequest(ctx, http.MethodDelete, documentPath(dealID, kind), nil, nil, nil)
}
