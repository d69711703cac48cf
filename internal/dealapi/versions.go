package dealapi

import (
	"context"
	"dealdesk/internal/models"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

func versionsPath(dealID int64) string {
	return dealsPath(dealID) + "/versions"
}

// CreateVersion proposes new terms. ErrConflict means a proposal is
// already pending for the deal.
func (c *Client) CreateVersion(ctx context.Context, dealID int64, proposal models.VersionProposal) (models.DealVersion, error) {
	body := versionCreateBody{
		Items:    fromItems(proposal.Items),
		Comments: proposal.Comments,
	}
	if err := checkRequest("новая версия", struct {
		Items []itemBody `validate:"dive"`
	}{body.Items}); err != nil {
		return models.DealVersion{}, err
	}

	var resp versionBody
	if err := c.doRequest(ctx, http.MethodPost, versionsPath(dealID), nil, body, &resp); err != nil {
		return models.DealVersion{}, err
	}
	if err := check(fmt.Sprintf("версия сделки %d", dealID), &resp); err != nil {
		return models.DealVersion{}, err
	}
	return toVersion(resp), nil
}

func (c *Client) DeleteLastVersion(ctx context.Context, dealID int64) error {
	return c.doRequest(ctx, http.MethodDelete, versionsPath(dealID)+"/last", nil, nil, nil)
}

// ListVersions returns the history oldest first.
func (c *Client) ListVersions(ctx context.Context, dealID int64) ([]models.DealVersion, error) {
	var resp []versionBody
	if err := c.doRequest(ctx, http.MethodGet, versionsPath(dealID), nil, nil, &resp); err != nil {
		return nil, err
	}

	versions := make([]models.DealVersion, 0, len(resp))
	for i := range resp {
		if err := check(fmt.Sprintf("версия сделки %d", dealID), &resp[i]); err != nil {
			return nil, err
		}
		versions = append(versions, toVersion(resp[i]))
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Number < versions[j].Number
	})
	return versions, nil
}

func (c *Client) AcceptVersion(ctx context.Context, dealID int64, number int) error {
	return c.decideVersion(ctx, dealID, number, "accept")
}

func (c *Client) RejectVersion(ctx context.Context, dealID int64, number int) error {
	return c.decideVersion(ctx, dealID, number, "reject")
}

func (c *Client) decideVersion(ctx context.Context, dealID int64, number int, decision string) error {
	path := versionsPath(dealID) + "/" + strconv.Itoa(number) + "/" + decision
	return c.doRequest(ctx, http.MethodPost, path, nil, nil, nil)
}
