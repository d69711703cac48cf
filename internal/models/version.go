package models

import "time"

type VersionState string

const (
	VersionProposed VersionState = "proposed"
	VersionAccepted VersionState = "accepted"
	VersionRejected VersionState = "rejected"
)

type DealVersion struct {
	Number          int          `json:"number"`
	State           VersionState `json:"state"`
	AuthorCompanyID int64        `json:"author_company_id"`
	CreatedAt       time.Time    `json:"created_at"`
	Items           []LineItem   `json:"items"`
	Comments        string       `json:"comments"`
}

// VersionProposal is the body of a new deal version.
type VersionProposal struct {
	Items    []LineItem
	Comments string
}
