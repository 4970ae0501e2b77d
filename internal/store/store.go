// Package store persists surveys, organizations, responses, and derived
// results. Results are a cache of the scoring computation; deleting and
// recomputing them is always safe.
package store

import (
	"context"

	"github.com/civicstack/maturity-cli/internal/model"
)

// ResponseFilter narrows a response listing.
type ResponseFilter struct {
	OrganizationID string `json:"organization_id,omitempty"`
	CompletedOnly  bool   `json:"completed_only,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for the assessment platform.
type Store interface {
	// Surveys
	SaveSurvey(ctx context.Context, survey *model.Survey) error
	GetSurvey(ctx context.Context, surveyID string) (*model.Survey, error)

	// Organizations
	SaveOrganization(ctx context.Context, org *model.Organization) error
	ListOrganizations(ctx context.Context) ([]model.Organization, error)

	// Responses
	SaveResponse(ctx context.Context, resp *model.Response) error
	ListResponses(ctx context.Context, surveyID string, filter ResponseFilter) ([]model.Response, error)

	// Results, keyed by (survey id, organization id)
	SaveResult(ctx context.Context, result *model.Result) error
	GetResult(ctx context.Context, surveyID, orgID string) (*model.Result, error)
	ListResults(ctx context.Context, surveyID string) ([]model.Result, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
