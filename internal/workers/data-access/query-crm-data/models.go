// internal/workers/data-access/query-crm-data/models.go
package querycrmdata

import "crm-insight-workers/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	DealID    string                 `json:"dealId,omitempty"`
	ContactID string                 `json:"contactId,omitempty"`
	OwnerID   string                 `json:"ownerId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeDealFullDetails  = models.QueryTypeDealFullDetails
	QueryTypeDealsByOwner     = models.QueryTypeDealsByOwner
	QueryTypeOpenDealsSummary = models.QueryTypeOpenDealsSummary
	QueryTypeContactProfile   = models.QueryTypeContactProfile
	QueryTypeContactDeals     = models.QueryTypeContactDeals
	QueryTypeOverdueTasks     = models.QueryTypeOverdueTasks
)
