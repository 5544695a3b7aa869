// internal/models/query.go
package models

// QueryType names a read-only query served by the data-access worker.
type QueryType string

const (
	QueryTypeDealFullDetails  QueryType = "deal-full-details"
	QueryTypeDealsByOwner     QueryType = "deals-by-owner"
	QueryTypeOpenDealsSummary QueryType = "open-deals-summary"
	QueryTypeContactProfile   QueryType = "contact-profile"
	QueryTypeContactDeals     QueryType = "contact-deals"
	QueryTypeOverdueTasks     QueryType = "overdue-tasks"
)
