// internal/workers/data-access/search-crm-entities/models.go
package searchcrmentities

type Input struct {
	EntityType string                 `json:"entityType"` // "deals" or "contacts"
	Query      string                 `json:"query,omitempty"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Results   []map[string]interface{} `json:"results"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
