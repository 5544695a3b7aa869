package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrMissingIndex      = errors.New("index name is required")
)

// SearchQuery defines the structure of a search request
type SearchQuery struct {
	Index      string
	EntityType string
	Text       string
	Filters    map[string]interface{}
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request for the given entity type
func BuildQuery(esClient *elasticsearch.Client, sq SearchQuery) (*esapi.SearchRequest, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch sq.EntityType {
	case "deals":
		queryBody = buildDealSearchQuery(sq)
	case "contacts":
		queryBody = buildContactSearchQuery(sq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, sq.EntityType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{sq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &sq.Pagination.From,
		Size:   &sq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildDealSearchQuery builds the deal search query dynamically
func buildDealSearchQuery(sq SearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if sq.Text != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  sq.Text,
				"fields": []string{"title^3", "company^2", "next_step"},
				"type":   "best_fields",
			},
		})
	}

	if stage, ok := sq.Filters["stage"].(string); ok && stage != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"stage": stage},
		})
	}

	if status, ok := sq.Filters["status"].(string); ok && status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": status},
		})
	}

	if riskLevel, ok := sq.Filters["riskLevel"].(string); ok && riskLevel != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"risk_level": riskLevel},
		})
	}

	if minAmount, ok := toFloat(sq.Filters["minAmount"]); ok && minAmount > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"amount": map[string]interface{}{"gte": minAmount},
			},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	if sortBy, ok := sq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "amount":
			query["sort"] = []map[string]interface{}{{"amount": "desc"}}
		case "score":
			query["sort"] = []map[string]interface{}{{"score": "desc"}}
		}
	}

	return query
}

// buildContactSearchQuery builds the contact search query
func buildContactSearchQuery(sq SearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if sq.Text != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  sq.Text,
				"fields": []string{"name^3", "company^2", "position", "email"},
				"type":   "best_fields",
			},
		})
	}

	if company, ok := sq.Filters["company"].(string); ok && company != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"company": company},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
