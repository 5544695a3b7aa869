package queries

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestBuildQuery_DealSearch(t *testing.T) {
	sq := SearchQuery{
		Index:      "crm-deals",
		EntityType: "deals",
		Text:       "licencias acme",
		Filters: map[string]interface{}{
			"stage":     "Negociación",
			"status":    "Open",
			"minAmount": 50000,
		},
		Pagination: struct{ From, Size int }{0, 10},
	}

	req, err := BuildQuery(nil, sq)
	require.NoError(t, err)
	assert.Equal(t, []string{"crm-deals"}, req.Index)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "licencias acme", multiMatch["query"])

	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 3)
}

func TestBuildQuery_DealSearch_NoText(t *testing.T) {
	sq := SearchQuery{
		Index:      "crm-deals",
		EntityType: "deals",
		Filters:    map[string]interface{}{},
		Pagination: struct{ From, Size int }{0, 10},
	}

	req, err := BuildQuery(nil, sq)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	_, hasMatchAll := must[0].(map[string]interface{})["match_all"]
	assert.True(t, hasMatchAll)
}

func TestBuildQuery_ContactSearch(t *testing.T) {
	sq := SearchQuery{
		Index:      "crm-contacts",
		EntityType: "contacts",
		Text:       "ana garcía",
		Filters:    map[string]interface{}{"company": "Acme Corp"},
		Pagination: struct{ From, Size int }{0, 10},
	}

	req, err := BuildQuery(nil, sq)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must := boolQuery["must"].([]interface{})
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	fields := multiMatch["fields"].([]interface{})
	assert.Contains(t, fields, "name^3")

	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 1)
}

func TestBuildQuery_SortByScore(t *testing.T) {
	sq := SearchQuery{
		Index:      "crm-deals",
		EntityType: "deals",
		Filters:    map[string]interface{}{"sortBy": "score"},
		Pagination: struct{ From, Size int }{0, 10},
	}

	req, err := BuildQuery(nil, sq)
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	sorts := body["sort"].([]interface{})
	require.Len(t, sorts, 1)
	assert.Equal(t, "desc", sorts[0].(map[string]interface{})["score"])
}

func TestBuildQuery_Errors(t *testing.T) {
	_, err := BuildQuery(nil, SearchQuery{EntityType: "deals"})
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = BuildQuery(nil, SearchQuery{Index: "crm-deals", EntityType: "invoices"})
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}
