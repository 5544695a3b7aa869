package searchcrmentities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"crm-insight-workers/internal/common/logger"
)

func createTestConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		DealsIndex:    "crm-deals-test",
		ContactsIndex: "crm-contacts-test",
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func TestHandler_Execute_InvalidEntityType(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		EntityType: "invoices",
		Query:      "anything",
	})

	assert.ErrorIs(t, err, ErrInvalidEntityType)
	assert.Nil(t, output)
	assert.Equal(t, "INVALID_ENTITY_TYPE", handler.mapErrorToCode(err))
	assert.Equal(t, int32(0), handler.getRetryCount(err))
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_ErrorMapping(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, createTestLogger(t))

	assert.Equal(t, "SEARCH_TIMEOUT", handler.mapErrorToCode(ErrSearchTimeout))
	assert.Equal(t, int32(2), handler.getRetryCount(ErrSearchTimeout))

	assert.Equal(t, "SEARCH_QUERY_FAILED", handler.mapErrorToCode(ErrSearchQueryFailed))
	assert.Equal(t, int32(3), handler.getRetryCount(ErrSearchQueryFailed))

	assert.Equal(t, "INDEX_NOT_FOUND", handler.mapErrorToCode(ErrIndexNotFound))
	assert.Equal(t, int32(0), handler.getRetryCount(ErrIndexNotFound))
}

// ==========================
// Integration tests (need a local Elasticsearch)
// ==========================

func createRealElasticsearchClient(t *testing.T) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: Failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("Skipping test: Elasticsearch container not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("Skipping test: Elasticsearch error: %s", res.String())
		return nil
	}

	return esClient
}

func setupRealTestData(t *testing.T, esClient *elasticsearch.Client) {
	esClient.Indices.Delete([]string{"crm-deals-test"}, esClient.Indices.Delete.WithIgnoreUnavailable(true))

	indexBody := `{
		"mappings": {
			"properties": {
				"title": {"type": "text"},
				"company": {"type": "text"},
				"next_step": {"type": "text"},
				"stage": {"type": "keyword"},
				"status": {"type": "keyword"},
				"risk_level": {"type": "keyword"},
				"amount": {"type": "double"},
				"score": {"type": "integer"}
			}
		}
	}`

	res, err := esClient.Indices.Create(
		"crm-deals-test",
		esClient.Indices.Create.WithBody(strings.NewReader(indexBody)),
	)
	require.NoError(t, err, "Failed to create index")
	res.Body.Close()

	testDocs := []map[string]interface{}{
		{
			"title":      "Licencias anuales Acme",
			"company":    "Acme Corp",
			"next_step":  "Enviar contrato",
			"stage":      "Negociación",
			"status":     "Open",
			"risk_level": "Bajo",
			"amount":     85000.0,
			"score":      78,
		},
		{
			"title":      "Renovación soporte",
			"company":    "Beta SL",
			"next_step":  "",
			"stage":      "Prospección",
			"status":     "Open",
			"risk_level": "Alto",
			"amount":     12000.0,
			"score":      41,
		},
	}

	for i, doc := range testDocs {
		docJSON, _ := json.Marshal(doc)
		res, err := esClient.Index(
			"crm-deals-test",
			strings.NewReader(string(docJSON)),
			esClient.Index.WithDocumentID(fmt.Sprintf("%d", i+1)),
			esClient.Index.WithRefresh("wait_for"),
		)
		require.NoError(t, err, "Failed to index document %d", i+1)
		res.Body.Close()
	}

	_, err = esClient.Indices.Refresh(esClient.Indices.Refresh.WithIndex("crm-deals-test"))
	require.NoError(t, err, "Failed to refresh index")
}

func TestHandler_Execute_Success_RealElasticsearch(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	if esClient == nil {
		return
	}
	setupRealTestData(t, esClient)

	handler := NewHandler(createTestConfig(), esClient, createTestLogger(t))

	tests := []struct {
		name     string
		input    *Input
		validate func(t *testing.T, output *Output)
	}{
		{
			name: "search all deals",
			input: &Input{
				EntityType: "deals",
				Pagination: Pagination{From: 0, Size: 10},
			},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, int64(2), output.TotalHits)
				assert.Equal(t, 2, len(output.Results))
			},
		},
		{
			name: "text search by company",
			input: &Input{
				EntityType: "deals",
				Query:      "Acme",
				Pagination: Pagination{From: 0, Size: 10},
			},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, int64(1), output.TotalHits)
				assert.Equal(t, "Licencias anuales Acme", output.Results[0]["title"])
			},
		},
		{
			name: "filter by risk level",
			input: &Input{
				EntityType: "deals",
				Filters:    map[string]interface{}{"riskLevel": "Alto"},
				Pagination: Pagination{From: 0, Size: 10},
			},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, int64(1), output.TotalHits)
				assert.Equal(t, "Renovación soporte", output.Results[0]["title"])
			},
		},
		{
			name: "filter by minimum amount",
			input: &Input{
				EntityType: "deals",
				Filters:    map[string]interface{}{"minAmount": 50000},
				Pagination: Pagination{From: 0, Size: 10},
			},
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, int64(1), output.TotalHits)
				assert.Equal(t, "Licencias anuales Acme", output.Results[0]["title"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, output)
			if tt.validate != nil {
				tt.validate(t, output)
			}
		})
	}
}
