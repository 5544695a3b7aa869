// internal/workers/data-access/query-crm-data/queries/deal.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func DealFullDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	dealID, ok := params["dealId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, title, stage, status string
	var company, contactID, nextStep, priority, riskLevel, ownerID sql.NullString
	var amount, probability float64
	var score sql.NullInt64
	var targetCloseDate, lastActivity sql.NullTime
	var createdAt, updatedAt time.Time

	err := db.QueryRowContext(ctx, `
		SELECT id, title, company, contact_id, amount, stage, probability,
		       target_close_date, next_step, status, score, priority, risk_level,
		       last_activity, owner_id, created_at, updated_at
		FROM deals
		WHERE id = $1`, dealID).Scan(
		&id, &title, &company, &contactID, &amount, &stage, &probability,
		&targetCloseDate, &nextStep, &status, &score, &priority, &riskLevel,
		&lastActivity, &ownerID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":          id,
		"title":       title,
		"company":     company.String,
		"contactId":   contactID.String,
		"amount":      amount,
		"stage":       stage,
		"probability": probability,
		"nextStep":    nextStep.String,
		"status":      status,
		"score":       score.Int64,
		"priority":    priority.String,
		"riskLevel":   riskLevel.String,
		"ownerId":     ownerID.String,
		"createdAt":   createdAt.Format(time.RFC3339),
		"updatedAt":   updatedAt.Format(time.RFC3339),
	}
	if targetCloseDate.Valid {
		result["targetCloseDate"] = targetCloseDate.Time.Format(time.RFC3339)
	}
	if lastActivity.Valid {
		result["lastActivity"] = lastActivity.Time.Format(time.RFC3339)
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func DealsByOwner(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	ownerID, ok := params["ownerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, company, amount, stage, probability, status
		FROM deals
		WHERE owner_id = $1
		ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, title, stage, status string
		var company sql.NullString
		var amount, probability float64
		if err := rows.Scan(&id, &title, &company, &amount, &stage, &probability, &status); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":          id,
			"title":       title,
			"company":     company.String,
			"amount":      amount,
			"stage":       stage,
			"probability": probability,
			"status":      status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func OpenDealsSummary(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT stage, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(probability), 0)
		FROM deals
		WHERE status = 'Open'
		GROUP BY stage
		ORDER BY stage`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var stage string
		var count int
		var totalAmount, avgProbability float64
		if err := rows.Scan(&stage, &count, &totalAmount, &avgProbability); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"stage":          stage,
			"dealCount":      count,
			"totalAmount":    totalAmount,
			"avgProbability": avgProbability,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
