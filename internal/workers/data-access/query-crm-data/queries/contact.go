// internal/workers/data-access/query-crm-data/queries/contact.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func ContactProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	contactID, ok := params["contactId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name string
	var email, phone, company, position, ownerID sql.NullString
	var lastActivity sql.NullTime
	var createdAt time.Time

	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, company, position, last_activity, owner_id, created_at
		FROM contacts
		WHERE id = $1`, contactID).Scan(
		&id, &name, &email, &phone, &company, &position, &lastActivity, &ownerID, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":        id,
		"name":      name,
		"email":     email.String,
		"phone":     phone.String,
		"company":   company.String,
		"position":  position.String,
		"ownerId":   ownerID.String,
		"createdAt": createdAt.Format(time.RFC3339),
	}
	if lastActivity.Valid {
		result["lastActivity"] = lastActivity.Time.Format(time.RFC3339)
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func ContactDeals(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	contactID, ok := params["contactId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, amount, stage, probability, status
		FROM deals
		WHERE contact_id = $1
		ORDER BY created_at`, contactID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, title, stage, status string
		var amount, probability float64
		if err := rows.Scan(&id, &title, &amount, &stage, &probability, &status); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":          id,
			"title":       title,
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
