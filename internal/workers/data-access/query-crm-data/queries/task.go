// internal/workers/data-access/query-crm-data/queries/task.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func OverdueTasks(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, state, priority, due_at, owner_id
		FROM tasks
		WHERE state <> 'Completed'
		  AND (state = 'Overdue' OR due_at < NOW())
		ORDER BY due_at`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, title, state string
		var priority, ownerID sql.NullString
		var dueAt sql.NullTime
		if err := rows.Scan(&id, &title, &state, &priority, &dueAt, &ownerID); err != nil {
			return nil, 0, 0, err
		}
		row := map[string]interface{}{
			"id":       id,
			"title":    title,
			"state":    state,
			"priority": priority.String,
			"ownerId":  ownerID.String,
		}
		if dueAt.Valid {
			row["dueAt"] = dueAt.Time.Format(time.RFC3339)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
