// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crm-insight-workers/internal/models"
)

const dealColumns = `id, title, company, contact_id, amount, stage, probability,
	target_close_date, next_step, status, score, priority, risk_level,
	last_activity, stage_entered_at, owner_id, close_reason, created_at, updated_at`

// PostgresStore implements Store on top of database/sql (lib/pq driver).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetDeals(ctx context.Context) ([]models.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals ORDER BY created_at`, dealColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (s *PostgresStore) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE id = $1`, dealColumns)
	deal, err := scanDeal(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query deal %s: %w", id, err)
	}
	return deal, nil
}

func (s *PostgresStore) GetContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, position, score, priority,
			last_activity, owner_id, created_at, updated_at
		FROM contacts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		var email, company, position, priority, ownerID sql.NullString
		var score sql.NullInt64
		var lastActivity sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &email, &company, &position, &score,
			&priority, &lastActivity, &ownerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Email = email.String
		c.Company = company.String
		c.Position = position.String
		c.Score = int(score.Int64)
		c.Priority = models.Priority(priority.String)
		c.OwnerID = ownerID.String
		if lastActivity.Valid {
			t := lastActivity.Time
			c.LastActivity = &t
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *PostgresStore) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, company, position, score, priority,
			last_activity, owner_id, created_at, updated_at
		FROM contacts WHERE id = $1`, id)

	var c models.Contact
	var email, company, position, priority, ownerID sql.NullString
	var score sql.NullInt64
	var lastActivity sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &email, &company, &position, &score,
		&priority, &lastActivity, &ownerID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query contact %s: %w", id, err)
	}
	c.Email = email.String
	c.Company = company.String
	c.Position = position.String
	c.Score = int(score.Int64)
	c.Priority = models.Priority(priority.String)
	c.OwnerID = ownerID.String
	if lastActivity.Valid {
		t := lastActivity.Time
		c.LastActivity = &t
	}
	return &c, nil
}

func (s *PostgresStore) GetContactDeals(ctx context.Context, contactID string) ([]models.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE contact_id = $1 ORDER BY created_at`, dealColumns)
	rows, err := s.db.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("query contact deals: %w", err)
	}
	defer rows.Close()
	return scanDeals(rows)
}

func (s *PostgresStore) GetTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, state, priority, due_at, completed_at,
			owner_id, created_at, updated_at
		FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var description, priority, ownerID sql.NullString
		var state string
		var dueAt, completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &description, &state, &priority,
			&dueAt, &completedAt, &ownerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Description = description.String
		t.State = models.NormalizeTaskState(state)
		t.Priority = models.Priority(priority.String)
		t.OwnerID = ownerID.String
		if dueAt.Valid {
			d := dueAt.Time
			t.DueAt = &d
		}
		if completedAt.Valid {
			c := completedAt.Time
			t.CompletedAt = &c
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) SaveDealInsights(ctx context.Context, dealID string, score int, priority models.Priority, risk models.RiskLevel) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE deals SET score = $2, priority = $3, risk_level = $4, updated_at = NOW()
		WHERE id = $1`, dealID, score, string(priority), string(risk))
	if err != nil {
		return fmt.Errorf("save deal insights: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CloseDeal(ctx context.Context, dealID string, status models.DealStatus, closeReason string) error {
	if err := validateClose(status, closeReason); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE deals SET status = $2, close_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		dealID, string(status), closeReason, string(models.DealStatusOpen))
	if err != nil {
		return fmt.Errorf("close deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	var d models.Deal
	var company, contactID, nextStep, priority, riskLevel, ownerID, closeReason sql.NullString
	var amount sql.NullFloat64
	var score sql.NullInt64
	var targetCloseDate, lastActivity, stageEnteredAt sql.NullTime
	var stage, status string

	err := row.Scan(&d.ID, &d.Title, &company, &contactID, &amount, &stage,
		&d.Probability, &targetCloseDate, &nextStep, &status, &score, &priority,
		&riskLevel, &lastActivity, &stageEnteredAt, &ownerID, &closeReason,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d.Company = company.String
	d.ContactID = contactID.String
	d.Amount = amount.Float64
	d.Stage = models.Stage(stage)
	d.NextStep = nextStep.String
	d.Status = models.DealStatus(status)
	d.Score = int(score.Int64)
	d.Priority = models.Priority(priority.String)
	d.RiskLevel = models.RiskLevel(riskLevel.String)
	d.OwnerID = ownerID.String
	d.CloseReason = closeReason.String
	if targetCloseDate.Valid {
		t := targetCloseDate.Time
		d.TargetCloseDate = &t
	}
	if lastActivity.Valid {
		t := lastActivity.Time
		d.LastActivity = &t
	}
	if stageEnteredAt.Valid {
		t := stageEnteredAt.Time
		d.StageEnteredAt = &t
	}
	return &d, nil
}

func scanDeals(rows *sql.Rows) ([]models.Deal, error) {
	deals := []models.Deal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}
