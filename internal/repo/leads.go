package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadDeclined  = "declined"
)

// Lead is a consultation request left from the calculator page, with the
// sizing inputs the visitor had on screen.
type Lead struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Velocity  *float64  `json:"velocity,omitempty"`
	Friction  *float64  `json:"friction,omitempty"`
	CFM       *float64  `json:"cfm,omitempty"`
	Status    string    `json:"status"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadRepository interface {
	CreateLead(ctx context.Context, l Lead) (int, error)
	ListLeads(ctx context.Context, status string, limit int) ([]Lead, error)
	GetLead(ctx context.Context, id int) (Lead, error)
	UpdateLeadStatus(ctx context.Context, id int, status string) error
	ListUnnotifiedLeads(ctx context.Context) ([]Lead, error)
	MarkLeadNotified(ctx context.Context, id int) error
}

const leadColumns = "id, name, email, company, phone, message, velocity, friction, cfm, status, notified, created_at"

func (r *PostgresRepository) CreateLead(ctx context.Context, l Lead) (int, error) {
	var id int
	query := `INSERT INTO leads (name, email, company, phone, message, velocity, friction, cfm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, l.Name, l.Email, l.Company, l.Phone, l.Message, l.Velocity, l.Friction, l.CFM).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

// ListLeads returns newest first. An empty status lists every lead.
func (r *PostgresRepository) ListLeads(ctx context.Context, status string, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	query := "SELECT " + leadColumns + " FROM leads WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2"
	return r.queryLeads(ctx, query, status, limit)
}

func (r *PostgresRepository) ListUnnotifiedLeads(ctx context.Context) ([]Lead, error) {
	query := "SELECT " + leadColumns + " FROM leads WHERE notified = false ORDER BY id"
	return r.queryLeads(ctx, query)
}

func (r *PostgresRepository) GetLead(ctx context.Context, id int) (Lead, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads WHERE id=$1", id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead %d: %w", id, err)
	}
	return l, nil
}

func (r *PostgresRepository) UpdateLeadStatus(ctx context.Context, id int, status string) error {
	return r.execOne(ctx, "UPDATE leads SET status=$2 WHERE id=$1", id, status)
}

func (r *PostgresRepository) MarkLeadNotified(ctx context.Context, id int) error {
	return r.execOne(ctx, "UPDATE leads SET notified=true WHERE id=$1", id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) queryLeads(ctx context.Context, query string, args ...any) ([]Lead, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (Lead, error) {
	var (
		l                       Lead
		velocity, friction, cfm sql.NullFloat64
	)
	err := s.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Phone, &l.Message,
		&velocity, &friction, &cfm, &l.Status, &l.Notified, &l.CreatedAt)
	if err != nil {
		return Lead{}, err
	}
	l.Velocity = nullable(velocity)
	l.Friction = nullable(friction)
	l.CFM = nullable(cfm)
	return l, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadDeclined:
		return true
	}
	return false
}
