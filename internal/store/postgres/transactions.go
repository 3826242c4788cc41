package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paybridge/gateway/internal/service"
)

type TransactionRepository struct {
	pool Executor
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{pool: db.Pool}
}

const transactionColumns = `id, gateway, operation, amount_cents, approved,
	response_text, auth_code, avs_response, cvv_response,
	trans_id, alt_trans_id, response_time, created_at`

// RecordTransaction appends one operation outcome to the log.
func (r *TransactionRepository) RecordTransaction(ctx context.Context, t *service.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Gateway,
		t.Operation,
		t.AmountCents,
		t.Approved,
		t.ResponseText,
		t.AuthCode,
		t.AVSResponse,
		t.CVVResponse,
		t.TransID,
		t.AltTransID,
		t.ResponseTime,
		t.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("duplicate transaction reference %s: %w", t.ID, err)
		}
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// FindTransaction retrieves a logged outcome by its reference id.
func (r *TransactionRepository) FindTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
			  FROM transactions
			  WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByGateway pages through one gateway's log, newest first.
func (r *TransactionRepository) ListTransactionsByGateway(ctx context.Context, gatewayName string, limit, offset int) ([]*service.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
			  FROM transactions
			  WHERE gateway = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, gatewayName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transactions by gateway: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*service.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return results, nil
}

func scanTransaction(row pgx.Row) (*service.Transaction, error) {
	var t service.Transaction
	err := row.Scan(
		&t.ID,
		&t.Gateway,
		&t.Operation,
		&t.AmountCents,
		&t.Approved,
		&t.ResponseText,
		&t.AuthCode,
		&t.AVSResponse,
		&t.CVVResponse,
		&t.TransID,
		&t.AltTransID,
		&t.ResponseTime,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
