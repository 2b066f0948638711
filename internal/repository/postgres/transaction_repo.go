// Package postgres stores transactions in relational tables.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

const transactionColumns = `id, description, amount, category, type, date, notes, tags, recurring, attachments, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL.
// List order follows the position column, which records insertion order.
type TransactionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository applies pending migrations and returns the repository.
func NewTransactionRepository(pool *pgxpool.Pool) (*TransactionRepository, error) {
	if err := kv.RunPostgresMigrations(pool, migrations, "migrations", "transactions_schema_migrations"); err != nil {
		return nil, err
	}
	return &TransactionRepository{pool: pool, now: time.Now}, nil
}

// Create inserts a new transaction with a fresh id.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	t := transaction.Clone()
	now := r.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Normalize()

	params, err := toRow(t)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (id, description, amount, category, type, date, notes, tags, recurring, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+transactionColumns,
		params...,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("%w: insert transaction: %w", domain.ErrStorage, err)
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTransactionNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: get transaction: %w", domain.ErrStorage, err)
	}
	return t, nil
}

// List returns every transaction in insertion order.
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %w", domain.ErrStorage, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list transactions: %w", domain.ErrStorage, err)
	}
	return transactions, nil
}

// Update locks the row, merges the patch and writes every column back.
func (r *TransactionRepository) Update(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	current, err := scanTransaction(tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: lock transaction: %w", domain.ErrStorage, err)
	}

	patch.Apply(current)
	current.Normalize()
	current.UpdatedAt = r.now().UTC()

	params, err := toRow(current)
	if err != nil {
		return nil, err
	}
	updated, err := scanTransaction(tx.QueryRow(ctx, `
		UPDATE transactions
		SET description = $2, amount = $3, category = $4, type = $5, date = $6, notes = $7,
		    tags = $8, recurring = $9, attachments = $10, updated_at = $11
		WHERE id = $1
		RETURNING `+transactionColumns,
		append(params[:10:10], current.UpdatedAt)...,
	))
	if err != nil {
		return nil, fmt.Errorf("%w: update transaction: %w", domain.ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", domain.ErrStorage, err)
	}
	return updated, nil
}

// Delete removes a transaction. Unknown ids are ignored.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteMany(ctx, []string{id})
}

// DeleteMany removes every listed transaction. Unknown ids are ignored.
func (r *TransactionRepository) DeleteMany(ctx context.Context, ids []string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = ANY($1::uuid[])`, valid); err != nil {
		return fmt.Errorf("%w: delete transactions: %w", domain.ErrStorage, err)
	}
	return nil
}

// Helper functions

func toRow(t *domain.Transaction) ([]any, error) {
	amount, err := decimalToPgNumeric(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var notes pgtype.Text
	if t.Notes != nil {
		notes.String = *t.Notes
		notes.Valid = true
	}

	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	var recurring []byte
	if t.Recurring != nil {
		recurring, err = json.Marshal(t.Recurring)
		if err != nil {
			return nil, fmt.Errorf("encode recurring: %w", err)
		}
	}

	attachments := t.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}

	return []any{
		t.ID,
		t.Description,
		amount,
		string(t.Category),
		string(t.Type),
		pgtype.Date{Time: t.Date, Valid: true},
		notes,
		tags,
		recurring,
		attachmentsJSON,
		t.CreatedAt,
		t.UpdatedAt,
	}, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id          pgtype.UUID
		t           domain.Transaction
		amount      pgtype.Numeric
		category    string
		txType      string
		date        pgtype.Date
		notes       pgtype.Text
		recurring   []byte
		attachments []byte
	)
	err := row.Scan(
		&id,
		&t.Description,
		&amount,
		&category,
		&txType,
		&date,
		&notes,
		&t.Tags,
		&recurring,
		&attachments,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.ID = uuid.UUID(id.Bytes).String()
	t.Amount = pgNumericToDecimal(amount)
	t.Category = domain.Category(category)
	t.Type = domain.TransactionType(txType)
	t.Date = date.Time
	if notes.Valid {
		t.Notes = &notes.String
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	if len(recurring) > 0 {
		var cfg domain.RecurringConfig
		if err := json.Unmarshal(recurring, &cfg); err != nil {
			return nil, fmt.Errorf("decode recurring: %w", err)
		}
		t.Recurring = &cfg
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
		if len(t.Attachments) == 0 {
			t.Attachments = nil
		}
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	t.Normalize()
	return &t, nil
}
