package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/repository/repotest"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "150.50", "1000000", "12.345"} {
		d := decimal.RequireFromString(s)
		num, err := decimalToPgNumeric(d)
		require.NoError(t, err)
		assert.True(t, d.Equal(pgNumericToDecimal(num)), s)
	}
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestTransactionRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo, err := NewTransactionRepository(pool)
	require.NoError(t, err)

	repotest.TransactionRepository(t, func(t *testing.T) domain.TransactionRepository {
		_, err := pool.Exec(ctx, `TRUNCATE transactions`)
		require.NoError(t, err)
		return repo
	})
}
