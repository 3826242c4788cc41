package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paybridge/gateway/internal/service"
	"github.com/paybridge/gateway/internal/store/postgres"
	"github.com/paybridge/gateway/internal/store/postgres/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransaction(gatewayName, operation string) *service.Transaction {
	return &service.Transaction{
		ID:           uuid.New(),
		Gateway:      gatewayName,
		Operation:    operation,
		AmountCents:  1000,
		Approved:     true,
		ResponseText: "This transaction has been approved.",
		AuthCode:     "AUTHCODE1",
		AVSResponse:  "Y",
		TransID:      "TXN123",
		ResponseTime: "0.42",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestTransactionRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	td := testhelpers.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := postgres.NewTransactionRepository(td.DB)
	ctx := context.Background()

	t.Run("record and find round trip", func(t *testing.T) {
		td.CleanTables(t)

		want := newTransaction("authorizenet", "authorize")
		require.NoError(t, repo.RecordTransaction(ctx, want))

		got, err := repo.FindTransaction(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, "authorizenet", got.Gateway)
		assert.Equal(t, "authorize", got.Operation)
		assert.Equal(t, int64(1000), got.AmountCents)
		assert.True(t, got.Approved)
		assert.Equal(t, "AUTHCODE1", got.AuthCode)
		assert.Equal(t, "TXN123", got.TransID)
		assert.Equal(t, "0.42", got.ResponseTime)
	})

	t.Run("find missing transaction", func(t *testing.T) {
		td.CleanTables(t)

		_, err := repo.FindTransaction(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrTransactionNotFound)
	})

	t.Run("duplicate reference id rejected", func(t *testing.T) {
		td.CleanTables(t)

		tx := newTransaction("paypal", "capture")
		require.NoError(t, repo.RecordTransaction(ctx, tx))
		assert.Error(t, repo.RecordTransaction(ctx, tx))
	})

	t.Run("list by gateway pages newest first", func(t *testing.T) {
		td.CleanTables(t)

		older := newTransaction("stripe", "capture")
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		newer := newTransaction("stripe", "credit")
		other := newTransaction("paypal", "void")

		require.NoError(t, repo.RecordTransaction(ctx, older))
		require.NoError(t, repo.RecordTransaction(ctx, newer))
		require.NoError(t, repo.RecordTransaction(ctx, other))

		got, err := repo.ListTransactionsByGateway(ctx, "stripe", 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)

		page, err := repo.ListTransactionsByGateway(ctx, "stripe", 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, older.ID, page[0].ID)
	})
}
