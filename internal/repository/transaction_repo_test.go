package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"siteledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SupplierTransaction{}))
	return db
}

func newPayment(no string) *model.SupplierTransaction {
	return &model.SupplierTransaction{
		TransactionNo: no,
		SupplierID:    1,
		ProjectID:     1,
		Kind:          model.KindPayment,
		Amount:        "100",
		Date:          time.Now().AddDate(0, 0, -1),
		Description:   "test payment",
		EnteredBy:     "test",
	}
}

func TestSetApprovalLink_ExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, newPayment("TXN-LINK-1")))

	require.NoError(t, repo.SetApprovalLink(ctx, "TXN-LINK-1", "PMO-1"))

	txn, err := repo.GetByTransactionNo(ctx, "TXN-LINK-1")
	require.NoError(t, err)
	require.NotNil(t, txn.LinkedApprovalEntryID)
	assert.Equal(t, "PMO-1", *txn.LinkedApprovalEntryID)

	// the link is write-once
	err = repo.SetApprovalLink(ctx, "TXN-LINK-1", "PMO-2")
	assert.ErrorIs(t, err, ErrLinkAlreadySet)

	txn, err = repo.GetByTransactionNo(ctx, "TXN-LINK-1")
	require.NoError(t, err)
	assert.Equal(t, "PMO-1", *txn.LinkedApprovalEntryID)
}

func TestSetApprovalLink_UnknownTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	err := repo.SetApprovalLink(context.Background(), "TXN-MISSING", "PMO-1")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestListUnlinkedPayments(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	old := newPayment("TXN-OLD")
	old.EnteredAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Create(ctx, nil, old))

	linked := newPayment("TXN-LINKED")
	linked.EnteredAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Create(ctx, nil, linked))
	require.NoError(t, repo.SetApprovalLink(ctx, "TXN-LINKED", "PMO-9"))

	fresh := newPayment("TXN-FRESH")
	require.NoError(t, repo.Create(ctx, nil, fresh))

	orphans, err := repo.ListUnlinkedPayments(ctx, time.Now().Add(-10*time.Minute), 100)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "TXN-OLD", orphans[0].TransactionNo)
}
