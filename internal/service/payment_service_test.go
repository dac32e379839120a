package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"siteledger/internal/ledger"
	"siteledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment_CreatesLinkedApprovalEntry(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, model.KindPurchase, "1000")

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	resp, err := svc.RecordPayment(context.Background(), &RecordPaymentRequest{
		SupplierID:  supplierID,
		ProjectID:   projectID,
		Amount:      "400",
		Date:        yesterday(),
		PaymentMode: "bank_transfer",
		Description: "progress payment",
		EnteredBy:   "tester",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.TransactionNo)
	require.NotEmpty(t, resp.LinkedApprovalEntryNo)

	// ledger transaction carries the link
	var txn model.SupplierTransaction
	require.NoError(t, db.Where("transaction_no = ?", resp.TransactionNo).First(&txn).Error)
	require.NotNil(t, txn.LinkedApprovalEntryID)
	assert.Equal(t, resp.LinkedApprovalEntryNo, *txn.LinkedApprovalEntryID)
	assert.Equal(t, model.KindPayment, txn.Kind)
	assert.Equal(t, "400", txn.Amount)

	// approval entry holds the back-reference and starts pending
	var entry model.PaymentOutEntry
	require.NoError(t, db.Where("entry_no = ?", resp.LinkedApprovalEntryNo).First(&entry).Error)
	assert.Equal(t, resp.TransactionNo, entry.TransactionNo)
	assert.Equal(t, model.PaymentOutStatusPendingApproval, entry.Status)

	// ledger event queued
	var outboxCount int64
	require.NoError(t, db.Model(&model.OutboxMessage{}).Where("message_key = ?", resp.TransactionNo).Count(&outboxCount).Error)
	assert.Equal(t, int64(1), outboxCount)
}

func TestRecordPayment_ExceedsOutstandingBalance(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, model.KindPurchase, "1000")

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentRequest{
		SupplierID:  supplierID,
		ProjectID:   projectID,
		Amount:      "1500",
		Date:        yesterday(),
		PaymentMode: "cash",
		Description: "too much",
	})

	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount", validationErr.Field)

	// nothing was written
	var paymentCount int64
	require.NoError(t, db.Model(&model.SupplierTransaction{}).Where("kind = ?", model.KindPayment).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)
	var entryCount int64
	require.NoError(t, db.Model(&model.PaymentOutEntry{}).Count(&entryCount).Error)
	assert.Zero(t, entryCount)
}

func TestRecordPayment_LegacyPurchaseKindCountsTowardOutstanding(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, "credit", "800")

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentRequest{
		SupplierID:  supplierID,
		ProjectID:   projectID,
		Amount:      "800",
		Date:        yesterday(),
		PaymentMode: "cheque",
		Description: "settle legacy balance",
	})
	require.NoError(t, err)
}

func TestRecordPayment_ValidationFailures(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, model.KindPurchase, "1000")

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	cases := []struct {
		name  string
		req   *RecordPaymentRequest
		field string
	}{
		{
			name: "future date",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: projectID,
				Amount: "100", Date: time.Now().AddDate(0, 0, 2),
				PaymentMode: "cash", Description: "x",
			},
			field: "date",
		},
		{
			name: "missing payment mode",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: projectID,
				Amount: "100", Date: yesterday(), Description: "x",
			},
			field: "payment_mode",
		},
		{
			name: "blank description",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: projectID,
				Amount: "100", Date: yesterday(), PaymentMode: "cash", Description: "   ",
			},
			field: "description",
		},
		{
			name: "non positive amount",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: projectID,
				Amount: "0", Date: yesterday(), PaymentMode: "cash", Description: "x",
			},
			field: "amount",
		},
		{
			name: "malformed amount",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: projectID,
				Amount: "12,5", Date: yesterday(), PaymentMode: "cash", Description: "x",
			},
			field: "amount",
		},
		{
			name: "unknown project",
			req: &RecordPaymentRequest{
				SupplierID: supplierID, ProjectID: 424242,
				Amount: "100", Date: yesterday(), PaymentMode: "cash", Description: "x",
			},
			field: "project_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordPayment(context.Background(), tc.req)
			var validationErr *ledger.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestRecordPayment_ApprovalEntryFailureLeavesUnlinkedTransaction(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, model.KindPurchase, "1000")

	// break the second store so the write sequence dies between steps
	require.NoError(t, db.Migrator().DropTable(&model.PaymentOutEntry{}))

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentRequest{
		SupplierID:  supplierID,
		ProjectID:   projectID,
		Amount:      "400",
		Date:        yesterday(),
		PaymentMode: "bank_transfer",
		Description: "progress payment",
	})

	var storeErr *ledger.StoreWriteError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, ledger.StepApprovalEntry, storeErr.Step)

	// step 1 landed and stays: exactly one payment, still unlinked,
	// for the orphan scanner to report
	var orphans []model.SupplierTransaction
	require.NoError(t, db.
		Where("kind = ? AND linked_approval_entry_id IS NULL", model.KindPayment).
		Find(&orphans).Error)
	require.Len(t, orphans, 1)
	assert.Equal(t, "400", orphans[0].Amount)

	// no event for a payment that never completed
	var outboxCount int64
	require.NoError(t, db.Model(&model.OutboxMessage{}).Count(&outboxCount).Error)
	assert.Zero(t, outboxCount)
}

func TestCheckUnchanged_LedgerGrewAfterValidation(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)
	seedTransaction(t, db, supplierID, projectID, model.KindPurchase, "1000")

	svc := NewPaymentService(db, noopLockFactory, testConfig())
	ctx := context.Background()

	// validation saw an empty ledger, then a row appeared
	err := svc.checkUnchanged(ctx, supplierID, projectID, 0)
	var concurrentErr *ledger.ConcurrentModificationError
	require.ErrorAs(t, err, &concurrentErr)
	assert.Equal(t, supplierID, concurrentErr.SupplierID)
	assert.Equal(t, projectID, concurrentErr.ProjectID)

	// matching count passes
	require.NoError(t, svc.checkUnchanged(ctx, supplierID, projectID, 1))
}

func TestRunStep_TagsFailuresWithStep(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.Business.WriteTimeoutSeconds = 1

	svc := NewPaymentService(db, noopLockFactory, cfg)

	// a write that never returns hits the step deadline
	err := svc.runStep(context.Background(), ledger.StepLinkBack, func(stepCtx context.Context) error {
		<-stepCtx.Done()
		return stepCtx.Err()
	})
	var timeoutErr *ledger.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, ledger.StepLinkBack, timeoutErr.Step)

	// an ordinary failure is wrapped with the step name
	err = svc.runStep(context.Background(), ledger.StepTransaction, func(context.Context) error {
		return errors.New("disk full")
	})
	var storeErr *ledger.StoreWriteError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, ledger.StepTransaction, storeErr.Step)
}

func TestRecordPayment_SettledLedgerRejectsAnyAmount(t *testing.T) {
	db := newTestDB(t)
	supplierID, projectID := seedSupplierAndProject(t, db)

	svc := NewPaymentService(db, noopLockFactory, testConfig())

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentRequest{
		SupplierID:  supplierID,
		ProjectID:   projectID,
		Amount:      "1",
		Date:        yesterday(),
		PaymentMode: "cash",
		Description: "nothing owed",
	})

	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount", validationErr.Field)
}
