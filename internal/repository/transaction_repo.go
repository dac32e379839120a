package repository

import (
	"context"
	"errors"
	"time"

	"siteledger/internal/model"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLinkAlreadySet      = errors.New("approval link already set")
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, txn *model.SupplierTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) GetByTransactionNo(ctx context.Context, transactionNo string) (*model.SupplierTransaction, error) {
	var txn model.SupplierTransaction
	err := r.db.WithContext(ctx).Where("transaction_no = ?", transactionNo).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// SetApprovalLink attaches the payment-out entry reference to a payment
// transaction. The link may be written exactly once; the WHERE clause is
// the guard, so a second attempt reports ErrLinkAlreadySet instead of
// silently rewriting history.
func (r *TransactionRepository) SetApprovalLink(ctx context.Context, transactionNo, entryNo string) error {
	result := r.db.WithContext(ctx).
		Model(&model.SupplierTransaction{}).
		Where("transaction_no = ? AND kind = ? AND linked_approval_entry_id IS NULL", transactionNo, model.KindPayment).
		Update("linked_approval_entry_id", entryNo)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetByTransactionNo(ctx, transactionNo); err != nil {
			return err
		}
		return ErrLinkAlreadySet
	}

	return nil
}

// ListBySupplier loads the complete transaction set for a supplier,
// optionally scoped to one project (projectID == 0 means all projects).
// Balances are always recomputed over the full set, so there is no
// pagination here.
func (r *TransactionRepository) ListBySupplier(ctx context.Context, supplierID, projectID int64) ([]model.SupplierTransaction, error) {
	var txns []model.SupplierTransaction
	query := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID)
	if projectID != 0 {
		query = query.Where("project_id = ?", projectID)
	}
	err := query.Find(&txns).Error
	return txns, err
}

// CountBySupplierProject backs the coordinator's change check: the ledger
// is append-only, so an unchanged row count means an unchanged ledger.
func (r *TransactionRepository) CountBySupplierProject(ctx context.Context, supplierID, projectID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SupplierTransaction{}).
		Where("supplier_id = ? AND project_id = ?", supplierID, projectID).
		Count(&count).Error
	return count, err
}

func (r *TransactionRepository) ListBySupplierPaged(ctx context.Context, supplierID int64, page, pageSize int) ([]model.SupplierTransaction, int64, error) {
	var txns []model.SupplierTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.SupplierTransaction{}).Where("supplier_id = ?", supplierID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("date DESC, entered_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error

	return txns, total, err
}

// ListUnlinkedPayments finds payment transactions still missing their
// approval-entry link after the grace period, the leftovers of a write
// sequence that failed between steps.
func (r *TransactionRepository) ListUnlinkedPayments(ctx context.Context, enteredBefore time.Time, limit int) ([]model.SupplierTransaction, error) {
	var txns []model.SupplierTransaction
	err := r.db.WithContext(ctx).
		Where("kind = ? AND linked_approval_entry_id IS NULL AND entered_at < ?", model.KindPayment, enteredBefore).
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
