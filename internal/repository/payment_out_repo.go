package repository

import (
	"context"
	"errors"

	"siteledger/internal/model"

	"gorm.io/gorm"
)

var ErrPaymentOutNotFound = errors.New("payment-out entry not found")

type PaymentOutRepository struct {
	db *gorm.DB
}

func NewPaymentOutRepository(db *gorm.DB) *PaymentOutRepository {
	return &PaymentOutRepository{db: db}
}

func (r *PaymentOutRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.PaymentOutEntry) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *PaymentOutRepository) GetByEntryNo(ctx context.Context, entryNo string) (*model.PaymentOutEntry, error) {
	var entry model.PaymentOutEntry
	err := r.db.WithContext(ctx).Where("entry_no = ?", entryNo).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentOutNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PaymentOutRepository) GetByTransactionNo(ctx context.Context, transactionNo string) (*model.PaymentOutEntry, error) {
	var entry model.PaymentOutEntry
	err := r.db.WithContext(ctx).Where("transaction_no = ?", transactionNo).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
