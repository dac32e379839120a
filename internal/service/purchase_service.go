package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"siteledger/internal/config"
	"siteledger/internal/ledger"
	"siteledger/internal/model"
	"siteledger/internal/repository"
	"siteledger/pkg/idgen"

	"gorm.io/gorm"
)

// PurchaseService records purchases: the simple single-store path.
// No approval entry exists for purchases, so unlike payments the ledger
// row and its event can share one database transaction.
type PurchaseService struct {
	db              *gorm.DB
	cfg             *config.Config
	supplierRepo    *repository.SupplierRepository
	projectRepo     *repository.ProjectRepository
	transactionRepo *repository.TransactionRepository
	outboxRepo      *repository.OutboxRepository
}

func NewPurchaseService(db *gorm.DB, cfg *config.Config) *PurchaseService {
	return &PurchaseService{
		db:              db,
		cfg:             cfg,
		supplierRepo:    repository.NewSupplierRepository(db),
		projectRepo:     repository.NewProjectRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

type RecordPurchaseRequest struct {
	SupplierID  int64     `json:"supplier_id"`
	ProjectID   int64     `json:"project_id"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	EnteredBy   string    `json:"entered_by"`
}

type RecordPurchaseResponse struct {
	TransactionNo string `json:"transaction_id"`
}

func (s *PurchaseService) RecordPurchase(ctx context.Context, req *RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := validateBusinessDate(req.Date); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := resolveRefs(ctx, s.supplierRepo, s.projectRepo, req.SupplierID, req.ProjectID); err != nil {
		return nil, err
	}

	enteredBy := req.EnteredBy
	if enteredBy == "" {
		enteredBy = "system"
	}

	txn := &model.SupplierTransaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		SupplierID:    req.SupplierID,
		ProjectID:     req.ProjectID,
		Kind:          model.KindPurchase,
		Amount:        amount.String(),
		Date:          req.Date,
		Description:   req.Description,
		EnteredBy:     enteredBy,
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"event":          model.EventPurchaseRecorded,
		"transaction_no": txn.TransactionNo,
		"supplier_id":    txn.SupplierID,
		"project_id":     txn.ProjectID,
		"kind":           txn.Kind,
		"amount":         txn.Amount,
		"date":           txn.Date.Format(time.RFC3339),
	})
	msg := &model.OutboxMessage{
		MessageKey: txn.TransactionNo,
		Topic:      s.cfg.Kafka.Topic.LedgerEvents,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(ctx, tx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("queue ledger event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &ledger.StoreWriteError{Step: ledger.StepTransaction, Err: err}
	}

	log.Printf("[PurchaseService] purchase recorded: txn=%s supplier=%d project=%d amount=%s",
		txn.TransactionNo, req.SupplierID, req.ProjectID, amount)

	return &RecordPurchaseResponse{TransactionNo: txn.TransactionNo}, nil
}
