package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"siteledger/internal/config"
	"siteledger/internal/infrastructure/lock"
	"siteledger/internal/ledger"
	"siteledger/internal/model"
	"siteledger/internal/repository"
	"siteledger/pkg/idgen"

	"gorm.io/gorm"
)

// PaymentService coordinates payment recording across the two logical
// stores: the ledger transaction table and the payment-out approval
// entries. Recording is three sequential writes with no rollback:
//
//	1. create the ledger transaction (approval link nil)
//	2. create the payment-out entry referencing the transaction
//	3. set the approval link on the transaction
//
// A failure after step 1 leaves an orphaned or half-linked transaction.
// The error names the failed step and the orphan-link scanner reports
// survivors for manual reconciliation; compensating deletes are not
// attempted.
type PaymentService struct {
	db              *gorm.DB
	cfg             *config.Config
	lockFactory     lock.Factory
	supplierRepo    *repository.SupplierRepository
	projectRepo     *repository.ProjectRepository
	transactionRepo *repository.TransactionRepository
	paymentOutRepo  *repository.PaymentOutRepository
	outboxRepo      *repository.OutboxRepository
}

func NewPaymentService(db *gorm.DB, lockFactory lock.Factory, cfg *config.Config) *PaymentService {
	return &PaymentService{
		db:              db,
		cfg:             cfg,
		lockFactory:     lockFactory,
		supplierRepo:    repository.NewSupplierRepository(db),
		projectRepo:     repository.NewProjectRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		paymentOutRepo:  repository.NewPaymentOutRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

type RecordPaymentRequest struct {
	SupplierID  int64     `json:"supplier_id"`
	ProjectID   int64     `json:"project_id"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	PaymentMode string    `json:"payment_mode"`
	Description string    `json:"description"`
	EnteredBy   string    `json:"entered_by"`
}

type RecordPaymentResponse struct {
	TransactionNo         string `json:"transaction_id"`
	LinkedApprovalEntryNo string `json:"linked_approval_entry_id"`
}

// RecordPayment validates and executes the three-step write sequence.
// All validation happens under the supplier+project lock so the
// outstanding balance cannot move between check and write.
func (s *PaymentService) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*RecordPaymentResponse, error) {
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
	if req.PaymentMode == "" {
		return nil, &ledger.ValidationError{Field: "payment_mode", Reason: "required"}
	}
	if err := resolveRefs(ctx, s.supplierRepo, s.projectRepo, req.SupplierID, req.ProjectID); err != nil {
		return nil, err
	}

	ledgerLock := s.lockFactory(req.SupplierID, req.ProjectID)
	if err := ledgerLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("ledger busy, retry later: %w", err)
	}
	defer ledgerLock.Unlock(ctx)

	txns, err := s.transactionRepo.ListBySupplier(ctx, req.SupplierID, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	versionAtValidation := int64(len(txns))

	balance := ledger.Calculate(txns, req.SupplierID, req.ProjectID)
	if balance.BalanceType != ledger.BalanceTypePayable || amount.GreaterThan(balance.OutstandingBalance) {
		return nil, &ledger.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("exceeds outstanding balance %s", balance.RawBalance),
		}
	}

	if err := s.checkUnchanged(ctx, req.SupplierID, req.ProjectID, versionAtValidation); err != nil {
		return nil, err
	}

	transactionNo := idgen.GenerateTransactionNo()
	entryNo := idgen.GeneratePaymentOutNo()
	enteredBy := req.EnteredBy
	if enteredBy == "" {
		enteredBy = "system"
	}

	txn := &model.SupplierTransaction{
		TransactionNo: transactionNo,
		SupplierID:    req.SupplierID,
		ProjectID:     req.ProjectID,
		Kind:          model.KindPayment,
		Amount:        amount.String(),
		Date:          req.Date,
		Description:   req.Description,
		PaymentMode:   req.PaymentMode,
		EnteredBy:     enteredBy,
	}
	err = s.runStep(ctx, ledger.StepTransaction, func(stepCtx context.Context) error {
		return s.transactionRepo.Create(stepCtx, nil, txn)
	})
	if err != nil {
		return nil, err
	}

	entry := &model.PaymentOutEntry{
		EntryNo:       entryNo,
		TransactionNo: transactionNo,
		SupplierID:    req.SupplierID,
		ProjectID:     req.ProjectID,
		Amount:        amount.String(),
		PaymentMode:   req.PaymentMode,
		Description:   req.Description,
		Status:        model.PaymentOutStatusPendingApproval,
		RequestedBy:   enteredBy,
	}
	err = s.runStep(ctx, ledger.StepApprovalEntry, func(stepCtx context.Context) error {
		return s.paymentOutRepo.Create(stepCtx, nil, entry)
	})
	if err != nil {
		return nil, err
	}

	err = s.runStep(ctx, ledger.StepLinkBack, func(stepCtx context.Context) error {
		return s.transactionRepo.SetApprovalLink(stepCtx, transactionNo, entryNo)
	})
	if err != nil {
		return nil, err
	}

	s.emitEvent(ctx, txn, entryNo)

	log.Printf("[PaymentService] payment recorded: txn=%s entry=%s supplier=%d project=%d amount=%s",
		transactionNo, entryNo, req.SupplierID, req.ProjectID, amount)

	return &RecordPaymentResponse{
		TransactionNo:         transactionNo,
		LinkedApprovalEntryNo: entryNo,
	}, nil
}

// checkUnchanged asserts the supplier+project ledger still holds the
// row count seen at validation. The lock already serializes writers, so
// this only trips if the lock expired under us; the ledger is
// append-only, so an unchanged count means an unchanged balance.
func (s *PaymentService) checkUnchanged(ctx context.Context, supplierID, projectID, versionAtValidation int64) error {
	count, err := s.transactionRepo.CountBySupplierProject(ctx, supplierID, projectID)
	if err != nil {
		return fmt.Errorf("recheck ledger: %w", err)
	}
	if count != versionAtValidation {
		return &ledger.ConcurrentModificationError{SupplierID: supplierID, ProjectID: projectID}
	}
	return nil
}

// runStep executes one store write under a bounded deadline and tags
// failures with the step name.
func (s *PaymentService) runStep(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	timeout := time.Duration(s.cfg.Business.WriteTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := fn(stepCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ledger.TimeoutError{Step: step, Err: err}
		}
		return &ledger.StoreWriteError{Step: step, Err: err}
	}
	return nil
}

// emitEvent queues the ledger event. The event feed is advisory: a
// failure here is logged, never surfaced, because the payment itself has
// already fully landed.
func (s *PaymentService) emitEvent(ctx context.Context, txn *model.SupplierTransaction, entryNo string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"event":                    model.EventPaymentRecorded,
		"transaction_no":           txn.TransactionNo,
		"linked_approval_entry_id": entryNo,
		"supplier_id":              txn.SupplierID,
		"project_id":               txn.ProjectID,
		"kind":                     txn.Kind,
		"amount":                   txn.Amount,
		"date":                     txn.Date.Format(time.RFC3339),
	})

	msg := &model.OutboxMessage{
		MessageKey: txn.TransactionNo,
		Topic:      s.cfg.Kafka.Topic.LedgerEvents,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
	if err := s.outboxRepo.Create(ctx, nil, msg); err != nil {
		storeErr := &ledger.StoreWriteError{Step: ledger.StepEvent, Err: err}
		log.Printf("[PaymentService] queue ledger event failed: txn=%s err=%v", txn.TransactionNo, storeErr)
	}
}
