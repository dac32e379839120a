package service

import (
	"context"

	"siteledger/internal/ledger"
	"siteledger/internal/model"
	"siteledger/internal/repository"

	"gorm.io/gorm"
)

// SupplierService owns the supplier registry and every read-side ledger
// view. The views are recomputed from the full transaction set on each
// call; nothing derived is cached or persisted.
type SupplierService struct {
	db              *gorm.DB
	supplierRepo    *repository.SupplierRepository
	projectRepo     *repository.ProjectRepository
	transactionRepo *repository.TransactionRepository
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{
		db:              db,
		supplierRepo:    repository.NewSupplierRepository(db),
		projectRepo:     repository.NewProjectRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

func (s *SupplierService) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

func (s *SupplierService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

// GetBalance computes the supplier's balance, scoped to one project when
// projectID is nonzero.
func (s *SupplierService) GetBalance(ctx context.Context, supplierID, projectID int64) (ledger.Balance, error) {
	txns, err := s.transactionRepo.ListBySupplier(ctx, supplierID, projectID)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Calculate(txns, supplierID, projectID), nil
}

// GetStatement returns the supplier's running-balance history,
// newest-first.
func (s *SupplierService) GetStatement(ctx context.Context, supplierID int64) ([]ledger.StatementLine, error) {
	txns, err := s.transactionRepo.ListBySupplier(ctx, supplierID, 0)
	if err != nil {
		return nil, err
	}
	return ledger.Statement(txns), nil
}

// GetProjectBreakdown returns per-project balances for the supplier,
// settled projects omitted.
func (s *SupplierService) GetProjectBreakdown(ctx context.Context, supplierID int64) ([]ledger.BreakdownEntry, error) {
	txns, err := s.transactionRepo.ListBySupplier(ctx, supplierID, 0)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Breakdown(txns, supplierID, projects), nil
}

func (s *SupplierService) ListTransactions(ctx context.Context, supplierID int64, page, pageSize int) ([]model.SupplierTransaction, int64, error) {
	return s.transactionRepo.ListBySupplierPaged(ctx, supplierID, page, pageSize)
}
