package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"siteledger/internal/ledger"
	"siteledger/internal/repository"

	"github.com/shopspring/decimal"
)

// parsePositiveAmount enforces write-path strictness. The lenient
// coerce-to-zero rule applies only when reading historical rows; a new
// entry with a malformed amount is rejected outright.
func parsePositiveAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, &ledger.ValidationError{Field: "amount", Reason: "not a valid number"}
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, &ledger.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return d, nil
}

func validateBusinessDate(date time.Time) error {
	if date.After(time.Now()) {
		return &ledger.ValidationError{Field: "date", Reason: "must not be in the future"}
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return &ledger.ValidationError{Field: "description", Reason: "required"}
	}
	return nil
}

// resolveRefs checks that the supplier and project a new entry points at
// actually exist. Missing references on the write path are validation
// failures, not not-found reads.
func resolveRefs(ctx context.Context, suppliers *repository.SupplierRepository, projects *repository.ProjectRepository, supplierID, projectID int64) error {
	if supplierID == 0 {
		return &ledger.ValidationError{Field: "supplier_id", Reason: "required"}
	}
	if projectID == 0 {
		return &ledger.ValidationError{Field: "project_id", Reason: "required"}
	}
	if _, err := suppliers.GetByID(ctx, supplierID); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return &ledger.ValidationError{Field: "supplier_id", Reason: "unknown supplier"}
		}
		return err
	}
	if _, err := projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return &ledger.ValidationError{Field: "project_id", Reason: "unknown project"}
		}
		return err
	}
	return nil
}
