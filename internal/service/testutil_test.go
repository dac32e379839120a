package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"siteledger/internal/config"
	"siteledger/internal/infrastructure/lock"
	"siteledger/internal/model"

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

	require.NoError(t, db.AutoMigrate(
		&model.Supplier{},
		&model.Project{},
		&model.SupplierTransaction{},
		&model.PaymentOutEntry{},
		&model.OutboxMessage{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			WriteTimeoutSeconds: 5,
			MaxRetryCount:       3,
		},
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{LedgerEvents: "test.ledger.events"},
		},
	}
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, time.Duration, int) error { return nil }
func (noopLocker) Unlock(context.Context) error                   { return nil }

func noopLockFactory(int64, int64) lock.Locker { return noopLocker{} }

func seedSupplierAndProject(t *testing.T, db *gorm.DB) (supplierID, projectID int64) {
	t.Helper()
	supplier := &model.Supplier{Name: "Acme Cement " + t.Name()}
	require.NoError(t, db.Create(supplier).Error)
	project := &model.Project{Name: "Hillside Build", Status: model.ProjectStatusActive}
	require.NoError(t, db.Create(project).Error)
	return supplier.ID, project.ID
}

func seedTransaction(t *testing.T, db *gorm.DB, supplierID, projectID int64, kind, amount string) *model.SupplierTransaction {
	t.Helper()
	txn := &model.SupplierTransaction{
		TransactionNo: fmt.Sprintf("TXNSEED%s%d%s", t.Name(), supplierID, kind),
		SupplierID:    supplierID,
		ProjectID:     projectID,
		Kind:          kind,
		Amount:        amount,
		Date:          time.Now().AddDate(0, 0, -7),
		Description:   "seed",
		EnteredBy:     "test",
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1)
}
