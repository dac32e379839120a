package job

import (
	"context"
	"log"
	"time"

	"siteledger/internal/config"
	"siteledger/internal/repository"

	"gorm.io/gorm"
)

// OrphanLinkScanJob reports payment transactions that never received
// their approval-entry link. Payment recording is sequential writes with
// no rollback, so a crash between steps leaves such a row behind; the
// scan surfaces them for manual reconciliation. It never deletes or
// repairs anything on its own.
type OrphanLinkScanJob struct {
	db              *gorm.DB
	transactionRepo *repository.TransactionRepository
	cfg             *config.Config
	stopCh          chan struct{}
	interval        time.Duration
	grace           time.Duration
	batchSize       int
}

func NewOrphanLinkScanJob(db *gorm.DB, cfg *config.Config) *OrphanLinkScanJob {
	interval := time.Duration(cfg.Business.OrphanScanIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	grace := time.Duration(cfg.Business.OrphanGraceMinutes) * time.Minute
	if grace <= 0 {
		grace = 10 * time.Minute
	}
	return &OrphanLinkScanJob{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
		cfg:             cfg,
		stopCh:          make(chan struct{}),
		interval:        interval,
		grace:           grace,
		batchSize:       100,
	}
}

func (j *OrphanLinkScanJob) Start(ctx context.Context) {
	log.Println("[OrphanLinkScan] started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OrphanLinkScan] context cancelled, exiting")
			return
		case <-j.stopCh:
			log.Println("[OrphanLinkScan] stopped")
			return
		case <-ticker.C:
			j.scan(ctx)
		}
	}
}

func (j *OrphanLinkScanJob) Stop() {
	close(j.stopCh)
}

func (j *OrphanLinkScanJob) scan(ctx context.Context) {
	cutoff := time.Now().Add(-j.grace)
	orphans, err := j.transactionRepo.ListUnlinkedPayments(ctx, cutoff, j.batchSize)
	if err != nil {
		log.Printf("[OrphanLinkScan] query unlinked payments: %v", err)
		return
	}

	if len(orphans) == 0 {
		return
	}

	log.Printf("[OrphanLinkScan] %d payment(s) missing approval link, manual reconciliation needed", len(orphans))
	for i := range orphans {
		t := &orphans[i]
		log.Printf("[OrphanLinkScan] orphan: txn=%s supplier=%d project=%d amount=%s entered=%s",
			t.TransactionNo, t.SupplierID, t.ProjectID, t.Amount, t.EnteredAt.Format(time.RFC3339))
	}
}
