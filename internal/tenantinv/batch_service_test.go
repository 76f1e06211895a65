package tenantinv

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

type stubBatchRepo struct {
	batches  []domain.InventoryBatch
	expired  []domain.InventoryBatch
	losses   []domain.InventoryLoss
	receipts kernel.Money

	deleted map[kernel.InventoryBatchID]bool
	created []domain.InventoryLoss
}

func (r *stubBatchRepo) CreateInventoryBatch(ctx context.Context, b *domain.InventoryBatch) error {
	b.ID = kernel.NewInventoryBatchID()
	return nil
}
func (r *stubBatchRepo) GetInventoryBatch(ctx context.Context, tenantID kernel.TenantID, id kernel.InventoryBatchID) (*domain.InventoryBatch, error) {
	return nil, kernel.ErrNotFound
}
func (r *stubBatchRepo) ListInventoryBatches(ctx context.Context, tenantID kernel.TenantID, catalogIngredientID kernel.CatalogIngredientID) ([]domain.InventoryBatch, error) {
	return r.batches, nil
}
func (r *stubBatchRepo) ListExpiredBatches(ctx context.Context, tenantID kernel.TenantID, now time.Time) ([]domain.InventoryBatch, error) {
	return r.expired, nil
}
func (r *stubBatchRepo) UpdateInventoryBatch(ctx context.Context, b *domain.InventoryBatch) error {
	return nil
}
func (r *stubBatchRepo) DeleteInventoryBatch(ctx context.Context, tenantID kernel.TenantID, id kernel.InventoryBatchID) error {
	return nil
}
func (r *stubBatchRepo) CreateInventoryLossTx(ctx context.Context, tx pgx.Tx, loss *domain.InventoryLoss) error {
	if r.deleted == nil {
		r.deleted = map[kernel.InventoryBatchID]bool{}
	}
	r.created = append(r.created, *loss)
	return nil
}
func (r *stubBatchRepo) DeleteExpiredBatchTx(ctx context.Context, tx pgx.Tx, batchID kernel.InventoryBatchID) error {
	if r.deleted == nil {
		r.deleted = map[kernel.InventoryBatchID]bool{}
	}
	r.deleted[batchID] = true
	return nil
}
func (r *stubBatchRepo) ListInventoryLossesInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) ([]domain.InventoryLoss, error) {
	return r.losses, nil
}
func (r *stubBatchRepo) SumInventoryReceiptsInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) (kernel.Money, error) {
	return r.receipts, nil
}
func (r *stubBatchRepo) ExecTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestBatchService(repo batchRepository) *BatchService {
	return &BatchService{repo: repo, log: zerolog.New(io.Discard)}
}

func TestProcessExpirationsRecordsLossAndDeletesBatch(t *testing.T) {
	batchID := kernel.NewInventoryBatchID()
	qty := kernel.QuantityFromFloat(2)
	price := kernel.MoneyFromCents(150)

	repo := &stubBatchRepo{
		expired: []domain.InventoryBatch{
			{ID: batchID, Quantity: qty, PricePerUnitCents: price},
		},
	}
	svc := newTestBatchService(repo)

	processed, err := svc.ProcessExpirations(context.Background(), kernel.NewTenantID(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected 1 batch processed, got %d", processed)
	}
	if !repo.deleted[batchID] {
		t.Fatalf("expected batch %s to be deleted", batchID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 loss entry created, got %d", len(repo.created))
	}
	if repo.created[0].ValueCents != price.Mul(2) {
		t.Fatalf("expected loss value %s, got %s", price.Mul(2), repo.created[0].ValueCents)
	}
}

func TestLossReportComputesWastePercent(t *testing.T) {
	repo := &stubBatchRepo{
		losses:   []domain.InventoryLoss{{ValueCents: kernel.MoneyFromCents(500)}, {ValueCents: kernel.MoneyFromCents(500)}},
		receipts: kernel.MoneyFromCents(10000),
	}
	svc := newTestBatchService(repo)

	report, err := svc.LossReport(context.Background(), kernel.NewTenantID(), time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalLossCents != kernel.MoneyFromCents(1000) {
		t.Fatalf("expected total loss 1000 cents, got %s", report.TotalLossCents)
	}
	if report.WastePercent != 10 {
		t.Fatalf("expected waste percent 10, got %f", report.WastePercent)
	}
}

func TestHealthScoreFullWithNoBatches(t *testing.T) {
	repo := &stubBatchRepo{}
	svc := newTestBatchService(repo)

	score, err := svc.HealthScore(context.Background(), kernel.NewTenantID(), kernel.NewCatalogIngredientID(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 100 {
		t.Fatalf("expected score 100 with no batches, got %d", score)
	}
}

func TestHealthScorePenalizesExpiredBatches(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	repo := &stubBatchRepo{
		batches: []domain.InventoryBatch{
			{ExpiresAt: &past},
			{ExpiresAt: &past},
		},
	}
	svc := newTestBatchService(repo)

	score, err := svc.HealthScore(context.Background(), kernel.NewTenantID(), kernel.NewCatalogIngredientID(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score >= 100 {
		t.Fatalf("expected score penalized below 100, got %d", score)
	}
}

// TestProcessExpirationsSecondSweepIsNoOp mirrors the repository-level
// contract: once a swept batch is deleted, ListExpiredBatches stops
// returning it, so a second sweep over the same state processes nothing.
func TestProcessExpirationsSecondSweepIsNoOp(t *testing.T) {
	batchID := kernel.NewInventoryBatchID()
	repo := &stubBatchRepo{
		expired: []domain.InventoryBatch{
			{ID: batchID, Quantity: kernel.QuantityFromFloat(1), PricePerUnitCents: kernel.MoneyFromCents(100)},
		},
	}
	svc := newTestBatchService(repo)

	first, err := svc.ProcessExpirations(context.Background(), kernel.NewTenantID(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error on first sweep: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected 1 batch processed on first sweep, got %d", first)
	}

	// The deleted batch no longer surfaces from ListExpiredBatches.
	repo.expired = nil

	second, err := svc.ProcessExpirations(context.Background(), kernel.NewTenantID(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error on second sweep: %v", err)
	}
	if second != 0 {
		t.Fatalf("expected second sweep to process nothing, got %d", second)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected no additional loss entries, got %d total", len(repo.created))
	}
}
