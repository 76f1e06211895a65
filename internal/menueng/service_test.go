package menueng

import (
	"context"
	"testing"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

type stubAnalysisRepo struct {
	dishes []domain.Dish
	sales  []domain.DishSale
}

func (r *stubAnalysisRepo) ListDishes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error) {
	return r.dishes, nil
}
func (r *stubAnalysisRepo) ListDishSalesInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) ([]domain.DishSale, error) {
	return r.sales, nil
}

// TestAnalyzeClassifiesPlowhorseAndPuzzle mirrors the spec's worked example:
// D1 high popularity / low profit, D2 low popularity / high profit.
func TestAnalyzeClassifiesPlowhorseAndPuzzle(t *testing.T) {
	tenantID := kernel.NewTenantID()
	d1 := kernel.NewDishID()
	d2 := kernel.NewDishID()

	repo := &stubAnalysisRepo{
		dishes: []domain.Dish{
			{ID: d1, Name: "D1"},
			{ID: d2, Name: "D2"},
		},
		sales: []domain.DishSale{
			{DishID: d1, Quantity: 100, ProfitCents: kernel.MoneyFromCents(10000), SellingPriceCents: kernel.MoneyFromCents(100)},
			{DishID: d2, Quantity: 10, ProfitCents: kernel.MoneyFromCents(50000), SellingPriceCents: kernel.MoneyFromCents(5000)},
		},
	}
	svc := &Service{repo: repo}

	analysis, err := svc.Analyze(context.Background(), tenantID, 30, kernel.LanguageEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.MeanPopularity != 55 {
		t.Fatalf("expected mean popularity 55, got %v", analysis.MeanPopularity)
	}
	if analysis.MeanProfit != 30000 {
		t.Fatalf("expected mean profit 30000, got %v", analysis.MeanProfit)
	}

	byID := map[kernel.DishID]DishAnalysis{}
	for _, d := range analysis.Dishes {
		byID[d.DishID] = d
	}
	if byID[d1].BCG != BCGPlowhorse {
		t.Fatalf("expected D1 Plowhorse, got %s", byID[d1].BCG)
	}
	if byID[d2].BCG != BCGPuzzle {
		t.Fatalf("expected D2 Puzzle, got %s", byID[d2].BCG)
	}
	// D2's revenue (10*5000=50000) is 83% of the 60000 total, past the 80% A
	// boundary, so D2 is B; D1 (100*100=10000) brings the cumulative share to
	// 100%, so D1 is C.
	if byID[d2].ABC != ABCTierB {
		t.Fatalf("expected D2 tier B, got %s", byID[d2].ABC)
	}
	if byID[d1].ABC != ABCTierC {
		t.Fatalf("expected D1 tier C, got %s", byID[d1].ABC)
	}
}

func TestAnalyzeEmptyWindowReturnsNoDishes(t *testing.T) {
	svc := &Service{repo: &stubAnalysisRepo{}}
	analysis, err := svc.Analyze(context.Background(), kernel.NewTenantID(), 30, kernel.LanguageEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Dishes) != 0 {
		t.Fatalf("expected no dishes, got %d", len(analysis.Dishes))
	}
}

func TestClassifyBCGTiesResolveToHigherTier(t *testing.T) {
	// Exactly at both means: ties resolve to Star (the non-strict >= rule).
	if got := classifyBCG(50, 100, 50, 100); got != BCGStar {
		t.Fatalf("expected Star on exact tie, got %s", got)
	}
}

func TestClassifyABCBoundaryAt80PercentIsTierA(t *testing.T) {
	order := []kernel.DishID{kernel.NewDishID(), kernel.NewDishID()}
	agg := map[kernel.DishID]*windowAgg{
		order[0]: {revenue: kernel.MoneyFromCents(8000)},
		order[1]: {revenue: kernel.MoneyFromCents(2000)},
	}
	tiers := classifyABC(order, agg)
	if tiers[order[0]] != ABCTierA {
		t.Fatalf("expected first dish (cumulative 80%%) in tier A, got %s", tiers[order[0]])
	}
	if tiers[order[1]] != ABCTierC {
		t.Fatalf("expected second dish (cumulative 100%%) in tier C, got %s", tiers[order[1]])
	}
}

func TestAnalyzeSortsByRevenueDescending(t *testing.T) {
	tenantID := kernel.NewTenantID()
	small := kernel.NewDishID()
	big := kernel.NewDishID()
	repo := &stubAnalysisRepo{
		dishes: []domain.Dish{{ID: small, Name: "small"}, {ID: big, Name: "big"}},
		sales: []domain.DishSale{
			{DishID: small, Quantity: 1, SellingPriceCents: kernel.MoneyFromCents(100)},
			{DishID: big, Quantity: 1, SellingPriceCents: kernel.MoneyFromCents(100000)},
		},
	}
	svc := &Service{repo: repo}

	analysis, err := svc.Analyze(context.Background(), tenantID, 30, kernel.LanguageEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Dishes[0].DishID != big {
		t.Fatalf("expected highest-revenue dish first, got %s", analysis.Dishes[0].DishID)
	}
}
