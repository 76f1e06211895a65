// Package menueng computes the BCG/ABC menu-engineering classification
// over a tenant's recorded dish sales. It holds no sale-recording logic of
// its own — that is the FIFO deduction core in package recipe — only the
// read-side analysis described by §4.5's classification rules.
package menueng

import (
	"context"
	"sort"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

const defaultPeriodDays = 30

// analysisRepository is the slice of *repository.Store the analysis needs.
type analysisRepository interface {
	ListDishes(ctx context.Context, tenantID kernel.TenantID) ([]domain.Dish, error)
	ListDishSalesInPeriod(ctx context.Context, tenantID kernel.TenantID, since time.Time) ([]domain.DishSale, error)
}

// BCGCell is a dish's position in the popularity/profit quadrant.
type BCGCell string

const (
	BCGStar      BCGCell = "star"
	BCGPlowhorse BCGCell = "plowhorse"
	BCGPuzzle    BCGCell = "puzzle"
	BCGDog       BCGCell = "dog"
)

// ABCTier is a dish's revenue-contribution tier.
type ABCTier string

const (
	ABCTierA ABCTier = "A"
	ABCTierB ABCTier = "B"
	ABCTierC ABCTier = "C"
)

// DishAnalysis is one dish's computed classification over the window.
type DishAnalysis struct {
	DishID           kernel.DishID `json:"dish_id"`
	DishName         string        `json:"dish_name"`
	Popularity       int           `json:"popularity"`
	ProfitCents      kernel.Money  `json:"profit_cents"`
	RevenueCents     kernel.Money  `json:"revenue_cents"`
	BCG              BCGCell       `json:"bcg_cell"`
	ABC              ABCTier       `json:"abc_tier"`
	Recommendation   string        `json:"recommendation"`
}

// Analysis is the full report for one tenant over one window.
type Analysis struct {
	PeriodDays     int            `json:"period_days"`
	MeanPopularity float64        `json:"mean_popularity"`
	MeanProfit     float64        `json:"mean_profit_cents"`
	Dishes         []DishAnalysis `json:"dishes"`
}

// Service computes the menu-engineering analysis on demand; it caches
// nothing, since the underlying sales ledger is the only source of truth
// and a request-scoped read is cheap enough not to need one.
type Service struct {
	repo analysisRepository
}

func NewService(repo *repository.Store) *Service {
	return &Service{repo: repo}
}

// windowAgg accumulates one dish's totals before the means are known.
type windowAgg struct {
	dishID     kernel.DishID
	name       string
	popularity int
	profit     kernel.Money
	revenue    kernel.Money
}

// Analyze computes popularity/profitability classification for every dish
// with at least one sale in the last periodDays days (0 defaults to 30),
// localized to lang.
func (s *Service) Analyze(ctx context.Context, tenantID kernel.TenantID, periodDays int, lang kernel.Language) (*Analysis, error) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	since := time.Now().UTC().AddDate(0, 0, -periodDays)

	dishes, err := s.repo.ListDishes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[kernel.DishID]string, len(dishes))
	for _, d := range dishes {
		names[d.ID] = d.Name
	}

	sales, err := s.repo.ListDishSalesInPeriod(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}

	aggByDish := map[kernel.DishID]*windowAgg{}
	order := make([]kernel.DishID, 0)
	for _, sale := range sales {
		a, ok := aggByDish[sale.DishID]
		if !ok {
			name := names[sale.DishID]
			a = &windowAgg{dishID: sale.DishID, name: name}
			aggByDish[sale.DishID] = a
			order = append(order, sale.DishID)
		}
		a.popularity += sale.Quantity
		a.profit = a.profit.Add(sale.ProfitCents)
		a.revenue = a.revenue.Add(sale.SellingPriceCents.Mul(int64(sale.Quantity)))
	}

	n := len(order)
	if n == 0 {
		return &Analysis{PeriodDays: periodDays, Dishes: []DishAnalysis{}}, nil
	}

	var totalPopularity int
	var totalProfit kernel.Money
	for _, id := range order {
		a := aggByDish[id]
		totalPopularity += a.popularity
		totalProfit = totalProfit.Add(a.profit)
	}
	meanPopularity := float64(totalPopularity) / float64(n)
	meanProfit := float64(totalProfit.Cents()) / float64(n)

	abcByDish := classifyABC(order, aggByDish)

	results := make([]DishAnalysis, 0, n)
	for _, id := range order {
		a := aggByDish[id]
		bcg := classifyBCG(float64(a.popularity), float64(a.profit.Cents()), meanPopularity, meanProfit)
		abc := abcByDish[id]
		results = append(results, DishAnalysis{
			DishID:         id,
			DishName:       a.name,
			Popularity:     a.popularity,
			ProfitCents:    a.profit,
			RevenueCents:   a.revenue,
			BCG:            bcg,
			ABC:            abc,
			Recommendation: recommendation(bcg, abc, lang),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RevenueCents > results[j].RevenueCents
	})

	return &Analysis{
		PeriodDays:     periodDays,
		MeanPopularity: meanPopularity,
		MeanProfit:     meanProfit,
		Dishes:         results,
	}, nil
}

// classifyBCG applies the quadrant rule: ties on either axis resolve to
// the higher tier, which the non-strict >= comparisons already give —
// a dish exactly at the mean is never worse off than one just below it.
func classifyBCG(popularity, profit, meanPopularity, meanProfit float64) BCGCell {
	popularDish := popularity >= meanPopularity
	profitableDish := profit >= meanProfit

	switch {
	case popularDish && profitableDish:
		return BCGStar
	case popularDish && !profitableDish:
		return BCGPlowhorse
	case !popularDish && profitableDish:
		return BCGPuzzle
	default:
		return BCGDog
	}
}

// classifyABC sorts dishes by revenue descending and assigns tiers by
// cumulative revenue share at the 80/95/100 boundaries. A boundary hit
// (cumulative share landing exactly on a threshold) resolves to the
// higher tier because the comparison is inclusive (<=).
func classifyABC(order []kernel.DishID, agg map[kernel.DishID]*windowAgg) map[kernel.DishID]ABCTier {
	type revenueRow struct {
		id      kernel.DishID
		revenue int64
	}
	rows := make([]revenueRow, 0, len(order))
	var total int64
	for _, id := range order {
		r := agg[id].revenue.Cents()
		rows = append(rows, revenueRow{id: id, revenue: r})
		total += r
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].revenue > rows[j].revenue })

	out := make(map[kernel.DishID]ABCTier, len(rows))
	if total <= 0 {
		for _, r := range rows {
			out[r.id] = ABCTierC
		}
		return out
	}

	var cumulative int64
	for _, r := range rows {
		cumulative += r.revenue
		share := float64(cumulative) / float64(total)
		switch {
		case share <= 0.80:
			out[r.id] = ABCTierA
		case share <= 0.95:
			out[r.id] = ABCTierB
		default:
			out[r.id] = ABCTierC
		}
	}
	return out
}

// recommendationTable is the combined 12-class (BCG x ABC) recommendation
// text, localized without a separate i18n package: menu engineering is the
// only place in this module that needs localized prose, so the table lives
// next to its only consumer.
var recommendationTable = map[kernel.Language]map[BCGCell]map[ABCTier]string{
	kernel.LanguageEN: {
		BCGStar:      {ABCTierA: "Top performer — protect visibility and price confidently.", ABCTierB: "Strong seller — promote further to grow revenue share.", ABCTierC: "Popular and profitable but a small revenue contributor — keep as-is."},
		BCGPlowhorse: {ABCTierA: "High-volume driver of revenue — consider a small price increase.", ABCTierB: "Reliable volume — look for ways to raise margin.", ABCTierC: "Sells well at thin margin — reprice or re-cost the recipe."},
		BCGPuzzle:    {ABCTierA: "High margin, major revenue contributor — market it harder.", ABCTierB: "Profitable niche item — feature it more prominently.", ABCTierC: "Profitable but rarely ordered — test repositioning on the menu."},
		BCGDog:       {ABCTierA: "Underperforming despite heavy revenue — investigate pricing.", ABCTierB: "Weak on both axes — reconsider keeping it on the menu.", ABCTierC: "Candidate for removal — low popularity, low profit, low revenue."},
	},
	kernel.LanguagePL: {
		BCGStar:      {ABCTierA: "Najlepszy wynik — utrzymaj widoczność i pewną cenę.", ABCTierB: "Mocny sprzedawca — promuj dalej, by zwiększyć udział w przychodach.", ABCTierC: "Popularne i zyskowne, ale mały udział w przychodach — zostaw bez zmian."},
		BCGPlowhorse: {ABCTierA: "Główny motor przychodów — rozważ niewielką podwyżkę ceny.", ABCTierB: "Stabilna sprzedaż — szukaj sposobów na wyższą marżę.", ABCTierC: "Dobrze się sprzedaje przy niskiej marży — przelicz koszt przepisu."},
		BCGPuzzle:    {ABCTierA: "Wysoka marża, duży udział w przychodach — promuj mocniej.", ABCTierB: "Zyskowna nisza — eksponuj bardziej w menu.", ABCTierC: "Zyskowne, ale rzadko zamawiane — przetestuj inne miejsce w menu."},
		BCGDog:       {ABCTierA: "Słaby wynik mimo dużych przychodów — sprawdź wycenę.", ABCTierB: "Słabo na obu osiach — rozważ usunięcie z menu.", ABCTierC: "Kandydat do usunięcia — niska popularność, zysk i przychód."},
	},
	kernel.LanguageRU: {
		BCGStar:      {ABCTierA: "Лучший результат — сохраняйте видимость и уверенную цену.", ABCTierB: "Сильная позиция — продвигайте дальше для роста доли выручки.", ABCTierC: "Популярно и прибыльно, но малая доля выручки — оставьте как есть."},
		BCGPlowhorse: {ABCTierA: "Главный источник выручки — рассмотрите небольшое повышение цены.", ABCTierB: "Стабильный объём — ищите способы повысить маржу.", ABCTierC: "Хорошо продаётся при низкой марже — пересчитайте себестоимость."},
		BCGPuzzle:    {ABCTierA: "Высокая маржа, весомая доля выручки — продвигайте активнее.", ABCTierB: "Прибыльная ниша — выделите в меню заметнее.", ABCTierC: "Прибыльно, но редко заказывают — попробуйте другое место в меню."},
		BCGDog:       {ABCTierA: "Слабый результат несмотря на выручку — проверьте цену.", ABCTierB: "Слабо по обоим показателям — пересмотрите присутствие в меню.", ABCTierC: "Кандидат на удаление — низкая популярность, прибыль и выручка."},
	},
	kernel.LanguageUK: {
		BCGStar:      {ABCTierA: "Найкращий результат — підтримуйте видимість і впевнену ціну.", ABCTierB: "Сильна позиція — просувайте далі, щоб зростала частка доходу.", ABCTierC: "Популярно і прибутково, але мала частка доходу — залиште без змін."},
		BCGPlowhorse: {ABCTierA: "Головне джерело доходу — розгляньте невелике підвищення ціни.", ABCTierB: "Стабільний обсяг — шукайте способи підвищити маржу.", ABCTierC: "Добре продається за низької маржі — перерахуйте собівартість."},
		BCGPuzzle:    {ABCTierA: "Висока маржа, вагома частка доходу — просувайте активніше.", ABCTierB: "Прибуткова ніша — виділіть у меню помітніше.", ABCTierC: "Прибутково, але рідко замовляють — спробуйте інше місце в меню."},
		BCGDog:       {ABCTierA: "Слабкий результат попри виручку — перевірте ціну.", ABCTierB: "Слабко за обома показниками — перегляньте присутність у меню.", ABCTierC: "Кандидат на видалення — низька популярність, прибуток і дохід."},
	},
}

func recommendation(bcg BCGCell, abc ABCTier, lang kernel.Language) string {
	byCell, ok := recommendationTable[lang]
	if !ok {
		byCell = recommendationTable[kernel.LanguageEN]
	}
	byTier, ok := byCell[bcg]
	if !ok {
		return ""
	}
	return byTier[abc]
}
