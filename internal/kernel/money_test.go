package kernel

import "testing"

func TestMoneyStringFormatsCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
	}
	for _, c := range cases {
		if got := MoneyFromCents(c.cents).String(); got != c.want {
			t.Errorf("MoneyFromCents(%d).String() = %q, want %q", c.cents, got, c.want)
		}
	}
}

func TestMoneyDivRoundRoundsHalfAwayFromZero(t *testing.T) {
	// 1000 cents split across 3 servings: 333.33... rounds to 333.
	if got := MoneyFromCents(1000).DivRound(3); got != MoneyFromCents(333) {
		t.Fatalf("expected 333, got %d", got.Cents())
	}
	// 1001 cents split across 2: 500.5 rounds away from zero to 501.
	if got := MoneyFromCents(1001).DivRound(2); got != MoneyFromCents(501) {
		t.Fatalf("expected 501, got %d", got.Cents())
	}
}

func TestMoneyDivRoundByZeroIsZero(t *testing.T) {
	if got := MoneyFromCents(500).DivRound(0); got != 0 {
		t.Fatalf("expected 0, got %d", got.Cents())
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromCents(1500)
	b := MoneyFromCents(500)
	if got := a.Sub(b); got != MoneyFromCents(1000) {
		t.Fatalf("expected 1000, got %d", got.Cents())
	}
	if got := b.Mul(3); got != MoneyFromCents(1500) {
		t.Fatalf("expected 1500, got %d", got.Cents())
	}
	if !MoneyFromCents(-1).IsNegative() {
		t.Fatalf("expected -1 cent to be negative")
	}
}

func TestProfitCentsDerivationMatchesSpecFormula(t *testing.T) {
	// profit_cents = (selling_price_cents - recipe_cost_cents) * quantity
	selling := MoneyFromCents(1500)
	cost := MoneyFromCents(500)
	quantity := int64(5)
	profit := selling.Sub(cost).Mul(quantity)
	if profit != MoneyFromCents(5000) {
		t.Fatalf("expected profit 5000, got %d", profit.Cents())
	}
}
