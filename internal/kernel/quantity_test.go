package kernel

import "testing"

func TestQuantityArithmeticIsExactDecimal(t *testing.T) {
	a := QuantityFromFloat(0.1)
	b := QuantityFromFloat(0.2)
	sum := a.Add(b)
	if sum.String() != "0.3" {
		t.Fatalf("expected exact decimal 0.3, got %s", sum.String())
	}
}

func TestQuantityFIFOConsumptionAcrossTwoBatches(t *testing.T) {
	b1 := QuantityFromFloat(10)
	b2 := QuantityFromFloat(5)
	required := QuantityFromFloat(0.2).Mul(QuantityFromFloat(5)) // 0.2 per serving * 5 sold

	remaining := required
	deduct1 := b1
	if remaining.LessThan(deduct1) {
		deduct1 = remaining
	}
	b1After := b1.Sub(deduct1)
	remaining = remaining.Sub(deduct1)

	if remaining.IsPositive() {
		t.Fatalf("expected single batch to satisfy demand, remaining=%s", remaining)
	}
	if b1After.String() != "9" {
		t.Fatalf("expected batch 1 drained to 9, got %s", b1After)
	}
	if b2.String() != "5" {
		t.Fatalf("expected batch 2 untouched, got %s", b2)
	}
}

func TestQuantityMulMoneyRoundsToNearestCent(t *testing.T) {
	qty := QuantityFromFloat(0.2)
	perUnit := MoneyFromCents(333)
	got := qty.MulMoney(perUnit)
	if got != MoneyFromCents(67) {
		t.Fatalf("expected 67 cents (0.2*333=66.6 rounds to 67), got %d", got.Cents())
	}
}

func TestQuantityFromStringRejectsGarbage(t *testing.T) {
	if _, err := QuantityFromString("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid quantity string")
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := QuantityFromFloat(12.5)
	b, err := q.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got Quantity
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.String() != q.String() {
		t.Fatalf("round-trip mismatch: %s != %s", got.String(), q.String())
	}
}
