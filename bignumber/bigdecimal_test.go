package bignumber

import "testing"

func TestBigDecimalDividedBy(t *testing.T) {
	one, _ := DecimalFromBigInt(FromInt64(1))
	two, _ := DecimalFromBigInt(FromInt64(2))
	half, err := one.DividedBy(two)
	if err != nil {
		t.Fatal(err)
	}
	if got := half.String(); got != "0.5" {
		t.Fatalf("divided_by_decimal: got %q", got)
	}
}

func TestBigDecimalArithmetic(t *testing.T) {
	a, err := FromDecimalString("1.5")
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromDecimalString("2.25")
	if err != nil {
		t.Fatal(err)
	}
	if sum, err := a.Plus(b); err != nil || sum.String() != "3.75" {
		t.Fatalf("plus: got %v, %v", sum, err)
	}
	if diff, err := b.Minus(a); err != nil || diff.String() != "0.75" {
		t.Fatalf("minus: got %v, %v", diff, err)
	}
	if prod, err := a.Times(b); err != nil || prod.String() != "3.375" {
		t.Fatalf("times: got %v, %v", prod, err)
	}
}

func TestBigDecimalNormalizeStripsTrailingZeros(t *testing.T) {
	d, err := FromDecimalString("1.50000")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.String(); got != "1.5" {
		t.Fatalf("expected trailing zeros stripped, got %q", got)
	}
}

func TestBigDecimalZero(t *testing.T) {
	z, err := FromDecimalString("0.000")
	if err != nil {
		t.Fatal(err)
	}
	if got := z.String(); got != "0" {
		t.Fatalf("expected zero normalization, got %q", got)
	}
}

func TestBigDecimalEquals(t *testing.T) {
	a, _ := FromDecimalString("1.50")
	b, _ := FromDecimalString("1.5")
	if !a.Equals(b) {
		t.Fatal("expected 1.50 to equal 1.5 after normalization")
	}
}

func TestBigDecimalExponentForm(t *testing.T) {
	d, err := FromDecimalString("1.5e3")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.String(); got != "1500" {
		t.Fatalf("exponent parsing: got %q", got)
	}
}

func TestBigDecimalDivideByZero(t *testing.T) {
	a, _ := FromDecimalString("1")
	if _, err := a.DividedBy(ZeroDecimal()); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func TestBigDecimalSignificantDigitClamp(t *testing.T) {
	// 35 nines, one more significant digit than the decimal128 envelope
	// allows; normalization must round to 34 significant digits.
	digits, err := FromString("99999999999999999999999999999999999")
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewBigDecimal(digits, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(stripSign(d.Digits().String())); got > MaxSignificantDigits {
		t.Fatalf("expected rounded coefficient within envelope, got %d digits", got)
	}
}

func stripSign(s string) string {
	if len(s) > 0 && s[0] == '-' {
		return s[1:]
	}
	return s
}
