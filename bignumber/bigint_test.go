package bignumber

import "testing"

// Expected values below mirror src/wasm_host/bigint.rs's unit tests in the
// original runtime this package is ported from.
func TestBigIntArithmetic(t *testing.T) {
	a, err := FromString("2000")
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromString("1000")
	if err != nil {
		t.Fatal(err)
	}

	if sum, err := a.Add(b); err != nil || sum.String() != "3000" {
		t.Fatalf("plus: got %v, %v", sum, err)
	}
	if diff, err := b.Sub(a); err != nil || diff.String() != "-1000" {
		t.Fatalf("minus: got %v, %v", diff, err)
	}
	if prod, err := a.Mul(b); err != nil || prod.String() != "2000000" {
		t.Fatalf("times: got %v, %v", prod, err)
	}
	if quo, err := a.Div(b); err != nil || quo.String() != "2" {
		t.Fatalf("divided_by: got %v, %v", quo, err)
	}
}

func TestBigIntDivideBySix(t *testing.T) {
	a, _ := FromString("12000")
	b, _ := FromString("2000")
	quo, err := a.Div(b)
	if err != nil || quo.String() != "6" {
		t.Fatalf("divided_by: got %v, %v", quo, err)
	}
}

func TestBigIntPow(t *testing.T) {
	a, _ := FromString("100000000000000000001")
	one := FromInt64(1)
	p, err := a.Pow(1)
	if err != nil || p.String() != a.String() {
		t.Fatalf("pow^1: got %v, %v", p, err)
	}
	if _, err := one.Pow(0); err != nil {
		t.Fatalf("pow^0: %v", err)
	}
}

func TestBigIntMod(t *testing.T) {
	a, _ := FromString("2009")
	b, _ := FromString("2000")
	m, err := a.Mod(b)
	if err != nil || m.String() != "9" {
		t.Fatalf("mod: got %v, %v", m, err)
	}
}

func TestBigIntBitwise(t *testing.T) {
	a, _ := FromString("2000")
	b, _ := FromString("1000")
	if v, err := a.BitOr(b); err != nil || v.String() != "2040" {
		t.Fatalf("bit_or: got %v, %v", v, err)
	}
	if v, err := a.BitAnd(b); err != nil || v.String() != "960" {
		t.Fatalf("bit_and: got %v, %v", v, err)
	}
}

func TestBigIntShifts(t *testing.T) {
	a, _ := FromString("2000")
	if v, err := a.Lsh(9); err != nil || v.String() != "1024000" {
		t.Fatalf("left_shift: got %v, %v", v, err)
	}
	if v, err := a.Rsh(11); err != nil || v.String() != "0" {
		t.Fatalf("right_shift: got %v, %v", v, err)
	}
}

func TestBigIntDivideByZero(t *testing.T) {
	a, _ := FromString("1")
	zero := Zero()
	if _, err := a.Div(zero); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
	if _, err := a.Mod(zero); err == nil {
		t.Fatal("expected modulo-by-zero error")
	}
}

func TestBigIntSignedBytesRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "255", "-255", "65535", "-65535", "123456789012345678901234567890", "-123456789012345678901234567890"}
	for _, c := range cases {
		v, err := FromString(c)
		if err != nil {
			t.Fatalf("FromString(%q): %v", c, err)
		}
		bytes := v.ToSignedBytesLE()
		back, err := FromSignedBytesLE(bytes)
		if err != nil {
			t.Fatalf("FromSignedBytesLE round trip for %q: %v", c, err)
		}
		if back.String() != c {
			t.Fatalf("round trip mismatch: %q -> %x -> %q", c, bytes, back.String())
		}
	}
}

func TestBigIntHexRoundTrip(t *testing.T) {
	v, err := FromHex("0x7b")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "123" {
		t.Fatalf("from_hex: got %s", v.String())
	}
	if v.ToHex() != "0x7b" {
		t.Fatalf("to_hex: got %s", v.ToHex())
	}
}

func TestBigIntToHexNegative(t *testing.T) {
	v, err := FromString("-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.ToHex() != "0x1" {
		t.Fatalf("to_hex: got %s, want 0x1", v.ToHex())
	}
}

func TestBigIntTooBig(t *testing.T) {
	// Half-envelope magnitude: representable on its own, but its square
	// exceeds MaxBits and must be rejected.
	v, err := FromHex("0x" + repeatHexDigits(MaxBits/8+10))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Mul(v); err == nil {
		t.Fatal("expected overflow of MaxBits envelope")
	}
}

func repeatHexDigits(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'f'
	}
	return string(out)
}
