package bignumber

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/chainindex/corert/errs"
)

// Decimal128 envelope limits (spec section 3), matching the original
// runtime's MIN_EXP/MAX_EXP/MAX_SIGNIFICANT_DIGITS constants.
const (
	MinExp               = -6143
	MaxExp               = 6144
	MaxSignificantDigits = 34

	// extraDivisionDigits is the number of extra decimal digits of working
	// precision kept during division before normalizing down to
	// MaxSignificantDigits, so the rounding at normalize() time is accurate.
	extraDivisionDigits = 40
)

// BigDecimal is an arbitrary-precision decimal: digits * 10^exponent,
// normalized to at most MaxSignificantDigits significant digits with
// trailing zeros stripped.
type BigDecimal struct {
	digits   BigInt
	exponent int64
}

// NewBigDecimal builds a BigDecimal from digits and a power-of-ten exponent,
// normalizing immediately (mirroring the original's `BigDecimal::new`).
func NewBigDecimal(digits BigInt, exponent int64) (BigDecimal, error) {
	return BigDecimal{digits: digits, exponent: exponent}.normalized()
}

// ZeroDecimal returns the BigDecimal value 0.
func ZeroDecimal() BigDecimal { return BigDecimal{digits: Zero(), exponent: 0} }

// DecimalFromBigInt promotes a BigInt to an equivalent BigDecimal with
// exponent 0.
func DecimalFromBigInt(b BigInt) (BigDecimal, error) {
	return NewBigDecimal(b, 0)
}

// Digits returns the decimal's coefficient.
func (d BigDecimal) Digits() BigInt { return d.digits }

// Exponent returns the decimal's base-10 exponent.
func (d BigDecimal) Exponent() int64 { return d.exponent }

// normalized rounds to MaxSignificantDigits significant digits, strips
// trailing zeros, and enforces the decimal128 exponent envelope. Grounded
// on the original's `BigDecimal::normalized` (bigdecimal::BigDecimal's
// copy-pasted normalize, ported from scale-relative to exponent-relative
// bookkeeping).
func (d BigDecimal) normalized() (BigDecimal, error) {
	if d.digits.IsZero() {
		return ZeroDecimal(), nil
	}

	abs := new(big.Int).Abs(d.digits.Inner())
	neg := d.digits.Sign() < 0
	exp := d.exponent

	if digitCount := len(abs.Text(10)); digitCount > MaxSignificantDigits {
		drop := digitCount - MaxSignificantDigits
		divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(drop)), nil)
		q, r := new(big.Int).QuoRem(abs, divisor, new(big.Int))
		twice := new(big.Int).Lsh(r, 1)
		if twice.Cmp(divisor) >= 0 {
			q.Add(q, big.NewInt(1))
		}
		abs = q
		exp += int64(drop)
	}

	for abs.Sign() != 0 {
		q, r := new(big.Int).QuoRem(abs, big.NewInt(10), new(big.Int))
		if r.Sign() != 0 {
			break
		}
		abs = q
		exp++
	}

	if abs.Sign() == 0 {
		return ZeroDecimal(), nil
	}
	if neg {
		abs.Neg(abs)
	}
	if exp < MinExp || exp > MaxExp {
		return BigDecimal{}, errs.NewNumberErr(errs.NumberTooBig, "bigdecimal exponent %d outside [%d,%d]", exp, MinExp, MaxExp)
	}
	digits, err := wrap(abs)
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{digits: digits, exponent: exp}, nil
}

func align(a, b BigDecimal) (*big.Int, *big.Int, int64) {
	exp := a.exponent
	if b.exponent < exp {
		exp = b.exponent
	}
	da := new(big.Int).Set(a.digits.Inner())
	if diff := a.exponent - exp; diff > 0 {
		da.Mul(da, new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil))
	}
	db := new(big.Int).Set(b.digits.Inner())
	if diff := b.exponent - exp; diff > 0 {
		db.Mul(db, new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil))
	}
	return da, db, exp
}

// Plus returns d + other.
func (d BigDecimal) Plus(other BigDecimal) (BigDecimal, error) {
	da, db, exp := align(d, other)
	digits, err := wrap(new(big.Int).Add(da, db))
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{digits: digits, exponent: exp}.normalized()
}

// Minus returns d - other.
func (d BigDecimal) Minus(other BigDecimal) (BigDecimal, error) {
	da, db, exp := align(d, other)
	digits, err := wrap(new(big.Int).Sub(da, db))
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{digits: digits, exponent: exp}.normalized()
}

// Times returns d * other.
func (d BigDecimal) Times(other BigDecimal) (BigDecimal, error) {
	digits, err := wrap(new(big.Int).Mul(d.digits.Inner(), other.digits.Inner()))
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{digits: digits, exponent: d.exponent + other.exponent}.normalized()
}

// DividedBy returns d / other, computed to extraDivisionDigits of working
// precision before normalizing down to MaxSignificantDigits.
func (d BigDecimal) DividedBy(other BigDecimal) (BigDecimal, error) {
	if other.digits.IsZero() {
		return BigDecimal{}, errs.NewNumberErr(errs.DivideByZero, "bigdecimal division by zero")
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(extraDivisionDigits), nil)
	num := new(big.Int).Mul(d.digits.Inner(), scale)
	q, r := new(big.Int).QuoRem(num, other.digits.Inner(), new(big.Int))
	// Round half away from zero on the remaining fraction.
	twice := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
	if twice.Cmp(new(big.Int).Abs(other.digits.Inner())) >= 0 {
		if (num.Sign() < 0) != (other.digits.Inner().Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	digits, err := wrap(q)
	if err != nil {
		return BigDecimal{}, err
	}
	exponent := d.exponent - other.exponent - extraDivisionDigits
	return BigDecimal{digits: digits, exponent: exponent}.normalized()
}

// Equals reports whether d and other denote the same decimal value.
func (d BigDecimal) Equals(other BigDecimal) bool {
	dn, err1 := d.normalized()
	on, err2 := other.normalized()
	if err1 != nil || err2 != nil {
		return false
	}
	return dn.exponent == on.exponent && dn.digits.Cmp(on.digits) == 0
}

// String renders the plain (non-scientific) decimal form, matching the
// original's Display impl.
func (d BigDecimal) String() string {
	if d.digits.IsZero() {
		return "0"
	}
	neg := d.digits.Sign() < 0
	abs := new(big.Int).Abs(d.digits.Inner()).String()

	var out string
	switch {
	case d.exponent >= 0:
		out = abs + strings.Repeat("0", int(d.exponent))
	default:
		shift := int(-d.exponent)
		n := len(abs)
		if shift >= n {
			out = "0." + strings.Repeat("0", shift-n) + abs
		} else {
			out = abs[:n-shift] + "." + abs[n-shift:]
		}
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FromDecimalString parses a plain or exponential decimal string such as
// "-12.340" or "1.5e10".
func FromDecimalString(s string) (BigDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BigDecimal{}, errs.NewNumberErr(errs.ParseFailure, "empty bigdecimal string")
	}

	mantissa := s
	exp := int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		e, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err != nil {
			return BigDecimal{}, errs.NewNumberErr(errs.ParseFailure, "invalid bigdecimal exponent in %q", s)
		}
		exp = e
	}

	neg := false
	if strings.HasPrefix(mantissa, "-") {
		neg = true
		mantissa = mantissa[1:]
	} else if strings.HasPrefix(mantissa, "+") {
		mantissa = mantissa[1:]
	}

	intPart, fracPart := mantissa, ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		intPart, fracPart = mantissa[:i], mantissa[i+1:]
	}
	digitsStr := intPart + fracPart
	if digitsStr == "" {
		return BigDecimal{}, errs.NewNumberErr(errs.ParseFailure, "invalid bigdecimal %q", s)
	}
	v, ok := new(big.Int).SetString(digitsStr, 10)
	if !ok {
		return BigDecimal{}, errs.NewNumberErr(errs.ParseFailure, "invalid bigdecimal %q", s)
	}
	if neg {
		v.Neg(v)
	}
	exp -= int64(len(fracPart))

	digits, err := wrap(v)
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{digits: digits, exponent: exp}.normalized()
}
