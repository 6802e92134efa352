// Package core provides the budgeting domain: money, calendar validation,
// the category registry and the monthly ledger.
//
// This file contains the exact-arithmetic Money value and the functions that
// parse it from, and format it back to, locale-formatted strings.
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Sign tells whether an amount is money in (Credit) or money out (Debit).
type Sign uint8

const (
	Credit Sign = iota
	Debit
)

// String implements fmt.Stringer.
func (s Sign) String() string {
	if s == Debit {
		return "Debit"
	}
	return "Credit"
}

// MarshalText implements encoding.TextMarshaler.
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sign) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Credit":
		*s = Credit
	case "Debit":
		*s = Debit
	default:
		return fmt.Errorf("%w: unknown amount type %q", ErrInvalidAmount, text)
	}
	return nil
}

// maxMagnitude is |math.MinInt64|, the largest magnitude a Debit may carry.
const maxMagnitude = uint64(1) << 63

// Money is a signed amount split into whole units and cents.
//
// The fields are unexported so that every value satisfies the invariants:
// cents is in [0,99], zero is always a Credit, and the magnitude fits in an
// int64 number of minor units. The zero value is 0.00.
type Money struct {
	sign  Sign
	whole uint64
	cents uint8
}

func newMoney(sign Sign, magnitude uint64) Money {
	if magnitude == 0 {
		sign = Credit
	}
	return Money{
		sign:  sign,
		whole: magnitude / 100,
		cents: uint8(magnitude % 100),
	}
}

// FromMinorUnits converts an amount in cents into Money. It never fails.
func FromMinorUnits(amount int64) Money {
	if amount < 0 {
		// -(amount+1) cannot overflow, even for math.MinInt64
		return newMoney(Debit, uint64(-(amount+1))+1)
	}
	return newMoney(Credit, uint64(amount))
}

// MinorUnits returns the amount in cents; the inverse of FromMinorUnits.
func (m Money) MinorUnits() int64 {
	mag := m.magnitude()
	if m.sign == Debit {
		return -int64(mag-1) - 1
	}
	return int64(mag)
}

func (m Money) magnitude() uint64 {
	return m.whole*100 + uint64(m.cents)
}

// Sign returns Credit or Debit.
func (m Money) Sign() Sign { return m.sign }

// Whole returns the whole-unit part of the magnitude.
func (m Money) Whole() uint64 { return m.whole }

// Cents returns the fractional part of the magnitude, in [0,99].
func (m Money) Cents() uint8 { return m.cents }

// IsZero reports whether m is 0.00.
func (m Money) IsZero() bool { return m.whole == 0 && m.cents == 0 }

// Add returns m+o, or ErrAmountOverflow when the sum leaves the int64 range.
func (m Money) Add(o Money) (Money, error) {
	sum, overflow := addMinor(m.MinorUnits(), o.MinorUnits())
	if overflow {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, m, o)
	}
	return FromMinorUnits(sum), nil
}

// addMinor returns a+b and whether the sum wrapped around.
func addMinor(a, b int64) (int64, bool) {
	sum := a + b
	return sum, (b > 0 && sum < a) || (b < 0 && sum > a)
}

// clampedAdd returns a+b limited to [math.MinInt64, math.MaxInt64]. The
// ledger totals use it: they never fail, and an out of range total stays at
// the bound instead of changing sign.
func clampedAdd(a, b int64) int64 {
	sum, overflow := addMinor(a, b)
	switch {
	case !overflow:
		return sum
	case b > 0:
		return math.MaxInt64
	default:
		return math.MinInt64
	}
}

// Neg returns -m. Only the most negative amount has no opposite.
func (m Money) Neg() (Money, error) {
	a := m.MinorUnits()
	if a == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: -(%s)", ErrAmountOverflow, m)
	}
	return FromMinorUnits(-a), nil
}

// ParseMoney parses text such as "1234", "12.5" or "-3.07" using the given
// decimal separator.
//
// The whole part is an optional sign followed by digits. The fractional part,
// when present, has one digit (tenths) or two digits (cents). More than one
// separator is an error. Amounts that do not fit in int64 minor units are
// rejected with ErrAmountOverflow.
//
// The sign is that of the whole part: a negative whole number is a Debit and
// anything else is a Credit, so "-0.50" parses as 0.50.
//
// Examples:
//
//	ParseMoney("1234", ".")  -> 1234.00
//	ParseMoney("12.5", ".")  -> 12.50
//	ParseMoney("-3.07", ".") -> -3.07
//	ParseMoney("-0.50", ".") -> 0.50
//	ParseMoney("12,34", ",") -> 12.34
//	ParseMoney("1.2.3", ".") -> ErrInvalidAmount
func ParseMoney(text, decimalSeparator string) (Money, error) {
	if decimalSeparator == "" {
		return Money{}, fmt.Errorf("%w: empty decimal separator", ErrInvalidAmount)
	}
	s := strings.TrimSpace(text)
	parts := strings.Split(s, decimalSeparator)
	if len(parts) > 2 {
		return Money{}, fmt.Errorf("%w: %q contains more than one %q", ErrInvalidAmount, text, decimalSeparator)
	}

	wholePart := parts[0]
	sign := Credit
	switch {
	case strings.HasPrefix(wholePart, "-"):
		sign = Debit
		wholePart = wholePart[1:]
	case strings.HasPrefix(wholePart, "+"):
		wholePart = wholePart[1:]
	}
	if !isDigits(wholePart) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	whole, err := strconv.ParseUint(wholePart, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Money{}, fmt.Errorf("%w: %q", ErrAmountOverflow, text)
		}
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if whole == 0 {
		sign = Credit
	}

	var cents uint64
	if len(parts) == 2 {
		frac := parts[1]
		if !isDigits(frac) || len(frac) > 2 {
			return Money{}, fmt.Errorf("%w: %q needs one or two fractional digits", ErrInvalidAmount, text)
		}
		cents, _ = strconv.ParseUint(frac, 10, 8)
		if len(frac) == 1 {
			cents *= 10
		}
	}

	limit := maxMagnitude
	if sign == Credit {
		limit--
	}
	if whole > (limit-cents)/100 {
		return Money{}, fmt.Errorf("%w: %q", ErrAmountOverflow, text)
	}
	return newMoney(sign, whole*100+cents), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatWhole renders the whole units with sep between groups of three
// digits, counted from the right: 1234567 -> "1,234,567".
func (m Money) FormatWhole(sep string) string {
	digits := strconv.FormatUint(m.whole, 10)
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	var b strings.Builder
	b.Grow(len(digits) + (len(digits)/3)*len(sep))
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCents renders the cents as two zero-padded digits.
func (m Money) FormatCents() string {
	return fmt.Sprintf("%02d", m.cents)
}

// SignGlyph is "-" for a Debit and empty for a Credit.
func (m Money) SignGlyph() string {
	if m.sign == Debit {
		return "-"
	}
	return ""
}

// String renders m with a dot separator and no grouping, e.g. "-1234.05".
func (m Money) String() string {
	return m.SignGlyph() + strconv.FormatUint(m.whole, 10) + "." + m.FormatCents()
}

// Decimal returns m as a decimal number of whole units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.MinorUnits(), -2)
}

type moneyJSON struct {
	AmountType Sign   `json:"amount_type"`
	Whole      uint64 `json:"whole"`
	Cents      uint64 `json:"cents"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{AmountType: m.sign, Whole: m.whole, Cents: uint64(m.cents)})
}

// UnmarshalJSON implements json.Unmarshaler. Values breaking the Money
// invariants are rejected rather than normalized.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Cents > 99 {
		return fmt.Errorf("%w: %d cents", ErrInvalidAmount, v.Cents)
	}
	limit := maxMagnitude
	if v.AmountType == Credit {
		limit--
	}
	if v.Whole > (limit-v.Cents)/100 {
		return fmt.Errorf("%w: %d whole units", ErrAmountOverflow, v.Whole)
	}
	*m = newMoney(v.AmountType, v.Whole*100+v.Cents)
	return nil
}
