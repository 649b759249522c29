// Package currency provides the currency code type used by accounts and
// transactions, together with ISO 4217 format validation.
package currency

import "regexp"

// Code is an ISO 4217 currency code (3 uppercase letters).
type Code string

// Default is the fallback currency code used when neither the account nor the
// configuration specifies one.
const Default = Code("VND")

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidFormat reports whether code has a valid ISO 4217 shape.
// It does not check that the code is an allocated currency.
func IsValidFormat(code string) bool {
	return codeFormat.MatchString(code)
}

// String implements fmt.Stringer.
func (c Code) String() string { return string(c) }
