package model

import "fmt"

// CreditAmount — сумма в сотых долях кредита.
// Все балансы и цены хранятся целыми числами, деление происходит
// один раз в конце расчёта цены.
type CreditAmount int64

// CreditsFromWhole converts whole credits to internal hundredths.
func CreditsFromWhole(credits int64) CreditAmount {
	return CreditAmount(credits * 100)
}

// String formats the amount as a decimal credit value, e.g. "8.00".
func (a CreditAmount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
