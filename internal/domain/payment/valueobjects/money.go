package valueobjects

import "fmt"

type Money struct {
	amountInKopecks int64
	currency        string
}

func NewMoney(amountInKopecks int64, currency string) Money {
	if currency == "" {
		currency = "RUB"
	}
	return Money{
		amountInKopecks: amountInKopecks,
		currency:        currency,
	}
}

func (m Money) AmountInKopecks() int64 {
	return m.amountInKopecks
}

func (m Money) Currency() string {
	return m.currency
}

// AmountDecimal renders the amount as the "123.45" decimal string the
// gateway wire format expects.
func (m Money) AmountDecimal() string {
	return fmt.Sprintf("%d.%02d", m.amountInKopecks/100, m.amountInKopecks%100)
}

func (m Money) Equals(other Money) bool {
	return m.amountInKopecks == other.amountInKopecks && m.currency == other.currency
}

func (m Money) IsPositive() bool {
	return m.amountInKopecks > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.AmountDecimal(), m.currency)
}
