package finance

import "github.com/appetiteclub/staffops/services/backoffice/internal/money"

// ShiftTriad is the money on hand at a shift boundary, split by channel.
type ShiftTriad struct {
	Cash          money.Amount `json:"cash" bson:"cash"`
	DigitalWallet money.Amount `json:"digital_wallet" bson:"digital_wallet"`
	BankAmount    money.Amount `json:"bank_amount" bson:"bank_amount"`
}

func ShiftTotal(s ShiftTriad) money.Amount {
	return money.Sum(s.Cash, s.DigitalWallet, s.BankAmount)
}

// DailyEarnings is closing minus opening. A negative result is a real loss
// and is reported as such.
func DailyEarnings(opening, closing ShiftTriad) money.Amount {
	return ShiftTotal(closing).Sub(ShiftTotal(opening))
}

func (s ShiftTriad) inCentavos() bool {
	return s.Cash.InCentavos() && s.DigitalWallet.InCentavos() && s.BankAmount.InCentavos()
}

func (s ShiftTriad) hasNegative() bool {
	return s.Cash.IsNegative() || s.DigitalWallet.IsNegative() || s.BankAmount.IsNegative()
}
