package wallet

import "github.com/shopspring/decimal"

var satsPerBTC = decimal.NewFromInt(100_000_000)

// NormalizeToSats converts a payment amount to integer satoshis. Fractional
// values below 1 are interpreted as BTC and multiplied out; values of 1 and
// above are assumed to already be satoshis. The boundary is ambiguous for
// sub-1-sat payments, which cannot occur above the dust limit anyway; callers
// must not rely on this function for amounts of 0 or 1.
func NormalizeToSats(amount decimal.Decimal) int64 {
	if amount.LessThan(decimal.NewFromInt(1)) {
		return amount.Mul(satsPerBTC).Round(0).IntPart()
	}
	return amount.Round(0).IntPart()
}

func normalizeRecipients(recipients []Recipient) []satRecipient {
	out := make([]satRecipient, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, satRecipient{
			Address: r.Address,
			Sats:    NormalizeToSats(r.Amount),
		})
	}
	return out
}
