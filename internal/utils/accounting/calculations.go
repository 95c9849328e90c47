package accounting

import (
	"fmt"
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertToUSD re-expresses an amount in the reporting currency and rounds to
// the minor unit (2 decimal places). decimal.Round rounds half away from
// zero, which is half-up for the positive amounts admitted here. This runs
// once, at write time; report arithmetic never re-rounds.
func ConvertToUSD(amount, rateToUSD decimal.Decimal) decimal.Decimal {
	return amount.Mul(rateToUSD).Round(2)
}

// SignedAmount returns the contribution of a journal entry to the balance of
// accountID, given the account's GL type. A posting on the account's normal
// side increases the balance; a posting on the opposite side decreases it.
func SignedAmount(entry domain.JournalEntry, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	side, ok := accountType.NormalSide()
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, accountID)
	}

	var isDebitLeg bool
	switch accountID {
	case entry.DebitAccountID:
		isDebitLeg = true
	case entry.CreditAccountID:
		isDebitLeg = false
	default:
		return decimal.Zero, fmt.Errorf("entry %s does not touch account %s", entry.EntryID, accountID)
	}

	if isDebitLeg == (side == domain.DebitNormal) {
		return entry.AmountInUSD, nil
	}
	return entry.AmountInUSD.Neg(), nil
}

// Balance sums the signed contributions of every entry that touches
// accountID. Entries that touch neither leg are skipped, so callers may pass
// an unfiltered set.
func Balance(entries []domain.JournalEntry, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, entry := range entries {
		if entry.DebitAccountID != accountID && entry.CreditAccountID != accountID {
			continue
		}
		signed, err := SignedAmount(entry, accountID, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// NaturalLess compares account numbers digit-run aware, so "999" sorts
// before "1000" and "1010" sorts after "1002" but before "1100".
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aRun, aRest, aNumeric := splitRun(a)
		bRun, bRest, bNumeric := splitRun(b)

		if aNumeric && bNumeric {
			if aRun != bRun {
				trimmedA := trimLeadingZeros(aRun)
				trimmedB := trimLeadingZeros(bRun)
				if len(trimmedA) != len(trimmedB) {
					return len(trimmedA) < len(trimmedB)
				}
				if trimmedA != trimmedB {
					return trimmedA < trimmedB
				}
			}
		} else if aRun != bRun {
			return aRun < bRun
		}
		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

func splitRun(s string) (run, rest string, numeric bool) {
	numeric = s[0] >= '0' && s[0] <= '9'
	for i := 1; i < len(s); i++ {
		if (s[i] >= '0' && s[i] <= '9') != numeric {
			return s[:i], s[i:], numeric
		}
	}
	return s, "", numeric
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
